package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePaymentRequest 決済トランザクション作成リクエスト
type CreatePaymentRequest struct {
	OrderID string
	Method  string
	// Amount 請求額（ゼロの場合は注文の合計金額を使用）
	Amount      decimal.Decimal
	Currency    string // 省略時は注文またはデフォルト設定の通貨を使用
	ReturnURL   string // 省略時は設定のベースURLから組み立てる
	CancelURL   string
	Description string
}

// CreatePaymentResponse 決済トランザクション作成レスポンス
type CreatePaymentResponse struct {
	TransactionID string
	OrderID       string
	Status        string
	Amount        decimal.Decimal
	Currency      string
	Provider      string
	IntentID      string
	ClientSecret  string
}

// ConfirmPaymentRequest 決済確定リクエスト
type ConfirmPaymentRequest struct {
	TransactionID string
	MethodID      string // プロバイダ側の決済手段ID
}

// ConfirmPaymentResponse 決済確定レスポンス
type ConfirmPaymentResponse struct {
	TransactionID string
	Status        string

	// 追加認証が必要な場合のデータ
	ClientSecret string
	ActionType   string
	ActionURL    string

	// 失敗した場合の理由
	FailureReason string
}

// RefundRequest 返金リクエスト
type RefundRequest struct {
	TransactionID string
	// Amount 返金額（nilの場合は返金可能残高の全額）
	Amount *decimal.Decimal
	Reason string
}

// RefundResponse 返金レスポンス
type RefundResponse struct {
	RefundID         string
	TransactionID    string
	RefundedAmount   decimal.Decimal // 今回の返金額
	TotalRefunded    decimal.Decimal // 返金済み累計額
	RemainingBalance decimal.Decimal // 返金可能残高
	Status           string
}

// RefundDetail 返金履歴の1件
type RefundDetail struct {
	RefundID  string
	Amount    decimal.Decimal
	Reason    string
	CreatedAt time.Time
}

// StatusResponse 決済ステータス照会レスポンス
type StatusResponse struct {
	TransactionID  string
	OrderID        string
	Status         string
	Method         string
	Amount         decimal.Decimal
	RefundedAmount decimal.Decimal
	Currency       string
	Provider       string
	FailureReason  *string
	Refunds        []RefundDetail
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateMethodRequest カードトークン化リクエスト
// カード情報はプロバイダへの受け渡しにのみ使用する。
type CreateMethodRequest struct {
	Number   string
	ExpMonth int64
	ExpYear  int64
	CVC      string
}

// CreateMethodResponse カードトークン化レスポンス
type CreateMethodResponse struct {
	MethodID string
	Brand    string
	Last4    string
	ExpMonth int64
	ExpYear  int64
}
