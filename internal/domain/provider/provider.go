package provider

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront-server/internal/domain/transaction"
)

// PaymentProvider 決済プロバイダインターフェース
// プロセッサごとに1実装を持つ。全てのメソッドはプロバイダ固有の
// レスポンス・エラーを正規化して返し、SDKのエラーをそのまま
// 呼び出し側へ漏らしてはならない。
type PaymentProvider interface {
	// Name プロバイダ名を返す（例: "stripe"）
	Name() string

	// CreatePayment プロバイダ側にPaymentIntentを作成
	CreatePayment(ctx context.Context, params *CreatePaymentParams) (*PaymentArtifact, error)

	// ConfirmPayment 作成済みのPaymentIntentを確定する
	ConfirmPayment(ctx context.Context, intentID, methodID string) (*ConfirmResult, error)

	// RefundPayment PaymentIntentに対する返金を実行
	RefundPayment(ctx context.Context, params *RefundParams) (*RefundArtifact, error)

	// PaymentStatus PaymentIntentの現在状態を取得
	PaymentStatus(ctx context.Context, intentID string) (PaymentState, error)

	// CreatePaymentMethod カード情報をプロバイダ側の決済手段IDにトークン化
	// 生のカード情報をローカルに永続化してはならない。
	CreatePaymentMethod(ctx context.Context, card *CardDetails) (*TokenizedMethod, error)
}

// CreatePaymentParams PaymentIntent作成パラメータ
type CreatePaymentParams struct {
	TransactionID string
	OrderID       string
	Method        transaction.PaymentMethod
	Amount        decimal.Decimal
	Currency      string // ISO 4217通貨コード
	ReturnURL     string
	CancelURL     string
	Description   string
}

// PaymentArtifact PaymentIntent作成結果
// クライアント側ウィジェットが決済を継続するために必要なデータを含む。
type PaymentArtifact struct {
	IntentID     string
	ClientSecret string
	State        PaymentState
}

// ConfirmOutcome 決済確定の結果種別
type ConfirmOutcome string

const (
	OutcomeSucceeded      ConfirmOutcome = "succeeded"       // 決済成功
	OutcomeRequiresAction ConfirmOutcome = "requires_action" // 追加認証が必要（3Dセキュア等）
	OutcomeFailed         ConfirmOutcome = "failed"          // 決済失敗
)

// ConfirmResult 決済確定結果
type ConfirmResult struct {
	Outcome ConfirmOutcome

	// RequiresActionの場合、クライアントが認証を再開するためのデータ
	ClientSecret string
	ActionType   string // 例: "redirect_to_url"
	ActionURL    string

	// Failedの場合の失敗理由
	FailureReason string
}

// RefundParams 返金パラメータ
type RefundParams struct {
	IntentID string
	Amount   decimal.Decimal
	Currency string
	Reason   string
}

// RefundArtifact 返金結果
type RefundArtifact struct {
	RefundID string // プロバイダ側の返金ID
}

// PaymentState プロバイダ側のPaymentIntent状態の正規化表現
type PaymentState string

const (
	StatePending        PaymentState = "pending"         // 確定待ち
	StateRequiresAction PaymentState = "requires_action" // 追加認証待ち
	StateSucceeded      PaymentState = "succeeded"       // 確定済み
	StateFailed         PaymentState = "failed"          // 失敗・キャンセル
)

// CardDetails トークン化対象のカード情報
// このサービス内では永続化されず、プロバイダへの受け渡しにのみ使用する。
type CardDetails struct {
	Number   string
	ExpMonth int64
	ExpYear  int64
	CVC      string
}

// TokenizedMethod トークン化された決済手段
type TokenizedMethod struct {
	MethodID string // プロバイダ側の決済手段ID
	Brand    string
	Last4    string
	ExpMonth int64
	ExpYear  int64
}
