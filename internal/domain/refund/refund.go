package refund

import (
	"errors"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidRefundID 返金IDが無効
	ErrInvalidRefundID = errors.New("invalid refund id")
	// ErrInvalidTransactionID トランザクションIDが無効
	ErrInvalidTransactionID = errors.New("invalid transaction id")
	// ErrInvalidAmount 返金額が無効
	ErrInvalidAmount = errors.New("invalid refund amount")
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.\@]{1,255}$`)

// RefundRecord 返金レコードエンティティ
// 一度作成されたら変更されないイミュータブルなレコード。
type RefundRecord struct {
	refundID         string
	transactionID    string
	amount           decimal.Decimal
	reason           string
	providerRefundID string // プロバイダ側の返金ID
	createdAt        time.Time
}

// NewRefundRecord 新しいRefundRecordエンティティを作成
func NewRefundRecord(
	refundID string,
	transactionID string,
	amount decimal.Decimal,
	reason string,
	providerRefundID string,
) (*RefundRecord, error) {
	return ReconstructRefundRecord(refundID, transactionID, amount, reason, providerRefundID, time.Now())
}

// ReconstructRefundRecord 永続化済みのレコードからエンティティを再構築
func ReconstructRefundRecord(
	refundID string,
	transactionID string,
	amount decimal.Decimal,
	reason string,
	providerRefundID string,
	createdAt time.Time,
) (*RefundRecord, error) {
	if !idRegex.MatchString(refundID) {
		return nil, ErrInvalidRefundID
	}
	if !idRegex.MatchString(transactionID) {
		return nil, ErrInvalidTransactionID
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	return &RefundRecord{
		refundID:         refundID,
		transactionID:    transactionID,
		amount:           amount,
		reason:           reason,
		providerRefundID: providerRefundID,
		createdAt:        createdAt,
	}, nil
}

// RefundID 返金IDを返す
func (r *RefundRecord) RefundID() string {
	return r.refundID
}

// TransactionID トランザクションIDを返す
func (r *RefundRecord) TransactionID() string {
	return r.transactionID
}

// Amount 返金額を返す
func (r *RefundRecord) Amount() decimal.Decimal {
	return r.amount
}

// Reason 返金理由を返す
func (r *RefundRecord) Reason() string {
	return r.reason
}

// ProviderRefundID プロバイダ側の返金IDを返す
func (r *RefundRecord) ProviderRefundID() string {
	return r.providerRefundID
}

// CreatedAt 作成日時を返す
func (r *RefundRecord) CreatedAt() time.Time {
	return r.createdAt
}

// MustNewRefundRecord テスト用ヘルパー: NewRefundRecordを呼び出し、エラーが発生した場合はpanicする
func MustNewRefundRecord(
	refundID string,
	transactionID string,
	amount decimal.Decimal,
	reason string,
	providerRefundID string,
) *RefundRecord {
	r, err := NewRefundRecord(refundID, transactionID, amount, reason, providerRefundID)
	if err != nil {
		panic(err)
	}
	return r
}
