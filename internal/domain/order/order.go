package order

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

var orderIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.\@]{1,255}$`)

// Order 注文エンティティ
// 注文自体は注文フロー側が所有する。決済サービスは参照と
// 支払いステータスの更新のみを行う。
type Order struct {
	orderID       string
	totalAmount   decimal.Decimal
	currency      string
	status        string // 注文ステータス（注文フロー側が管理）
	paymentStatus PaymentStatus
	createdAt     time.Time
	updatedAt     time.Time
}

// ReconstructOrder 永続化済みのレコードからエンティティを再構築
func ReconstructOrder(
	orderID string,
	totalAmount decimal.Decimal,
	currency string,
	status string,
	paymentStatus PaymentStatus,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	if !orderIDRegex.MatchString(orderID) {
		return nil, ErrInvalidOrder
	}
	if totalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidOrder
	}
	if !paymentStatus.Valid() {
		return nil, ErrInvalidOrder
	}

	return &Order{
		orderID:       orderID,
		totalAmount:   totalAmount,
		currency:      currency,
		status:        status,
		paymentStatus: paymentStatus,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}, nil
}

// OrderID 注文IDを返す
func (o *Order) OrderID() string {
	return o.orderID
}

// TotalAmount 注文合計金額を返す
func (o *Order) TotalAmount() decimal.Decimal {
	return o.totalAmount
}

// Currency 通貨コードを返す
func (o *Order) Currency() string {
	return o.currency
}

// Status 注文ステータスを返す
func (o *Order) Status() string {
	return o.status
}

// PaymentStatus 支払いステータスを返す
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// CreatedAt 作成日時を返す
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt 更新日時を返す
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// MustReconstructOrder テスト用ヘルパー: ReconstructOrderを呼び出し、エラーが発生した場合はpanicする
func MustReconstructOrder(
	orderID string,
	totalAmount decimal.Decimal,
	currency string,
	status string,
	paymentStatus PaymentStatus,
) *Order {
	o, err := ReconstructOrder(orderID, totalAmount, currency, status, paymentStatus, time.Now(), time.Now())
	if err != nil {
		panic(err)
	}
	return o
}
