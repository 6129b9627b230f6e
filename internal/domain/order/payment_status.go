package order

import (
	"fmt"
)

// PaymentStatus 注文の支払いステータスを表す値オブジェクト
type PaymentStatus string

const (
	PaymentStatusUnpaid            PaymentStatus = "unpaid"             // 未払い
	PaymentStatusPaid              PaymentStatus = "paid"               // 支払い済み
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded" // 一部返金済み
	PaymentStatusRefunded          PaymentStatus = "refunded"           // 全額返金済み
)

// NewPaymentStatus 新しいPaymentStatusを作成
func NewPaymentStatus(s string) (PaymentStatus, error) {
	switch s {
	case "unpaid", "paid", "partially_refunded", "refunded":
		return PaymentStatus(s), nil
	default:
		return "", fmt.Errorf("invalid order payment status: %s", s)
	}
}

// String 文字列表現を返す
func (ps PaymentStatus) String() string {
	return string(ps)
}

// Valid 有効な支払いステータスかどうかを返す
func (ps PaymentStatus) Valid() bool {
	switch ps {
	case PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusPartiallyRefunded, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

// IsPaid 支払い済みかどうかを返す
func (ps PaymentStatus) IsPaid() bool {
	return ps == PaymentStatusPaid
}
