package transaction

import (
	"errors"
	"fmt"
)

// ErrInvalidPaymentMethod 未対応の決済手段
var ErrInvalidPaymentMethod = errors.New("invalid payment method")

// PaymentMethod 決済手段を表す値オブジェクト
type PaymentMethod string

const (
	PaymentMethodCreditCard   PaymentMethod = "credit_card"   // クレジットカード
	PaymentMethodDebitCard    PaymentMethod = "debit_card"    // デビットカード
	PaymentMethodPayPal       PaymentMethod = "paypal"        // PayPal
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer" // 銀行振込
)

// NewPaymentMethod 新しいPaymentMethodを作成
func NewPaymentMethod(s string) (PaymentMethod, error) {
	switch s {
	case "credit_card", "debit_card", "paypal", "bank_transfer":
		return PaymentMethod(s), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidPaymentMethod, s)
	}
}

// String 文字列表現を返す
func (pm PaymentMethod) String() string {
	return string(pm)
}

// Valid 有効な決済手段かどうかを返す
func (pm PaymentMethod) Valid() bool {
	switch pm {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodPayPal, PaymentMethodBankTransfer:
		return true
	default:
		return false
	}
}

// IsCard カード決済かどうかを返す
func (pm PaymentMethod) IsCard() bool {
	return pm == PaymentMethodCreditCard || pm == PaymentMethodDebitCard
}
