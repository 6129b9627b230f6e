package transaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaymentMethod(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    PaymentMethod
		wantErr bool
	}{
		{
			name:    "正常系: credit_card",
			input:   "credit_card",
			want:    PaymentMethodCreditCard,
			wantErr: false,
		},
		{
			name:    "正常系: debit_card",
			input:   "debit_card",
			want:    PaymentMethodDebitCard,
			wantErr: false,
		},
		{
			name:    "正常系: paypal",
			input:   "paypal",
			want:    PaymentMethodPayPal,
			wantErr: false,
		},
		{
			name:    "正常系: bank_transfer",
			input:   "bank_transfer",
			want:    PaymentMethodBankTransfer,
			wantErr: false,
		},
		{
			name:    "異常系: 無効な値",
			input:   "bitcoin",
			want:    "",
			wantErr: true,
		},
		{
			name:    "異常系: 空文字",
			input:   "",
			want:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPaymentMethod(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPaymentMethod_IsCard(t *testing.T) {
	tests := []struct {
		name string
		pm   PaymentMethod
		want bool
	}{
		{
			name: "正常系: credit_card はカード",
			pm:   PaymentMethodCreditCard,
			want: true,
		},
		{
			name: "正常系: debit_card はカード",
			pm:   PaymentMethodDebitCard,
			want: true,
		},
		{
			name: "正常系: paypal はカードではない",
			pm:   PaymentMethodPayPal,
			want: false,
		},
		{
			name: "正常系: bank_transfer はカードではない",
			pm:   PaymentMethodBankTransfer,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pm.IsCard())
		})
	}
}
