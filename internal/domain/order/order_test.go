package order

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructOrder(t *testing.T) {
	tests := []struct {
		name          string
		orderID       string
		totalAmount   decimal.Decimal
		paymentStatus PaymentStatus
		wantErr       bool
	}{
		{
			name:          "正常系: 有効な注文",
			orderID:       "ORD-1",
			totalAmount:   decimal.RequireFromString("29.99"),
			paymentStatus: PaymentStatusUnpaid,
			wantErr:       false,
		},
		{
			name:          "異常系: 空の注文ID",
			orderID:       "",
			totalAmount:   decimal.RequireFromString("29.99"),
			paymentStatus: PaymentStatusUnpaid,
			wantErr:       true,
		},
		{
			name:          "異常系: ゼロ金額",
			orderID:       "ORD-1",
			totalAmount:   decimal.Zero,
			paymentStatus: PaymentStatusUnpaid,
			wantErr:       true,
		},
		{
			name:          "異常系: 無効な支払いステータス",
			orderID:       "ORD-1",
			totalAmount:   decimal.RequireFromString("29.99"),
			paymentStatus: PaymentStatus("unknown"),
			wantErr:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := ReconstructOrder(tt.orderID, tt.totalAmount, "USD", "processing", tt.paymentStatus, time.Now(), time.Now())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOrder)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.orderID, o.OrderID())
			assert.True(t, o.TotalAmount().Equal(tt.totalAmount))
			assert.Equal(t, tt.paymentStatus, o.PaymentStatus())
		})
	}
}

func TestNewPaymentStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    PaymentStatus
		wantErr bool
	}{
		{
			name:    "正常系: unpaid",
			input:   "unpaid",
			want:    PaymentStatusUnpaid,
			wantErr: false,
		},
		{
			name:    "正常系: paid",
			input:   "paid",
			want:    PaymentStatusPaid,
			wantErr: false,
		},
		{
			name:    "正常系: partially_refunded",
			input:   "partially_refunded",
			want:    PaymentStatusPartiallyRefunded,
			wantErr: false,
		},
		{
			name:    "正常系: refunded",
			input:   "refunded",
			want:    PaymentStatusRefunded,
			wantErr: false,
		},
		{
			name:    "異常系: 無効な値",
			input:   "invalid",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewPaymentStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
