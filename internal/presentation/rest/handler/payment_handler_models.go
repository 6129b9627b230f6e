package handler

// CreatePaymentRequest 決済トランザクション作成リクエスト
// @Description 決済トランザクション作成リクエスト
type CreatePaymentRequest struct {
	OrderID       string `json:"order_id" example:"order_456"`
	PaymentMethod string `json:"payment_method" example:"credit_card"`
	Amount        string `json:"amount,omitempty" example:"29.99"`
	Currency      string `json:"currency,omitempty" example:"USD"`
	ReturnURL     string `json:"return_url,omitempty" example:"https://shop.example.com/payment/return"`
	CancelURL     string `json:"cancel_url,omitempty" example:"https://shop.example.com/payment/cancel"`
}

// CreatePaymentResponse 決済トランザクション作成レスポンス
// @Description 決済トランザクション作成レスポンス
type CreatePaymentResponse struct {
	Success       bool   `json:"success" example:"true"`
	TransactionID string `json:"transaction_id" example:"txn_123"`
	OrderID       string `json:"order_id" example:"order_456"`
	Status        string `json:"status" example:"pending"`
	Amount        string `json:"amount" example:"29.99"`
	Currency      string `json:"currency" example:"USD"`
	Provider      string `json:"provider,omitempty" example:"stripe"`
	IntentID      string `json:"intent_id,omitempty" example:"pi_123"`
	ClientSecret  string `json:"client_secret,omitempty" example:"pi_123_secret_456"`
}

// ConfirmPaymentRequest 決済確定リクエスト
// @Description 決済確定リクエスト
type ConfirmPaymentRequest struct {
	TransactionID   string `json:"transaction_id" example:"txn_123"`
	PaymentMethodID string `json:"payment_method_id" example:"pm_123"`
}

// ConfirmPaymentResponse 決済確定レスポンス
// @Description 決済確定レスポンス
type ConfirmPaymentResponse struct {
	Success       bool   `json:"success" example:"true"`
	TransactionID string `json:"transaction_id" example:"txn_123"`
	Status        string `json:"status" example:"succeeded"`
	ClientSecret  string `json:"client_secret,omitempty" example:"pi_123_secret_456"`
	ActionType    string `json:"action_type,omitempty" example:"redirect_to_url"`
	ActionURL     string `json:"action_url,omitempty" example:"https://hooks.stripe.com/3d_secure"`
	FailureReason string `json:"failure_reason,omitempty" example:"Your card was declined."`
}

// RefundRequest 返金リクエスト
// @Description 返金リクエスト（金額省略時は返金可能残高の全額）
type RefundRequest struct {
	TransactionID string `json:"transaction_id" example:"txn_123"`
	Amount        string `json:"amount,omitempty" example:"15.00"`
	Reason        string `json:"reason,omitempty" example:"requested_by_customer"`
}

// RefundResponse 返金レスポンス
// @Description 返金レスポンス
type RefundResponse struct {
	Success          bool   `json:"success" example:"true"`
	RefundID         string `json:"refund_id" example:"ref_789"`
	TransactionID    string `json:"transaction_id" example:"txn_123"`
	RefundedAmount   string `json:"refunded_amount" example:"15.00"`
	TotalRefunded    string `json:"total_refunded" example:"15.00"`
	RemainingBalance string `json:"remaining_balance" example:"14.99"`
	Status           string `json:"status" example:"partially_refunded"`
}

// RefundItem 返金履歴の1件
// @Description 返金履歴の1件
type RefundItem struct {
	RefundID  string `json:"refund_id" example:"ref_789"`
	Amount    string `json:"amount" example:"15.00"`
	Reason    string `json:"reason,omitempty" example:"requested_by_customer"`
	CreatedAt string `json:"created_at" example:"2024-01-01T12:00:00Z"`
}

// PaymentStatusResponse 決済ステータス照会レスポンス
// @Description 決済ステータス照会レスポンス
type PaymentStatusResponse struct {
	Success        bool         `json:"success" example:"true"`
	TransactionID  string       `json:"transaction_id" example:"txn_123"`
	OrderID        string       `json:"order_id" example:"order_456"`
	Status         string       `json:"status" example:"succeeded"`
	PaymentMethod  string       `json:"payment_method" example:"credit_card"`
	Amount         string       `json:"amount" example:"29.99"`
	RefundedAmount string       `json:"refunded_amount" example:"0"`
	Currency       string       `json:"currency" example:"USD"`
	Provider       string       `json:"provider" example:"stripe"`
	FailureReason  string       `json:"failure_reason,omitempty" example:"card_declined"`
	Refunds        []RefundItem `json:"refunds"`
	CreatedAt      string       `json:"created_at" example:"2024-01-01T12:00:00Z"`
	UpdatedAt      string       `json:"updated_at" example:"2024-01-01T12:05:00Z"`
}

// CreatePaymentMethodRequest カードトークン化リクエスト
// @Description カードトークン化リクエスト
type CreatePaymentMethodRequest struct {
	CardNumber string `json:"card_number" example:"4242424242424242"`
	ExpMonth   int64  `json:"exp_month" example:"12"`
	ExpYear    int64  `json:"exp_year" example:"2030"`
	CVC        string `json:"cvc" example:"123"`
}

// CreatePaymentMethodResponse カードトークン化レスポンス
// @Description カードトークン化レスポンス
type CreatePaymentMethodResponse struct {
	Success         bool   `json:"success" example:"true"`
	PaymentMethodID string `json:"payment_method_id" example:"pm_123"`
	Brand           string `json:"brand" example:"visa"`
	Last4           string `json:"last4" example:"4242"`
	ExpMonth        int64  `json:"exp_month" example:"12"`
	ExpYear         int64  `json:"exp_year" example:"2030"`
}

// ListPaymentMethodsResponse 決済手段一覧レスポンス
// @Description 決済手段一覧レスポンス
type ListPaymentMethodsResponse struct {
	Success        bool     `json:"success" example:"true"`
	PaymentMethods []string `json:"payment_methods" example:"credit_card,debit_card,paypal"`
}
