package handler

// TransactionItem トランザクションアイテム
// @Description トランザクションアイテム
type TransactionItem struct {
	TransactionID  string `json:"transaction_id" example:"txn_123"`
	OrderID        string `json:"order_id" example:"order_456"`
	PaymentMethod  string `json:"payment_method" example:"credit_card"`
	Amount         string `json:"amount" example:"29.99"`
	RefundedAmount string `json:"refunded_amount" example:"0"`
	Currency       string `json:"currency" example:"USD"`
	Status         string `json:"status" example:"succeeded"`
	Provider       string `json:"provider" example:"stripe"`
	CreatedAt      string `json:"created_at" example:"2024-01-01T12:00:00Z"`
}

// TransactionHistoryResponse トランザクション履歴レスポンス
// @Description トランザクション履歴レスポンス
type TransactionHistoryResponse struct {
	Success      bool              `json:"success" example:"true"`
	Transactions []TransactionItem `json:"transactions"`
	Total        int               `json:"total" example:"1"`
	Limit        int               `json:"limit" example:"50"`
	Offset       int               `json:"offset" example:"0"`
}
