package history

import "storefront-server/internal/domain/transaction"

// GetTransactionHistoryRequest 注文の決済トランザクション履歴取得リクエスト
type GetTransactionHistoryRequest struct {
	OrderID string
	Limit   int
	Offset  int
	Status  string // optional: "pending", "succeeded", etc.
	Method  string // optional: "credit_card", "paypal", etc.
}

// GetTransactionHistoryResponse 注文の決済トランザクション履歴取得レスポンス
type GetTransactionHistoryResponse struct {
	Transactions []*transaction.PaymentTransaction
	Total        int
	Limit        int
	Offset       int
}
