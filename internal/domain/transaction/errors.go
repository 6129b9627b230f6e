package transaction

import "errors"

var (
	// ErrTransactionNotFound トランザクションが見つからないエラー
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrInvalidTransaction 無効なトランザクションエラー
	ErrInvalidTransaction = errors.New("invalid transaction")
	// ErrDuplicateTransactionID 重複トランザクションIDエラー
	ErrDuplicateTransactionID = errors.New("duplicate transaction id")
	// ErrInvalidStatusTransition 不正なステータス遷移エラー
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	// ErrTransactionNotRefundable 返金不可能な状態エラー
	ErrTransactionNotRefundable = errors.New("transaction is not refundable")
	// ErrRefundExceedsBalance 返金額が返金可能残高を超過しているエラー
	ErrRefundExceedsBalance = errors.New("refund amount exceeds refundable balance")
)
