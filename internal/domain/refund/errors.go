package refund

import "errors"

var (
	// ErrRefundNotFound 返金レコードが見つからないエラー
	ErrRefundNotFound = errors.New("refund not found")
)
