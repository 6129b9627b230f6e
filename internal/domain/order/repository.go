package order

import (
	"context"
)

// OrderRepository 注文リポジトリインターフェース
// 注文の作成・削除は注文フロー側の責務のため、ここには含めない。
type OrderRepository interface {
	// FindByOrderID 注文IDで注文を取得
	FindByOrderID(ctx context.Context, orderID string) (*Order, error)

	// UpdatePaymentStatus 注文の支払いステータスを更新
	UpdatePaymentStatus(ctx context.Context, orderID string, status PaymentStatus) error
}
