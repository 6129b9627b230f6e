package transaction

import (
	"context"
)

// TransactionRepository 決済トランザクションリポジトリインターフェース
type TransactionRepository interface {
	// Save トランザクションを保存（存在する場合はステータス等を更新）
	Save(ctx context.Context, transaction *PaymentTransaction) error

	// FindByTransactionID トランザクションIDでトランザクションを取得
	FindByTransactionID(ctx context.Context, transactionID string) (*PaymentTransaction, error)

	// FindByOrderID 注文IDでトランザクション一覧を取得（ページネーション対応）
	FindByOrderID(ctx context.Context, orderID string, limit, offset int) ([]*PaymentTransaction, error)

	// FindByProviderIntentID プロバイダ側のPaymentIntent IDでトランザクションを取得
	FindByProviderIntentID(ctx context.Context, intentID string) (*PaymentTransaction, error)
}
