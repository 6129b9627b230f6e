package refund

import (
	"context"
)

// RefundRepository 返金レコードリポジトリインターフェース
type RefundRepository interface {
	// Save 返金レコードを保存（返金レコードはイミュータブル、INSERTのみ）
	Save(ctx context.Context, record *RefundRecord) error

	// FindByTransactionID トランザクションIDで返金レコード一覧を取得
	FindByTransactionID(ctx context.Context, transactionID string) ([]*RefundRecord, error)
}
