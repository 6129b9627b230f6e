package transaction

import (
	"context"
)

// TransactionManager DBトランザクション管理インターフェース
type TransactionManager interface {
	// WithTransaction トランザクション内で関数を実行
	// fnへ渡されるcontextは進行中のトランザクションを保持しており、
	// このcontextを使ったリポジトリ呼び出しは同一トランザクションで実行される。
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
