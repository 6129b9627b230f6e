package mysql

import (
	"context"
	"database/sql"
)

// txContextKey contextへ進行中のトランザクションを載せるためのキー
type txContextKey struct{}

// executor *sql.DBと*sql.Txの共通インターフェース
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// withTx トランザクションを保持したcontextを返す
func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// txFromContext contextから進行中のトランザクションを取り出す
func txFromContext(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txContextKey{}).(*sql.Tx)
	return tx, ok
}

// executorFrom contextにトランザクションがあればそれを、なければ接続プールを返す
// リポジトリはすべてのクエリをここで選んだexecutorへ発行することで、
// WithTransaction配下の書き込みが同一トランザクションに乗る。
func executorFrom(ctx context.Context, db *DB) executor {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return db
}

// TransactionManager DBトランザクション管理を提供
type TransactionManager struct {
	db *DB
}

// NewTransactionManager 新しいトランザクションマネージャーを作成
func NewTransactionManager(db *DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// WithTransaction トランザクション内で関数を実行
// fnへはトランザクションを保持したcontextを渡す。
func (tm *TransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(withTx(ctx, tx))
	return err
}
