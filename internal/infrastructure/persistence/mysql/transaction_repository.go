package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storefront-server/internal/domain/transaction"
)

// TransactionRepository MySQL実装のTransactionRepository
type TransactionRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewTransactionRepository 新しいTransactionRepositoryを作成
func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		tracer: otel.Tracer("transaction-repository"),
	}
}

// Save 決済トランザクションを保存（既存の場合はステータス等を更新）
func (r *TransactionRepository) Save(ctx context.Context, t *transaction.PaymentTransaction) error {
	ctx, span := r.tracer.Start(ctx, "TransactionRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.transaction_id", t.TransactionID()),
		attribute.String("db.order_id", t.OrderID()),
		attribute.String("db.payment_method", t.Method().String()),
		attribute.String("db.currency", t.Currency()),
		attribute.String("db.amount", t.Amount().String()),
		attribute.String("db.status", t.Status().String()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "payment_transactions"),
	)

	query := `
		INSERT INTO payment_transactions (
			transaction_id, order_id, payment_method, amount, refunded_amount,
			currency, status, provider, provider_intent_id, failure_reason,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			status = VALUES(status),
			refunded_amount = VALUES(refunded_amount),
			provider_intent_id = VALUES(provider_intent_id),
			failure_reason = VALUES(failure_reason),
			updated_at = VALUES(updated_at)
	`

	providerIntentID := t.ProviderIntentID()
	var providerIntentIDValue interface{}
	if providerIntentID != nil {
		providerIntentIDValue = *providerIntentID
	}

	failureReason := t.FailureReason()
	var failureReasonValue interface{}
	if failureReason != nil {
		failureReasonValue = *failureReason
	}

	_, err := executorFrom(ctx, r.db).ExecContext(ctx, query,
		t.TransactionID(),
		t.OrderID(),
		t.Method().String(),
		t.Amount().String(),
		t.RefundedAmount().String(),
		t.Currency(),
		t.Status().String(),
		t.ProviderName(),
		providerIntentIDValue,
		failureReasonValue,
		t.CreatedAt(),
		t.UpdatedAt(),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to save payment transaction: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "payment transaction saved")
	return nil
}

// FindByTransactionID トランザクションIDで決済トランザクションを取得
func (r *TransactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (*transaction.PaymentTransaction, error) {
	ctx, span := r.tracer.Start(ctx, "TransactionRepository.FindByTransactionID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.transaction_id", transactionID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "payment_transactions"),
	)

	query := `
		SELECT
			transaction_id, order_id, payment_method, amount, refunded_amount,
			currency, status, provider, provider_intent_id, failure_reason,
			created_at, updated_at
		FROM payment_transactions
		WHERE transaction_id = ?
	`

	t, err := r.scanTransaction(executorFrom(ctx, r.db).QueryRowContext(ctx, query, transactionID))
	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "payment transaction not found")
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("db.order_id", t.OrderID()),
		attribute.String("db.status", t.Status().String()),
	)
	span.SetStatus(otelcodes.Ok, "payment transaction found")
	return t, nil
}

// FindByOrderID 注文IDで決済トランザクション一覧を取得（ページネーション対応）
func (r *TransactionRepository) FindByOrderID(ctx context.Context, orderID string, limit, offset int) ([]*transaction.PaymentTransaction, error) {
	ctx, span := r.tracer.Start(ctx, "TransactionRepository.FindByOrderID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.order_id", orderID),
		attribute.Int("db.limit", limit),
		attribute.Int("db.offset", offset),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "payment_transactions"),
	)

	query := `
		SELECT
			transaction_id, order_id, payment_method, amount, refunded_amount,
			currency, status, provider, provider_intent_id, failure_reason,
			created_at, updated_at
		FROM payment_transactions
		WHERE order_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := executorFrom(ctx, r.db).QueryContext(ctx, query, orderID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to query payment transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*transaction.PaymentTransaction
	for rows.Next() {
		t, err := r.scanTransaction(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate payment transactions: %w", err)
	}

	span.SetAttributes(attribute.Int("db.result_count", len(transactions)))
	span.SetStatus(otelcodes.Ok, fmt.Sprintf("found %d payment transactions", len(transactions)))
	return transactions, nil
}

// FindByProviderIntentID プロバイダ側のPaymentIntent IDで決済トランザクションを取得
func (r *TransactionRepository) FindByProviderIntentID(ctx context.Context, intentID string) (*transaction.PaymentTransaction, error) {
	ctx, span := r.tracer.Start(ctx, "TransactionRepository.FindByProviderIntentID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.provider_intent_id", intentID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "payment_transactions"),
	)

	query := `
		SELECT
			transaction_id, order_id, payment_method, amount, refunded_amount,
			currency, status, provider, provider_intent_id, failure_reason,
			created_at, updated_at
		FROM payment_transactions
		WHERE provider_intent_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	t, err := r.scanTransaction(executorFrom(ctx, r.db).QueryRowContext(ctx, query, intentID))
	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "payment transaction not found")
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("db.transaction_id", t.TransactionID()),
		attribute.String("db.status", t.Status().String()),
	)
	span.SetStatus(otelcodes.Ok, "payment transaction found")
	return t, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanTransaction 1行分のレコードをエンティティに再構築
// DECIMAL列は精度を保つため文字列で受け取る。
func (r *TransactionRepository) scanTransaction(row rowScanner) (*transaction.PaymentTransaction, error) {
	var dbTransactionID, dbOrderID, dbMethod, dbCurrency, dbStatus, dbProvider string
	var dbAmount, dbRefundedAmount string
	var providerIntentID sql.NullString
	var failureReason sql.NullString
	var createdAt, updatedAt time.Time

	if err := row.Scan(
		&dbTransactionID,
		&dbOrderID,
		&dbMethod,
		&dbAmount,
		&dbRefundedAmount,
		&dbCurrency,
		&dbStatus,
		&dbProvider,
		&providerIntentID,
		&failureReason,
		&createdAt,
		&updatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan payment transaction: %w", err)
	}

	method, err := transaction.NewPaymentMethod(dbMethod)
	if err != nil {
		return nil, fmt.Errorf("invalid payment method: %w", err)
	}

	status, err := transaction.NewTransactionStatus(dbStatus)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction status: %w", err)
	}

	amount, err := decimal.NewFromString(dbAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	refundedAmount, err := decimal.NewFromString(dbRefundedAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid refunded amount: %w", err)
	}

	var providerIntentIDPtr *string
	if providerIntentID.Valid {
		providerIntentIDPtr = &providerIntentID.String
	}

	var failureReasonPtr *string
	if failureReason.Valid {
		failureReasonPtr = &failureReason.String
	}

	t, err := transaction.ReconstructPaymentTransaction(
		dbTransactionID,
		dbOrderID,
		method,
		amount,
		refundedAmount,
		dbCurrency,
		status,
		dbProvider,
		providerIntentIDPtr,
		failureReasonPtr,
		createdAt,
		updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct payment transaction entity: %w", err)
	}

	return t, nil
}
