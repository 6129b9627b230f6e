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

	"storefront-server/internal/domain/order"
)

// OrderRepository MySQL実装のOrderRepository
// 注文の作成・削除は注文フロー側の責務のため、参照と支払いステータス更新のみ行う。
type OrderRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewOrderRepository 新しいOrderRepositoryを作成
func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{
		db:     db,
		tracer: otel.Tracer("order-repository"),
	}
}

// FindByOrderID 注文IDで注文を取得
func (r *OrderRepository) FindByOrderID(ctx context.Context, orderID string) (*order.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.FindByOrderID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.order_id", orderID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "orders"),
	)

	query := `
		SELECT order_id, total_amount, currency, status, payment_status, created_at, updated_at
		FROM orders
		WHERE order_id = ?
	`

	var dbOrderID, dbTotalAmount, dbCurrency, dbStatus, dbPaymentStatus string
	var createdAt, updatedAt time.Time

	err := executorFrom(ctx, r.db).QueryRowContext(ctx, query, orderID).Scan(
		&dbOrderID,
		&dbTotalAmount,
		&dbCurrency,
		&dbStatus,
		&dbPaymentStatus,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "order not found")
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	totalAmount, err := decimal.NewFromString(dbTotalAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid total amount: %w", err)
	}

	paymentStatus, err := order.NewPaymentStatus(dbPaymentStatus)
	if err != nil {
		return nil, fmt.Errorf("invalid payment status: %w", err)
	}

	o, err := order.ReconstructOrder(
		dbOrderID,
		totalAmount,
		dbCurrency,
		dbStatus,
		paymentStatus,
		createdAt,
		updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct order entity: %w", err)
	}

	span.SetAttributes(attribute.String("db.payment_status", dbPaymentStatus))
	span.SetStatus(otelcodes.Ok, "order found")
	return o, nil
}

// UpdatePaymentStatus 注文の支払いステータスを更新
func (r *OrderRepository) UpdatePaymentStatus(ctx context.Context, orderID string, status order.PaymentStatus) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.UpdatePaymentStatus")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.order_id", orderID),
		attribute.String("db.payment_status", status.String()),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.table", "orders"),
	)

	query := `
		UPDATE orders
		SET payment_status = ?, updated_at = ?
		WHERE order_id = ?
	`

	result, err := executorFrom(ctx, r.db).ExecContext(ctx, query, status.String(), time.Now(), orderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to update order payment status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		span.SetStatus(otelcodes.Ok, "order not found")
		return order.ErrOrderNotFound
	}

	span.SetStatus(otelcodes.Ok, "order payment status updated")
	return nil
}
