package mysql

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storefront-server/internal/domain/refund"
)

// RefundRepository MySQL実装のRefundRepository
type RefundRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewRefundRepository 新しいRefundRepositoryを作成
func NewRefundRepository(db *DB) *RefundRepository {
	return &RefundRepository{
		db:     db,
		tracer: otel.Tracer("refund-repository"),
	}
}

// Save 返金レコードを保存
// 返金レコードはイミュータブルのためINSERTのみを行う。
func (r *RefundRepository) Save(ctx context.Context, record *refund.RefundRecord) error {
	ctx, span := r.tracer.Start(ctx, "RefundRepository.Save")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.refund_id", record.RefundID()),
		attribute.String("db.transaction_id", record.TransactionID()),
		attribute.String("db.amount", record.Amount().String()),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.table", "refund_records"),
	)

	query := `
		INSERT INTO refund_records (
			refund_id, transaction_id, amount, reason, provider_refund_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := executorFrom(ctx, r.db).ExecContext(ctx, query,
		record.RefundID(),
		record.TransactionID(),
		record.Amount().String(),
		record.Reason(),
		record.ProviderRefundID(),
		record.CreatedAt(),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to save refund record: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "refund record saved")
	return nil
}

// FindByTransactionID トランザクションIDで返金レコード一覧を取得
func (r *RefundRepository) FindByTransactionID(ctx context.Context, transactionID string) ([]*refund.RefundRecord, error) {
	ctx, span := r.tracer.Start(ctx, "RefundRepository.FindByTransactionID")
	defer span.End()

	span.SetAttributes(
		attribute.String("db.transaction_id", transactionID),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.table", "refund_records"),
	)

	query := `
		SELECT refund_id, transaction_id, amount, reason, provider_refund_id, created_at
		FROM refund_records
		WHERE transaction_id = ?
		ORDER BY created_at ASC
	`

	rows, err := executorFrom(ctx, r.db).QueryContext(ctx, query, transactionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to query refund records: %w", err)
	}
	defer rows.Close()

	var records []*refund.RefundRecord
	for rows.Next() {
		var dbRefundID, dbTransactionID, dbAmount, dbReason, dbProviderRefundID string
		var createdAt time.Time

		if err := rows.Scan(
			&dbRefundID,
			&dbTransactionID,
			&dbAmount,
			&dbReason,
			&dbProviderRefundID,
			&createdAt,
		); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan refund record: %w", err)
		}

		amount, err := decimal.NewFromString(dbAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid refund amount: %w", err)
		}

		record, err := refund.ReconstructRefundRecord(
			dbRefundID,
			dbTransactionID,
			amount,
			dbReason,
			dbProviderRefundID,
			createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to reconstruct refund record entity: %w", err)
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate refund records: %w", err)
	}

	span.SetAttributes(attribute.Int("db.result_count", len(records)))
	span.SetStatus(otelcodes.Ok, fmt.Sprintf("found %d refund records", len(records)))
	return records, nil
}
