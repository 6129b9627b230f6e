package history

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storefront-server/internal/domain/transaction"
	otelinfra "storefront-server/internal/infrastructure/observability/otel"
)

// HistoryApplicationService 決済履歴アプリケーションサービス
type HistoryApplicationService struct {
	transactionRepo transaction.TransactionRepository
	logger          *otelinfra.Logger
	metrics         *otelinfra.Metrics
	tracer          trace.Tracer
}

// NewHistoryApplicationService 新しいHistoryApplicationServiceを作成
func NewHistoryApplicationService(
	transactionRepo transaction.TransactionRepository,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *HistoryApplicationService {
	return &HistoryApplicationService{
		transactionRepo: transactionRepo,
		logger:          logger,
		metrics:         metrics,
		tracer:          otel.Tracer("history-service"),
	}
}

// GetTransactionHistory 注文に紐づく決済トランザクション履歴を取得
func (s *HistoryApplicationService) GetTransactionHistory(ctx context.Context, req *GetTransactionHistoryRequest) (*GetTransactionHistoryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "HistoryApplicationService.GetTransactionHistory")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_id", req.OrderID),
		attribute.Int("limit", req.Limit),
		attribute.Int("offset", req.Offset),
	)

	s.logger.Info(ctx, "Getting transaction history", map[string]interface{}{
		"order_id": req.OrderID,
		"limit":    req.Limit,
		"offset":   req.Offset,
		"status":   req.Status,
		"method":   req.Method,
	})

	// バリデーション
	if req.Limit <= 0 {
		req.Limit = 50 // デフォルト値
	}
	if req.Limit > 100 {
		req.Limit = 100 // 最大値
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	transactions, err := s.transactionRepo.FindByOrderID(ctx, req.OrderID, req.Limit, req.Offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to get transaction history", err, map[string]interface{}{
			"order_id": req.OrderID,
		})
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}

	// フィルタリング
	filtered := make([]*transaction.PaymentTransaction, 0, len(transactions))
	for _, txn := range transactions {
		// ステータスフィルタ
		if req.Status != "" {
			status, err := transaction.NewTransactionStatus(req.Status)
			if err == nil && txn.Status() != status {
				continue
			}
		}

		// 決済手段フィルタ
		if req.Method != "" {
			method, err := transaction.NewPaymentMethod(req.Method)
			if err == nil && txn.Method() != method {
				continue
			}
		}

		filtered = append(filtered, txn)
	}

	// メトリクス記録
	s.metrics.RecordRequest(ctx, "GET", "/api/v1/orders/{order_id}/transactions")

	return &GetTransactionHistoryResponse{
		Transactions: filtered,
		Total:        len(filtered),
		Limit:        req.Limit,
		Offset:       req.Offset,
	}, nil
}
