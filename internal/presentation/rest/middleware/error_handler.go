package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	paymentapp "storefront-server/internal/application/payment"
	"storefront-server/internal/domain/order"
	"storefront-server/internal/domain/provider"
	"storefront-server/internal/domain/refund"
	"storefront-server/internal/domain/transaction"
	otelinfra "storefront-server/internal/infrastructure/observability/otel"
)

// ErrorResponse エラーレスポンス
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorHandlerMiddleware エラーハンドリングミドルウェア
func ErrorHandlerMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			// エラーハンドリング
			return handleError(c, err, logger)
		}
	}
}

// validationErrors 400として扱うドメインエラー
var validationErrors = map[error]string{
	transaction.ErrInvalidTransactionID:   "invalid_transaction_id",
	transaction.ErrInvalidOrderID:         "invalid_order_id",
	transaction.ErrInvalidAmount:          "invalid_amount",
	transaction.ErrAmountTooLarge:         "amount_too_large",
	transaction.ErrInvalidCurrency:        "invalid_currency",
	transaction.ErrInvalidRefundAmount:    "invalid_refund_amount",
	transaction.ErrInvalidPaymentMethod:   "invalid_payment_method",
	transaction.ErrInvalidTransaction:     "invalid_transaction",
	paymentapp.ErrPaymentMethodNotEnabled: "payment_method_not_enabled",
	paymentapp.ErrMissingProviderIntent:   "missing_provider_intent",
}

// handleError エラーを処理して適切なHTTPレスポンスを返す
func handleError(c echo.Context, err error, logger *otelinfra.Logger) error {
	ctx := c.Request().Context()

	// バリデーションエラー
	for sentinel, code := range validationErrors {
		if errors.Is(err, sentinel) {
			logger.Warn(ctx, "Validation error", map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   code,
				Message: err.Error(),
			})
		}
	}

	// ドメインエラーの判定と処理
	if errors.Is(err, transaction.ErrTransactionNotFound) {
		logger.Warn(ctx, "Transaction not found", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "transaction_not_found",
			Message: err.Error(),
		})
	}

	if errors.Is(err, order.ErrOrderNotFound) {
		logger.Warn(ctx, "Order not found", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "order_not_found",
			Message: err.Error(),
		})
	}

	if errors.Is(err, refund.ErrRefundNotFound) {
		logger.Warn(ctx, "Refund not found", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "refund_not_found",
			Message: err.Error(),
		})
	}

	if errors.Is(err, transaction.ErrTransactionNotRefundable) {
		logger.Warn(ctx, "Transaction not refundable", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "transaction_not_refundable",
			Message: err.Error(),
		})
	}

	if errors.Is(err, transaction.ErrRefundExceedsBalance) {
		logger.Warn(ctx, "Refund exceeds balance", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "refund_exceeds_balance",
			Message: err.Error(),
		})
	}

	if errors.Is(err, transaction.ErrInvalidStatusTransition) {
		logger.Warn(ctx, "Invalid status transition", map[string]interface{}{
			"error": err.Error(),
		})
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "invalid_status_transition",
			Message: err.Error(),
		})
	}

	// プロバイダエラー: 拒否は402、通信障害は502
	if pe, ok := provider.AsProviderError(err); ok {
		if pe.Declined {
			logger.Warn(ctx, "Payment declined by provider", map[string]interface{}{
				"provider": pe.Provider,
				"code":     pe.Code,
			})
			return c.JSON(http.StatusPaymentRequired, ErrorResponse{
				Error:   "payment_declined",
				Message: pe.Message,
			})
		}
		logger.Error(ctx, "Payment provider unavailable", err, map[string]interface{}{
			"provider": pe.Provider,
		})
		return c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "provider_unavailable",
			Message: pe.Message,
		})
	}

	// EchoのHTTPエラー
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		logger.Warn(ctx, "HTTP error", map[string]interface{}{
			"status_code": httpErr.Code,
			"message":     httpErr.Message,
		})
		message := ""
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(httpErr.Code)
		}
		return c.JSON(httpErr.Code, ErrorResponse{
			Error:   http.StatusText(httpErr.Code),
			Message: message,
		})
	}

	// 予期しないエラー
	logger.Error(ctx, "Internal server error", err, map[string]interface{}{
		"path": c.Request().URL.Path,
	})
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_server_error",
		Message: "An unexpected error occurred",
	})
}
