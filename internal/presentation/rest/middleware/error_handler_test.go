package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	paymentapp "storefront-server/internal/application/payment"
	"storefront-server/internal/domain/order"
	"storefront-server/internal/domain/provider"
	"storefront-server/internal/domain/transaction"
	otelinfra "storefront-server/internal/infrastructure/observability/otel"
)

func TestErrorHandlerMiddleware_NoError(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	middleware := ErrorHandlerMiddleware(logger)
	handler := middleware(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	err := handler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestErrorHandlerMiddleware_DomainErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "異常系: トランザクションが存在しない",
			err:            transaction.ErrTransactionNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   "transaction_not_found",
		},
		{
			name:           "異常系: 注文が存在しない",
			err:            order.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   "order_not_found",
		},
		{
			name:           "異常系: 返金不可能なステータス",
			err:            transaction.ErrTransactionNotRefundable,
			expectedStatus: http.StatusConflict,
			expectedCode:   "transaction_not_refundable",
		},
		{
			name:           "異常系: 返金額が残高を超過",
			err:            transaction.ErrRefundExceedsBalance,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "refund_exceeds_balance",
		},
		{
			name:           "異常系: 不正なステータス遷移",
			err:            transaction.ErrInvalidStatusTransition,
			expectedStatus: http.StatusConflict,
			expectedCode:   "invalid_status_transition",
		},
		{
			name:           "異常系: 不正な金額",
			err:            transaction.ErrInvalidAmount,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid_amount",
		},
		{
			name:           "異常系: 不正な返金額",
			err:            transaction.ErrInvalidRefundAmount,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid_refund_amount",
		},
		{
			name:           "異常系: 未対応の決済手段",
			err:            transaction.ErrInvalidPaymentMethod,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid_payment_method",
		},
		{
			name:           "異常系: 無効化された決済手段",
			err:            paymentapp.ErrPaymentMethodNotEnabled,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "payment_method_not_enabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer := noop.NewTracerProvider().Tracer("test")
			logger := otelinfra.NewLogger(tracer)

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			middleware := ErrorHandlerMiddleware(logger)
			handler := middleware(func(c echo.Context) error {
				return tt.err
			})

			err := handler(c)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.expectedCode, resp.Error)
		})
	}
}

func TestErrorHandlerMiddleware_ProviderDeclined(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	middleware := ErrorHandlerMiddleware(logger)
	handler := middleware(func(c echo.Context) error {
		return provider.NewError("stripe", "card_declined", "Your card was declined.", true)
	})

	err := handler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "payment_declined", resp.Error)
	assert.Equal(t, "Your card was declined.", resp.Message)
}

func TestErrorHandlerMiddleware_ProviderUnavailable(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	middleware := ErrorHandlerMiddleware(logger)
	handler := middleware(func(c echo.Context) error {
		return provider.NewError("stripe", "", "connection reset", false)
	})

	err := handler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "provider_unavailable", resp.Error)
}

func TestErrorHandlerMiddleware_HTTPError(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	middleware := ErrorHandlerMiddleware(logger)
	handler := middleware(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "bad request")
	})

	err := handler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorHandlerMiddleware_HTTPErrorWithNonStringMessage(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	middleware := ErrorHandlerMiddleware(logger)
	handler := middleware(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, 123) // 数値型のメッセージ
	})

	err := handler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrorHandlerMiddleware_UnknownError(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	middleware := ErrorHandlerMiddleware(logger)
	handler := middleware(func(c echo.Context) error {
		return errors.New("unknown error")
	})

	err := handler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestErrorHandlerMiddleware_WrappedError(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	middleware := ErrorHandlerMiddleware(logger)
	handler := middleware(func(c echo.Context) error {
		return errors.Join(transaction.ErrTransactionNotRefundable, errors.New("wrapped error"))
	})

	err := handler(c)
	require.NoError(t, err)
	// errors.Joinでラップされたエラーでも、errors.Isで判定できる
	assert.Equal(t, http.StatusConflict, rec.Code)
}
