package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	historyapp "storefront-server/internal/application/history"
	"storefront-server/internal/domain/transaction"
	otelinfra "storefront-server/internal/infrastructure/observability/otel"
)

func newHistoryHandler(t *testing.T) (*HistoryHandler, *MockTransactionRepository) {
	t.Helper()

	mockTransactionRepo := new(MockTransactionRepository)
	tracer := noop.NewTracerProvider().Tracer("test")
	logger := otelinfra.NewLogger(tracer)
	metrics, err := otelinfra.NewMetrics("test")
	require.NoError(t, err)

	appService := historyapp.NewHistoryApplicationService(mockTransactionRepo, logger, metrics)
	return NewHistoryHandler(appService), mockTransactionRepo
}

func TestHistoryHandler_GetOrderTransactions(t *testing.T) {
	intentID := "pi_123"
	txns := []*transaction.PaymentTransaction{
		transaction.MustReconstructPaymentTransaction(
			"txn_123", "order_456", transaction.PaymentMethodCreditCard,
			decimal.NewFromFloat(29.99), decimal.Zero, "USD",
			transaction.TransactionStatusSucceeded, "stripe", &intentID,
		),
	}

	tests := []struct {
		name           string
		orderID        string
		query          string
		setupMock      func(*MockTransactionRepository)
		expectedStatus int
		checkBody      func(*testing.T, []byte)
	}{
		{
			name:    "正常系: 履歴を取得",
			orderID: "order_456",
			setupMock: func(m *MockTransactionRepository) {
				m.On("FindByOrderID", mock.Anything, "order_456", 50, 0).Return(txns, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body []byte) {
				var resp TransactionHistoryResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.True(t, resp.Success)
				assert.Equal(t, 1, resp.Total)
				require.Len(t, resp.Transactions, 1)
				assert.Equal(t, "txn_123", resp.Transactions[0].TransactionID)
				assert.Equal(t, "29.99", resp.Transactions[0].Amount)
				assert.Equal(t, "succeeded", resp.Transactions[0].Status)
			},
		},
		{
			name:    "正常系: ページネーションパラメータ",
			orderID: "order_456",
			query:   "?limit=10&offset=20",
			setupMock: func(m *MockTransactionRepository) {
				m.On("FindByOrderID", mock.Anything, "order_456", 10, 20).Return(
					[]*transaction.PaymentTransaction{}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: 無効なlimitパラメータ",
			orderID:        "order_456",
			query:          "?limit=500",
			setupMock:      func(m *MockTransactionRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "異常系: 無効なoffsetパラメータ",
			orderID:        "order_456",
			query:          "?offset=-1",
			setupMock:      func(m *MockTransactionRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "異常系: リポジトリエラー",
			orderID: "order_456",
			setupMock: func(m *MockTransactionRepository) {
				m.On("FindByOrderID", mock.Anything, "order_456", 50, 0).Return(nil, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			handler, mockRepo := newHistoryHandler(t)
			tt.setupMock(mockRepo)

			req := httptest.NewRequest(http.MethodGet, "/orders/"+tt.orderID+"/transactions"+tt.query, nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("order_id")
			c.SetParamValues(tt.orderID)

			invokeHandler(t, c, e, handler.GetOrderTransactions)
			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkBody != nil {
				tt.checkBody(t, rec.Body.Bytes())
			}
		})
	}
}
