package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	historyapp "storefront-server/internal/application/history"
)

// HistoryHandler 履歴関連ハンドラー
type HistoryHandler struct {
	historyService *historyapp.HistoryApplicationService
}

// NewHistoryHandler 新しいHistoryHandlerを作成
func NewHistoryHandler(historyService *historyapp.HistoryApplicationService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
	}
}

// GetOrderTransactions 注文のトランザクション履歴取得ハンドラー（管理API用）
// @Summary 注文のトランザクション履歴を取得
// @Description 指定された注文の決済トランザクション履歴を取得します。ページネーションとフィルタリングに対応しています
// @Tags admin
// @Accept json
// @Produce json
// @Param order_id path string true "注文ID" example(order_456)
// @Param X-API-Key header string true "APIキー"
// @Param limit query int false "取得件数（デフォルト: 50, 最大: 100)" default(50) example(50)
// @Param offset query int false "オフセット（デフォルト: 0)" default(0) example(0)
// @Param status query string false "ステータスでフィルタ（pending/requires_action/succeeded/failed/refunded/partially_refunded）" example(succeeded)
// @Param payment_method query string false "決済手段でフィルタ（credit_card/debit_card/paypal/bank_transfer）" example(credit_card)
// @Success 200 {object} TransactionHistoryResponse "履歴取得成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /orders/{order_id}/transactions [get]
func (h *HistoryHandler) GetOrderTransactions(c echo.Context) error {
	orderID := c.Param("order_id")
	if orderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "order_id is required")
	}

	// クエリパラメータを取得
	limit := 50 // デフォルト値
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > 100 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit parameter")
		}
	}

	offset := 0 // デフォルト値
	if offsetStr := c.QueryParam("offset"); offsetStr != "" {
		var err error
		offset, err = strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid offset parameter")
		}
	}

	req := &historyapp.GetTransactionHistoryRequest{
		OrderID: orderID,
		Limit:   limit,
		Offset:  offset,
		Status:  c.QueryParam("status"),
		Method:  c.QueryParam("payment_method"),
	}

	resp, err := h.historyService.GetTransactionHistory(c.Request().Context(), req)
	if err != nil {
		return err
	}

	// トランザクションをレスポンス形式に変換
	transactions := make([]TransactionItem, len(resp.Transactions))
	for i, txn := range resp.Transactions {
		transactions[i] = TransactionItem{
			TransactionID:  txn.TransactionID(),
			OrderID:        txn.OrderID(),
			PaymentMethod:  txn.Method().String(),
			Amount:         txn.Amount().String(),
			RefundedAmount: txn.RefundedAmount().String(),
			Currency:       txn.Currency(),
			Status:         txn.Status().String(),
			Provider:       txn.ProviderName(),
			CreatedAt:      txn.CreatedAt().Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	return c.JSON(http.StatusOK, TransactionHistoryResponse{
		Success:      true,
		Transactions: transactions,
		Total:        resp.Total,
		Limit:        resp.Limit,
		Offset:       resp.Offset,
	})
}
