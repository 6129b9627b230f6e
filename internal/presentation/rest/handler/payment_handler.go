package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	paymentapp "storefront-server/internal/application/payment"
)

// PaymentHandler 決済関連ハンドラー
type PaymentHandler struct {
	paymentService *paymentapp.PaymentApplicationService
}

// NewPaymentHandler 新しいPaymentHandlerを作成
func NewPaymentHandler(paymentService *paymentapp.PaymentApplicationService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreatePayment 決済トランザクション作成ハンドラー
// @Summary 決済トランザクションを作成
// @Description 注文に対する決済トランザクションを作成し、プロバイダ側のPaymentIntentを発行します
// @Tags payment
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreatePaymentRequest true "決済トランザクション作成リクエスト"
// @Success 200 {object} CreatePaymentResponse "作成成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 402 {object} ErrorResponse "決済拒否"
// @Failure 404 {object} ErrorResponse "注文が存在しない"
// @Failure 502 {object} ErrorResponse "プロバイダ障害"
// @Router /payment/create [post]
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var reqBody CreatePaymentRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if reqBody.OrderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "order_id is required")
	}
	if reqBody.PaymentMethod == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "payment_method is required")
	}

	// 金額省略時は注文の合計金額を請求
	amount := decimal.Zero
	if reqBody.Amount != "" {
		var err error
		amount, err = decimal.NewFromString(reqBody.Amount)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid amount format")
		}
	}

	req := &paymentapp.CreatePaymentRequest{
		OrderID:   reqBody.OrderID,
		Method:    reqBody.PaymentMethod,
		Amount:    amount,
		Currency:  reqBody.Currency,
		ReturnURL: reqBody.ReturnURL,
		CancelURL: reqBody.CancelURL,
	}

	resp, err := h.paymentService.CreatePaymentTransaction(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, CreatePaymentResponse{
		Success:       true,
		TransactionID: resp.TransactionID,
		OrderID:       resp.OrderID,
		Status:        resp.Status,
		Amount:        resp.Amount.String(),
		Currency:      resp.Currency,
		Provider:      resp.Provider,
		IntentID:      resp.IntentID,
		ClientSecret:  resp.ClientSecret,
	})
}

// CreateIntent PaymentIntent作成ハンドラー（決済ウィジェット用パススルー）
// @Summary PaymentIntentを作成
// @Description 決済ウィジェット向けにプロバイダ側のPaymentIntentを作成します
// @Tags payment
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreatePaymentRequest true "PaymentIntent作成リクエスト"
// @Success 200 {object} CreatePaymentResponse "作成成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 502 {object} ErrorResponse "プロバイダ障害"
// @Router /payment/stripe/create-intent [post]
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	return h.CreatePayment(c)
}

// ConfirmPayment 決済確定ハンドラー
// @Summary 決済を確定
// @Description トークン化済みの決済手段でPaymentIntentを確定します
// @Tags payment
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body ConfirmPaymentRequest true "決済確定リクエスト"
// @Success 200 {object} ConfirmPaymentResponse "確定処理成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 402 {object} ErrorResponse "決済拒否"
// @Failure 404 {object} ErrorResponse "トランザクションが存在しない"
// @Failure 409 {object} ErrorResponse "確定できないステータス"
// @Router /payment/stripe/confirm [post]
func (h *PaymentHandler) ConfirmPayment(c echo.Context) error {
	var reqBody ConfirmPaymentRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if reqBody.TransactionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "transaction_id is required")
	}
	if reqBody.PaymentMethodID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "payment_method_id is required")
	}

	req := &paymentapp.ConfirmPaymentRequest{
		TransactionID: reqBody.TransactionID,
		MethodID:      reqBody.PaymentMethodID,
	}

	resp, err := h.paymentService.ConfirmPayment(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ConfirmPaymentResponse{
		Success:       true,
		TransactionID: resp.TransactionID,
		Status:        resp.Status,
		ClientSecret:  resp.ClientSecret,
		ActionType:    resp.ActionType,
		ActionURL:     resp.ActionURL,
		FailureReason: resp.FailureReason,
	})
}

// ProcessRefund 返金処理ハンドラー（管理API用）
// @Summary 返金を実行
// @Description 決済済みトランザクションの全額または一部を返金します
// @Tags admin
// @Accept json
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Param request body RefundRequest true "返金リクエスト"
// @Success 200 {object} RefundResponse "返金成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 404 {object} ErrorResponse "トランザクションが存在しない"
// @Failure 409 {object} ErrorResponse "返金不可能なステータス"
// @Failure 502 {object} ErrorResponse "プロバイダ障害"
// @Router /payment/refund [post]
func (h *PaymentHandler) ProcessRefund(c echo.Context) error {
	var reqBody RefundRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if reqBody.TransactionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "transaction_id is required")
	}

	req := &paymentapp.RefundRequest{
		TransactionID: reqBody.TransactionID,
		Reason:        reqBody.Reason,
	}

	// 金額省略時は返金可能残高の全額
	if reqBody.Amount != "" {
		amount, err := decimal.NewFromString(reqBody.Amount)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid amount format")
		}
		req.Amount = &amount
	}

	resp, err := h.paymentService.ProcessRefund(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, RefundResponse{
		Success:          true,
		RefundID:         resp.RefundID,
		TransactionID:    resp.TransactionID,
		RefundedAmount:   resp.RefundedAmount.String(),
		TotalRefunded:    resp.TotalRefunded.String(),
		RemainingBalance: resp.RemainingBalance.String(),
		Status:           resp.Status,
	})
}

// GetPaymentStatus 決済ステータス照会ハンドラー
// @Summary 決済ステータスを照会
// @Description トランザクションの現在のステータスと返金履歴を取得します
// @Tags payment
// @Accept json
// @Produce json
// @Security Bearer
// @Param transaction_id path string true "トランザクションID" example(txn_123)
// @Success 200 {object} PaymentStatusResponse "照会成功"
// @Failure 404 {object} ErrorResponse "トランザクションが存在しない"
// @Router /payment/status/{transaction_id} [get]
func (h *PaymentHandler) GetPaymentStatus(c echo.Context) error {
	transactionID := c.Param("transaction_id")
	if transactionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "transaction_id is required")
	}

	resp, err := h.paymentService.CheckPaymentStatus(c.Request().Context(), transactionID)
	if err != nil {
		return err
	}

	refunds := make([]RefundItem, len(resp.Refunds))
	for i, r := range resp.Refunds {
		refunds[i] = RefundItem{
			RefundID:  r.RefundID,
			Amount:    r.Amount.String(),
			Reason:    r.Reason,
			CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	failureReason := ""
	if resp.FailureReason != nil {
		failureReason = *resp.FailureReason
	}

	return c.JSON(http.StatusOK, PaymentStatusResponse{
		Success:        true,
		TransactionID:  resp.TransactionID,
		OrderID:        resp.OrderID,
		Status:         resp.Status,
		PaymentMethod:  resp.Method,
		Amount:         resp.Amount.String(),
		RefundedAmount: resp.RefundedAmount.String(),
		Currency:       resp.Currency,
		Provider:       resp.Provider,
		FailureReason:  failureReason,
		Refunds:        refunds,
		CreatedAt:      resp.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      resp.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// CreatePaymentMethod カードトークン化ハンドラー（決済ウィジェット用パススルー）
// @Summary カード情報をトークン化
// @Description カード情報をプロバイダ側の決済手段IDにトークン化します。カード情報は保存されません
// @Tags payment
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreatePaymentMethodRequest true "カードトークン化リクエスト"
// @Success 200 {object} CreatePaymentMethodResponse "トークン化成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 402 {object} ErrorResponse "カード拒否"
// @Router /payment/stripe/create-payment-method [post]
func (h *PaymentHandler) CreatePaymentMethod(c echo.Context) error {
	var reqBody CreatePaymentMethodRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if reqBody.CardNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "card_number is required")
	}
	if reqBody.ExpMonth < 1 || reqBody.ExpMonth > 12 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid exp_month")
	}
	if reqBody.ExpYear == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "exp_year is required")
	}

	req := &paymentapp.CreateMethodRequest{
		Number:   reqBody.CardNumber,
		ExpMonth: reqBody.ExpMonth,
		ExpYear:  reqBody.ExpYear,
		CVC:      reqBody.CVC,
	}

	resp, err := h.paymentService.CreatePaymentMethod(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, CreatePaymentMethodResponse{
		Success:         true,
		PaymentMethodID: resp.MethodID,
		Brand:           resp.Brand,
		Last4:           resp.Last4,
		ExpMonth:        resp.ExpMonth,
		ExpYear:         resp.ExpYear,
	})
}

// ListPaymentMethods 決済手段一覧ハンドラー
// @Summary 有効な決済手段を取得
// @Description 設定で有効化されている決済手段の一覧を取得します
// @Tags payment
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} ListPaymentMethodsResponse "取得成功"
// @Router /payment/methods [get]
func (h *PaymentHandler) ListPaymentMethods(c echo.Context) error {
	methods := h.paymentService.ListPaymentMethods(c.Request().Context())

	return c.JSON(http.StatusOK, ListPaymentMethodsResponse{
		Success:        true,
		PaymentMethods: methods,
	})
}
