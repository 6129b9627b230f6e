package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storefront-server/internal/domain/order"
	"storefront-server/internal/domain/provider"
	"storefront-server/internal/domain/refund"
	"storefront-server/internal/domain/transaction"
	"storefront-server/internal/infrastructure/config"
	otelinfra "storefront-server/internal/infrastructure/observability/otel"
)

var (
	// ErrPaymentMethodNotEnabled 設定で有効化されていない決済手段
	ErrPaymentMethodNotEnabled = errors.New("payment method not enabled")
	// ErrUnknownProvider 未登録のプロバイダ
	ErrUnknownProvider = errors.New("unknown payment provider")
	// ErrMissingProviderIntent プロバイダ側のPaymentIntentが未作成
	ErrMissingProviderIntent = errors.New("transaction has no provider payment intent")
)

// PaymentApplicationService 決済アプリケーションサービス
type PaymentApplicationService struct {
	transactionRepo transaction.TransactionRepository
	refundRepo      refund.RefundRepository
	orderRepo       order.OrderRepository
	txManager       transaction.TransactionManager
	providers       map[string]provider.PaymentProvider
	defaultProvider string
	cfg             *config.PaymentConfig
	logger          *otelinfra.Logger
	metrics         *otelinfra.Metrics
	tracer          trace.Tracer
}

// NewPaymentApplicationService 新しいPaymentApplicationServiceを作成
// providersの先頭がデフォルトプロバイダとなる。
func NewPaymentApplicationService(
	transactionRepo transaction.TransactionRepository,
	refundRepo refund.RefundRepository,
	orderRepo order.OrderRepository,
	txManager transaction.TransactionManager,
	providers []provider.PaymentProvider,
	cfg *config.PaymentConfig,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
) *PaymentApplicationService {
	registry := make(map[string]provider.PaymentProvider, len(providers))
	defaultName := ""
	for i, p := range providers {
		registry[p.Name()] = p
		if i == 0 {
			defaultName = p.Name()
		}
	}

	return &PaymentApplicationService{
		transactionRepo: transactionRepo,
		refundRepo:      refundRepo,
		orderRepo:       orderRepo,
		txManager:       txManager,
		providers:       registry,
		defaultProvider: defaultName,
		cfg:             cfg,
		logger:          logger,
		metrics:         metrics,
		tracer:          otel.Tracer("payment-service"),
	}
}

// CreatePaymentTransaction 注文に対する決済トランザクションを作成
// ローカルにpendingのレコードを作成した上でプロバイダ側にPaymentIntentを
// 作成する。プロバイダ側の作成に失敗した場合、レコードはfailedとして残る。
func (s *PaymentApplicationService) CreatePaymentTransaction(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.CreatePaymentTransaction")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_id", req.OrderID),
		attribute.String("payment_method", req.Method),
	)

	s.logger.Info(ctx, "Creating payment transaction", map[string]interface{}{
		"order_id":       req.OrderID,
		"payment_method": req.Method,
	})

	method, err := transaction.NewPaymentMethod(req.Method)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	if !s.methodEnabled(method) {
		span.RecordError(ErrPaymentMethodNotEnabled)
		span.SetStatus(otelcodes.Error, ErrPaymentMethodNotEnabled.Error())
		return nil, ErrPaymentMethodNotEnabled
	}

	// 注文の存在確認と請求額の確定
	o, err := s.orderRepo.FindByOrderID(ctx, req.OrderID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = o.Currency()
	}
	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}

	amount := req.Amount
	if amount.IsZero() {
		amount = o.TotalAmount()
	}

	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = s.cfg.BaseURL + "/payment/return"
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = s.cfg.BaseURL + "/payment/cancel"
	}

	prov, ok := s.providers[s.defaultProvider]
	if !ok {
		span.RecordError(ErrUnknownProvider)
		span.SetStatus(otelcodes.Error, ErrUnknownProvider.Error())
		return nil, ErrUnknownProvider
	}

	transactionID := s.generateTransactionID()
	txn, err := transaction.NewPaymentTransaction(
		transactionID,
		req.OrderID,
		method,
		amount,
		currency,
		prov.Name(),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	// プロバイダ呼び出し前にpendingレコードを残し、障害時の突き合わせを可能にする
	if err := s.transactionRepo.Save(ctx, txn); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to save payment transaction: %w", err)
	}

	artifact, err := prov.CreatePayment(ctx, &provider.CreatePaymentParams{
		TransactionID: transactionID,
		OrderID:       req.OrderID,
		Method:        method,
		Amount:        amount,
		Currency:      currency,
		ReturnURL:     returnURL,
		CancelURL:     cancelURL,
		Description:   req.Description,
	})
	if err != nil {
		s.failTransaction(ctx, txn, err)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.metrics.RecordPayment(ctx, prov.Name(), method.String(), transaction.TransactionStatusFailed.String())
		return nil, err
	}

	txn.SetProviderIntentID(artifact.IntentID)
	if err := s.transactionRepo.Save(ctx, txn); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to save payment transaction: %w", err)
	}

	s.metrics.RecordPayment(ctx, prov.Name(), method.String(), txn.Status().String())
	amountFloat, _ := txn.Amount().Float64()
	s.metrics.RecordPaymentAmount(ctx, currency, amountFloat)

	s.logger.Info(ctx, "Payment transaction created", map[string]interface{}{
		"transaction_id": transactionID,
		"order_id":       req.OrderID,
		"intent_id":      artifact.IntentID,
	})

	span.SetAttributes(attribute.String("transaction_id", transactionID))
	span.SetStatus(otelcodes.Ok, "payment transaction created")

	return &CreatePaymentResponse{
		TransactionID: transactionID,
		OrderID:       req.OrderID,
		Status:        txn.Status().String(),
		Amount:        txn.Amount(),
		Currency:      currency,
		Provider:      prov.Name(),
		IntentID:      artifact.IntentID,
		ClientSecret:  artifact.ClientSecret,
	}, nil
}

// ConfirmPayment 決済を確定する
// 成功時はトランザクションをsucceededへ遷移し、注文を支払い済みにする。
func (s *PaymentApplicationService) ConfirmPayment(ctx context.Context, req *ConfirmPaymentRequest) (*ConfirmPaymentResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.ConfirmPayment")
	defer span.End()

	span.SetAttributes(attribute.String("transaction_id", req.TransactionID))

	txn, err := s.transactionRepo.FindByTransactionID(ctx, req.TransactionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	if !txn.Status().IsSettling() {
		err := transaction.ErrInvalidStatusTransition
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	intentID := txn.ProviderIntentID()
	if intentID == nil {
		span.RecordError(ErrMissingProviderIntent)
		span.SetStatus(otelcodes.Error, ErrMissingProviderIntent.Error())
		return nil, ErrMissingProviderIntent
	}

	prov, ok := s.providers[txn.ProviderName()]
	if !ok {
		span.RecordError(ErrUnknownProvider)
		span.SetStatus(otelcodes.Error, ErrUnknownProvider.Error())
		return nil, ErrUnknownProvider
	}

	result, err := prov.ConfirmPayment(ctx, *intentID, req.MethodID)
	if err != nil {
		// ビジネス上の拒否（カード拒否等）はfailedへ遷移して理由を残す。
		// 通信障害は状態を変えず、リトライ可能なまま返す。
		if pe, ok := provider.AsProviderError(err); ok && pe.Declined {
			s.failTransaction(ctx, txn, err)
			s.metrics.RecordPayment(ctx, prov.Name(), txn.Method().String(), transaction.TransactionStatusFailed.String())
		}
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	switch result.Outcome {
	case provider.OutcomeSucceeded:
		if err := txn.TransitionTo(transaction.TransactionStatusSucceeded); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
		// トランザクション更新と注文の支払いステータスは同一DBトランザクションで反映
		err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := s.transactionRepo.Save(txCtx, txn); err != nil {
				return fmt.Errorf("failed to save payment transaction: %w", err)
			}
			if err := s.orderRepo.UpdatePaymentStatus(txCtx, txn.OrderID(), order.PaymentStatusPaid); err != nil {
				return fmt.Errorf("failed to update order payment status: %w", err)
			}
			return nil
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}

	case provider.OutcomeRequiresAction:
		if txn.Status() != transaction.TransactionStatusRequiresAction {
			if err := txn.TransitionTo(transaction.TransactionStatusRequiresAction); err != nil {
				span.RecordError(err)
				span.SetStatus(otelcodes.Error, err.Error())
				return nil, err
			}
			if err := s.transactionRepo.Save(ctx, txn); err != nil {
				span.RecordError(err)
				span.SetStatus(otelcodes.Error, err.Error())
				return nil, fmt.Errorf("failed to save payment transaction: %w", err)
			}
		}

	case provider.OutcomeFailed:
		reason := result.FailureReason
		if reason == "" {
			reason = "payment failed"
		}
		if err := txn.Fail(reason); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
		if err := s.transactionRepo.Save(ctx, txn); err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, fmt.Errorf("failed to save payment transaction: %w", err)
		}
	}

	s.metrics.RecordPayment(ctx, prov.Name(), txn.Method().String(), txn.Status().String())

	s.logger.Info(ctx, "Payment confirmation processed", map[string]interface{}{
		"transaction_id": req.TransactionID,
		"status":         txn.Status().String(),
	})

	span.SetAttributes(attribute.String("status", txn.Status().String()))
	span.SetStatus(otelcodes.Ok, "payment confirmation processed")

	return &ConfirmPaymentResponse{
		TransactionID: txn.TransactionID(),
		Status:        txn.Status().String(),
		ClientSecret:  result.ClientSecret,
		ActionType:    result.ActionType,
		ActionURL:     result.ActionURL,
		FailureReason: result.FailureReason,
	}, nil
}

// ProcessRefund 返金を実行する
// 返金額の省略時は返金可能残高の全額を返金する。返金レコードの追加、
// トランザクションの累計更新、注文の支払いステータス更新は同一DB
// トランザクションで行う。
func (s *PaymentApplicationService) ProcessRefund(ctx context.Context, req *RefundRequest) (*RefundResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.ProcessRefund")
	defer span.End()

	span.SetAttributes(attribute.String("transaction_id", req.TransactionID))

	txn, err := s.transactionRepo.FindByTransactionID(ctx, req.TransactionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	if !txn.Status().IsRefundable() {
		err := transaction.ErrTransactionNotRefundable
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	amount := txn.RefundableBalance()
	if req.Amount != nil {
		amount = *req.Amount
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		err := transaction.ErrInvalidRefundAmount
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	if amount.GreaterThan(txn.RefundableBalance()) {
		err := transaction.ErrRefundExceedsBalance
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	intentID := txn.ProviderIntentID()
	if intentID == nil {
		span.RecordError(ErrMissingProviderIntent)
		span.SetStatus(otelcodes.Error, ErrMissingProviderIntent.Error())
		return nil, ErrMissingProviderIntent
	}

	prov, ok := s.providers[txn.ProviderName()]
	if !ok {
		span.RecordError(ErrUnknownProvider)
		span.SetStatus(otelcodes.Error, ErrUnknownProvider.Error())
		return nil, ErrUnknownProvider
	}

	span.SetAttributes(attribute.String("refund_amount", amount.String()))

	artifact, err := prov.RefundPayment(ctx, &provider.RefundParams{
		IntentID: *intentID,
		Amount:   amount,
		Currency: txn.Currency(),
		Reason:   req.Reason,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.metrics.RecordRefund(ctx, prov.Name(), "failed")
		return nil, err
	}

	refundID := s.generateRefundID()
	record, err := refund.NewRefundRecord(refundID, txn.TransactionID(), amount, req.Reason, artifact.RefundID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	if err := txn.ApplyRefund(amount); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.refundRepo.Save(txCtx, record); err != nil {
			return fmt.Errorf("failed to save refund record: %w", err)
		}
		if err := s.transactionRepo.Save(txCtx, txn); err != nil {
			return fmt.Errorf("failed to save payment transaction: %w", err)
		}
		orderStatus := order.PaymentStatusPartiallyRefunded
		if txn.Status() == transaction.TransactionStatusRefunded {
			orderStatus = order.PaymentStatusRefunded
		}
		if err := s.orderRepo.UpdatePaymentStatus(txCtx, txn.OrderID(), orderStatus); err != nil {
			return fmt.Errorf("failed to update order payment status: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		s.logger.Error(ctx, "Failed to persist refund", err, map[string]interface{}{
			"transaction_id":     req.TransactionID,
			"refund_id":          refundID,
			"provider_refund_id": artifact.RefundID,
		})
		return nil, err
	}

	s.metrics.RecordRefund(ctx, prov.Name(), txn.Status().String())

	s.logger.Info(ctx, "Refund processed", map[string]interface{}{
		"transaction_id": req.TransactionID,
		"refund_id":      refundID,
		"amount":         amount.String(),
		"status":         txn.Status().String(),
	})

	span.SetStatus(otelcodes.Ok, "refund processed")

	return &RefundResponse{
		RefundID:         refundID,
		TransactionID:    txn.TransactionID(),
		RefundedAmount:   amount,
		TotalRefunded:    txn.RefundedAmount(),
		RemainingBalance: txn.RefundableBalance(),
		Status:           txn.Status().String(),
	}, nil
}

// CheckPaymentStatus 決済ステータスを照会する
// 未確定のまま一定期間が経過したトランザクションはプロバイダ側の状態と
// 突き合わせ、差分があればローカルへ反映する。
func (s *PaymentApplicationService) CheckPaymentStatus(ctx context.Context, transactionID string) (*StatusResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.CheckPaymentStatus")
	defer span.End()

	span.SetAttributes(attribute.String("transaction_id", transactionID))

	txn, err := s.transactionRepo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	if s.shouldReconcile(txn) {
		s.reconcileWithProvider(ctx, txn)
	}

	records, err := s.refundRepo.FindByTransactionID(ctx, transactionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	refunds := make([]RefundDetail, 0, len(records))
	for _, r := range records {
		refunds = append(refunds, RefundDetail{
			RefundID:  r.RefundID(),
			Amount:    r.Amount(),
			Reason:    r.Reason(),
			CreatedAt: r.CreatedAt(),
		})
	}

	span.SetAttributes(attribute.String("status", txn.Status().String()))
	span.SetStatus(otelcodes.Ok, "payment status fetched")

	return &StatusResponse{
		TransactionID:  txn.TransactionID(),
		OrderID:        txn.OrderID(),
		Status:         txn.Status().String(),
		Method:         txn.Method().String(),
		Amount:         txn.Amount(),
		RefundedAmount: txn.RefundedAmount(),
		Currency:       txn.Currency(),
		Provider:       txn.ProviderName(),
		FailureReason:  txn.FailureReason(),
		Refunds:        refunds,
		CreatedAt:      txn.CreatedAt(),
		UpdatedAt:      txn.UpdatedAt(),
	}, nil
}

// CreatePaymentMethod カード情報をプロバイダ側の決済手段IDにトークン化する
func (s *PaymentApplicationService) CreatePaymentMethod(ctx context.Context, req *CreateMethodRequest) (*CreateMethodResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentApplicationService.CreatePaymentMethod")
	defer span.End()

	prov, ok := s.providers[s.defaultProvider]
	if !ok {
		span.RecordError(ErrUnknownProvider)
		span.SetStatus(otelcodes.Error, ErrUnknownProvider.Error())
		return nil, ErrUnknownProvider
	}

	tokenized, err := prov.CreatePaymentMethod(ctx, &provider.CardDetails{
		Number:   req.Number,
		ExpMonth: req.ExpMonth,
		ExpYear:  req.ExpYear,
		CVC:      req.CVC,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("method_id", tokenized.MethodID))
	span.SetStatus(otelcodes.Ok, "payment method created")

	return &CreateMethodResponse{
		MethodID: tokenized.MethodID,
		Brand:    tokenized.Brand,
		Last4:    tokenized.Last4,
		ExpMonth: tokenized.ExpMonth,
		ExpYear:  tokenized.ExpYear,
	}, nil
}

// ListPaymentMethods 有効な決済手段の一覧を返す
func (s *PaymentApplicationService) ListPaymentMethods(ctx context.Context) []string {
	_, span := s.tracer.Start(ctx, "PaymentApplicationService.ListPaymentMethods")
	defer span.End()

	methods := make([]string, len(s.cfg.EnabledMethods))
	copy(methods, s.cfg.EnabledMethods)

	span.SetStatus(otelcodes.Ok, "payment methods listed")
	return methods
}

// methodEnabled 決済手段が設定で有効化されているかどうか
func (s *PaymentApplicationService) methodEnabled(method transaction.PaymentMethod) bool {
	for _, m := range s.cfg.EnabledMethods {
		if m == method.String() {
			return true
		}
	}
	return false
}

// shouldReconcile プロバイダ側との突き合わせが必要かどうか
// 未確定（pending / requires_action）のまま設定期間を超えた場合のみ行う。
func (s *PaymentApplicationService) shouldReconcile(txn *transaction.PaymentTransaction) bool {
	if !txn.Status().IsSettling() {
		return false
	}
	if txn.ProviderIntentID() == nil {
		return false
	}
	return time.Since(txn.UpdatedAt()) > s.cfg.StatusStaleAfter
}

// reconcileWithProvider プロバイダ側の状態をローカルへ反映する
// プロバイダへの照会失敗は致命的ではないため、ログのみ残してローカルの
// 状態をそのまま返す。
func (s *PaymentApplicationService) reconcileWithProvider(ctx context.Context, txn *transaction.PaymentTransaction) {
	prov, ok := s.providers[txn.ProviderName()]
	if !ok {
		return
	}

	state, err := prov.PaymentStatus(ctx, *txn.ProviderIntentID())
	if err != nil {
		s.logger.Warn(ctx, "Failed to reconcile payment status with provider", map[string]interface{}{
			"transaction_id": txn.TransactionID(),
			"error":          err.Error(),
		})
		return
	}

	switch state {
	case provider.StateSucceeded:
		if err := txn.TransitionTo(transaction.TransactionStatusSucceeded); err != nil {
			return
		}
		err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := s.transactionRepo.Save(txCtx, txn); err != nil {
				return err
			}
			return s.orderRepo.UpdatePaymentStatus(txCtx, txn.OrderID(), order.PaymentStatusPaid)
		})

	case provider.StateFailed:
		if failErr := txn.Fail("payment expired or canceled at provider"); failErr != nil {
			return
		}
		err = s.transactionRepo.Save(ctx, txn)

	case provider.StateRequiresAction:
		if txn.Status() == transaction.TransactionStatusRequiresAction {
			return
		}
		if transErr := txn.TransitionTo(transaction.TransactionStatusRequiresAction); transErr != nil {
			return
		}
		err = s.transactionRepo.Save(ctx, txn)

	default:
		return
	}

	if err != nil {
		s.logger.Error(ctx, "Failed to persist reconciled payment status", err, map[string]interface{}{
			"transaction_id": txn.TransactionID(),
			"state":          string(state),
		})
		return
	}

	s.logger.Info(ctx, "Payment status reconciled with provider", map[string]interface{}{
		"transaction_id": txn.TransactionID(),
		"status":         txn.Status().String(),
	})
}

// failTransaction プロバイダエラーを理由としてトランザクションをfailedにする
func (s *PaymentApplicationService) failTransaction(ctx context.Context, txn *transaction.PaymentTransaction, cause error) {
	reason := cause.Error()
	if pe, ok := provider.AsProviderError(cause); ok {
		reason = pe.Message
	}
	if err := txn.Fail(reason); err != nil {
		return
	}
	if err := s.transactionRepo.Save(ctx, txn); err != nil {
		s.logger.Error(ctx, "Failed to mark payment transaction as failed", err, map[string]interface{}{
			"transaction_id": txn.TransactionID(),
		})
	}
}

// generateTransactionID トランザクションIDを生成
func (s *PaymentApplicationService) generateTransactionID() string {
	return fmt.Sprintf("txn_%s", uuid.NewString())
}

// generateRefundID 返金IDを生成
func (s *PaymentApplicationService) generateRefundID() string {
	return fmt.Sprintf("ref_%s", uuid.NewString())
}
