package stripe

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	stripego "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storefront-server/internal/domain/provider"
	"storefront-server/internal/infrastructure/config"
)

// ProviderName このアダプタが扱うプロバイダ名
const ProviderName = "stripe"

// 最小通貨単位が1のゼロ小数通貨（Stripe仕様）
var zeroDecimalCurrencies = map[string]bool{
	"BIF": true, "CLP": true, "DJF": true, "GNF": true,
	"JPY": true, "KMF": true, "KRW": true, "MGA": true,
	"PYG": true, "RWF": true, "UGX": true, "VND": true,
	"VUV": true, "XAF": true, "XOF": true, "XPF": true,
}

// Provider Stripe実装のPaymentProvider
// Stripe SDKのレスポンス・エラーをドメイン層の正規化表現へ変換する。
type Provider struct {
	sc     *client.API
	tracer trace.Tracer
}

// NewProvider 新しいStripeプロバイダを作成
func NewProvider(cfg *config.StripeConfig) *Provider {
	return &Provider{
		sc:     client.New(cfg.SecretKey, nil),
		tracer: otel.Tracer("stripe-provider"),
	}
}

// Name プロバイダ名を返す
func (p *Provider) Name() string {
	return ProviderName
}

// CreatePayment Stripe側にPaymentIntentを作成
func (p *Provider) CreatePayment(ctx context.Context, params *provider.CreatePaymentParams) (*provider.PaymentArtifact, error) {
	ctx, span := p.tracer.Start(ctx, "StripeProvider.CreatePayment")
	defer span.End()

	span.SetAttributes(
		attribute.String("payment.transaction_id", params.TransactionID),
		attribute.String("payment.order_id", params.OrderID),
		attribute.String("payment.currency", params.Currency),
		attribute.String("payment.amount", params.Amount.String()),
	)

	intentParams := &stripego.PaymentIntentParams{
		Params:             stripego.Params{Context: ctx},
		Amount:             stripego.Int64(minorUnits(params.Amount, params.Currency)),
		Currency:           stripego.String(strings.ToLower(params.Currency)),
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
	}
	if params.Description != "" {
		intentParams.Description = stripego.String(params.Description)
	}
	intentParams.AddMetadata("transaction_id", params.TransactionID)
	intentParams.AddMetadata("order_id", params.OrderID)

	intent, err := p.sc.PaymentIntents.New(intentParams)
	if err != nil {
		err = normalizeError(err)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("payment.intent_id", intent.ID))
	span.SetStatus(otelcodes.Ok, "payment intent created")

	return &provider.PaymentArtifact{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		State:        mapIntentStatus(intent.Status),
	}, nil
}

// ConfirmPayment 作成済みのPaymentIntentを確定する
func (p *Provider) ConfirmPayment(ctx context.Context, intentID, methodID string) (*provider.ConfirmResult, error) {
	ctx, span := p.tracer.Start(ctx, "StripeProvider.ConfirmPayment")
	defer span.End()

	span.SetAttributes(attribute.String("payment.intent_id", intentID))

	confirmParams := &stripego.PaymentIntentConfirmParams{
		Params:        stripego.Params{Context: ctx},
		PaymentMethod: stripego.String(methodID),
	}

	intent, err := p.sc.PaymentIntents.Confirm(intentID, confirmParams)
	if err != nil {
		// カード拒否はConfirmResultではなくエラーとして返し、
		// 呼び出し側でfailed遷移と理由記録を行う。
		err = normalizeError(err)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	result := confirmResultFromIntent(intent)
	span.SetAttributes(attribute.String("payment.outcome", string(result.Outcome)))
	span.SetStatus(otelcodes.Ok, "payment intent confirmed")
	return result, nil
}

// RefundPayment PaymentIntentに対する返金を実行
func (p *Provider) RefundPayment(ctx context.Context, params *provider.RefundParams) (*provider.RefundArtifact, error) {
	ctx, span := p.tracer.Start(ctx, "StripeProvider.RefundPayment")
	defer span.End()

	span.SetAttributes(
		attribute.String("payment.intent_id", params.IntentID),
		attribute.String("payment.refund_amount", params.Amount.String()),
	)

	refundParams := &stripego.RefundParams{
		Params:        stripego.Params{Context: ctx},
		PaymentIntent: stripego.String(params.IntentID),
		Amount:        stripego.Int64(minorUnits(params.Amount, params.Currency)),
	}
	if reason, ok := stripeRefundReason(params.Reason); ok {
		refundParams.Reason = stripego.String(reason)
	}
	if params.Reason != "" {
		refundParams.AddMetadata("reason", params.Reason)
	}

	ref, err := p.sc.Refunds.New(refundParams)
	if err != nil {
		err = normalizeError(err)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("payment.refund_id", ref.ID))
	span.SetStatus(otelcodes.Ok, "refund created")

	return &provider.RefundArtifact{RefundID: ref.ID}, nil
}

// PaymentStatus PaymentIntentの現在状態を取得
func (p *Provider) PaymentStatus(ctx context.Context, intentID string) (provider.PaymentState, error) {
	ctx, span := p.tracer.Start(ctx, "StripeProvider.PaymentStatus")
	defer span.End()

	span.SetAttributes(attribute.String("payment.intent_id", intentID))

	intent, err := p.sc.PaymentIntents.Get(intentID, &stripego.PaymentIntentParams{
		Params: stripego.Params{Context: ctx},
	})
	if err != nil {
		err = normalizeError(err)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return "", err
	}

	state := mapIntentStatus(intent.Status)
	span.SetAttributes(attribute.String("payment.state", string(state)))
	span.SetStatus(otelcodes.Ok, "payment intent fetched")
	return state, nil
}

// CreatePaymentMethod カード情報をStripeのPaymentMethod IDにトークン化
// カード情報はStripeへの受け渡しにのみ使用し、ローカルには残さない。
func (p *Provider) CreatePaymentMethod(ctx context.Context, card *provider.CardDetails) (*provider.TokenizedMethod, error) {
	ctx, span := p.tracer.Start(ctx, "StripeProvider.CreatePaymentMethod")
	defer span.End()

	methodParams := &stripego.PaymentMethodParams{
		Params: stripego.Params{Context: ctx},
		Type:   stripego.String("card"),
		Card: &stripego.PaymentMethodCardParams{
			Number:   stripego.String(card.Number),
			ExpMonth: stripego.Int64(card.ExpMonth),
			ExpYear:  stripego.Int64(card.ExpYear),
			CVC:      stripego.String(card.CVC),
		},
	}

	pm, err := p.sc.PaymentMethods.New(methodParams)
	if err != nil {
		err = normalizeError(err)
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	result := &provider.TokenizedMethod{MethodID: pm.ID}
	if pm.Card != nil {
		result.Brand = string(pm.Card.Brand)
		result.Last4 = pm.Card.Last4
		result.ExpMonth = pm.Card.ExpMonth
		result.ExpYear = pm.Card.ExpYear
	}

	span.SetAttributes(attribute.String("payment.method_id", pm.ID))
	span.SetStatus(otelcodes.Ok, "payment method created")
	return result, nil
}

// minorUnits 金額をStripeの最小通貨単位に変換
// ゼロ小数通貨（JPY等）はそのまま、それ以外は100倍する。
func minorUnits(amount decimal.Decimal, currency string) int64 {
	if zeroDecimalCurrencies[strings.ToUpper(currency)] {
		return amount.Round(0).IntPart()
	}
	return amount.Shift(2).Round(0).IntPart()
}

// mapIntentStatus StripeのPaymentIntentステータスを正規化状態へ変換
func mapIntentStatus(status stripego.PaymentIntentStatus) provider.PaymentState {
	switch status {
	case stripego.PaymentIntentStatusSucceeded:
		return provider.StateSucceeded
	case stripego.PaymentIntentStatusRequiresAction:
		return provider.StateRequiresAction
	case stripego.PaymentIntentStatusCanceled:
		return provider.StateFailed
	case stripego.PaymentIntentStatusRequiresPaymentMethod,
		stripego.PaymentIntentStatusRequiresConfirmation,
		stripego.PaymentIntentStatusRequiresCapture,
		stripego.PaymentIntentStatusProcessing:
		return provider.StatePending
	default:
		return provider.StatePending
	}
}

// confirmResultFromIntent 確定後のPaymentIntentからConfirmResultを構築
func confirmResultFromIntent(intent *stripego.PaymentIntent) *provider.ConfirmResult {
	switch intent.Status {
	case stripego.PaymentIntentStatusSucceeded:
		return &provider.ConfirmResult{Outcome: provider.OutcomeSucceeded}

	case stripego.PaymentIntentStatusRequiresAction:
		result := &provider.ConfirmResult{
			Outcome:      provider.OutcomeRequiresAction,
			ClientSecret: intent.ClientSecret,
		}
		if intent.NextAction != nil {
			result.ActionType = string(intent.NextAction.Type)
			if intent.NextAction.RedirectToURL != nil {
				result.ActionURL = intent.NextAction.RedirectToURL.URL
			}
		}
		return result

	default:
		result := &provider.ConfirmResult{Outcome: provider.OutcomeFailed}
		if intent.LastPaymentError != nil {
			result.FailureReason = intent.LastPaymentError.Msg
		}
		return result
	}
}

// stripeRefundReason サービスの返金理由をStripeの定義済み理由へ変換
// 定義済み理由に該当しない場合はメタデータのみで扱う。
func stripeRefundReason(reason string) (string, bool) {
	switch reason {
	case string(stripego.RefundReasonDuplicate),
		string(stripego.RefundReasonFraudulent),
		string(stripego.RefundReasonRequestedByCustomer):
		return reason, true
	default:
		return "", false
	}
}

// normalizeError Stripeのエラーをドメインのプロバイダエラーへ正規化
func normalizeError(err error) error {
	if se, ok := err.(*stripego.Error); ok {
		declined := se.Type == stripego.ErrorTypeCard
		return provider.NewError(ProviderName, string(se.Code), se.Msg, declined)
	}
	return provider.NewError(ProviderName, "", err.Error(), false)
}
