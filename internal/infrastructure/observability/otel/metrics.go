package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics メトリクス定義
type Metrics struct {
	// 決済トランザクション数
	PaymentCount metric.Int64Counter

	// 返金数
	RefundCount metric.Int64Counter

	// 決済金額の分布
	PaymentAmount metric.Float64Histogram

	// リクエスト数
	RequestCount metric.Int64Counter

	// レスポンス時間
	ResponseTime metric.Float64Histogram

	// エラー率
	ErrorCount metric.Int64Counter
}

// NewMetrics 新しいMetricsを作成
func NewMetrics(meterName string) (*Metrics, error) {
	meter := otel.Meter(meterName)

	paymentCount, err := meter.Int64Counter(
		"payments_total",
		metric.WithDescription("Total number of payment transactions"),
	)
	if err != nil {
		return nil, err
	}

	refundCount, err := meter.Int64Counter(
		"refunds_total",
		metric.WithDescription("Total number of refunds"),
	)
	if err != nil {
		return nil, err
	}

	paymentAmount, err := meter.Float64Histogram(
		"payment_amount",
		metric.WithDescription("Payment amount distribution"),
	)
	if err != nil {
		return nil, err
	}

	requestCount, err := meter.Int64Counter(
		"requests_total",
		metric.WithDescription("Total number of requests"),
	)
	if err != nil {
		return nil, err
	}

	responseTime, err := meter.Float64Histogram(
		"response_time_seconds",
		metric.WithDescription("Response time in seconds"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		PaymentCount:  paymentCount,
		RefundCount:   refundCount,
		PaymentAmount: paymentAmount,
		RequestCount:  requestCount,
		ResponseTime:  responseTime,
		ErrorCount:    errorCount,
	}, nil
}

// RecordPayment 決済トランザクションを記録
func (m *Metrics) RecordPayment(ctx context.Context, providerName, method, status string) {
	m.PaymentCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", providerName),
			attribute.String("payment_method", method),
			attribute.String("status", status),
		),
	)
}

// RecordRefund 返金を記録
func (m *Metrics) RecordRefund(ctx context.Context, providerName, status string) {
	m.RefundCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", providerName),
			attribute.String("status", status),
		),
	)
}

// RecordPaymentAmount 決済金額を記録
func (m *Metrics) RecordPaymentAmount(ctx context.Context, currency string, amount float64) {
	m.PaymentAmount.Record(ctx, amount,
		metric.WithAttributes(
			attribute.String("currency", currency),
		),
	)
}

// RecordRequest リクエストを記録
func (m *Metrics) RecordRequest(ctx context.Context, method, path string) {
	m.RequestCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordResponseTime レスポンス時間を記録
func (m *Metrics) RecordResponseTime(ctx context.Context, method, path string, duration float64) {
	m.ResponseTime.Record(ctx, duration,
		metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("path", path),
		),
	)
}

// RecordError エラーを記録
func (m *Metrics) RecordError(ctx context.Context, errorType string) {
	m.ErrorCount.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error_type", errorType),
		),
	)
}
