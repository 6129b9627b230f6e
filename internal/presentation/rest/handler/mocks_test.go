package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"storefront-server/internal/domain/order"
	"storefront-server/internal/domain/provider"
	"storefront-server/internal/domain/refund"
	"storefront-server/internal/domain/transaction"
)

// MockTransactionRepository モックトランザクションリポジトリ
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Save(ctx context.Context, t *transaction.PaymentTransaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByTransactionID(ctx context.Context, transactionID string) (*transaction.PaymentTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.PaymentTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByOrderID(ctx context.Context, orderID string, limit, offset int) ([]*transaction.PaymentTransaction, error) {
	args := m.Called(ctx, orderID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.PaymentTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByProviderIntentID(ctx context.Context, intentID string) (*transaction.PaymentTransaction, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.PaymentTransaction), args.Error(1)
}

// MockRefundRepository モック返金リポジトリ
type MockRefundRepository struct {
	mock.Mock
}

func (m *MockRefundRepository) Save(ctx context.Context, r *refund.RefundRecord) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRefundRepository) FindByTransactionID(ctx context.Context, transactionID string) ([]*refund.RefundRecord, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*refund.RefundRecord), args.Error(1)
}

// MockOrderRepository モック注文リポジトリ
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdatePaymentStatus(ctx context.Context, orderID string, status order.PaymentStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

// MockTransactionManager モックトランザクションマネージャー
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	args := m.Called(ctx, fn)
	if fn != nil {
		return fn(ctx)
	}
	return args.Error(0)
}

// MockPaymentProvider モック決済プロバイダ
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) Name() string {
	return "stripe"
}

func (m *MockPaymentProvider) CreatePayment(ctx context.Context, params *provider.CreatePaymentParams) (*provider.PaymentArtifact, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.PaymentArtifact), args.Error(1)
}

func (m *MockPaymentProvider) ConfirmPayment(ctx context.Context, intentID, methodID string) (*provider.ConfirmResult, error) {
	args := m.Called(ctx, intentID, methodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.ConfirmResult), args.Error(1)
}

func (m *MockPaymentProvider) RefundPayment(ctx context.Context, params *provider.RefundParams) (*provider.RefundArtifact, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.RefundArtifact), args.Error(1)
}

func (m *MockPaymentProvider) PaymentStatus(ctx context.Context, intentID string) (provider.PaymentState, error) {
	args := m.Called(ctx, intentID)
	return args.Get(0).(provider.PaymentState), args.Error(1)
}

func (m *MockPaymentProvider) CreatePaymentMethod(ctx context.Context, card *provider.CardDetails) (*provider.TokenizedMethod, error) {
	args := m.Called(ctx, card)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.TokenizedMethod), args.Error(1)
}
