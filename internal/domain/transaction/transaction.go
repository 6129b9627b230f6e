package transaction

import (
	"errors"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidTransactionID トランザクションIDが無効
	ErrInvalidTransactionID = errors.New("invalid transaction id")
	// ErrInvalidOrderID 注文IDが無効
	ErrInvalidOrderID = errors.New("invalid order id")
	// ErrInvalidAmount 金額が無効
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAmountTooLarge 金額が大きすぎる
	ErrAmountTooLarge = errors.New("amount too large")
	// ErrInvalidCurrency 通貨コードが無効
	ErrInvalidCurrency = errors.New("invalid currency code")
	// ErrInvalidRefundAmount 返金額が無効
	ErrInvalidRefundAmount = errors.New("invalid refund amount")
)

// MaxAmount 1決済あたりの最大金額
var MaxAmount = decimal.NewFromInt(1_000_000)

var (
	idRegex       = regexp.MustCompile(`^[a-zA-Z0-9_\-\.\@]{1,255}$`)
	orderIDRegex  = regexp.MustCompile(`^[a-zA-Z0-9_\-\.\@]{1,255}$`)
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
)

// PaymentTransaction 決済トランザクションエンティティ
// 注文と決済試行を紐付けるローカルレコード。削除されることはなく、
// ステータス遷移のみが許される。
type PaymentTransaction struct {
	transactionID    string
	orderID          string
	method           PaymentMethod
	amount           decimal.Decimal
	refundedAmount   decimal.Decimal
	currency         string // ISO 4217通貨コード（例: "USD"）
	status           TransactionStatus
	providerName     string  // 決済プロバイダ名（例: "stripe"）
	providerIntentID *string // プロバイダ側のPaymentIntent ID
	failureReason    *string // 失敗理由（failedの場合のみ）
	createdAt        time.Time
	updatedAt        time.Time
}

// NewPaymentTransaction 新しいPaymentTransactionエンティティをpending状態で作成
func NewPaymentTransaction(
	transactionID string,
	orderID string,
	method PaymentMethod,
	amount decimal.Decimal,
	currency string,
	providerName string,
) (*PaymentTransaction, error) {
	return ReconstructPaymentTransaction(
		transactionID,
		orderID,
		method,
		amount,
		decimal.Zero,
		currency,
		TransactionStatusPending,
		providerName,
		nil,
		nil,
		time.Now(),
		time.Now(),
	)
}

// ReconstructPaymentTransaction 永続化済みのレコードからエンティティを再構築
func ReconstructPaymentTransaction(
	transactionID string,
	orderID string,
	method PaymentMethod,
	amount decimal.Decimal,
	refundedAmount decimal.Decimal,
	currency string,
	status TransactionStatus,
	providerName string,
	providerIntentID *string,
	failureReason *string,
	createdAt time.Time,
	updatedAt time.Time,
) (*PaymentTransaction, error) {
	if !idRegex.MatchString(transactionID) {
		return nil, ErrInvalidTransactionID
	}
	if !orderIDRegex.MatchString(orderID) {
		return nil, ErrInvalidOrderID
	}
	if !method.Valid() {
		return nil, ErrInvalidTransaction
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if amount.GreaterThan(MaxAmount) {
		return nil, ErrAmountTooLarge
	}
	if refundedAmount.IsNegative() || refundedAmount.GreaterThan(amount) {
		return nil, ErrInvalidRefundAmount
	}
	if !currencyRegex.MatchString(currency) {
		return nil, ErrInvalidCurrency
	}
	if !status.Valid() {
		return nil, ErrInvalidTransaction
	}

	return &PaymentTransaction{
		transactionID:    transactionID,
		orderID:          orderID,
		method:           method,
		amount:           amount,
		refundedAmount:   refundedAmount,
		currency:         currency,
		status:           status,
		providerName:     providerName,
		providerIntentID: providerIntentID,
		failureReason:    failureReason,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

// TransactionID トランザクションIDを返す
func (t *PaymentTransaction) TransactionID() string {
	return t.transactionID
}

// OrderID 注文IDを返す
func (t *PaymentTransaction) OrderID() string {
	return t.orderID
}

// Method 決済手段を返す
func (t *PaymentTransaction) Method() PaymentMethod {
	return t.method
}

// Amount 決済金額を返す
func (t *PaymentTransaction) Amount() decimal.Decimal {
	return t.amount
}

// RefundedAmount 返金済み累計額を返す
func (t *PaymentTransaction) RefundedAmount() decimal.Decimal {
	return t.refundedAmount
}

// RefundableBalance 返金可能残高（決済金額 - 返金済み累計額）を返す
func (t *PaymentTransaction) RefundableBalance() decimal.Decimal {
	return t.amount.Sub(t.refundedAmount)
}

// Currency 通貨コードを返す
func (t *PaymentTransaction) Currency() string {
	return t.currency
}

// Status ステータスを返す
func (t *PaymentTransaction) Status() TransactionStatus {
	return t.status
}

// ProviderName 決済プロバイダ名を返す
func (t *PaymentTransaction) ProviderName() string {
	return t.providerName
}

// ProviderIntentID プロバイダ側のPaymentIntent IDを返す
func (t *PaymentTransaction) ProviderIntentID() *string {
	return t.providerIntentID
}

// FailureReason 失敗理由を返す
func (t *PaymentTransaction) FailureReason() *string {
	return t.failureReason
}

// CreatedAt 作成日時を返す
func (t *PaymentTransaction) CreatedAt() time.Time {
	return t.createdAt
}

// UpdatedAt 更新日時を返す
func (t *PaymentTransaction) UpdatedAt() time.Time {
	return t.updatedAt
}

// SetProviderIntentID プロバイダ側のPaymentIntent IDを設定
func (t *PaymentTransaction) SetProviderIntentID(id string) {
	t.providerIntentID = &id
	t.updatedAt = time.Now()
}

// TransitionTo ステータスを遷移させる
// 状態機械が許可しない遷移はErrInvalidStatusTransitionで拒否する。
func (t *PaymentTransaction) TransitionTo(status TransactionStatus) error {
	if !status.Valid() {
		return ErrInvalidTransaction
	}
	if !t.status.CanTransitionTo(status) {
		return ErrInvalidStatusTransition
	}
	t.status = status
	t.updatedAt = time.Now()
	return nil
}

// Fail トランザクションを失敗状態に遷移させ、失敗理由を記録
func (t *PaymentTransaction) Fail(reason string) error {
	if err := t.TransitionTo(TransactionStatusFailed); err != nil {
		return err
	}
	t.failureReason = &reason
	return nil
}

// ApplyRefund 返金を適用する
// 返金済み累計額を加算し、全額返金ならrefunded、一部ならpartially_refundedへ遷移する。
func (t *PaymentTransaction) ApplyRefund(amount decimal.Decimal) error {
	if !t.status.IsRefundable() {
		return ErrTransactionNotRefundable
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidRefundAmount
	}
	if amount.GreaterThan(t.RefundableBalance()) {
		return ErrRefundExceedsBalance
	}

	newRefunded := t.refundedAmount.Add(amount)
	target := TransactionStatusPartiallyRefunded
	if newRefunded.Equal(t.amount) {
		target = TransactionStatusRefunded
	}
	if err := t.TransitionTo(target); err != nil {
		return err
	}
	t.refundedAmount = newRefunded
	return nil
}

// MustNewPaymentTransaction テスト用ヘルパー: NewPaymentTransactionを呼び出し、エラーが発生した場合はpanicする
func MustNewPaymentTransaction(
	transactionID string,
	orderID string,
	method PaymentMethod,
	amount decimal.Decimal,
	currency string,
	providerName string,
) *PaymentTransaction {
	t, err := NewPaymentTransaction(transactionID, orderID, method, amount, currency, providerName)
	if err != nil {
		panic(err)
	}
	return t
}

// MustReconstructPaymentTransaction テスト用ヘルパー: ReconstructPaymentTransactionを呼び出し、エラーが発生した場合はpanicする
func MustReconstructPaymentTransaction(
	transactionID string,
	orderID string,
	method PaymentMethod,
	amount decimal.Decimal,
	refundedAmount decimal.Decimal,
	currency string,
	status TransactionStatus,
	providerName string,
	providerIntentID *string,
) *PaymentTransaction {
	t, err := ReconstructPaymentTransaction(
		transactionID,
		orderID,
		method,
		amount,
		refundedAmount,
		currency,
		status,
		providerName,
		providerIntentID,
		nil,
		time.Now(),
		time.Now(),
	)
	if err != nil {
		panic(err)
	}
	return t
}
