package transaction

import (
	"fmt"
)

// TransactionStatus 決済トランザクションステータスを表す値オブジェクト
type TransactionStatus string

const (
	TransactionStatusPending           TransactionStatus = "pending"            // 決済待ち
	TransactionStatusRequiresAction    TransactionStatus = "requires_action"    // 追加認証待ち（3Dセキュア等）
	TransactionStatusSucceeded         TransactionStatus = "succeeded"          // 決済成功
	TransactionStatusFailed            TransactionStatus = "failed"             // 決済失敗
	TransactionStatusRefunded          TransactionStatus = "refunded"           // 全額返金済み
	TransactionStatusPartiallyRefunded TransactionStatus = "partially_refunded" // 一部返金済み
)

// NewTransactionStatus 新しいTransactionStatusを作成
func NewTransactionStatus(s string) (TransactionStatus, error) {
	switch s {
	case "pending", "requires_action", "succeeded", "failed", "refunded", "partially_refunded":
		return TransactionStatus(s), nil
	default:
		return "", fmt.Errorf("invalid transaction status: %s", s)
	}
}

// String 文字列表現を返す
func (ts TransactionStatus) String() string {
	return string(ts)
}

// Valid 有効なトランザクションステータスかどうかを返す
func (ts TransactionStatus) Valid() bool {
	switch ts {
	case TransactionStatusPending,
		TransactionStatusRequiresAction,
		TransactionStatusSucceeded,
		TransactionStatusFailed,
		TransactionStatusRefunded,
		TransactionStatusPartiallyRefunded:
		return true
	default:
		return false
	}
}

// CanTransitionTo 指定ステータスへ遷移可能かどうかを返す
// ステータスは前方向にのみ遷移する:
//
//	pending            → requires_action | succeeded | failed
//	requires_action    → succeeded | failed
//	succeeded          → refunded | partially_refunded
//	partially_refunded → refunded | partially_refunded
func (ts TransactionStatus) CanTransitionTo(target TransactionStatus) bool {
	switch ts {
	case TransactionStatusPending:
		return target == TransactionStatusRequiresAction ||
			target == TransactionStatusSucceeded ||
			target == TransactionStatusFailed
	case TransactionStatusRequiresAction:
		return target == TransactionStatusSucceeded ||
			target == TransactionStatusFailed
	case TransactionStatusSucceeded:
		return target == TransactionStatusRefunded ||
			target == TransactionStatusPartiallyRefunded
	case TransactionStatusPartiallyRefunded:
		return target == TransactionStatusRefunded ||
			target == TransactionStatusPartiallyRefunded
	default:
		// failed / refunded は終端状態
		return false
	}
}

// IsTerminal 終端状態かどうかを返す
func (ts TransactionStatus) IsTerminal() bool {
	return ts == TransactionStatusFailed || ts == TransactionStatusRefunded
}

// IsSucceeded 決済成功状態かどうかを返す
func (ts TransactionStatus) IsSucceeded() bool {
	return ts == TransactionStatusSucceeded
}

// IsRefundable 返金可能な状態かどうかを返す
func (ts TransactionStatus) IsRefundable() bool {
	return ts == TransactionStatusSucceeded || ts == TransactionStatusPartiallyRefunded
}

// IsSettling プロバイダ側の結果待ち状態かどうかを返す
func (ts TransactionStatus) IsSettling() bool {
	return ts == TransactionStatusPending || ts == TransactionStatusRequiresAction
}
