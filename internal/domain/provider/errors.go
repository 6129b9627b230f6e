package provider

import (
	"errors"
	"fmt"
)

// Error 決済プロバイダ起因のエラー
// バリデーションエラーと区別してHTTPレイヤーが適切なステータスコード
// （カード拒否は402相当、通信障害は502相当）を選べるようにする。
type Error struct {
	Provider string // プロバイダ名
	Code     string // プロバイダ固有のエラーコード
	Message  string // 人間可読な理由
	Declined bool   // ビジネス上の拒否（カード拒否・残高不足等）かどうか
}

// Error errorインターフェースの実装
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// NewError 新しいプロバイダエラーを作成
func NewError(providerName, code, message string, declined bool) *Error {
	return &Error{
		Provider: providerName,
		Code:     code,
		Message:  message,
		Declined: declined,
	}
}

// AsProviderError errがプロバイダエラーの場合に取り出す
func AsProviderError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
