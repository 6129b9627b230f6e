package provider

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "正常系: コードあり",
			err:  NewError("stripe", "card_declined", "Your card was declined.", true),
			want: "stripe: Your card was declined. (card_declined)",
		},
		{
			name: "正常系: コードなし",
			err:  NewError("stripe", "", "connection reset", false),
			want: "stripe: connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAsProviderError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "正常系: プロバイダエラー",
			err:  NewError("stripe", "card_declined", "declined", true),
			want: true,
		},
		{
			name: "正常系: ラップされたプロバイダエラー",
			err:  fmt.Errorf("confirm failed: %w", NewError("stripe", "expired_card", "expired", true)),
			want: true,
		},
		{
			name: "正常系: 無関係なエラー",
			err:  errors.New("something else"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe, ok := AsProviderError(tt.err)
			assert.Equal(t, tt.want, ok)
			if tt.want {
				require.NotNil(t, pe)
				assert.Equal(t, "stripe", pe.Provider)
			}
		})
	}
}
