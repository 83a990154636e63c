package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_StatusCode(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindNetwork, http.StatusServiceUnavailable},
		{KindTimeout, http.StatusGatewayTimeout},
		{KindServer, http.StatusInternalServerError},
		{KindAuth, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindValidation, http.StatusUnprocessableEntity},
		{KindNotFound, http.StatusNotFound},
		{KindClient, http.StatusBadRequest},
		{KindUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.StatusCode())
			if tt.kind != KindUnknown {
				assert.Equal(t, tt.kind, KindFromStatus(tt.want))
			}
		})
	}
}

func TestKindFromStatus_Unknown(t *testing.T) {
	assert.Equal(t, KindUnknown, KindFromStatus(http.StatusTeapot))
}

func TestKind_Title(t *testing.T) {
	assert.Equal(t, "Sessão expirada", KindAuth.Title())
	assert.Equal(t, "Erro de validação", KindValidation.Title())
	assert.Equal(t, "Erro inesperado", Kind("other").Title())
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("loading chamados: %w", New(KindForbidden, "Forbidden"))
	assert.Equal(t, KindForbidden, KindOf(wrapped))
	assert.Equal(t, http.StatusForbidden, StatusOf(wrapped))

	assert.Equal(t, KindTimeout, KindOf(context.DeadlineExceeded))
	assert.Equal(t, KindServer, KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestAppError_Unwrap(t *testing.T) {
	base := errors.New("disk full")
	err := Wrap(KindServer, "Server Error", base)

	assert.ErrorIs(t, err, base)
	assert.Equal(t, "server: Server Error: disk full", err.Error())
}

func TestValidation_Fields(t *testing.T) {
	err := Validation(map[string]string{"titulo": "curto", "descricao": "curta"})

	appErr, ok := As(fmt.Errorf("wrap: %w", err))
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.StatusCode())
	assert.Equal(t, []string{"descricao", "titulo"}, appErr.FieldNames())
}

func TestRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("retries retryable kinds", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, 0, func(context.Context) error {
			calls++
			if calls < 3 {
				return New(KindNetwork, "Network Error")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on non retryable kinds", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 3, 0, func(context.Context) error {
			calls++
			return New(KindForbidden, "Forbidden")
		})
		assert.Equal(t, KindForbidden, KindOf(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("returns last error", func(t *testing.T) {
		calls := 0
		err := Retry(ctx, 2, 0, func(context.Context) error {
			calls++
			return New(KindTimeout, "Timeout Error")
		})
		assert.Equal(t, KindTimeout, KindOf(err))
		assert.Equal(t, 2, calls)
	})
}
