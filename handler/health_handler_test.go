package handler

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"go-bank-ledger/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	openTestAccount(t, env, 1)

	t.Run("healthy", func(t *testing.T) {
		h := NewHealthHandler(env.accounts, env.transactions,
			HealthCheck{Name: "storage", Check: func(context.Context) error { return nil }})
		var out bytes.Buffer

		appErr := h.Health(&out, NewCommand(context.Background(), "health", nil, "", ""))

		require.Nil(t, appErr)
		assert.Equal(t, "storage: ok\naccounts: 1\ntransactions: 1\nstatus: ok\n", out.String())
	})

	t.Run("failing check", func(t *testing.T) {
		h := NewHealthHandler(nil, nil,
			HealthCheck{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }})
		var out bytes.Buffer

		appErr := h.Health(&out, NewCommand(context.Background(), "health", nil, "", ""))

		require.NotNil(t, appErr)
		assert.Equal(t, common.CodeInternal, appErr.Code)
		assert.Contains(t, out.String(), "redis: unavailable")
	})
}
