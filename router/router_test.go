package router_test

import (
	"bytes"
	"context"
	"os"
	"regexp"
	"strings"
	"testing"

	"go-bank-ledger/app"
	"go-bank-ledger/common"
	"go-bank-ledger/logger"
	"go-bank-ledger/repository"
	"go-bank-ledger/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	logger.SetLevel("panic")
	os.Exit(m.Run())
}

var accountNumberPattern = regexp.MustCompile(`Account Number: (ACC\d+)`)

// dispatch runs one command line against testApp.
func dispatch(t *testing.T, testApp *app.App, args ...string) (int, string, string) {
	t.Helper()
	inv, err := router.ParseArgs(args)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	code := testApp.Router.Dispatch(context.Background(), &stdout, &stderr, inv)
	return code, stdout.String(), stderr.String()
}

func openAccountForTest(t *testing.T, testApp *app.App, phone, email, deposit string) string {
	t.Helper()
	code, out, _ := dispatch(t, testApp, "open",
		"--name", "Neha Singh", "--phone", phone, "--email", email,
		"--address", "7 Civil Lines, Jaipur", "--deposit", deposit, "--pin", "1234")
	require.Equal(t, 0, code)

	m := accountNumberPattern.FindStringSubmatch(out)
	require.Len(t, m, 2)
	return m[1]
}

func TestParseArgs(t *testing.T) {
	t.Run("global flags before the command", func(t *testing.T) {
		inv, err := router.ParseArgs([]string{"--config", "/etc/ledger", "--account", "ACC1", "--pin", "1234", "Deposit", "--amount", "10"})

		require.NoError(t, err)
		assert.Equal(t, "/etc/ledger", inv.ConfigPath)
		assert.Equal(t, "ACC1", inv.Account)
		assert.Equal(t, "1234", inv.Pin)
		assert.Equal(t, "deposit", inv.Command)
		assert.Equal(t, []string{"--amount", "10"}, inv.Args)
	})

	t.Run("defaults", func(t *testing.T) {
		inv, err := router.ParseArgs([]string{"health"})

		require.NoError(t, err)
		assert.Equal(t, ".", inv.ConfigPath)
		assert.Empty(t, inv.Args)
	})

	for _, args := range [][]string{nil, {"help"}, {"-h"}} {
		_, err := router.ParseArgs(args)
		assert.ErrorIs(t, err, router.ErrHelp)
	}

	_, err := router.ParseArgs([]string{"--bogus", "health"})
	assert.Error(t, err)
}

func TestHealth_Integration(t *testing.T) {
	testApp := app.NewTestApp(repository.NewFileBlobStore(t.TempDir()))

	code, out, _ := dispatch(t, testApp, "health")

	assert.Equal(t, 0, code)
	assert.Equal(t, "accounts: 0\ntransactions: 0\nstatus: ok\n", out)
}

func TestUnknownCommand(t *testing.T) {
	testApp := app.NewTestApp(repository.NewFileBlobStore(t.TempDir()))

	code, _, errOut := dispatch(t, testApp, "close-account")

	assert.Equal(t, common.CodeUnknownCommand, code)
	assert.True(t, strings.HasPrefix(errOut, "Unknown command: close-account"))
	assert.Contains(t, errOut, "change-pin")
}

func TestAuthRequired_Integration(t *testing.T) {
	testApp := app.NewTestApp(repository.NewFileBlobStore(t.TempDir()))
	acc := openAccountForTest(t, testApp, "9811122233", "neha@example.com", "1000")

	for _, cmd := range []string{"login", "balance", "deposit", "withdraw", "transfer", "change-pin", "history", "summary", "export"} {
		t.Run(cmd, func(t *testing.T) {
			code, out, errOut := dispatch(t, testApp, "--account", acc, "--pin", "0000", cmd)
			assert.Equal(t, common.CodeUnauthorized, code)
			assert.Empty(t, out)
			assert.Contains(t, errOut, "invalid account number or PIN")
		})
	}
}

func TestLedgerFlow_Integration(t *testing.T) {
	dir := t.TempDir()
	testApp := app.NewTestApp(repository.NewFileBlobStore(dir))

	a := openAccountForTest(t, testApp, "9811122233", "neha@example.com", "1000")
	b := openAccountForTest(t, testApp, "9811122234", "neha.b@example.com", "1000")

	code, _, errOut := dispatch(t, testApp, "--account", a, "--pin", "1234", "withdraw", "--amount", "950")
	assert.Equal(t, common.CodeRuleViolation, code)
	assert.Contains(t, errOut, "insufficient funds")

	code, out, _ := dispatch(t, testApp, "--account", a, "--pin", "1234", "withdraw", "--amount", "900")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "New balance: 100.00")

	code, _, _ = dispatch(t, testApp, "--account", a, "--pin", "1234", "deposit", "--amount", "50")
	require.Equal(t, 0, code)

	code, _, _ = dispatch(t, testApp, "--account", a, "--pin", "1234", "transfer", "--to", b, "--amount", "150")
	assert.Equal(t, common.CodeRuleViolation, code)

	code, out, _ = dispatch(t, testApp, "--account", a, "--pin", "1234", "transfer", "--to", b, "--amount", "50")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "New balance: 100.00")

	code, out, _ = dispatch(t, testApp, "--account", b, "--pin", "1234", "balance")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Current Balance: 1050.00")

	t.Run("state survives a restart", func(t *testing.T) {
		restarted := app.NewTestApp(repository.NewFileBlobStore(dir))

		code, out, _ := dispatch(t, restarted, "--account", a, "--pin", "1234", "summary")
		require.Equal(t, 0, code)
		assert.Contains(t, out, "Current Balance: 100.00")
		assert.Contains(t, out, "Total Deposited: 1050.00")
		assert.Contains(t, out, "Total Withdrawn: 950.00")
		assert.Contains(t, out, "Transactions:    4")
	})
}
