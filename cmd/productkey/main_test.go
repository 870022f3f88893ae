package main

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/homelist/homelist-api/internal/model"
	"github.com/homelist/homelist-api/internal/utils"
)

func fixedEnv(secret string) func(string) string {
	return func(k string) string {
		if k == "PRODUCT_KEY_SECRET" {
			return secret
		}
		return ""
	}
}

func run(t *testing.T, getenv func(string) string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(getenv)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestPrintsVerifiableKey(t *testing.T) {
	cost := strconv.Itoa(bcrypt.MinCost)
	key, err := run(t, fixedEnv("pk-secret"), "--email", "ada@example.com", "--role", "ADMIN", "--cost", cost)
	require.NoError(t, err)
	require.NotEmpty(t, key)

	assert.True(t, utils.VerifyProductKey("pk-secret", key, "ada@example.com", model.RoleAdmin))
	assert.False(t, utils.VerifyProductKey("pk-secret", key, "ada@example.com", model.RoleRealtor))
	assert.False(t, utils.VerifyProductKey("other-secret", key, "ada@example.com", model.RoleAdmin))
}

func TestDefaultsToRealtor(t *testing.T) {
	key, err := run(t, fixedEnv("pk-secret"), "--email", "rita@example.com", "--cost", strconv.Itoa(bcrypt.MinCost))
	require.NoError(t, err)
	assert.True(t, utils.VerifyProductKey("pk-secret", key, "rita@example.com", model.RoleRealtor))
}

func TestRejectsBadInput(t *testing.T) {
	_, err := run(t, fixedEnv(""), "--email", "ada@example.com")
	assert.ErrorIs(t, err, errNoSecret)

	_, err = run(t, fixedEnv("pk-secret"), "--email", "bob@example.com", "--role", "BUYER")
	assert.ErrorContains(t, err, "REALTOR or ADMIN")

	_, err = run(t, fixedEnv("pk-secret"))
	assert.Error(t, err)
}
