package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager(t *testing.T) {
	m := NewTokenManager("secret", "garage-idp", "garage-api")

	token, err := m.Issue("user-42", time.Hour)
	require.NoError(t, err)

	subject, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-42", subject)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenManager("other", "garage-idp", "garage-api").Verify(token)
		assert.Error(t, err)
	})

	t.Run("wrong audience", func(t *testing.T) {
		_, err := NewTokenManager("secret", "garage-idp", "someone-else").Verify(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		old, err := m.Issue("user-42", -time.Minute)
		require.NoError(t, err)
		_, err = m.Verify(old)
		assert.Error(t, err)
	})

	t.Run("empty subject", func(t *testing.T) {
		anon, err := m.Issue("", time.Hour)
		require.NoError(t, err)
		_, err = m.Verify(anon)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestGenerateInvoiceNo(t *testing.T) {
	no := GenerateInvoiceNo(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))

	assert.Regexp(t, regexp.MustCompile(`^INV-20260314-[0-9A-F]{8}$`), no)
	assert.NotEqual(t, no, GenerateInvoiceNo(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)))
}
