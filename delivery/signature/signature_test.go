package signature

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	t.Run("success - minimum size", func(t *testing.T) {
		secret, err := GenerateSecret(MinSecretBytes)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(secret.String(), SecretPrefix))
		assert.Equal(t, MinSecretBytes, len(secret.Bytes()))
	})

	t.Run("success - maximum size", func(t *testing.T) {
		secret, err := GenerateSecret(MaxSecretBytes)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(secret.String(), SecretPrefix))
		assert.Equal(t, MaxSecretBytes, len(secret.Bytes()))
	})

	t.Run("error - too small", func(t *testing.T) {
		_, err := GenerateSecret(MinSecretBytes - 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret size must be between")
	})

	t.Run("error - too large", func(t *testing.T) {
		_, err := GenerateSecret(MaxSecretBytes + 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret size must be between")
	})

	t.Run("randomness - generates different secrets", func(t *testing.T) {
		secret1, err1 := GenerateSecret(32)
		secret2, err2 := GenerateSecret(32)
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.NotEqual(t, secret1.String(), secret2.String())
	})
}

func TestParseSecret(t *testing.T) {
	t.Run("success - valid secret", func(t *testing.T) {
		original, err := GenerateSecret(32)
		require.NoError(t, err)

		parsed, err := ParseSecret(original.String())
		require.NoError(t, err)
		assert.Equal(t, original.String(), parsed.String())
		assert.Equal(t, original.Bytes(), parsed.Bytes())
	})

	t.Run("error - missing prefix", func(t *testing.T) {
		_, err := ParseSecret("dGVzdHNlY3JldA==")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must start with")
	})

	t.Run("error - invalid base64", func(t *testing.T) {
		_, err := ParseSecret(SecretPrefix + "not-valid-base64!!!")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding base64")
	})

	t.Run("error - secret too small", func(t *testing.T) {
		_, err := ParseSecret(SecretPrefix + "dGVzdA==")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret size must be between")
	})
}

func TestSign(t *testing.T) {
	secret, err := GenerateSecret(32)
	require.NoError(t, err)

	payloadID := "evt_test123"
	timestamp := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	payload := []byte(`{"type":"agent.update","timestamp":"2026-01-01T12:00:00Z","data":{"agentId":"bot-1"}}`)

	t.Run("success - creates valid signature", func(t *testing.T) {
		sig, err := Sign(secret, payloadID, timestamp, payload)
		require.NoError(t, err)
		assert.Equal(t, SignatureVersion, sig.Version)
		assert.NotEmpty(t, sig.Signature)
		assert.True(t, strings.HasPrefix(sig.String(), "v1,"))
	})

	t.Run("success - same inputs produce same signature", func(t *testing.T) {
		sig1, err1 := Sign(secret, payloadID, timestamp, payload)
		sig2, err2 := Sign(secret, payloadID, timestamp, payload)
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, sig1.String(), sig2.String())
	})

	t.Run("success - different inputs produce different signatures", func(t *testing.T) {
		sig1, err1 := Sign(secret, payloadID, timestamp, payload)
		sig2, err2 := Sign(secret, "evt_different", timestamp, payload)
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.NotEqual(t, sig1.String(), sig2.String())
	})

	t.Run("error - payload ID contains period", func(t *testing.T) {
		_, err := Sign(secret, "evt.with.periods", timestamp, payload)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not contain '.'")
	})
}

func TestVerify(t *testing.T) {
	secret, err := GenerateSecret(32)
	require.NoError(t, err)

	payloadID := "evt_test123"
	timestamp := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	payload := []byte(`{"type":"agent.update","timestamp":"2026-01-01T12:00:00Z","data":{"agentId":"bot-1"}}`)

	t.Run("success - valid signature", func(t *testing.T) {
		sig, err := Sign(secret, payloadID, timestamp, payload)
		require.NoError(t, err)

		valid, err := Verify(secret, payloadID, timestamp, payload, sig)
		require.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("failure - wrong secret", func(t *testing.T) {
		sig, err := Sign(secret, payloadID, timestamp, payload)
		require.NoError(t, err)

		wrongSecret, err := GenerateSecret(32)
		require.NoError(t, err)

		valid, err := Verify(wrongSecret, payloadID, timestamp, payload, sig)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("failure - wrong timestamp", func(t *testing.T) {
		sig, err := Sign(secret, payloadID, timestamp, payload)
		require.NoError(t, err)

		valid, err := Verify(secret, payloadID, timestamp.Add(1*time.Hour), payload, sig)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("failure - wrong payload", func(t *testing.T) {
		sig, err := Sign(secret, payloadID, timestamp, payload)
		require.NoError(t, err)

		wrongPayload := []byte(`{"type":"agent.error","timestamp":"2026-01-01T12:00:00Z","data":{"agentId":"bot-2"}}`)
		valid, err := Verify(secret, payloadID, timestamp, wrongPayload, sig)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("error - unsupported version", func(t *testing.T) {
		sig := Signature{
			Version:   "v2",
			Signature: "dGVzdA==",
		}

		_, err := Verify(secret, payloadID, timestamp, payload, sig)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported signature version")
	})
}

func TestParseSignature(t *testing.T) {
	t.Run("success - valid signature", func(t *testing.T) {
		sig, err := ParseSignature("v1,dGVzdHNpZ25hdHVyZQ==")
		require.NoError(t, err)
		assert.Equal(t, "v1", sig.Version)
		assert.Equal(t, "dGVzdHNpZ25hdHVyZQ==", sig.Signature)
	})

	t.Run("error - invalid format", func(t *testing.T) {
		_, err := ParseSignature("invalid")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid signature format")
	})

	t.Run("error - empty string", func(t *testing.T) {
		_, err := ParseSignature("")
		require.Error(t, err)
	})
}
