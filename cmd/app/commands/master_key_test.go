package commands

import (
	"bytes"
	"encoding/base64"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
)

// envValue returns the quoted value assigned to name in command output.
func envValue(t *testing.T, output, name string) string {
	t.Helper()
	for line := range strings.SplitSeq(output, "\n") {
		if value, ok := strings.CutPrefix(line, name+"=\""); ok {
			return strings.TrimSuffix(value, "\"")
		}
	}
	t.Fatalf("%s not found in output:\n%s", name, output)
	return ""
}

func TestRunCreateMasterKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("success", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateMasterKey(logger, &out, "test-key")
		require.NoError(t, err)

		masterKeys := envValue(t, out.String(), "MASTER_KEYS")
		activeID := envValue(t, out.String(), "ACTIVE_MASTER_KEY_ID")
		assert.Equal(t, "test-key", activeID)
		assert.True(t, strings.HasPrefix(masterKeys, "test-key:"))

		mkc, err := cryptoDomain.NewMasterKeyChain(masterKeys, activeID)
		require.NoError(t, err)
		defer mkc.Close()

		mk, err := mkc.Active()
		require.NoError(t, err)
		assert.Len(t, mk.Key, 32)
	})

	t.Run("default-id", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateMasterKey(logger, &out, "")
		require.NoError(t, err)

		activeID := envValue(t, out.String(), "ACTIVE_MASTER_KEY_ID")
		assert.True(t, strings.HasPrefix(activeID, "master-key-"))
	})
}

func TestRunRotateMasterKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	existing := "old-key:" + base64.StdEncoding.EncodeToString(make([]byte, 32))

	t.Run("success", func(t *testing.T) {
		var out bytes.Buffer
		err := RunRotateMasterKey(logger, &out, "new-key", existing, "old-key")
		require.NoError(t, err)

		masterKeys := envValue(t, out.String(), "MASTER_KEYS")
		activeID := envValue(t, out.String(), "ACTIVE_MASTER_KEY_ID")
		assert.Equal(t, "new-key", activeID)
		assert.True(t, strings.HasPrefix(masterKeys, existing+",new-key:"))

		mkc, err := cryptoDomain.NewMasterKeyChain(masterKeys, activeID)
		require.NoError(t, err)
		defer mkc.Close()

		_, found := mkc.Get("old-key")
		assert.True(t, found)
	})

	t.Run("missing-existing-keys", func(t *testing.T) {
		err := RunRotateMasterKey(logger, io.Discard, "new-key", "", "old-key")
		require.Error(t, err)
		assert.ErrorIs(t, err, cryptoDomain.ErrMasterKeysNotSet)
	})

	t.Run("invalid-active-id", func(t *testing.T) {
		err := RunRotateMasterKey(logger, io.Discard, "new-key", existing, "missing")
		require.Error(t, err)
		assert.ErrorIs(t, err, cryptoDomain.ErrActiveMasterKeyNotFound)
	})

	t.Run("duplicate-id", func(t *testing.T) {
		err := RunRotateMasterKey(logger, io.Discard, "old-key", existing, "old-key")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `master key "old-key" already exists`)
	})
}
