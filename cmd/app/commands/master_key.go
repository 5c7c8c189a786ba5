package commands

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"time"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
)

// generateMasterKey returns a random 32-byte key encoded as standard base64.
// The raw key is zeroed before returning.
func generateMasterKey() (string, error) {
	masterKey := make([]byte, 32)
	defer cryptoDomain.Zero(masterKey)

	if _, err := rand.Read(masterKey); err != nil {
		return "", fmt.Errorf("failed to generate master key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(masterKey), nil
}

// defaultMasterKeyID names a key after the current date.
func defaultMasterKeyID() string {
	return fmt.Sprintf("master-key-%s", time.Now().UTC().Format("2006-01-02"))
}

// RunCreateMasterKey generates a master key for the software crypto plugin and
// prints the MASTER_KEYS and ACTIVE_MASTER_KEY_ID settings that load it.
// An empty keyID defaults to "master-key-YYYY-MM-DD".
func RunCreateMasterKey(logger *slog.Logger, writer io.Writer, keyID string) error {
	if keyID == "" {
		keyID = defaultMasterKeyID()
	}

	encodedKey, err := generateMasterKey()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(writer, "# Master Key Configuration")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "MASTER_KEYS=\"%s:%s\"\n", keyID, encodedKey)
	_, _ = fmt.Fprintf(writer, "ACTIVE_MASTER_KEY_ID=\"%s\"\n", keyID)

	logger.Info("master key generated", slog.String("master_key_id", keyID))
	return nil
}

// RunRotateMasterKey generates a new master key and appends it to the existing
// MASTER_KEYS as the new active key. Older keys stay listed so KEKs bound under
// them can still be unwrapped.
func RunRotateMasterKey(
	logger *slog.Logger,
	writer io.Writer,
	keyID, existingMasterKeys, existingActiveKeyID string,
) error {
	existing, err := cryptoDomain.NewMasterKeyChain(existingMasterKeys, existingActiveKeyID)
	if err != nil {
		return fmt.Errorf("invalid existing master key configuration: %w", err)
	}
	defer existing.Close()

	if keyID == "" {
		keyID = defaultMasterKeyID()
	}
	if _, found := existing.Get(keyID); found {
		return fmt.Errorf("master key %q already exists", keyID)
	}

	encodedKey, err := generateMasterKey()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(writer, "# Master Key Rotation")
	_, _ = fmt.Fprintln(writer, "# Update these environment variables in your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "MASTER_KEYS=\"%s,%s:%s\"\n", existingMasterKeys, keyID, encodedKey)
	_, _ = fmt.Fprintf(writer, "ACTIVE_MASTER_KEY_ID=\"%s\"\n", keyID)
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer,
		"# Keep %q listed until no project KEK references it.\n",
		existingActiveKeyID,
	)

	logger.Info("master key rotated",
		slog.String("previous_master_key_id", existingActiveKeyID),
		slog.String("master_key_id", keyID),
	)
	return nil
}
