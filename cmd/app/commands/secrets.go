package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
	secretsUseCase "github.com/chadlung/barbican/internal/secrets/usecase"
)

// StoreSecretParams holds the store-secret flags.
type StoreSecretParams struct {
	ProjectID   string
	Name        string
	Payload     string
	ContentType string
	Algorithm   string
	BitLength   int
	Mode        string
	Format      string
}

// RunStoreSecret encrypts a base64 payload for a project and prints the new secret id.
func RunStoreSecret(
	ctx context.Context,
	secretUseCase secretsUseCase.SecretUseCase,
	logger *slog.Logger,
	writer io.Writer,
	params StoreSecretParams,
) error {
	if err := validateFormat(params.Format); err != nil {
		return err
	}

	payload, err := base64.StdEncoding.DecodeString(params.Payload)
	if err != nil {
		return fmt.Errorf("payload must be valid base64: %w", err)
	}
	defer cryptoDomain.Zero(payload)

	secret, err := secretUseCase.Store(ctx, params.ProjectID, secretsDomain.StoreSecretInput{
		Name:        params.Name,
		Algorithm:   params.Algorithm,
		BitLength:   params.BitLength,
		Mode:        params.Mode,
		Payload:     payload,
		ContentType: params.ContentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store secret: %w", err)
	}

	if params.Format == FormatJSON {
		if err := outputJSON(map[string]string{"secret_id": secret.ID.String()}, writer); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Secret ID: %s\n", secret.ID.String())
	}

	logger.Info("secret stored",
		slog.String("project_id", params.ProjectID),
		slog.String("secret_id", secret.ID.String()),
	)
	return nil
}

// RunGetSecret decrypts a project's secret and prints its payload as base64.
func RunGetSecret(
	ctx context.Context,
	secretUseCase secretsUseCase.SecretUseCase,
	logger *slog.Logger,
	writer io.Writer,
	projectID, secretIDStr, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	secretID, err := uuid.Parse(secretIDStr)
	if err != nil {
		return fmt.Errorf("invalid secret id: %w", err)
	}

	secretDTO, err := secretUseCase.Get(ctx, projectID, secretID)
	if err != nil {
		return fmt.Errorf("failed to get secret: %w", err)
	}
	defer cryptoDomain.Zero(secretDTO.Secret)

	payload := base64.StdEncoding.EncodeToString(secretDTO.Secret)

	if format == FormatJSON {
		if err := outputJSON(map[string]any{
			"secret_id":    secretID.String(),
			"type":         string(secretDTO.Type),
			"content_type": secretDTO.ContentType,
			"algorithm":    secretDTO.KeySpec.Algorithm,
			"bit_length":   secretDTO.KeySpec.BitLength,
			"payload":      payload,
		}, writer); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Secret ID: %s\n", secretID.String())
		_, _ = fmt.Fprintf(writer, "Type: %s\n", secretDTO.Type)
		_, _ = fmt.Fprintf(writer, "Content-Type: %s\n", secretDTO.ContentType)
		_, _ = fmt.Fprintf(writer, "Payload: %s\n", payload)
	}

	logger.Info("secret retrieved",
		slog.String("project_id", projectID),
		slog.String("secret_id", secretID.String()),
	)
	return nil
}

// GenerateKeyParams holds the generate-key flags.
type GenerateKeyParams struct {
	ProjectID  string
	Name       string
	Type       string
	Algorithm  string
	BitLength  int
	Mode       string
	Passphrase string
	Format     string
}

// RunGenerateKey generates a symmetric key or an asymmetric key pair for a
// project and prints the ids of the stored secrets.
func RunGenerateKey(
	ctx context.Context,
	secretUseCase secretsUseCase.SecretUseCase,
	logger *slog.Logger,
	writer io.Writer,
	params GenerateKeyParams,
) error {
	if err := validateFormat(params.Format); err != nil {
		return err
	}

	supportType, err := cryptoDomain.DetermineGenerationType(params.Algorithm)
	if err != nil {
		return err
	}

	keySpec := cryptoDomain.NewKeySpec(params.Algorithm, params.BitLength, params.Mode)
	keySpec.Passphrase = params.Passphrase

	ids := make(map[string]string)
	switch params.Type {
	case "key":
		if supportType != cryptoDomain.SymmetricKeyGeneration {
			return fmt.Errorf("algorithm %s does not produce a symmetric key", params.Algorithm)
		}
		if params.Passphrase != "" {
			return fmt.Errorf("passphrase is only allowed for asymmetric keys")
		}
		meta, err := secretUseCase.GenerateSymmetricKey(ctx, params.ProjectID, params.Name, keySpec)
		if err != nil {
			return fmt.Errorf("failed to generate key: %w", err)
		}
		ids["secret_id"] = meta.SecretID.String()
	case "asymmetric":
		if supportType != cryptoDomain.AsymmetricKeyGeneration {
			return fmt.Errorf("algorithm %s does not produce a key pair", params.Algorithm)
		}
		meta, err := secretUseCase.GenerateAsymmetricKey(ctx, params.ProjectID, params.Name, keySpec)
		if err != nil {
			return fmt.Errorf("failed to generate key pair: %w", err)
		}
		ids["private_key_id"] = meta.PrivateKey.SecretID.String()
		ids["public_key_id"] = meta.PublicKey.SecretID.String()
		if meta.Passphrase != nil {
			ids["passphrase_id"] = meta.Passphrase.SecretID.String()
		}
	default:
		return fmt.Errorf("invalid type: %s (valid options: key, asymmetric)", params.Type)
	}

	if params.Format == FormatJSON {
		if err := outputJSON(ids, writer); err != nil {
			return err
		}
	} else {
		for _, label := range []string{"secret_id", "private_key_id", "public_key_id", "passphrase_id"} {
			if id, ok := ids[label]; ok {
				_, _ = fmt.Fprintf(writer, "%s: %s\n", label, id)
			}
		}
	}

	logger.Info("key generated",
		slog.String("project_id", params.ProjectID),
		slog.String("type", params.Type),
		slog.String("algorithm", params.Algorithm),
	)
	return nil
}
