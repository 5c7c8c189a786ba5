package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	cryptoUseCase "github.com/chadlung/barbican/internal/crypto/usecase"
	secretsUseCase "github.com/chadlung/barbican/internal/secrets/usecase"
)

// PluginLister reports the configured crypto plugins in priority order.
type PluginLister interface {
	Plugins() []string
}

// RunListPlugins prints the enabled crypto plugins in the order writes try them.
func RunListPlugins(lister PluginLister, writer io.Writer, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	plugins := lister.Plugins()
	if format == FormatJSON {
		return outputJSON(map[string][]string{"plugins": plugins}, writer)
	}

	for i, name := range plugins {
		_, _ = fmt.Fprintf(writer, "%d. %s\n", i+1, name)
	}
	return nil
}

// RunBindKek binds the project's KEK for pluginName ahead of the first write.
// Running it against an already bound KEK reports the existing binding.
func RunBindKek(
	ctx context.Context,
	tenantRepo secretsUseCase.TenantRepository,
	plugins secretsUseCase.PluginSelector,
	kekUseCase cryptoUseCase.KekUseCase,
	logger *slog.Logger,
	writer io.Writer,
	projectID, pluginName, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	plugin, err := plugins.Retrieve(pluginName)
	if err != nil {
		return err
	}

	tenant, err := tenantRepo.FindOrCreate(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to resolve project: %w", err)
	}

	kek, _, err := kekUseCase.FindOrCreate(ctx, plugin, tenant)
	if err != nil {
		return fmt.Errorf("failed to bind KEK: %w", err)
	}

	if format == FormatJSON {
		if err := outputJSON(map[string]any{
			"kek_id":      kek.ID.String(),
			"plugin_name": kek.PluginName,
			"kek_label":   kek.KEKLabel,
			"algorithm":   kek.Algorithm,
			"bit_length":  kek.BitLength,
			"bound":       kek.BindCompleted,
		}, writer); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "KEK ID: %s\n", kek.ID.String())
		_, _ = fmt.Fprintf(writer, "Plugin: %s\n", kek.PluginName)
		_, _ = fmt.Fprintf(writer, "Label: %s\n", kek.KEKLabel)
		_, _ = fmt.Fprintf(writer, "Bound: %t\n", kek.BindCompleted)
	}

	logger.Info("kek bound",
		slog.String("project_id", projectID),
		slog.String("plugin_name", kek.PluginName),
		slog.String("kek_id", kek.ID.String()),
	)
	return nil
}
