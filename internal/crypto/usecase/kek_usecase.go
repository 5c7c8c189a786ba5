package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	cryptoService "github.com/chadlung/barbican/internal/crypto/service"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
)

type kekUseCase struct {
	kekRepo KekRepository
	logger  *slog.Logger
}

// FindOrCreate fetches or creates the KEK record and binds it when needed.
//
// Binding is not serialized: two first-use requests can both see an unbound
// record and both call the plugin. The last Save wins.
func (k *kekUseCase) FindOrCreate(
	ctx context.Context,
	plugin cryptoService.Plugin,
	tenant *secretsDomain.Tenant,
) (*cryptoDomain.KEKDatum, cryptoDomain.KEKMeta, error) {
	now := time.Now().UTC()
	candidate := &cryptoDomain.KEKDatum{
		ID:         uuid.Must(uuid.NewV7()),
		TenantID:   tenant.ID,
		PluginName: plugin.Name(),
		KEKLabel:   NewKEKLabel(tenant.ExternalID),
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	kek, err := k.kekRepo.FindOrCreate(ctx, candidate)
	if err != nil {
		return nil, cryptoDomain.KEKMeta{}, err
	}

	if kek.BindCompleted {
		return kek, cryptoDomain.NewKEKMeta(kek), nil
	}

	k.logger.DebugContext(ctx, "binding kek",
		slog.String("plugin", kek.PluginName),
		slog.String("kek_label", kek.KEKLabel),
	)

	bound, err := plugin.BindKEKMetadata(ctx, cryptoDomain.NewKEKMeta(kek))
	if err != nil {
		return nil, cryptoDomain.KEKMeta{}, err
	}
	if bound == nil {
		return nil, cryptoDomain.KEKMeta{}, fmt.Errorf(
			"%w: plugin %q, project %q",
			cryptoDomain.ErrKEKBinding,
			kek.PluginName,
			tenant.ExternalID,
		)
	}

	kek.Bind(*bound)
	if err := k.kekRepo.Save(ctx, kek); err != nil {
		return nil, cryptoDomain.KEKMeta{}, err
	}

	return kek, *bound, nil
}

// Get returns the KEK record with id.
func (k *kekUseCase) Get(ctx context.Context, id uuid.UUID) (*cryptoDomain.KEKDatum, error) {
	return k.kekRepo.Get(ctx, id)
}

// NewKEKLabel builds the label given to a project's new KEK.
func NewKEKLabel(projectID string) string {
	return fmt.Sprintf("project-%s-key-%s", projectID, uuid.New())
}

// NewKekUseCase creates a KekUseCase.
func NewKekUseCase(kekRepo KekRepository, logger *slog.Logger) KekUseCase {
	return &kekUseCase{
		kekRepo: kekRepo,
		logger:  logger,
	}
}
