package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	serviceMocks "github.com/chadlung/barbican/internal/crypto/service/mocks"
	usecaseMocks "github.com/chadlung/barbican/internal/crypto/usecase/mocks"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTenant() *secretsDomain.Tenant {
	return &secretsDomain.Tenant{ID: uuid.Must(uuid.NewV7()), ExternalID: "project1"}
}

func TestKekUseCase_FindOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_AlreadyBound", func(t *testing.T) {
		kekRepo := &usecaseMocks.MockKekRepository{}
		plugin := &serviceMocks.MockPlugin{}
		tenant := newTestTenant()

		stored := &cryptoDomain.KEKDatum{
			ID:            uuid.Must(uuid.NewV7()),
			TenantID:      tenant.ID,
			PluginName:    "software",
			KEKLabel:      "project-project1-key-existing",
			Algorithm:     "aes",
			BitLength:     256,
			Mode:          "gcm",
			PluginMeta:    "meta",
			BindCompleted: true,
			Active:        true,
		}

		plugin.On("Name").Return("software")
		kekRepo.On("FindOrCreate", ctx, mock.AnythingOfType("*domain.KEKDatum")).Return(stored, nil).Once()

		uc := NewKekUseCase(kekRepo, newTestLogger())
		kek, meta, err := uc.FindOrCreate(ctx, plugin, tenant)

		require.NoError(t, err)
		assert.Same(t, stored, kek)
		assert.Equal(t, cryptoDomain.NewKEKMeta(stored), meta)
		plugin.AssertNotCalled(t, "BindKEKMetadata", mock.Anything, mock.Anything)
		kekRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		kekRepo.AssertExpectations(t)
	})

	t.Run("Success_BindsNewKek", func(t *testing.T) {
		kekRepo := &usecaseMocks.MockKekRepository{}
		plugin := &serviceMocks.MockPlugin{}
		tenant := newTestTenant()

		var created *cryptoDomain.KEKDatum
		plugin.On("Name").Return("software")
		kekRepo.On("FindOrCreate", ctx, mock.MatchedBy(func(kek *cryptoDomain.KEKDatum) bool {
			return kek.TenantID == tenant.ID && kek.PluginName == "software" && !kek.BindCompleted
		})).Run(func(args mock.Arguments) {
			created = args.Get(1).(*cryptoDomain.KEKDatum)
		}).Return(func(_ context.Context, kek *cryptoDomain.KEKDatum) *cryptoDomain.KEKDatum {
			return kek
		}, nil).Once()

		bound := &cryptoDomain.KEKMeta{
			PluginName:    "software",
			Algorithm:     "aes",
			BitLength:     256,
			Mode:          "gcm",
			PluginMeta:    `{"master_key_id":"key1"}`,
			BindCompleted: true,
		}
		plugin.On("BindKEKMetadata", ctx, mock.MatchedBy(func(meta cryptoDomain.KEKMeta) bool {
			return !meta.BindCompleted && meta.PluginName == "software"
		})).Return(bound, nil).Once()
		kekRepo.On("Save", ctx, mock.MatchedBy(func(kek *cryptoDomain.KEKDatum) bool {
			return kek.BindCompleted
		})).Return(nil).Once()

		uc := NewKekUseCase(kekRepo, newTestLogger())
		kek, meta, err := uc.FindOrCreate(ctx, plugin, tenant)

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Same(t, created, kek)
		assert.True(t, kek.BindCompleted)
		assert.Equal(t, "aes", kek.Algorithm)
		assert.Equal(t, 256, kek.BitLength)
		assert.Equal(t, "gcm", kek.Mode)
		assert.Equal(t, `{"master_key_id":"key1"}`, kek.PluginMeta)
		assert.Equal(t, *bound, meta)
		assert.Regexp(t, regexp.MustCompile(`^project-project1-key-[0-9a-f-]{36}$`), kek.KEKLabel)
		plugin.AssertNumberOfCalls(t, "BindKEKMetadata", 1)
		kekRepo.AssertExpectations(t)
	})

	t.Run("Error_PluginRefusesToBind", func(t *testing.T) {
		kekRepo := &usecaseMocks.MockKekRepository{}
		plugin := &serviceMocks.MockPlugin{}
		tenant := newTestTenant()
		unbound := &cryptoDomain.KEKDatum{ID: uuid.Must(uuid.NewV7()), TenantID: tenant.ID, PluginName: "kms"}

		plugin.On("Name").Return("kms")
		kekRepo.On("FindOrCreate", ctx, mock.Anything).Return(unbound, nil).Once()
		plugin.On("BindKEKMetadata", ctx, mock.Anything).Return(nil, nil).Once()

		uc := NewKekUseCase(kekRepo, newTestLogger())
		kek, _, err := uc.FindOrCreate(ctx, plugin, tenant)

		assert.ErrorIs(t, err, cryptoDomain.ErrKEKBinding)
		assert.Nil(t, kek)
		assert.False(t, unbound.BindCompleted)
		kekRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Error_PluginBindFailurePropagates", func(t *testing.T) {
		kekRepo := &usecaseMocks.MockKekRepository{}
		plugin := &serviceMocks.MockPlugin{}
		bindErr := errors.New("hsm offline")
		unbound := &cryptoDomain.KEKDatum{ID: uuid.Must(uuid.NewV7()), PluginName: "software"}

		plugin.On("Name").Return("software")
		kekRepo.On("FindOrCreate", ctx, mock.Anything).Return(unbound, nil).Once()
		plugin.On("BindKEKMetadata", ctx, mock.Anything).Return(nil, bindErr).Once()

		uc := NewKekUseCase(kekRepo, newTestLogger())
		_, _, err := uc.FindOrCreate(ctx, plugin, newTestTenant())

		assert.Equal(t, bindErr, err)
		assert.False(t, unbound.BindCompleted)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		kekRepo := &usecaseMocks.MockKekRepository{}
		plugin := &serviceMocks.MockPlugin{}
		repoErr := errors.New("connection refused")

		plugin.On("Name").Return("software")
		kekRepo.On("FindOrCreate", ctx, mock.Anything).Return(nil, repoErr).Once()

		uc := NewKekUseCase(kekRepo, newTestLogger())
		_, _, err := uc.FindOrCreate(ctx, plugin, newTestTenant())

		assert.Equal(t, repoErr, err)
		plugin.AssertNotCalled(t, "BindKEKMetadata", mock.Anything, mock.Anything)
	})

	t.Run("Error_SaveFailure", func(t *testing.T) {
		kekRepo := &usecaseMocks.MockKekRepository{}
		plugin := &serviceMocks.MockPlugin{}
		saveErr := errors.New("deadlock")
		unbound := &cryptoDomain.KEKDatum{ID: uuid.Must(uuid.NewV7()), PluginName: "software"}

		plugin.On("Name").Return("software")
		kekRepo.On("FindOrCreate", ctx, mock.Anything).Return(unbound, nil).Once()
		plugin.On("BindKEKMetadata", ctx, mock.Anything).
			Return(&cryptoDomain.KEKMeta{BindCompleted: true}, nil).Once()
		kekRepo.On("Save", ctx, unbound).Return(saveErr).Once()

		uc := NewKekUseCase(kekRepo, newTestLogger())
		_, _, err := uc.FindOrCreate(ctx, plugin, newTestTenant())

		assert.Equal(t, saveErr, err)
	})
}

func TestKekUseCase_Get(t *testing.T) {
	ctx := context.Background()
	kekRepo := &usecaseMocks.MockKekRepository{}
	id := uuid.Must(uuid.NewV7())
	kek := &cryptoDomain.KEKDatum{ID: id}

	kekRepo.On("Get", ctx, id).Return(kek, nil).Once()

	uc := NewKekUseCase(kekRepo, newTestLogger())
	got, err := uc.Get(ctx, id)

	require.NoError(t, err)
	assert.Same(t, kek, got)
}

func TestNewKEKLabel(t *testing.T) {
	label1 := NewKEKLabel("p1")
	label2 := NewKEKLabel("p1")

	assert.Regexp(t, `^project-p1-key-`, label1)
	assert.NotEqual(t, label1, label2)
}
