package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	cryptoService "github.com/chadlung/barbican/internal/crypto/service"
	cryptoUsecase "github.com/chadlung/barbican/internal/crypto/usecase"
	secretsDomain "github.com/chadlung/barbican/internal/secrets/domain"
)

// memStore keeps every table in memory for round trips through the real plugins.
type memStore struct {
	mu            sync.Mutex
	tenants       map[string]*secretsDomain.Tenant
	secrets       map[uuid.UUID]*secretsDomain.Secret
	tenantSecrets []*secretsDomain.TenantSecret
	data          []*secretsDomain.EncryptedDatum
	keks          map[uuid.UUID]*cryptoDomain.KEKDatum
	binds         int
}

func newMemStore() *memStore {
	return &memStore{
		tenants: make(map[string]*secretsDomain.Tenant),
		secrets: make(map[uuid.UUID]*secretsDomain.Secret),
		keks:    make(map[uuid.UUID]*cryptoDomain.KEKDatum),
	}
}

type inlineTxManager struct{}

func (inlineTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memTenantRepo struct{ *memStore }

func (r memTenantRepo) FindOrCreate(_ context.Context, externalID string) (*secretsDomain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tenant, ok := r.tenants[externalID]; ok {
		return tenant, nil
	}
	tenant := &secretsDomain.Tenant{ID: uuid.Must(uuid.NewV7()), ExternalID: externalID, CreatedAt: time.Now()}
	r.tenants[externalID] = tenant
	return tenant, nil
}

type memSecretRepo struct{ *memStore }

func (r memSecretRepo) Create(_ context.Context, secret *secretsDomain.Secret) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *secret
	stored.EncryptedData = nil
	r.secrets[secret.ID] = &stored
	return nil
}

func (r memSecretRepo) Get(_ context.Context, tenantID, secretID uuid.UUID) (*secretsDomain.Secret, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := false
	for _, ts := range r.tenantSecrets {
		if ts.TenantID == tenantID && ts.SecretID == secretID {
			owned = true
		}
	}
	stored, ok := r.secrets[secretID]
	if !ok || !owned {
		return nil, secretsDomain.ErrSecretNotFound
	}
	secret := *stored
	secret.EncryptedData = nil
	for _, datum := range r.data {
		if datum.SecretID == secretID {
			d := *datum
			secret.EncryptedData = append(secret.EncryptedData, &d)
		}
	}
	return &secret, nil
}

func (r memSecretRepo) List(_ context.Context, tenantID uuid.UUID, offset, limit int) ([]*secretsDomain.Secret, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*secretsDomain.Secret
	for i := len(r.tenantSecrets) - 1; i >= 0; i-- {
		ts := r.tenantSecrets[i]
		if ts.TenantID != tenantID {
			continue
		}
		secret := *r.secrets[ts.SecretID]
		out = append(out, &secret)
	}
	if offset >= len(out) {
		return []*secretsDomain.Secret{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memTenantSecretRepo struct{ *memStore }

func (r memTenantSecretRepo) Create(_ context.Context, tenantSecret *secretsDomain.TenantSecret) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenantSecrets = append(r.tenantSecrets, tenantSecret)
	return nil
}

type memDatumRepo struct{ *memStore }

func (r memDatumRepo) Create(_ context.Context, datum *secretsDomain.EncryptedDatum) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, datum)
	return nil
}

type memKekRepo struct{ *memStore }

func (r memKekRepo) FindOrCreate(_ context.Context, kek *cryptoDomain.KEKDatum) (*cryptoDomain.KEKDatum, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.keks {
		if existing.TenantID == kek.TenantID && existing.PluginName == kek.PluginName {
			found := *existing
			return &found, nil
		}
	}
	stored := *kek
	r.keks[kek.ID] = &stored
	created := stored
	return &created, nil
}

func (r memKekRepo) Get(_ context.Context, id uuid.UUID) (*cryptoDomain.KEKDatum, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kek, ok := r.keks[id]
	if !ok {
		return nil, cryptoDomain.ErrKEKNotFound
	}
	found := *kek
	return &found, nil
}

func (r memKekRepo) Save(_ context.Context, kek *cryptoDomain.KEKDatum) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.keks[kek.ID]; !ok {
		return cryptoDomain.ErrKEKNotFound
	}
	stored := *kek
	r.keks[kek.ID] = &stored
	r.binds++
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newSoftwareStack wires the store adapter to the software plugin over memStore.
func newSoftwareStack(t *testing.T) (StoreCryptoUseCase, SecretUseCase, *memStore) {
	t.Helper()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	masterKeys, err := cryptoDomain.NewMasterKeyChain("key1:"+base64.StdEncoding.EncodeToString(key), "key1")
	require.NoError(t, err)
	t.Cleanup(masterKeys.Close)

	plugin := cryptoService.NewSoftwarePlugin(masterKeys, cryptoService.NewAEADManager(), cryptoDomain.AESGCM)
	manager, err := cryptoService.NewPluginManager(plugin)
	require.NoError(t, err)

	store := newMemStore()
	logger := discardLogger()
	storeCrypto := NewStoreCryptoUseCase(
		inlineTxManager{},
		manager,
		cryptoUsecase.NewKekUseCase(memKekRepo{store}, logger),
		memSecretRepo{store},
		memTenantSecretRepo{store},
		memDatumRepo{store},
		"",
		logger,
	)
	secrets := NewSecretUseCase(memTenantRepo{store}, memSecretRepo{store}, storeCrypto, logger)
	return storeCrypto, secrets, store
}
