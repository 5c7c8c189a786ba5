package service

import (
	"context"
	"time"

	cryptoDomain "github.com/chadlung/barbican/internal/crypto/domain"
	"github.com/chadlung/barbican/internal/metrics"
)

// pluginWithMetrics decorates a Plugin with metrics instrumentation.
// Operations are recorded under the "crypto" domain as "<plugin>_<operation>".
type pluginWithMetrics struct {
	next    Plugin
	metrics metrics.BusinessMetrics
}

// NewPluginWithMetrics wraps a Plugin with metrics recording. The wrapped plugin
// keeps its name, so KEKs it binds stay retrievable through the PluginManager.
func NewPluginWithMetrics(plugin Plugin, m metrics.BusinessMetrics) Plugin {
	return &pluginWithMetrics{
		next:    plugin,
		metrics: m,
	}
}

func (p *pluginWithMetrics) Name() string {
	return p.next.Name()
}

func (p *pluginWithMetrics) Encrypt(
	ctx context.Context,
	req cryptoDomain.EncryptRequest,
	kekMeta cryptoDomain.KEKMeta,
	tenantID string,
) (*cryptoDomain.Response, error) {
	start := time.Now()
	resp, err := p.next.Encrypt(ctx, req, kekMeta, tenantID)
	p.record(ctx, "encrypt", start, err)
	return resp, err
}

func (p *pluginWithMetrics) Decrypt(
	ctx context.Context,
	req cryptoDomain.DecryptRequest,
	kekMeta cryptoDomain.KEKMeta,
	kekMetaExtended string,
	tenantID string,
) ([]byte, error) {
	start := time.Now()
	plaintext, err := p.next.Decrypt(ctx, req, kekMeta, kekMetaExtended, tenantID)
	p.record(ctx, "decrypt", start, err)
	return plaintext, err
}

func (p *pluginWithMetrics) GenerateSymmetric(
	ctx context.Context,
	req cryptoDomain.GenerateRequest,
	kekMeta cryptoDomain.KEKMeta,
	tenantID string,
) (*cryptoDomain.Response, error) {
	start := time.Now()
	resp, err := p.next.GenerateSymmetric(ctx, req, kekMeta, tenantID)
	p.record(ctx, "generate_symmetric", start, err)
	return resp, err
}

func (p *pluginWithMetrics) GenerateAsymmetric(
	ctx context.Context,
	req cryptoDomain.GenerateRequest,
	kekMeta cryptoDomain.KEKMeta,
	tenantID string,
) (private, public, passphrase *cryptoDomain.Response, err error) {
	start := time.Now()
	private, public, passphrase, err = p.next.GenerateAsymmetric(ctx, req, kekMeta, tenantID)
	p.record(ctx, "generate_asymmetric", start, err)
	return private, public, passphrase, err
}

// BindKEKMetadata records a refused bind (nil result) as an error.
func (p *pluginWithMetrics) BindKEKMetadata(
	ctx context.Context,
	kekMeta cryptoDomain.KEKMeta,
) (*cryptoDomain.KEKMeta, error) {
	start := time.Now()
	bound, err := p.next.BindKEKMetadata(ctx, kekMeta)
	recorded := err
	if recorded == nil && bound == nil {
		recorded = cryptoDomain.ErrKEKBinding
	}
	p.record(ctx, "bind_kek", start, recorded)
	return bound, err
}

func (p *pluginWithMetrics) GenerateSupports(keySpec *cryptoDomain.KeySpec) bool {
	return p.next.GenerateSupports(keySpec)
}

func (p *pluginWithMetrics) StoreSecretSupports(keySpec *cryptoDomain.KeySpec) bool {
	return p.next.StoreSecretSupports(keySpec)
}

func (p *pluginWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, p.metrics, "crypto", p.next.Name()+"_"+operation, start, err)
}
