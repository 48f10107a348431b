package registryadapter

import (
	"context"
	"strings"

	tokenapp "bazaar/contexts/asset-core/token-registry/application"
	domainerrors "bazaar/contexts/trading-core/listing-marketplace/domain/errors"
	"bazaar/contexts/trading-core/listing-marketplace/ports"
)

// Directory maps registry references to asset-registry collaborators. The
// marketplace resolves a listing's registry_ref through this before any
// custody movement.
type Directory struct {
	registries map[string]ports.AssetRegistry
}

func NewDirectory() *Directory {
	return &Directory{
		registries: make(map[string]ports.AssetRegistry),
	}
}

func (d *Directory) Register(registryRef string, registry ports.AssetRegistry) {
	d.registries[strings.TrimSpace(registryRef)] = registry
}

func (d *Directory) Resolve(registryRef string) (ports.AssetRegistry, error) {
	registry, ok := d.registries[strings.TrimSpace(registryRef)]
	if !ok {
		return nil, domainerrors.ErrRegistryNotFound
	}
	return registry, nil
}

// TokenRegistry adapts the token-registry application service to the
// marketplace's custody collaborator port.
type TokenRegistry struct {
	Service tokenapp.Service
}

func (r TokenRegistry) OwnerOf(ctx context.Context, tokenID int64) (string, error) {
	return r.Service.OwnerOf(ctx, tokenID)
}

func (r TokenRegistry) Transfer(ctx context.Context, caller string, from string, to string, tokenID int64) error {
	return r.Service.Transfer(ctx, caller, from, to, tokenID)
}
