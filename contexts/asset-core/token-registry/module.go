package tokenregistry

import (
	"log/slog"

	httpadapter "bazaar/contexts/asset-core/token-registry/adapters/http"
	"bazaar/contexts/asset-core/token-registry/adapters/memory"
	"bazaar/contexts/asset-core/token-registry/application"
	"bazaar/contexts/asset-core/token-registry/ports"
)

// Module is the composition surface for the token registry.
// Runtime wiring should consume Handler or Service; Store is exposed for
// tests/inspection.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Tokens      ports.TokenRepository
	Approvals   ports.ApprovalRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Tokens:    deps.Tokens,
		Approvals: deps.Approvals,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Tokens:      store,
		Approvals:   store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
