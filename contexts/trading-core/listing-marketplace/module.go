package listingmarketplace

import (
	"log/slog"

	httpadapter "bazaar/contexts/trading-core/listing-marketplace/adapters/http"
	"bazaar/contexts/trading-core/listing-marketplace/adapters/memory"
	"bazaar/contexts/trading-core/listing-marketplace/application/commands"
	"bazaar/contexts/trading-core/listing-marketplace/application/queries"
	"bazaar/contexts/trading-core/listing-marketplace/ports"
)

// DefaultEscrowAccount is the marketplace's own custody identity: the holder
// of every listed token for the interval between listing and sale.
const DefaultEscrowAccount = "marketplace"

// Module is the composition surface for the trading core.
// Runtime wiring should consume Handler; Store is exposed for
// tests/inspection.
type Module struct {
	Handler       httpadapter.Handler
	Store         *memory.Store
	EscrowAccount string
}

// Dependencies fixes the marketplace configuration at construction time.
// FeeAccount and FeePercent are immutable afterwards; there is no per-listing
// fee negotiation. RefundOverpayment switches the overpayment policy from
// "retain as additional fee" (the historical behavior) to refunding the
// excess above the computed total.
type Dependencies struct {
	Listings          ports.ListingRepository
	Ledger            ports.LedgerRepository
	Guard             ports.ReentrancyGuard
	Registries        ports.RegistryDirectory
	Clock             ports.Clock
	IDGenerator       ports.IDGenerator
	EscrowAccount     string
	FeeAccount        string
	FeePercent        int64
	RefundOverpayment bool
	Logger            *slog.Logger
}

func NewModule(deps Dependencies) Module {
	escrow := deps.EscrowAccount
	if escrow == "" {
		escrow = DefaultEscrowAccount
	}

	createListing := commands.CreateListingUseCase{
		Listings:      deps.Listings,
		Registries:    deps.Registries,
		Guard:         deps.Guard,
		Clock:         deps.Clock,
		IDGen:         deps.IDGenerator,
		EscrowAccount: escrow,
		Logger:        deps.Logger,
	}
	purchaseListing := commands.PurchaseListingUseCase{
		Listings:          deps.Listings,
		Registries:        deps.Registries,
		Guard:             deps.Guard,
		Clock:             deps.Clock,
		IDGen:             deps.IDGenerator,
		EscrowAccount:     escrow,
		FeeAccount:        deps.FeeAccount,
		FeePercent:        deps.FeePercent,
		RefundOverpayment: deps.RefundOverpayment,
		Logger:            deps.Logger,
	}
	getListing := queries.GetListingUseCase{
		Listings: deps.Listings,
		Logger:   deps.Logger,
	}
	listListings := queries.ListListingsUseCase{
		Listings: deps.Listings,
		Logger:   deps.Logger,
	}
	totalPrice := queries.TotalPriceUseCase{
		Listings:   deps.Listings,
		FeePercent: deps.FeePercent,
		Logger:     deps.Logger,
	}
	getBalance := queries.GetBalanceUseCase{
		Ledger: deps.Ledger,
		Logger: deps.Logger,
	}

	handler := httpadapter.Handler{
		CreateListing:   createListing,
		PurchaseListing: purchaseListing,
		GetListing:      getListing,
		ListListings:    listListings,
		TotalPrice:      totalPrice,
		GetBalance:      getBalance,
		FeeAccount:      deps.FeeAccount,
		FeePercent:      deps.FeePercent,
		Logger:          deps.Logger,
	}

	return Module{
		Handler:       handler,
		EscrowAccount: escrow,
	}
}

// NewInMemoryModule wires the trading core against the in-memory store.
// This is the developer/test bootstrap path; the API process swaps in the
// Postgres repository through NewModule.
func NewInMemoryModule(
	registries ports.RegistryDirectory,
	feeAccount string,
	feePercent int64,
	logger *slog.Logger,
) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Listings:    store,
		Ledger:      store,
		Guard:       store,
		Registries:  registries,
		Clock:       store,
		IDGenerator: store,
		FeeAccount:  feeAccount,
		FeePercent:  feePercent,
		Logger:      logger,
	})
	module.Store = store
	return module
}
