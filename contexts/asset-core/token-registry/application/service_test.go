package application

import (
	"context"
	"errors"
	"testing"

	"bazaar/contexts/asset-core/token-registry/adapters/memory"
	domainerrors "bazaar/contexts/asset-core/token-registry/domain/errors"
)

func newTestService() (Service, *memory.Store) {
	store := memory.NewStore()
	return Service{
		Tokens:    store,
		Approvals: store,
		Clock:     store,
		IDGen:     store,
	}, store
}

func TestMintAssignsSequentialIDs(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		token, err := service.Mint(ctx, "owner-1", "https://cdn.example/meta.json")
		if err != nil {
			t.Fatalf("mint %d: %v", i, err)
		}
		if token.TokenID != i {
			t.Fatalf("token id = %d, want %d", token.TokenID, i)
		}
	}

	count, err := service.TokenCount(ctx)
	if err != nil {
		t.Fatalf("token count: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
	balance, err := service.BalanceOf(ctx, "owner-1")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 3 {
		t.Fatalf("balance = %d, want 3", balance)
	}
}

func TestMintValidatesRequest(t *testing.T) {
	service, _ := newTestService()
	if _, err := service.Mint(context.Background(), "", "https://cdn.example/meta.json"); !errors.Is(err, domainerrors.ErrInvalidMintRequest) {
		t.Fatalf("expected ErrInvalidMintRequest for empty owner, got %v", err)
	}
	if _, err := service.Mint(context.Background(), "owner-1", "  "); !errors.Is(err, domainerrors.ErrInvalidMintRequest) {
		t.Fatalf("expected ErrInvalidMintRequest for empty uri, got %v", err)
	}
}

func TestTransferByOwner(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	token, err := service.Mint(ctx, "owner-1", "https://cdn.example/meta.json")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := service.Transfer(ctx, "owner-1", "owner-1", "owner-2", token.TokenID); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	owner, err := service.OwnerOf(ctx, token.TokenID)
	if err != nil {
		t.Fatalf("owner of: %v", err)
	}
	if owner != "owner-2" {
		t.Fatalf("owner = %q, want owner-2", owner)
	}
}

func TestTransferByApprovedOperator(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	token, err := service.Mint(ctx, "owner-1", "https://cdn.example/meta.json")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	err = service.Transfer(ctx, "operator-1", "owner-1", "owner-2", token.TokenID)
	if !errors.Is(err, domainerrors.ErrTransferUnauthorized) {
		t.Fatalf("unapproved operator should be rejected, got %v", err)
	}

	if err := service.SetApprovalForAll(ctx, "owner-1", "operator-1", true); err != nil {
		t.Fatalf("set approval: %v", err)
	}
	if err := service.Transfer(ctx, "operator-1", "owner-1", "owner-2", token.TokenID); err != nil {
		t.Fatalf("approved operator transfer: %v", err)
	}

	if err := service.SetApprovalForAll(ctx, "owner-2", "operator-1", false); err != nil {
		t.Fatalf("revoke approval: %v", err)
	}
	err = service.Transfer(ctx, "operator-1", "owner-2", "owner-3", token.TokenID)
	if !errors.Is(err, domainerrors.ErrTransferUnauthorized) {
		t.Fatalf("revoked operator should be rejected, got %v", err)
	}
}

func TestTransferRejectsStaleFrom(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	token, err := service.Mint(ctx, "owner-1", "https://cdn.example/meta.json")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	err = service.Transfer(ctx, "owner-2", "owner-2", "owner-3", token.TokenID)
	if !errors.Is(err, domainerrors.ErrTransferUnauthorized) {
		t.Fatalf("expected ErrTransferUnauthorized for stale from, got %v", err)
	}
}

func TestTransferMissingToken(t *testing.T) {
	service, _ := newTestService()
	err := service.Transfer(context.Background(), "owner-1", "owner-1", "owner-2", 99)
	if !errors.Is(err, domainerrors.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestSetApprovalForAllRejectsSelfApproval(t *testing.T) {
	service, _ := newTestService()
	err := service.SetApprovalForAll(context.Background(), "owner-1", "owner-1", true)
	if !errors.Is(err, domainerrors.ErrInvalidApprovalRequest) {
		t.Fatalf("expected ErrInvalidApprovalRequest, got %v", err)
	}
}

func TestMintAndTransferAppendOutboxRows(t *testing.T) {
	service, store := newTestService()
	ctx := context.Background()

	token, err := service.Mint(ctx, "owner-1", "https://cdn.example/meta.json")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := service.Transfer(ctx, "owner-1", "owner-1", "owner-2", token.TokenID); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending rows = %d, want 2", len(pending))
	}
	types := map[string]bool{}
	for _, message := range pending {
		types[message.EventType] = true
	}
	if !types["token.minted"] || !types["token.transferred"] {
		t.Fatalf("unexpected event types: %v", types)
	}
}
