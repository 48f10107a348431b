package unit

import (
	"context"
	"errors"
	"testing"

	tokenregistry "bazaar/contexts/asset-core/token-registry"
	domainerrors "bazaar/contexts/asset-core/token-registry/domain/errors"
	httptransport "bazaar/contexts/asset-core/token-registry/transport/http"
)

func TestMintTokenAssignsDenseSequentialIDs(t *testing.T) {
	module := tokenregistry.NewInMemoryModule(nil)

	for want := int64(1); want <= 3; want++ {
		resp, err := module.Handler.MintTokenHandler(
			context.Background(),
			"minter-a",
			httptransport.MintTokenRequest{TokenURI: "https://cdn.example/meta.json"},
		)
		if err != nil {
			t.Fatalf("mint should succeed: %v", err)
		}
		if resp.Data.TokenID != want {
			t.Fatalf("expected token id %d, got %d", want, resp.Data.TokenID)
		}
		if resp.Data.Owner != "minter-a" {
			t.Fatalf("expected owner minter-a, got %s", resp.Data.Owner)
		}
	}
}

func TestGetTokenNotFound(t *testing.T) {
	module := tokenregistry.NewInMemoryModule(nil)

	_, err := module.Handler.GetTokenHandler(context.Background(), 42)
	if !errors.Is(err, domainerrors.ErrTokenNotFound) {
		t.Fatalf("expected token not found, got %v", err)
	}
}

func TestTransferTokenRequiresAuthorization(t *testing.T) {
	module := tokenregistry.NewInMemoryModule(nil)

	minted, err := module.Handler.MintTokenHandler(
		context.Background(),
		"owner-a",
		httptransport.MintTokenRequest{TokenURI: "https://cdn.example/meta.json"},
	)
	if err != nil {
		t.Fatalf("mint should succeed: %v", err)
	}

	_, err = module.Handler.TransferTokenHandler(
		context.Background(),
		"stranger",
		minted.Data.TokenID,
		httptransport.TransferTokenRequest{From: "owner-a", To: "owner-b"},
	)
	if !errors.Is(err, domainerrors.ErrTransferUnauthorized) {
		t.Fatalf("expected transfer unauthorized, got %v", err)
	}

	_, err = module.Handler.SetApprovalHandler(
		context.Background(),
		"owner-a",
		httptransport.SetApprovalRequest{Operator: "stranger", Approved: true},
	)
	if err != nil {
		t.Fatalf("set approval should succeed: %v", err)
	}

	transferred, err := module.Handler.TransferTokenHandler(
		context.Background(),
		"stranger",
		minted.Data.TokenID,
		httptransport.TransferTokenRequest{From: "owner-a", To: "owner-b"},
	)
	if err != nil {
		t.Fatalf("approved operator transfer should succeed: %v", err)
	}
	if transferred.Data.Owner != "owner-b" {
		t.Fatalf("expected owner-b after transfer, got %s", transferred.Data.Owner)
	}
}

func TestBalanceTracksOwnership(t *testing.T) {
	module := tokenregistry.NewInMemoryModule(nil)

	for i := 0; i < 2; i++ {
		if _, err := module.Handler.MintTokenHandler(
			context.Background(),
			"owner-a",
			httptransport.MintTokenRequest{TokenURI: "https://cdn.example/meta.json"},
		); err != nil {
			t.Fatalf("mint should succeed: %v", err)
		}
	}

	if _, err := module.Handler.TransferTokenHandler(
		context.Background(),
		"owner-a",
		1,
		httptransport.TransferTokenRequest{From: "owner-a", To: "owner-b"},
	); err != nil {
		t.Fatalf("transfer should succeed: %v", err)
	}

	balanceA, err := module.Handler.BalanceHandler(context.Background(), "owner-a")
	if err != nil {
		t.Fatalf("balance owner-a: %v", err)
	}
	if balanceA.Data.Balance != 1 {
		t.Fatalf("expected owner-a balance 1, got %d", balanceA.Data.Balance)
	}
	balanceB, err := module.Handler.BalanceHandler(context.Background(), "owner-b")
	if err != nil {
		t.Fatalf("balance owner-b: %v", err)
	}
	if balanceB.Data.Balance != 1 {
		t.Fatalf("expected owner-b balance 1, got %d", balanceB.Data.Balance)
	}
}
