package queries

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "bazaar/contexts/trading-core/listing-marketplace/domain/errors"
	"bazaar/contexts/trading-core/listing-marketplace/ports"
)

type GetBalanceQuery struct {
	Account string
}

type GetBalanceResult struct {
	Account string
	Balance int64
}

type GetBalanceUseCase struct {
	Ledger ports.LedgerRepository
	Logger *slog.Logger
}

func (u GetBalanceUseCase) Execute(ctx context.Context, query GetBalanceQuery) (GetBalanceResult, error) {
	account := strings.TrimSpace(query.Account)
	if account == "" {
		return GetBalanceResult{}, domainerrors.ErrInvalidPurchase
	}
	balance, err := u.Ledger.GetBalance(ctx, account)
	if err != nil {
		return GetBalanceResult{}, err
	}
	return GetBalanceResult{Account: account, Balance: balance}, nil
}
