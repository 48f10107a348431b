package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"bazaar/contexts/asset-core/token-registry/application"
	"bazaar/contexts/asset-core/token-registry/domain/entities"
	httptransport "bazaar/contexts/asset-core/token-registry/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) MintTokenHandler(
	ctx context.Context,
	caller string,
	req httptransport.MintTokenRequest,
) (httptransport.MintTokenResponse, error) {
	token, err := h.Service.Mint(ctx, caller, req.TokenURI)
	if err != nil {
		return httptransport.MintTokenResponse{}, err
	}
	return httptransport.MintTokenResponse{
		Status: "success",
		Data:   toDTO(token),
	}, nil
}

func (h Handler) GetTokenHandler(ctx context.Context, tokenID int64) (httptransport.GetTokenResponse, error) {
	token, err := h.Service.GetToken(ctx, tokenID)
	if err != nil {
		return httptransport.GetTokenResponse{}, err
	}
	return httptransport.GetTokenResponse{
		Status: "success",
		Data:   toDTO(token),
	}, nil
}

func (h Handler) BalanceHandler(ctx context.Context, owner string) (httptransport.BalanceResponse, error) {
	balance, err := h.Service.BalanceOf(ctx, owner)
	if err != nil {
		return httptransport.BalanceResponse{}, err
	}
	resp := httptransport.BalanceResponse{Status: "success"}
	resp.Data.Owner = owner
	resp.Data.Balance = balance
	return resp, nil
}

func (h Handler) SetApprovalHandler(
	ctx context.Context,
	caller string,
	req httptransport.SetApprovalRequest,
) (httptransport.SetApprovalResponse, error) {
	if err := h.Service.SetApprovalForAll(ctx, caller, req.Operator, req.Approved); err != nil {
		return httptransport.SetApprovalResponse{}, err
	}
	return httptransport.SetApprovalResponse{Status: "success"}, nil
}

func (h Handler) TransferTokenHandler(
	ctx context.Context,
	caller string,
	tokenID int64,
	req httptransport.TransferTokenRequest,
) (httptransport.TransferTokenResponse, error) {
	if err := h.Service.Transfer(ctx, caller, req.From, req.To, tokenID); err != nil {
		return httptransport.TransferTokenResponse{}, err
	}
	token, err := h.Service.GetToken(ctx, tokenID)
	if err != nil {
		return httptransport.TransferTokenResponse{}, err
	}
	return httptransport.TransferTokenResponse{
		Status: "success",
		Data:   toDTO(token),
	}, nil
}

func toDTO(token entities.Token) httptransport.TokenDTO {
	return httptransport.TokenDTO{
		TokenID:  token.TokenID,
		Owner:    token.Owner,
		TokenURI: token.URI,
		MintedAt: token.MintedAt.UTC().Format(time.RFC3339),
	}
}
