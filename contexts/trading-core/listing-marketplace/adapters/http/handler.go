package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"bazaar/contexts/trading-core/listing-marketplace/application/commands"
	"bazaar/contexts/trading-core/listing-marketplace/application/queries"
	"bazaar/contexts/trading-core/listing-marketplace/domain/entities"
	httptransport "bazaar/contexts/trading-core/listing-marketplace/transport/http"
)

type Handler struct {
	CreateListing   commands.CreateListingUseCase
	PurchaseListing commands.PurchaseListingUseCase
	GetListing      queries.GetListingUseCase
	ListListings    queries.ListListingsUseCase
	TotalPrice      queries.TotalPriceUseCase
	GetBalance      queries.GetBalanceUseCase
	FeeAccount      string
	FeePercent      int64
	Logger          *slog.Logger
}

func (h Handler) CreateListingHandler(
	ctx context.Context,
	caller string,
	req httptransport.CreateListingRequest,
) (httptransport.CreateListingResponse, error) {
	result, err := h.CreateListing.Execute(ctx, commands.CreateListingCommand{
		RegistryRef: req.RegistryRef,
		TokenID:     req.TokenID,
		Price:       req.Price,
		Seller:      caller,
	})
	if err != nil {
		return httptransport.CreateListingResponse{}, err
	}
	return httptransport.CreateListingResponse{
		Status: "success",
		Data:   toDTO(result.Listing),
	}, nil
}

func (h Handler) GetListingHandler(ctx context.Context, listingID int64) (httptransport.GetListingResponse, error) {
	result, err := h.GetListing.Execute(ctx, queries.GetListingQuery{ListingID: listingID})
	if err != nil {
		return httptransport.GetListingResponse{}, err
	}
	return httptransport.GetListingResponse{
		Status: "success",
		Data:   toDTO(result.Listing),
	}, nil
}

func (h Handler) ListListingsHandler(
	ctx context.Context,
	req httptransport.ListListingsRequest,
) (httptransport.ListListingsResponse, error) {
	result, err := h.ListListings.Execute(ctx, queries.ListListingsQuery{
		Seller: req.Seller,
		Sold:   req.Sold,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		return httptransport.ListListingsResponse{}, err
	}
	resp := httptransport.ListListingsResponse{
		Status: "success",
		Count:  result.Count,
		Data:   make([]httptransport.ListingDTO, 0, len(result.Listings)),
	}
	for _, listing := range result.Listings {
		resp.Data = append(resp.Data, toDTO(listing))
	}
	return resp, nil
}

func (h Handler) TotalPriceHandler(ctx context.Context, listingID int64) (httptransport.TotalPriceResponse, error) {
	result, err := h.TotalPrice.Execute(ctx, queries.TotalPriceQuery{ListingID: listingID})
	if err != nil {
		return httptransport.TotalPriceResponse{}, err
	}
	resp := httptransport.TotalPriceResponse{Status: "success"}
	resp.Data.ListingID = result.ListingID
	resp.Data.Price = result.Price
	resp.Data.FeePercent = result.FeePercent
	resp.Data.TotalPrice = result.TotalPrice
	return resp, nil
}

func (h Handler) PurchaseListingHandler(
	ctx context.Context,
	caller string,
	listingID int64,
	req httptransport.PurchaseListingRequest,
) (httptransport.PurchaseListingResponse, error) {
	result, err := h.PurchaseListing.Execute(ctx, commands.PurchaseListingCommand{
		ListingID:     listingID,
		Buyer:         caller,
		PaymentAmount: req.PaymentAmount,
	})
	if err != nil {
		return httptransport.PurchaseListingResponse{}, err
	}
	resp := httptransport.PurchaseListingResponse{Status: "success"}
	resp.Data.Listing = toDTO(result.Listing)
	resp.Data.TotalPrice = result.TotalPrice
	resp.Data.SellerProceeds = result.SellerProceeds
	resp.Data.FeeProceeds = result.FeeProceeds
	resp.Data.BuyerRefund = result.BuyerRefund
	return resp, nil
}

func (h Handler) BalanceHandler(ctx context.Context, account string) (httptransport.BalanceResponse, error) {
	result, err := h.GetBalance.Execute(ctx, queries.GetBalanceQuery{Account: account})
	if err != nil {
		return httptransport.BalanceResponse{}, err
	}
	resp := httptransport.BalanceResponse{Status: "success"}
	resp.Data.Account = result.Account
	resp.Data.Balance = result.Balance
	return resp, nil
}

func (h Handler) MarketInfoHandler(ctx context.Context) (httptransport.MarketInfoResponse, error) {
	count, err := h.ListListings.Listings.CountListings(ctx)
	if err != nil {
		return httptransport.MarketInfoResponse{}, err
	}
	resp := httptransport.MarketInfoResponse{Status: "success"}
	resp.Data.FeeAccount = h.FeeAccount
	resp.Data.FeePercent = h.FeePercent
	resp.Data.ItemCount = count
	return resp, nil
}

func toDTO(listing entities.Listing) httptransport.ListingDTO {
	dto := httptransport.ListingDTO{
		ListingID:   listing.ListingID,
		RegistryRef: listing.RegistryRef,
		TokenID:     listing.TokenID,
		Price:       listing.Price,
		Seller:      listing.Seller,
		Sold:        listing.Sold,
		Buyer:       listing.Buyer,
		CreatedAt:   listing.CreatedAt.UTC().Format(time.RFC3339),
	}
	if listing.SoldAt != nil {
		dto.SoldAt = listing.SoldAt.UTC().Format(time.RFC3339)
	}
	return dto
}
