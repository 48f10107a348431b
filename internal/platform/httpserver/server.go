package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	tokenregistry "bazaar/contexts/asset-core/token-registry"
	registryerrors "bazaar/contexts/asset-core/token-registry/domain/errors"
	registryhttp "bazaar/contexts/asset-core/token-registry/transport/http"
	listingmarketplace "bazaar/contexts/trading-core/listing-marketplace"
	marketerrors "bazaar/contexts/trading-core/listing-marketplace/domain/errors"
	markethttp "bazaar/contexts/trading-core/listing-marketplace/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "bazaar/internal/platform/httpserver/docs"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	registry    tokenregistry.Module
	marketplace listingmarketplace.Module
}

func New(
	registry tokenregistry.Module,
	marketplace listingmarketplace.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		registry:    registry,
		marketplace: marketplace,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/tokens/mint", s.handleMintToken)
	s.mux.HandleFunc("GET /v1/tokens/{token_id}", s.handleGetToken)
	s.mux.HandleFunc("POST /v1/tokens/{token_id}/transfer", s.handleTransferToken)
	s.mux.HandleFunc("POST /v1/tokens/approvals", s.handleSetApproval)
	s.mux.HandleFunc("GET /v1/tokens/owners/{owner}/balance", s.handleTokenBalance)

	s.mux.HandleFunc("POST /v1/marketplace/listings", s.handleCreateListing)
	s.mux.HandleFunc("GET /v1/marketplace/listings", s.handleListListings)
	s.mux.HandleFunc("GET /v1/marketplace/listings/{listing_id}", s.handleGetListing)
	s.mux.HandleFunc("GET /v1/marketplace/listings/{listing_id}/total-price", s.handleTotalPrice)
	s.mux.HandleFunc("POST /v1/marketplace/listings/{listing_id}/purchase", s.handlePurchaseListing)
	s.mux.HandleFunc("GET /v1/marketplace/accounts/{account}/balance", s.handleMarketBalance)
	s.mux.HandleFunc("GET /v1/marketplace/info", s.handleMarketInfo)
}

func (s *Server) handleMintToken(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-User-Id")
	if caller == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req registryhttp.MintTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.registry.Handler.MintTokenHandler(r.Context(), caller, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := parseID(w, r, "token_id", "invalid_token_id", "token_id must be an integer")
	if !ok {
		return
	}
	resp, err := s.registry.Handler.GetTokenHandler(r.Context(), tokenID)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransferToken(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-User-Id")
	if caller == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	tokenID, ok := parseID(w, r, "token_id", "invalid_token_id", "token_id must be an integer")
	if !ok {
		return
	}

	var req registryhttp.TransferTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.registry.Handler.TransferTokenHandler(r.Context(), caller, tokenID, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetApproval(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-User-Id")
	if caller == "" {
		writeRegistryError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req registryhttp.SetApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeRegistryError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.registry.Handler.SetApprovalHandler(r.Context(), caller, req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTokenBalance(w http.ResponseWriter, r *http.Request) {
	owner := r.PathValue("owner")
	resp, err := s.registry.Handler.BalanceHandler(r.Context(), owner)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-User-Id")
	if caller == "" {
		writeMarketError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req markethttp.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.marketplace.Handler.CreateListingHandler(r.Context(), caller, req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := markethttp.ListListingsRequest{
		Seller: query.Get("seller"),
	}

	if soldRaw := query.Get("sold"); soldRaw != "" {
		sold, err := strconv.ParseBool(soldRaw)
		if err != nil {
			writeMarketError(w, http.StatusBadRequest, "invalid_sold", "sold must be a boolean")
			return
		}
		req.Sold = &sold
	}
	if limitRaw := query.Get("limit"); limitRaw != "" {
		limit, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeMarketError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
			return
		}
		req.Limit = limit
	}
	if offsetRaw := query.Get("offset"); offsetRaw != "" {
		offset, err := strconv.Atoi(offsetRaw)
		if err != nil {
			writeMarketError(w, http.StatusBadRequest, "invalid_offset", "offset must be an integer")
			return
		}
		req.Offset = offset
	}

	resp, err := s.marketplace.Handler.ListListingsHandler(r.Context(), req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	listingID, ok := parseID(w, r, "listing_id", "invalid_listing_id", "listing_id must be an integer")
	if !ok {
		return
	}
	resp, err := s.marketplace.Handler.GetListingHandler(r.Context(), listingID)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTotalPrice(w http.ResponseWriter, r *http.Request) {
	listingID, ok := parseID(w, r, "listing_id", "invalid_listing_id", "listing_id must be an integer")
	if !ok {
		return
	}
	resp, err := s.marketplace.Handler.TotalPriceHandler(r.Context(), listingID)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePurchaseListing(w http.ResponseWriter, r *http.Request) {
	caller := r.Header.Get("X-User-Id")
	if caller == "" {
		writeMarketError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	listingID, ok := parseID(w, r, "listing_id", "invalid_listing_id", "listing_id must be an integer")
	if !ok {
		return
	}

	var req markethttp.PurchaseListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMarketError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.marketplace.Handler.PurchaseListingHandler(r.Context(), caller, listingID, req)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarketBalance(w http.ResponseWriter, r *http.Request) {
	account := r.PathValue("account")
	resp, err := s.marketplace.Handler.BalanceHandler(r.Context(), account)
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarketInfo(w http.ResponseWriter, r *http.Request) {
	resp, err := s.marketplace.Handler.MarketInfoHandler(r.Context())
	if err != nil {
		writeMarketDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrTokenNotFound):
		writeRegistryError(w, http.StatusNotFound, "token_not_found", err.Error())
	case errors.Is(err, registryerrors.ErrTransferUnauthorized):
		writeRegistryError(w, http.StatusForbidden, "transfer_unauthorized", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidMintRequest):
		writeRegistryError(w, http.StatusBadRequest, "invalid_mint_request", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidApprovalRequest):
		writeRegistryError(w, http.StatusBadRequest, "invalid_approval_request", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidTransferRequest):
		writeRegistryError(w, http.StatusBadRequest, "invalid_transfer_request", err.Error())
	default:
		writeRegistryError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeMarketDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, marketerrors.ErrListingNotFound):
		writeMarketError(w, http.StatusNotFound, "listing_not_found", err.Error())
	case errors.Is(err, marketerrors.ErrRegistryNotFound):
		writeMarketError(w, http.StatusNotFound, "registry_not_found", err.Error())
	case errors.Is(err, marketerrors.ErrInsufficientPayment):
		writeMarketError(w, http.StatusPaymentRequired, "insufficient_payment", err.Error())
	case errors.Is(err, marketerrors.ErrAlreadySold):
		writeMarketError(w, http.StatusConflict, "already_sold", err.Error())
	case errors.Is(err, marketerrors.ErrReentrantCall):
		writeMarketError(w, http.StatusConflict, "reentrant_call", err.Error())
	case errors.Is(err, marketerrors.ErrInvalidPrice):
		writeMarketError(w, http.StatusBadRequest, "invalid_price", err.Error())
	case errors.Is(err, marketerrors.ErrInvalidListingRequest):
		writeMarketError(w, http.StatusBadRequest, "invalid_listing_request", err.Error())
	case errors.Is(err, marketerrors.ErrInvalidPurchase):
		writeMarketError(w, http.StatusBadRequest, "invalid_purchase", err.Error())
	case errors.Is(err, registryerrors.ErrTransferUnauthorized):
		writeMarketError(w, http.StatusForbidden, "custody_transfer_unauthorized", err.Error())
	default:
		writeMarketError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeRegistryError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registryhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeMarketError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, markethttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func parseID(w http.ResponseWriter, r *http.Request, name string, code string, message string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, markethttp.ErrorResponse{
			Code:    code,
			Message: message,
		})
		return 0, false
	}
	return id, true
}
