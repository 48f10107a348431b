package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateListingRequest struct {
	RegistryRef string `json:"registry_ref"`
	TokenID     int64  `json:"token_id"`
	Price       int64  `json:"price"`
}

type ListingDTO struct {
	ListingID   int64  `json:"listing_id"`
	RegistryRef string `json:"registry_ref"`
	TokenID     int64  `json:"token_id"`
	Price       int64  `json:"price"`
	Seller      string `json:"seller"`
	Sold        bool   `json:"sold"`
	Buyer       string `json:"buyer,omitempty"`
	CreatedAt   string `json:"created_at"`
	SoldAt      string `json:"sold_at,omitempty"`
}

type CreateListingResponse struct {
	Status string     `json:"status"`
	Data   ListingDTO `json:"data"`
}

type GetListingResponse struct {
	Status string     `json:"status"`
	Data   ListingDTO `json:"data"`
}

type ListListingsRequest struct {
	Seller string
	Sold   *bool
	Limit  int
	Offset int
}

type ListListingsResponse struct {
	Status string       `json:"status"`
	Count  int64        `json:"count"`
	Data   []ListingDTO `json:"data"`
}

type TotalPriceResponse struct {
	Status string `json:"status"`
	Data   struct {
		ListingID  int64 `json:"listing_id"`
		Price      int64 `json:"price"`
		FeePercent int64 `json:"fee_percent"`
		TotalPrice int64 `json:"total_price"`
	} `json:"data"`
}

type PurchaseListingRequest struct {
	PaymentAmount int64 `json:"payment_amount"`
}

type PurchaseListingResponse struct {
	Status string `json:"status"`
	Data   struct {
		Listing        ListingDTO `json:"listing"`
		TotalPrice     int64      `json:"total_price"`
		SellerProceeds int64      `json:"seller_proceeds"`
		FeeProceeds    int64      `json:"fee_proceeds"`
		BuyerRefund    int64      `json:"buyer_refund,omitempty"`
	} `json:"data"`
}

type BalanceResponse struct {
	Status string `json:"status"`
	Data   struct {
		Account string `json:"account"`
		Balance int64  `json:"balance"`
	} `json:"data"`
}

type MarketInfoResponse struct {
	Status string `json:"status"`
	Data   struct {
		FeeAccount string `json:"fee_account"`
		FeePercent int64  `json:"fee_percent"`
		ItemCount  int64  `json:"item_count"`
	} `json:"data"`
}
