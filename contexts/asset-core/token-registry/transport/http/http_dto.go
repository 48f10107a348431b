package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type MintTokenRequest struct {
	TokenURI string `json:"token_uri"`
}

type TokenDTO struct {
	TokenID  int64  `json:"token_id"`
	Owner    string `json:"owner"`
	TokenURI string `json:"token_uri"`
	MintedAt string `json:"minted_at"`
}

type MintTokenResponse struct {
	Status string   `json:"status"`
	Data   TokenDTO `json:"data"`
}

type GetTokenResponse struct {
	Status string   `json:"status"`
	Data   TokenDTO `json:"data"`
}

type BalanceResponse struct {
	Status string `json:"status"`
	Data   struct {
		Owner   string `json:"owner"`
		Balance int64  `json:"balance"`
	} `json:"data"`
}

type SetApprovalRequest struct {
	Operator string `json:"operator"`
	Approved bool   `json:"approved"`
}

type SetApprovalResponse struct {
	Status string `json:"status"`
}

type TransferTokenRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type TransferTokenResponse struct {
	Status string   `json:"status"`
	Data   TokenDTO `json:"data"`
}
