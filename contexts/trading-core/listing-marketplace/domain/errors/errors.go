package errors

import "errors"

var (
	ErrInvalidPrice          = errors.New("listing price must be positive")
	ErrInvalidListingRequest = errors.New("listing request is invalid")
	ErrInvalidPurchase       = errors.New("purchase request is invalid")
	ErrListingNotFound       = errors.New("listing not found")
	ErrInsufficientPayment   = errors.New("payment is below the listing total price")
	ErrAlreadySold           = errors.New("listing is already sold")
	ErrReentrantCall         = errors.New("marketplace operation already in progress")
	ErrRegistryNotFound      = errors.New("asset registry not found")
)
