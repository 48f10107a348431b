package errors

import "errors"

var (
	ErrInvalidMintRequest     = errors.New("token mint request is invalid")
	ErrInvalidApprovalRequest = errors.New("approval request is invalid")
	ErrInvalidTransferRequest = errors.New("token transfer request is invalid")
	ErrTokenNotFound          = errors.New("token not found")
	ErrTransferUnauthorized   = errors.New("token transfer is not authorized")
)
