package entities

import (
	"strings"
	"time"

	domainerrors "bazaar/contexts/asset-core/token-registry/domain/errors"
)

// Token is a uniquely identified, non-fungible item. TokenID is assigned by
// the repository at mint time as the next value of a dense sequence.
type Token struct {
	TokenID   int64
	Owner     string
	URI       string
	MintedAt  time.Time
	UpdatedAt time.Time
}

func NewToken(owner string, uri string, mintedAt time.Time) (Token, error) {
	if strings.TrimSpace(owner) == "" || strings.TrimSpace(uri) == "" {
		return Token{}, domainerrors.ErrInvalidMintRequest
	}
	return Token{
		Owner:     strings.TrimSpace(owner),
		URI:       strings.TrimSpace(uri),
		MintedAt:  mintedAt.UTC(),
		UpdatedAt: mintedAt.UTC(),
	}, nil
}
