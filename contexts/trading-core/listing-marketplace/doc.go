// Package listingmarketplace is the trading core: fixed-price listings over
// registry tokens, escrow custody while listed, and atomic purchase
// settlement with a marketplace-wide percentage fee. Listing identifiers are
// dense and monotonically increasing from 1; sold listings are permanent,
// immutable sale records.
package listingmarketplace
