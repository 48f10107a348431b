// Package tokenregistry issues unique, owner-tracked tokens with metadata
// URIs and maintains the custody ledger the trading contexts settle against.
// Token identifiers are dense and monotonically increasing from 1.
package tokenregistry
