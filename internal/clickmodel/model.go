// Package clickmodel holds the plain domain types shared across the
// click-ingestion and ownership-fan-out pipeline (spec.md §3), independent
// of their wire encoding.
package clickmodel

// Click is a click event after the Click Service has stamped it.
type Click struct {
	TileId      uint32
	CountryId   string
	TimestampNs uint64
	ClickId     string
}

// Ownership is a tile's current owner as of TimestampNs.
type Ownership struct {
	TileId      uint32
	CountryId   string
	TimestampNs uint64
}

// UpdateNotification announces that a tile changed owner. PreviousCountryId
// is empty when the tile was previously unowned.
type UpdateNotification struct {
	TileId            uint32
	CountryId         string
	PreviousCountryId string
}
