package domain

import "time"

// PinType is the kind of manual override a pin applies.
type PinType string

const (
	// PinInclude forces an item into the list at a fixed position.
	PinInclude PinType = "include"
	// PinExclude suppresses an item that would otherwise match the rules.
	PinExclude PinType = "exclude"
)

// Valid reports whether t is a known pin type.
func (t PinType) Valid() bool {
	return t == PinInclude || t == PinExclude
}

// Pin is a manual override attached to a list. A list holds at most one pin per media item.
type Pin struct {
	ListID      string    `json:"list_id"`
	MediaItemID string    `json:"media_item_id"`
	Type        PinType   `json:"pin_type"`
	Position    int       `json:"position"` // meaningful for include pins only
	CreatedAt   time.Time `json:"created_at"`
}
