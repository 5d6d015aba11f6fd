package domain

import "time"

// ListType selects the resolution algorithm for a list.
type ListType string

const (
	// ListTypeManual lists contain exactly their include pins, in pin order.
	ListTypeManual ListType = "manual"
	// ListTypeSmart lists are a live rule view over the owner's library.
	ListTypeSmart ListType = "smart"
	// ListTypeHybrid lists show pinned items first, followed by rule matches.
	ListTypeHybrid ListType = "hybrid"
)

// Valid reports whether t is a known list type.
func (t ListType) Valid() bool {
	switch t {
	case ListTypeManual, ListTypeSmart, ListTypeHybrid:
		return true
	}
	return false
}

// Shareable reports whether collaborators may be granted access to lists of this type.
// Smart lists are private views over their owner's library.
func (t ListType) Shareable() bool {
	return t == ListTypeManual || t == ListTypeHybrid
}

// UsesPins reports whether pins participate in resolution.
func (t ListType) UsesPins() bool {
	return t == ListTypeManual || t == ListTypeHybrid
}

// UsesRules reports whether filter rules participate in resolution.
func (t ListType) UsesRules() bool {
	return t == ListTypeSmart || t == ListTypeHybrid
}

// List is a user-authored, declarative collection definition.
type List struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ID          string   `json:"id"`
	OwnerID     string   `json:"owner_id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Type        ListType `json:"list_type"`

	// Rules is ignored for manual lists.
	Rules FilterRules `json:"filter_rules"`

	Sort SortSpec `json:"sort"`

	// ItemLimit caps the resolved sequence; zero means unbounded.
	ItemLimit int `json:"item_limit"`

	// Position orders the owner's lists.
	Position int `json:"position"`
}

// ShareScope identifies which part of an owner's library a share exposes.
type ShareScope string

const (
	// ShareScopeStatus shares every item in one status bucket.
	ShareScopeStatus ShareScope = "status"
	// ShareScopeTag shares every item carrying one tag.
	ShareScopeTag ShareScope = "tag"
)

// LibraryShare is an accepted grant letting a viewer see part of an owner's library.
type LibraryShare struct {
	OwnerID    string     `json:"owner_id"`
	ViewerID   string     `json:"viewer_id"`
	Scope      ShareScope `json:"scope_kind"`
	ScopeValue string     `json:"scope_value"`
	AcceptedAt time.Time  `json:"accepted_at"`
}
