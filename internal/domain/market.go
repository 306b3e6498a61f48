package domain

import "time"

// UpdateType is the kind of a listing event
type UpdateType string

const (
	UpdateTypeCreated    UpdateType = "created"
	UpdateTypeCancelled  UpdateType = "cancelled"
	UpdateTypeSuccessful UpdateType = "successful"
	UpdateTypeSellOrder  UpdateType = "sell_order"
)

// Valid reports whether the update type is one of the known kinds
func (u UpdateType) Valid() bool {
	switch u {
	case UpdateTypeCreated, UpdateTypeCancelled, UpdateTypeSuccessful, UpdateTypeSellOrder:
		return true
	}
	return false
}

// Listing is one append-only listing event. A nil Price means the token
// is not listed after this event.
type Listing struct {
	TokenID   int64      `json:"token_id"`
	Type      UpdateType `json:"update_type"`
	Price     *float64   `json:"price"`
	Timestamp time.Time  `json:"timestamp"`
}

// Listed reports whether the listing carries an asking price
func (l Listing) Listed() bool {
	return l.Price != nil
}

// Sale is one completed sale
type Sale struct {
	TokenID   int64     `json:"token_id"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// ListedToken is a currently listed token with its asking price
type ListedToken struct {
	TokenID   int64     `json:"token_id"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// Overlap holds the other tokens sharing at least one k-combination of traits
type Overlap struct {
	Count int     `json:"count"`
	IDs   []int64 `json:"ids"`
}

// OverlapSizes are the combination sizes the preprocessor computes
var OverlapSizes = [...]int{3, 4, 5}

// Token is a collection item with its traits and derived overlap statistics
type Token struct {
	ID        int64     `json:"token_id"`
	Name      string    `json:"name"`
	Permalink string    `json:"permalink"`
	ImageURL  string    `json:"image_url"`
	Owner     string    `json:"owner"`
	Traits    []TraitID `json:"traits"`
	// Overlaps is indexed like OverlapSizes
	Overlaps         [len(OverlapSizes)]Overlap `json:"overlaps"`
	OverlapsComputed bool                       `json:"overlaps_computed"`
}
