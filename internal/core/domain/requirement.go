package domain

import (
	"errors"
	"time"
)

var ErrRequirementNotFound = errors.New("requirement not found")

// Requirement is a sourcing request posted by a buyer, visible to sellers
// browsing the directory.
type Requirement struct {
	ID          string    `json:"id"`
	BuyerID     string    `json:"buyer_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Quantity    string    `json:"quantity"`
	Country     string    `json:"country"`
	CreatedAt   time.Time `json:"created_at"`
}
