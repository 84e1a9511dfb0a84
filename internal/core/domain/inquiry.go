package domain

import (
	"errors"
	"time"
)

var ErrInquiryNotFound = errors.New("inquiry not found")

// Inquiry is a message from a verified account to a company, optionally about
// a specific product.
type Inquiry struct {
	ID        string    `json:"id"`
	FromID    string    `json:"from_id"`
	CompanyID string    `json:"company_id"`
	ProductID string    `json:"product_id,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
