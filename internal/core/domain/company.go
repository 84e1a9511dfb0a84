package domain

import (
	"errors"
	"time"
)

var ErrCompanyNotFound = errors.New("company not found")
var ErrCompanyExists = errors.New("a company profile already exists for this account")

// Company is a seller's public profile in the directory. Each seller account
// owns at most one company.
type Company struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Sector      string    `json:"sector"`
	Country     string    `json:"country"`
	City        string    `json:"city"`
	Website     string    `json:"website,omitempty"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
