package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SopCategory groups SOPs by case type (Damaged, Wrong, Counterfeit, ...)
type SopCategory struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	SopCount    int       `json:"sopCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CategoryInput is used for both create and update
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// DefaultCategories are seeded on first install
var DefaultCategories = []CategoryInput{
	{Name: "Damaged", Description: "Items received in damaged condition"},
	{Name: "Wrong", Description: "Wrong item received by customer"},
	{Name: "Counterfeit", Description: "Suspected counterfeit or fake products"},
	{Name: "Expired", Description: "Products that have expired"},
	{Name: "Empty Parcel/Swap Parcel", Description: "Empty packages or swapped items"},
	{Name: "Non Receipts", Description: "Items not received by customer"},
	{Name: "Faulty", Description: "Defective or malfunctioning products"},
	{Name: "Special SOP (Seller Dispute)", Description: "Special cases requiring seller dispute resolution"},
}

// CategoryRepository defines the interface for category storage
type CategoryRepository interface {
	Create(ctx context.Context, category *SopCategory) error
	GetByID(ctx context.Context, id uuid.UUID) (*SopCategory, error)
	List(ctx context.Context) ([]SopCategory, error)
	Update(ctx context.Context, category *SopCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountSops(ctx context.Context, id uuid.UUID) (int, error)
	// EnsureByName inserts the category unless one with the same name exists
	EnsureByName(ctx context.Context, category *SopCategory) error
}
