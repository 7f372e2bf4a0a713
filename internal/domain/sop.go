package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Sop is a standard operating procedure used to ground chat answers
type Sop struct {
	ID           uuid.UUID          `json:"id"`
	Title        string             `json:"title"`
	Content      string             `json:"content"`
	CategoryID   uuid.UUID          `json:"categoryId"`
	CategoryName string             `json:"categoryName"`
	Version      int                `json:"version"`
	IsActive     bool               `json:"isActive"`
	CreatedBy    uuid.UUID          `json:"createdBy"`
	CreatorName  string             `json:"creatorName,omitempty"`
	Evidence     []EvidenceTemplate `json:"evidenceTemplates"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// EvidenceTemplate describes one piece of evidence an SOP requires
type EvidenceTemplate struct {
	ID          uuid.UUID `json:"id"`
	SopID       uuid.UUID `json:"sopId"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EvidenceDescriptions returns the descriptions in template order
func (s *Sop) EvidenceDescriptions() []string {
	out := make([]string, 0, len(s.Evidence))
	for _, e := range s.Evidence {
		out = append(out, e.Description)
	}
	return out
}

// SopCreate represents SOP creation data
type SopCreate struct {
	Title      string    `json:"title" validate:"required,max=255"`
	Content    string    `json:"content" validate:"required"`
	CategoryID uuid.UUID `json:"categoryId" validate:"required"`
	Evidence   []string  `json:"evidence" validate:"omitempty,dive,required,max=1000"`
}

// SopUpdate replaces every editable field of an SOP
type SopUpdate struct {
	Title      string    `json:"title" validate:"required,max=255"`
	Content    string    `json:"content" validate:"required"`
	CategoryID uuid.UUID `json:"categoryId" validate:"required"`
	Version    int       `json:"version" validate:"required,min=1"`
	IsActive   bool      `json:"isActive"`
	Evidence   []string  `json:"evidence" validate:"omitempty,dive,required,max=1000"`
}

// SopPatch changes only the fields that are present
type SopPatch struct {
	Title      *string    `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Content    *string    `json:"content,omitempty" validate:"omitempty,min=1"`
	CategoryID *uuid.UUID `json:"categoryId,omitempty"`
	Version    *int       `json:"version,omitempty" validate:"omitempty,min=1"`
	IsActive   *bool      `json:"isActive,omitempty"`
	Evidence   *[]string  `json:"evidence,omitempty" validate:"omitempty,dive,required,max=1000"`
}

// Empty reports whether no field was supplied
func (p SopPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.CategoryID == nil &&
		p.Version == nil && p.IsActive == nil && p.Evidence == nil
}

// Apply merges the supplied fields into s
func (p SopPatch) Apply(s *Sop) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Content != nil {
		s.Content = *p.Content
	}
	if p.CategoryID != nil {
		s.CategoryID = *p.CategoryID
	}
	if p.Version != nil {
		s.Version = *p.Version
	}
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
	}
}

// SopFilter narrows SOP listings
type SopFilter struct {
	CategoryID *uuid.UUID
	ActiveOnly bool
}

// SopRepository defines the interface for SOP storage
type SopRepository interface {
	Create(ctx context.Context, sop *Sop) error
	GetByID(ctx context.Context, id uuid.UUID) (*Sop, error)
	List(ctx context.Context, filter SopFilter) ([]Sop, error)
	// ListActive returns active SOPs with category name and evidence, in store order
	ListActive(ctx context.Context) ([]Sop, error)
	// Update writes s; a non-nil evidence slice replaces the SOP's templates
	Update(ctx context.Context, sop *Sop, evidence []string) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// NewEvidence builds templates for descriptions. Creation times are spaced so
// that ordering by created_at keeps the submitted order.
func NewEvidence(sopID uuid.UUID, descriptions []string, at time.Time) []EvidenceTemplate {
	out := make([]EvidenceTemplate, 0, len(descriptions))
	for i, d := range descriptions {
		out = append(out, EvidenceTemplate{
			ID:          uuid.New(),
			SopID:       sopID,
			Description: d,
			CreatedAt:   at.Add(time.Duration(i) * time.Microsecond),
		})
	}
	return out
}
