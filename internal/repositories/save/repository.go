// Package save provides the interface for character save-slot persistence
package save

//go:generate mockgen -destination=mock/mock_repository.go -package=savemock github.com/deepdelve/crawler-core/internal/repositories/save Repository

import (
	"context"

	"github.com/deepdelve/crawler-core/internal/entities/crawler"
)

// Record is the canonical persisted object for one save slot. Writes are
// always full-object overwrites; there is no partial patch protocol.
type Record struct {
	Character *crawler.Character `json:"character"`
	Enemies   []*crawler.Enemy   `json:"enemies,omitempty"`
}

// Repository defines the interface for save-slot persistence
type Repository interface {
	// Get retrieves the record for a save slot
	// Returns errors.InvalidArgument for an empty slot
	// Returns errors.NotFound when the slot is uninitialized
	// Returns errors.Unavailable for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save overwrites the record for a save slot
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.Unavailable for storage failures
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)

	// Delete removes the record for a save slot
	// Returns errors.InvalidArgument for an empty slot
	// Returns errors.Unavailable for storage failures
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// GetInput defines the input for reading a save slot
type GetInput struct {
	Slot string
}

// GetOutput defines the output for reading a save slot
type GetOutput struct {
	Record *Record
}

// SaveInput defines the input for overwriting a save slot
type SaveInput struct {
	Slot   string
	Record *Record
}

// SaveOutput defines the output for overwriting a save slot
type SaveOutput struct {
	Record *Record
}

// DeleteInput defines the input for deleting a save slot
type DeleteInput struct {
	Slot string
}

// DeleteOutput defines the output for deleting a save slot
type DeleteOutput struct{}
