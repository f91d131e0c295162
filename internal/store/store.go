// Package store provides persistence for the saved-expression library.
package store

import "time"

// SavedExpression is one named expression in the library.
type SavedExpression struct {
	Name       string    `json:"name"`
	Raw        string    `json:"raw"`
	Normalized string    `json:"normalized"`
	Kind       string    `json:"kind"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store is the interface for saved-expression persistence.
type Store interface {
	// Get retrieves an expression by name. Returns nil if not found.
	Get(name string) (*SavedExpression, error)
	// Put stores an expression, overwriting any existing entry of that name.
	// It stamps UpdatedAt on the passed struct and sets CreatedAt when the
	// name is new, preserving the original creation time on overwrite.
	Put(se *SavedExpression) error
	// Delete removes an expression by name.
	Delete(name string) error
	// List returns all saved expressions ordered by name.
	List() ([]*SavedExpression, error)
	// Close releases resources.
	Close() error
}
