package catalog

import "context"

// Repository defines read access to catalog types
type Repository interface {
	// ListAll returns every catalog type ordered by family then name
	ListAll(ctx context.Context) ([]*Type, error)
	// ListByFamily returns the catalog types of one family
	ListByFamily(ctx context.Context, family Family) ([]*Type, error)
}
