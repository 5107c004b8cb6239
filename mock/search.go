package mock

import (
	"context"

	"github.com/redecred/redecred"
)

var _ redecred.ProviderSearcher = (*ProviderSearcher)(nil)

// ProviderSearcher is a mock implementation of redecred.ProviderSearcher.
type ProviderSearcher struct {
	SearchPageFn func(ctx context.Context, parameters string, page, pageSize int) (*redecred.ProviderPage, error)
}

func (s *ProviderSearcher) SearchPage(ctx context.Context, parameters string, page, pageSize int) (*redecred.ProviderPage, error) {
	return s.SearchPageFn(ctx, parameters, page, pageSize)
}
