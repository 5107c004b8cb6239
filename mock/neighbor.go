package mock

import (
	"context"

	"github.com/redecred/redecred"
)

var _ redecred.NeighborService = (*NeighborService)(nil)

// NeighborService is a mock implementation of redecred.NeighborService.
type NeighborService struct {
	FindNeighborsFn func(ctx context.Context, municipalityID string) ([]*redecred.Neighbor, error)
}

func (s *NeighborService) FindNeighbors(ctx context.Context, municipalityID string) ([]*redecred.Neighbor, error) {
	return s.FindNeighborsFn(ctx, municipalityID)
}
