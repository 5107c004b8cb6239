package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/redecred/redecred"
)

// Ensure LoggingNeighborService implements redecred.NeighborService.
var _ redecred.NeighborService = (*LoggingNeighborService)(nil)

// LoggingNeighborService wraps a NeighborService with logging.
type LoggingNeighborService struct {
	next   redecred.NeighborService
	logger *slog.Logger
}

// NewLoggingNeighborService creates a new LoggingNeighborService.
func NewLoggingNeighborService(next redecred.NeighborService, logger *slog.Logger) *LoggingNeighborService {
	return &LoggingNeighborService{next: next, logger: logger}
}

func (s *LoggingNeighborService) FindNeighbors(ctx context.Context, municipalityID string) (neighbors []*redecred.Neighbor, err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, levelFor(err), "neighbor lookup",
			"municipality", municipalityID,
			"count", len(neighbors),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindNeighbors(ctx, municipalityID)
}
