package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/redecred/redecred"
)

// Ensure LoggingProviderSearcher implements redecred.ProviderSearcher.
var _ redecred.ProviderSearcher = (*LoggingProviderSearcher)(nil)

// LoggingProviderSearcher wraps a ProviderSearcher with logging. Pages whose
// envelope could not be understood are logged even though the search treats
// them as empty.
type LoggingProviderSearcher struct {
	next   redecred.ProviderSearcher
	logger *slog.Logger
}

// NewLoggingProviderSearcher creates a new LoggingProviderSearcher.
func NewLoggingProviderSearcher(next redecred.ProviderSearcher, logger *slog.Logger) *LoggingProviderSearcher {
	return &LoggingProviderSearcher{next: next, logger: logger}
}

func (s *LoggingProviderSearcher) SearchPage(ctx context.Context, parameters string, page, pageSize int) (result *redecred.ProviderPage, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"parameters", parameters,
			"page", page,
			"duration", time.Since(begin),
		}
		if result != nil {
			attrs = append(attrs, "count", len(result.Providers), "total_pages", result.TotalPages)
			if result.Malformed {
				s.logger.DebugContext(ctx, "malformed search envelope treated as empty", attrs...)
				return
			}
		}
		attrs = append(attrs, "err", err)
		s.logger.Log(ctx, levelFor(err), "search page", attrs...)
	}(time.Now())
	return s.next.SearchPage(ctx, parameters, page, pageSize)
}
