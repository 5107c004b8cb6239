// Package search orchestrates paginated provider searches and their
// expansion to reciprocity networks and neighboring municipalities.
package search

import (
	"context"

	"github.com/redecred/redecred"
)

// ProgressEvent reports progress of a paginated search.
type ProgressEvent struct {
	Type       ProgressType
	Label      string
	Page       int
	TotalPages int
	Count      int
	Error      error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressPage
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting search progress.
type ProgressFunc func(event ProgressEvent)

// Paginator walks every page of a provider search in order.
type Paginator struct {
	Searcher redecred.ProviderSearcher
	PageSize int
}

// Collect fetches pages 1..totalPages for the encoded filter parameters and
// accumulates their providers in arrival order.
//
// A malformed envelope ends the search without error. A failed request ends
// it immediately: the section keeps the providers already gathered and its
// Err is a *redecred.SearchError naming the label and page.
func (p *Paginator) Collect(ctx context.Context, label, parameters string, progress ProgressFunc) *redecred.Section {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = redecred.DefaultPageSize
	}

	section := &redecred.Section{Label: label}
	progress(ProgressEvent{Type: ProgressStarted, Label: label})

	for page := 1; ; page++ {
		result, err := p.Searcher.SearchPage(ctx, parameters, page, pageSize)
		if err != nil {
			section.Err = &redecred.SearchError{Label: label, Page: page, Err: err}
			progress(ProgressEvent{Type: ProgressFailed, Label: label, Page: page, Count: len(section.Providers), Error: section.Err})
			return section
		}
		if result.Malformed {
			break
		}

		section.Pages = page
		section.Providers = append(section.Providers, result.Providers...)
		progress(ProgressEvent{
			Type:       ProgressPage,
			Label:      label,
			Page:       page,
			TotalPages: result.TotalPages,
			Count:      len(section.Providers),
		})

		if page >= result.TotalPages {
			break
		}
	}

	progress(ProgressEvent{Type: ProgressFinished, Label: label, Page: section.Pages, TotalPages: section.Pages, Count: len(section.Providers)})
	return section
}
