// Package mpb renders search progress as terminal progress bars.
package mpb

import (
	"io"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/redecred/redecred/search"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Reporter draws one bar per search section, advancing one step per page.
type Reporter struct {
	container *mpb.Progress

	mu   sync.Mutex
	bars map[string]*sectionBar
}

type sectionBar struct {
	bar   *mpb.Bar
	count atomic.Int64
}

// NewReporter creates a Reporter writing to w.
func NewReporter(w io.Writer, opts ...mpb.ContainerOption) *Reporter {
	opts = append([]mpb.ContainerOption{mpb.WithOutput(w), mpb.WithWidth(40)}, opts...)
	return &Reporter{
		container: mpb.New(opts...),
		bars:      make(map[string]*sectionBar),
	}
}

// Progress is a search.ProgressFunc.
func (r *Reporter) Progress(event search.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch event.Type {
	case search.ProgressStarted:
		r.start(event.Label)
	case search.ProgressPage:
		sb := r.bar(event.Label)
		sb.count.Store(int64(event.Count))
		if event.TotalPages > 0 {
			sb.bar.SetTotal(int64(event.TotalPages), false)
		}
		sb.bar.SetCurrent(int64(event.Page))
	case search.ProgressFailed:
		sb := r.bar(event.Label)
		sb.count.Store(int64(event.Count))
		sb.bar.Abort(false)
		delete(r.bars, event.Label)
	case search.ProgressFinished:
		sb := r.bar(event.Label)
		sb.count.Store(int64(event.Count))
		sb.bar.SetTotal(-1, true)
		delete(r.bars, event.Label)
	}
}

// Wait blocks until every bar has been rendered for the last time.
func (r *Reporter) Wait() {
	r.mu.Lock()
	for label, sb := range r.bars {
		sb.bar.Abort(false)
		delete(r.bars, label)
	}
	r.mu.Unlock()

	r.container.Wait()
}

func (r *Reporter) start(label string) *sectionBar {
	sb := &sectionBar{}
	sb.bar = r.container.AddBar(0,
		mpb.PrependDecorators(
			decor.Name(label, decor.WCSyncSpaceR),
			decor.CountersNoUnit("page %d/%d", decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.Any(func(decor.Statistics) string {
				return providerCount(sb.count.Load())
			}),
		),
	)
	r.bars[label] = sb
	return sb
}

func (r *Reporter) bar(label string) *sectionBar {
	if sb, ok := r.bars[label]; ok {
		return sb
	}
	return r.start(label)
}

func providerCount(n int64) string {
	if n == 1 {
		return "1 provider"
	}
	return strconv.FormatInt(n, 10) + " providers"
}
