package mpb_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/redecred/redecred/mpb"
	"github.com/redecred/redecred/search"
)

func waitOrFail(t *testing.T, r *mpb.Reporter) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		r.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reporter did not finish")
	}
}

func TestReporter(t *testing.T) {
	t.Parallel()

	t.Run("completes finished and failed sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := mpb.NewReporter(&buf)

		r.Progress(search.ProgressEvent{Type: search.ProgressStarted, Label: "Primary municipality"})
		r.Progress(search.ProgressEvent{Type: search.ProgressPage, Label: "Primary municipality", Page: 1, TotalPages: 2, Count: 50})
		r.Progress(search.ProgressEvent{Type: search.ProgressPage, Label: "Primary municipality", Page: 2, TotalPages: 2, Count: 73})
		r.Progress(search.ProgressEvent{Type: search.ProgressFinished, Label: "Primary municipality", Page: 2, TotalPages: 2, Count: 73})

		r.Progress(search.ProgressEvent{Type: search.ProgressStarted, Label: "Luziania"})
		r.Progress(search.ProgressEvent{Type: search.ProgressFailed, Label: "Luziania", Page: 1, Error: errors.New("timeout")})

		waitOrFail(t, r)
	})

	t.Run("finishes a section with no pages", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := mpb.NewReporter(&buf)

		r.Progress(search.ProgressEvent{Type: search.ProgressStarted, Label: "Empty"})
		r.Progress(search.ProgressEvent{Type: search.ProgressFinished, Label: "Empty"})

		waitOrFail(t, r)
	})

	t.Run("wait releases unfinished sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := mpb.NewReporter(&buf)

		r.Progress(search.ProgressEvent{Type: search.ProgressPage, Label: "Interrupted", Page: 1, TotalPages: 4, Count: 50})

		waitOrFail(t, r)
	})
}
