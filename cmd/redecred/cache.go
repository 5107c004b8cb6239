package main

import (
	"fmt"
	"time"

	"github.com/redecred/redecred"
)

// Run executes the cache purge command.
func (c *CachePurgeCmd) Run(deps *Dependencies) error {
	n, err := deps.Store.Purge(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", redecred.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Removed %d cached %s.\n", n, plural(n, "lookup"))
	return nil
}

// Run executes the cache stats command.
func (c *CacheStatsCmd) Run(deps *Dependencies) error {
	stats, err := deps.Cache.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", redecred.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Entries: %d\n", stats.Entries)
	fmt.Fprintf(deps.Stdout, "Bytes:   %d\n", stats.Bytes)
	if !stats.Oldest.IsZero() {
		fmt.Fprintf(deps.Stdout, "Oldest:  %s\n", stats.Oldest.Local().Format(time.DateTime))
	}
	return nil
}
