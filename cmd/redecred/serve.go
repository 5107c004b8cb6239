package main

import (
	"github.com/redecred/redecred/scheduler"
	"github.com/redecred/redecred/server"
)

// Run executes the serve command until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := &server.Server{
		Catalog:   deps.Catalog,
		Neighbors: deps.Neighbors,
		Runner:    deps.Runner,
		Logger:    deps.Logger,
		Metrics:   deps.Metrics,
		Gatherer:  deps.Registry,
		Reference: deps.Reference,
		Session:   deps.Session,
	}
	if !c.NoRateLimit {
		s.Limiter = server.NewRateLimiter(c.ClientRate, c.ClientBurst, deps.Metrics)
	}

	sched := scheduler.NewScheduler(deps.Store, deps.Logger, nil)
	sched.PurgeAt = c.PurgeAt
	if s.Limiter != nil {
		sched.Sweeper = s.Limiter
	}
	if err := sched.Start(deps.Ctx); err != nil {
		return err
	}
	defer sched.Stop()

	return s.ListenAndServe(deps.Ctx, c.Addr)
}
