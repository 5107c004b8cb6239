// Package slog provides logging decorators for redecred services.
package slog

import "log/slog"

// levelFor logs failures at warn so they surface at the default level.
func levelFor(err error) slog.Level {
	if err != nil {
		return slog.LevelWarn
	}
	return slog.LevelDebug
}
