// Package storage records finished rounds of a match.
package storage

import (
	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/replay"
)

// Backend is the interface all storage implementations must satisfy.
// Calls for one match arrive in order from a single goroutine.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Match management
	StartMatch(header replay.Header) error
	EndMatch(result core.Result, digest string) error

	// Round recording
	RecordRound(round replay.Round) error
}

// Exportable is an optional interface for backends that write a replay
// file when a match ends.
type Exportable interface {
	ExportedFilePath() string
}
