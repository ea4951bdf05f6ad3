package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/fluxwars/engine/internal/config"
	"github.com/fluxwars/engine/internal/storage/memory"
	sqlitestorage "github.com/fluxwars/engine/internal/storage/sqlite"
	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/replay"
)

// NewBackend creates a storage backend based on configuration.
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "memory", "":
		return memory.New(cfg.Memory), nil
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			DumpPath:     cfg.SQLite.DumpPath,
			DumpInterval: cfg.SQLite.DumpInterval,
		}, log), nil
	case "none":
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// Discard drops everything.
type Discard struct{}

func (Discard) Init() error                        { return nil }
func (Discard) Close() error                       { return nil }
func (Discard) StartMatch(replay.Header) error     { return nil }
func (Discard) EndMatch(core.Result, string) error { return nil }
func (Discard) RecordRound(replay.Round) error     { return nil }
