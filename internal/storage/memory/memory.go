// Package memory keeps a match in memory and writes it as a replay file
// when the match ends.
package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fluxwars/engine/internal/config"
	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/replay"
)

// Backend stores match data in memory and exports to JSON
type Backend struct {
	cfg  config.MemoryConfig
	file *replay.File

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend. An empty OutputDir keeps recordings
// in memory only.
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartMatch begins recording a new match, discarding any previous one.
func (b *Backend) StartMatch(header replay.Header) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	header.Version = replay.Version
	b.file = &replay.File{Header: header}
	b.lastExportPath = ""
	return nil
}

// RecordRound appends one finished round.
func (b *Backend) RecordRound(round replay.Round) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.file == nil {
		return fmt.Errorf("no match started")
	}
	if n := len(b.file.Rounds); n > 0 && b.file.Rounds[n-1].Round >= round.Round {
		return fmt.Errorf("round %d recorded after round %d", round.Round, b.file.Rounds[n-1].Round)
	}
	b.file.Rounds = append(b.file.Rounds, round)
	return nil
}

// EndMatch stores the result and exports the replay.
func (b *Backend) EndMatch(result core.Result, digest string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.file == nil {
		return fmt.Errorf("no match started")
	}
	b.file.Result = &result
	b.file.Digest = digest

	if b.cfg.OutputDir == "" {
		return nil
	}
	return b.export()
}

// Recording returns the current recording, or nil before StartMatch.
func (b *Backend) Recording() *replay.File {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.file
}

// ExportedFilePath returns the path of the last written replay.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

func (b *Backend) export() error {
	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, fileName(b.file.Match, b.cfg.CompressOutput))
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create replay file: %w", err)
	}
	if err := replay.Write(f, b.file, b.cfg.CompressOutput); err != nil {
		f.Close()
		return fmt.Errorf("failed to write replay: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close replay file: %w", err)
	}

	b.lastExportPath = outputPath
	return nil
}

// fileName builds "<match>_<map>_<start>.json[.gz]" with unsafe characters
// replaced.
func fileName(info core.MatchInfo, compress bool) string {
	clean := strings.NewReplacer(" ", "_", ":", "_", "/", "_", "\\", "_")
	name := fmt.Sprintf("%s_%s_%s",
		clean.Replace(info.Name),
		clean.Replace(info.MapName),
		info.StartTime.Format("20060102_150405"))
	if compress {
		return name + ".json.gz"
	}
	return name + ".json"
}
