// Package sqlitestorage implements the storage.Backend interface on an
// in-memory SQLite database with periodic disk dumps via VACUUM INTO.
package sqlitestorage

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fluxwars/engine/internal/database"
	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/replay"
	"github.com/fluxwars/engine/pkg/signal"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	DumpInterval time.Duration
	DumpPath     string // Path for VACUUM INTO dumps; empty disables them
}

// MatchRecord is one match.
type MatchRecord struct {
	ID               uint `gorm:"primarykey"`
	Name             string
	MapName          string `gorm:"index"`
	Seed             int64
	MaxRounds        int
	TeamA            string
	TeamB            string
	StartTime        time.Time
	IncludeBytecodes bool

	Finished   bool
	Winner     string
	Domination string
	Rounds     int
	Digest     string
	Result     datatypes.JSON
}

// RoundRecord holds the team statistics after one round.
type RoundRecord struct {
	ID      uint `gorm:"primarykey"`
	MatchID uint `gorm:"index:idx_round,unique"`
	Round   int  `gorm:"index:idx_round,unique"`
	Stats   datatypes.JSON
}

// SignalRecord is one logged signal.
type SignalRecord struct {
	ID      uint   `gorm:"primarykey"`
	MatchID uint   `gorm:"index:idx_signal"`
	Round   int    `gorm:"index:idx_signal"`
	Seq     int    `gorm:"index:idx_signal"`
	Type    string `gorm:"index"`
	Payload datatypes.JSON
}

// Models lists every table of the schema.
var Models = []any{&MatchRecord{}, &RoundRecord{}, &SignalRecord{}}

// Backend stores matches in SQLite.
type Backend struct {
	cfg Config
	db  *database.Manager
	log zerolog.Logger

	mu      sync.Mutex
	current *MatchRecord

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a new SQLite storage backend. Nothing is opened until Init.
func New(cfg Config, log zerolog.Logger) *Backend {
	m := database.NewManager(log)
	m.DumpPath = cfg.DumpPath
	return &Backend{
		cfg:      cfg,
		db:       m,
		log:      log,
		stopChan: make(chan struct{}),
	}
}

// Init opens the database, migrates the schema and starts the dump loop.
func (b *Backend) Init() error {
	if err := b.db.Open(""); err != nil {
		return fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}
	if err := b.db.Setup(Models...); err != nil {
		return err
	}

	if b.cfg.DumpPath != "" && b.cfg.DumpInterval > 0 {
		b.wg.Add(1)
		go b.dumpLoop()
	}
	return nil
}

// Close stops the dump loop, writes a final dump and closes the database.
func (b *Backend) Close() error {
	b.stopOnce.Do(func() { close(b.stopChan) })
	b.wg.Wait()

	if b.db.DB == nil {
		return nil
	}
	if b.cfg.DumpPath != "" {
		if err := b.db.DumpMemoryToDisk(); err != nil {
			b.log.Error().Err(err).Msg("Final dump failed")
		}
	}
	return b.db.Close()
}

// DB exposes the connection for queries.
func (b *Backend) DB() *gorm.DB {
	return b.db.DB
}

// StartMatch inserts a match row.
func (b *Backend) StartMatch(header replay.Header) error {
	info := header.Match
	rec := &MatchRecord{
		Name:             info.Name,
		MapName:          info.MapName,
		Seed:             info.Seed,
		MaxRounds:        info.MaxRounds,
		TeamA:            info.TeamA,
		TeamB:            info.TeamB,
		StartTime:        info.StartTime,
		IncludeBytecodes: header.IncludeBytecodes,
	}
	if err := b.db.DB.Create(rec).Error; err != nil {
		return fmt.Errorf("inserting match: %w", err)
	}

	b.mu.Lock()
	b.current = rec
	b.mu.Unlock()

	b.log.Info().Uint("match", rec.ID).Str("name", rec.Name).Msg("Recording match")
	return nil
}

// RecordRound stores the round statistics and its signals in one
// transaction.
func (b *Backend) RecordRound(round replay.Round) error {
	match, err := b.match()
	if err != nil {
		return err
	}

	stats, err := json.Marshal(round.Stats)
	if err != nil {
		return fmt.Errorf("encoding stats: %w", err)
	}
	signals := make([]SignalRecord, len(round.Signals))
	for i, env := range round.Signals {
		signals[i] = SignalRecord{
			MatchID: match.ID,
			Round:   env.Round,
			Seq:     env.Seq,
			Type:    env.Type,
			Payload: datatypes.JSON(env.Payload),
		}
	}

	return b.db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&RoundRecord{MatchID: match.ID, Round: round.Round, Stats: stats}).Error; err != nil {
			return fmt.Errorf("inserting round %d: %w", round.Round, err)
		}
		if len(signals) == 0 {
			return nil
		}
		if err := tx.Create(&signals).Error; err != nil {
			return fmt.Errorf("inserting signals of round %d: %w", round.Round, err)
		}
		return nil
	})
}

// EndMatch stores the result on the match row.
func (b *Backend) EndMatch(result core.Result, digest string) error {
	match, err := b.match()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	err = b.db.DB.Model(match).Updates(map[string]any{
		"finished":   true,
		"winner":     result.Winner.String(),
		"domination": result.Domination.String(),
		"rounds":     result.Rounds,
		"digest":     digest,
		"result":     datatypes.JSON(raw),
	}).Error
	if err != nil {
		return fmt.Errorf("updating match %d: %w", match.ID, err)
	}

	b.log.Info().Uint("match", match.ID).Str("winner", result.Winner.String()).Msg("Match stored")
	return nil
}

func (b *Backend) match() (*MatchRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil, fmt.Errorf("no match started")
	}
	return b.current, nil
}

// KindCounts returns how many signals of each type a match logged.
func (b *Backend) KindCounts(matchID uint) (map[string]int, error) {
	var rows []struct {
		Type  string
		Count int
	}
	err := b.db.DB.Model(&SignalRecord{}).
		Select("type, count(*) as count").
		Where("match_id = ?", matchID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting signals: %w", err)
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Type] = r.Count
	}
	return out, nil
}

// Replay rebuilds the recording of a stored match.
func (b *Backend) Replay(matchID uint) (*replay.File, error) {
	var m MatchRecord
	if err := b.db.DB.First(&m, matchID).Error; err != nil {
		return nil, fmt.Errorf("loading match %d: %w", matchID, err)
	}

	f := &replay.File{
		Header: replay.Header{
			Version: replay.Version,
			Match: core.MatchInfo{
				Name:      m.Name,
				MapName:   m.MapName,
				Seed:      m.Seed,
				MaxRounds: m.MaxRounds,
				TeamA:     m.TeamA,
				TeamB:     m.TeamB,
				StartTime: m.StartTime,
			},
			IncludeBytecodes: m.IncludeBytecodes,
		},
		Digest: m.Digest,
	}
	if m.Finished {
		var res core.Result
		if err := json.Unmarshal(m.Result, &res); err != nil {
			return nil, fmt.Errorf("decoding result: %w", err)
		}
		f.Result = &res
	}

	var rounds []RoundRecord
	if err := b.db.DB.Where("match_id = ?", matchID).Order("round").Find(&rounds).Error; err != nil {
		return nil, fmt.Errorf("loading rounds: %w", err)
	}
	var signals []SignalRecord
	if err := b.db.DB.Where("match_id = ?", matchID).Order("round, seq").Find(&signals).Error; err != nil {
		return nil, fmt.Errorf("loading signals: %w", err)
	}

	byRound := make(map[int][]signal.Envelope)
	for _, s := range signals {
		byRound[s.Round] = append(byRound[s.Round], signal.Envelope{
			Round:   s.Round,
			Seq:     s.Seq,
			Type:    s.Type,
			Payload: json.RawMessage(s.Payload),
		})
	}
	for _, r := range rounds {
		rr := replay.Round{Round: r.Round, Signals: byRound[r.Round]}
		if err := json.Unmarshal(r.Stats, &rr.Stats); err != nil {
			return nil, fmt.Errorf("decoding stats of round %d: %w", r.Round, err)
		}
		f.Rounds = append(f.Rounds, rr)
	}
	return f, nil
}

// dumpLoop periodically dumps the in-memory database to disk. VACUUM INTO
// takes a point-in-time snapshot, so writers are not paused.
func (b *Backend) dumpLoop() {
	defer b.wg.Done()
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.db.DumpMemoryToDisk(); err != nil {
				b.log.Error().Err(err).Msg("Error dumping to disk")
			}
		}
	}
}
