// Package influx writes per-round team metrics to InfluxDB, falling back
// to a gzipped line protocol file when the server is unreachable.
package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"

	"github.com/fluxwars/engine/internal/config"
	"github.com/fluxwars/engine/pkg/core"
)

// Measurement names.
const (
	MeasurementTeam  = "team_round"
	MeasurementMatch = "match_result"
)

// ErrDisabled is returned by Connect when influx is turned off.
var ErrDisabled = errors.New("influx is disabled")

// Manager handles InfluxDB connections and writes.
type Manager struct {
	Client     influxdb2.Client
	Writer     influxdb2_api.WriteAPI
	IsValid    bool
	Logger     zerolog.Logger
	BackupPath string

	cfg        config.InfluxConfig
	mu         sync.Mutex
	backupFile *os.File
	backup     *gzip.Writer
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger, cfg config.InfluxConfig, backupPath string) *Manager {
	return &Manager{
		Logger:     log,
		BackupPath: backupPath,
		cfg:        cfg,
	}
}

// Connect establishes a connection to InfluxDB. When the server does not
// answer, points go to the backup file instead.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.cfg.Enabled {
		return ErrDisabled
	}

	m.Client = influxdb2.NewClientWithOptions(
		m.cfg.URL(),
		m.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(2500).
			SetFlushInterval(1000),
	)

	running, err := m.Client.Ping(ctx)
	if err != nil || !running {
		m.Logger.Warn().Err(err).Str("backupPath", m.BackupPath).
			Msg("InfluxDB client failed to initialize, using backup writer")
		return m.OpenBackup()
	}

	if err := m.setupOrganizationAndBucket(ctx); err != nil {
		return err
	}
	m.createWriter()
	m.IsValid = true
	m.Logger.Info().Str("url", m.cfg.URL()).Msg("InfluxDB client initialized")
	return nil
}

// OpenBackup routes all points to the gzipped backup file.
func (m *Manager) OpenBackup() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.backup != nil {
		return nil
	}
	if m.BackupPath == "" {
		return fmt.Errorf("no backup path configured")
	}
	file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %v", err)
	}
	m.backupFile = file
	m.backup = gzip.NewWriter(file)
	return nil
}

func (m *Manager) setupOrganizationAndBucket(ctx context.Context) error {
	orgName := m.cfg.Org

	org, err := m.Client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		m.Logger.Info().Str("org", orgName).Msg("Organization not found, creating")
		org, err = m.Client.OrganizationsAPI().CreateOrganizationWithName(ctx, orgName)
		if err != nil {
			m.Logger.Error().Err(err).Str("org", orgName).Msg("Error creating organization")
			return err
		}
	}

	if _, err = m.Client.BucketsAPI().FindBucketByName(ctx, m.cfg.Bucket); err != nil {
		m.Logger.Info().Str("bucket", m.cfg.Bucket).Msg("Bucket not found, creating")

		rule := domain.RetentionRuleTypeExpire
		_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, org, m.cfg.Bucket, domain.RetentionRule{
			Type:         &rule,
			EverySeconds: 60 * 60 * 24 * 90, // 90 days
		})
		if err != nil {
			m.Logger.Error().Err(err).Str("bucket", m.cfg.Bucket).Msg("Error creating bucket")
			return err
		}
	}
	return nil
}

func (m *Manager) createWriter() {
	m.Writer = m.Client.WriteAPI(m.cfg.Org, m.cfg.Bucket)

	errorsCh := m.Writer.Errors()
	go func() {
		for writeErr := range errorsCh {
			m.Logger.Error().Err(writeErr).Str("bucket", m.cfg.Bucket).
				Msg("Error sending data to InfluxDB")
		}
	}()
}

// WritePoint writes a point to InfluxDB or the backup file.
func (m *Manager) WritePoint(point *influxdb2_write.Point) error {
	if m.IsValid {
		m.Writer.WritePoint(point)
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backup == nil {
		return fmt.Errorf("influxDB client not initialized and backup writer not available")
	}
	lineProtocol := strings.TrimSuffix(influxdb2_write.PointToLineProtocol(point, time.Nanosecond), "\n")
	if _, err := m.backup.Write([]byte(lineProtocol + "\n")); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %s", err)
	}
	return nil
}

// WriteRound writes one point per team for a finished round.
func (m *Manager) WriteRound(info core.MatchInfo, round int, stats [2]core.TeamStats, ts time.Time) error {
	for _, p := range RoundPoints(info, round, stats, ts) {
		if err := m.WritePoint(p); err != nil {
			return err
		}
	}
	return nil
}

// WriteResult writes the final result of a match.
func (m *Manager) WriteResult(info core.MatchInfo, result core.Result, ts time.Time) error {
	return m.WritePoint(ResultPoint(info, result, ts))
}

// Close flushes pending points and closes the backup file.
func (m *Manager) Close() error {
	if m.Writer != nil {
		m.Writer.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.backup == nil {
		return nil
	}
	err := errors.Join(m.backup.Close(), m.backupFile.Close())
	m.backup, m.backupFile = nil, nil
	return err
}

// RoundPoints builds the per-team points of one round.
func RoundPoints(info core.MatchInfo, round int, stats [2]core.TeamStats, ts time.Time) []*influxdb2_write.Point {
	out := make([]*influxdb2_write.Point, 0, len(stats))
	for _, s := range stats {
		p := influxdb2_write.NewPointWithMeasurement(MeasurementTeam).
			AddTag("match", info.Name).
			AddTag("map", info.MapName).
			AddTag("team", s.Team.String()).
			AddTag("player", info.TeamName(s.Team)).
			AddField("round", round).
			AddField("live_robots", s.LiveRobots).
			AddField("resources", s.Resources).
			AddField("spawned", s.Spawned).
			AddField("deaths", s.Deaths).
			AddField("attacks", s.Attacks).
			AddField("damage_dealt", s.DamageDealt).
			AddField("flux_mined", s.FluxMined).
			AddField("broadcasts", s.Broadcasts).
			SetTime(ts)
		out = append(out, p)
	}
	return out
}

// ResultPoint builds the point describing a finished match.
func ResultPoint(info core.MatchInfo, result core.Result, ts time.Time) *influxdb2_write.Point {
	return influxdb2_write.NewPointWithMeasurement(MeasurementMatch).
		AddTag("match", info.Name).
		AddTag("map", info.MapName).
		AddTag("winner", result.Winner.String()).
		AddTag("domination", result.Domination.String()).
		AddField("rounds", result.Rounds).
		AddField("seed", info.Seed).
		SetTime(ts)
}
