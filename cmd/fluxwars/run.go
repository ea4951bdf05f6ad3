package main

import (
	"context"
	"fmt"
	"io"
	"os"
	ossignal "os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fluxwars/engine/internal/config"
	"github.com/fluxwars/engine/internal/dispatcher"
	"github.com/fluxwars/engine/internal/engine"
	"github.com/fluxwars/engine/internal/influx"
	"github.com/fluxwars/engine/internal/logging"
	"github.com/fluxwars/engine/internal/mapdef"
	"github.com/fluxwars/engine/internal/match"
	"github.com/fluxwars/engine/internal/otel"
	"github.com/fluxwars/engine/internal/players"
	"github.com/fluxwars/engine/internal/storage"
	"github.com/fluxwars/engine/internal/worker"
	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/player"
)

var (
	flagMap     string
	flagTeamA   string
	flagTeamB   string
	flagName    string
	flagStorage string
	flagOutput  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play one match",
	Long: `Play one match to completion and record it.

The map is either a built-in name (see 'fluxwars list') or a path to a
.yaml map file. Storage and engine rules come from fluxwars.cfg.json;
--storage and --out override the configured backend.

Examples:
  fluxwars run --map arena --a hunter --b miner
  fluxwars run --map duel --a hunter --b hunter --storage none`,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()
		opts := runOptions{
			Map:      flagMap,
			TeamA:    flagTeamA,
			TeamB:    flagTeamB,
			Name:     flagName,
			LogLevel: config.GetString("logLevel"),
			LogsDir:  config.GetString("logsDir"),
			Engine:   config.GetEngineConfig(),
			Storage:  config.GetStorageConfig(),
			Influx:   config.GetInfluxConfig(),
			OTel:     config.GetOTelConfig(),
		}
		if flagLogLevel != "" {
			opts.LogLevel = flagLogLevel
		}
		if flagStorage != "" {
			opts.Storage.Type = flagStorage
		}
		if flagOutput != "" {
			opts.Storage.Memory.OutputDir = flagOutput
			opts.Storage.SQLite.DumpPath = filepath.Join(flagOutput, "matches.db")
		}

		ctx, stop := ossignal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		_, err := playMatch(ctx, opts, cmd.OutOrStdout())
		return err
	},
}

func init() {
	runCmd.Flags().StringVar(&flagMap, "map", "arena", "Built-in map name or path to a map YAML file")
	runCmd.Flags().StringVar(&flagTeamA, "a", "hunter", "Player for team A")
	runCmd.Flags().StringVar(&flagTeamB, "b", "miner", "Player for team B")
	runCmd.Flags().StringVar(&flagName, "name", "", "Match name (default: <a>-vs-<b>)")
	runCmd.Flags().StringVar(&flagStorage, "storage", "", "Storage backend override: memory, sqlite, none")
	runCmd.Flags().StringVar(&flagOutput, "out", "", "Output directory override for replays and dumps")
}

// loadConfig reads the config file, falling back to defaults when there
// is none.
func loadConfig() {
	if err := config.Load(flagConfigDir); err != nil {
		config.SetDefaults()
	}
}

type runOptions struct {
	Map      string
	TeamA    string
	TeamB    string
	Name     string
	LogLevel string
	// LogsDir receives the log file; empty logs to the console.
	LogsDir string
	Engine  engine.Config
	Storage config.StorageConfig
	Influx  config.InfluxConfig
	OTel    config.OTelConfig
}

// playMatch wires the whole stack, plays one match and prints the result.
func playMatch(ctx context.Context, opts runOptions, out io.Writer) (core.Result, error) {
	start := time.Now()

	var logFile io.Writer
	zlogOut := io.Writer(os.Stderr)
	if opts.LogsDir != "" {
		f, err := logging.OpenLogFile(opts.LogsDir, logging.ServiceName, start)
		if err != nil {
			return core.Result{}, err
		}
		defer f.Close()
		logFile, zlogOut = f, f
	}
	zlog := logging.NewZerolog(zlogOut, opts.LogLevel)

	provider, err := otel.New(otel.Config{
		Enabled:      opts.OTel.Enabled,
		ServiceName:  opts.OTel.ServiceName,
		BatchTimeout: opts.OTel.BatchTimeout,
		LogWriter:    logFile,
		Endpoint:     opts.OTel.Endpoint,
		Insecure:     opts.OTel.Insecure,
	})
	if err != nil {
		return core.Result{}, fmt.Errorf("setting up telemetry: %w", err)
	}
	defer provider.Shutdown(context.Background())

	mc := match.NewContext()
	lm := logging.NewSlogManager()
	lm.Setup(logging.Options{
		Console:  os.Stderr,
		File:     logFile,
		Level:    opts.LogLevel,
		Provider: provider.LoggerProvider(),
		Context:  logging.MatchAttrs(mc),
	})
	logger := lm.Logger()
	defer lm.Flush(context.Background())

	def, err := mapdef.Load(opts.Map)
	if err != nil {
		return core.Result{}, err
	}
	progA, err := players.Lookup(opts.TeamA)
	if err != nil {
		return core.Result{}, err
	}
	progB, err := players.Lookup(opts.TeamB)
	if err != nil {
		return core.Result{}, err
	}

	backend, err := storage.NewBackend(opts.Storage, zlog)
	if err != nil {
		return core.Result{}, err
	}
	if err := backend.Init(); err != nil {
		return core.Result{}, fmt.Errorf("initializing %s storage: %w", opts.Storage.Type, err)
	}
	defer backend.Close()

	var im *influx.Manager
	if opts.Influx.Enabled {
		backupPath := filepath.Join(opts.LogsDir, "influx_backup.lp.gz")
		im = influx.NewManager(zlog, opts.Influx, backupPath)
		if err := im.Connect(ctx); err != nil {
			logger.Warn("influx unavailable", "error", err)
			im = nil
		} else {
			defer im.Close()
		}
	}

	disp, err := dispatcher.New(logging.NewDispatcherLogger(zlog))
	if err != nil {
		return core.Result{}, err
	}
	manager := worker.NewManager(worker.Dependencies{
		Logger:           logger,
		Backend:          backend,
		Influx:           im,
		IncludeBytecodes: opts.Engine.IncludeBytecodes,
	})
	manager.RegisterHandlers(disp)
	rec := manager.NewRecorder(disp)

	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("%s-vs-%s", opts.TeamA, opts.TeamB)
	}
	e, err := engine.New(opts.Engine, def.Map, core.MatchInfo{
		Name:      name,
		TeamA:     opts.TeamA,
		TeamB:     opts.TeamB,
		StartTime: start.UTC(),
	}, engine.Dependencies{
		Logger:    logger,
		Match:     mc,
		Programs:  [2]player.Factory{progA, progB},
		Observers: []engine.Observer{rec},
	})
	if err != nil {
		return core.Result{}, err
	}
	defer e.Close()

	if err := def.Populate(e); err != nil {
		return core.Result{}, err
	}
	if err := rec.Start(e.MatchInfo(), e.Digest); err != nil {
		return core.Result{}, err
	}

	logger.Info("match started", "map", def.Map.Name(), "a", opts.TeamA, "b", opts.TeamB)
	res, runErr := e.Run(ctx)
	disp.Close()

	if runErr != nil {
		return core.Result{}, fmt.Errorf("match aborted in round %d: %w", e.Round(), runErr)
	}
	if err := manager.Err(); err != nil {
		logger.Error("recording incomplete", "error", err)
	}

	printResult(out, e, res)
	if exp, ok := backend.(storage.Exportable); ok && exp.ExportedFilePath() != "" {
		fmt.Fprintf(out, "replay: %s\n", exp.ExportedFilePath())
	}
	return res, nil
}

func printResult(w io.Writer, e *engine.Engine, res core.Result) {
	info := e.MatchInfo()
	fmt.Fprintf(w, "%s on %s: ", info.Name, info.MapName)
	if res.Winner == core.TeamNeutral {
		fmt.Fprintf(w, "no winner after %d rounds\n", res.Rounds)
	} else {
		fmt.Fprintf(w, "%s (%s) wins, %s, after %d rounds\n", info.TeamName(res.Winner), res.Winner, res.Domination, res.Rounds)
	}
	for _, s := range res.Stats {
		fmt.Fprintf(w, "  %s  live %-3d spawned %-3d deaths %-3d damage %-7.1f mined %-4d resources %d\n",
			s.Team, s.LiveRobots, s.Spawned, s.Deaths, s.DamageDealt, s.FluxMined, s.Resources)
	}
	if digest, err := e.Digest(); err == nil {
		fmt.Fprintf(w, "digest: %s\n", digest)
	}
}
