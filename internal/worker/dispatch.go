package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/fluxwars/engine/internal/dispatcher"
	"github.com/fluxwars/engine/internal/engine"
	"github.com/fluxwars/engine/internal/storage"
	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/replay"
	"github.com/fluxwars/engine/pkg/signal"
)

// Commands published by the Recorder.
const (
	CmdMatchStart = ":MATCH:START:"
	CmdRound      = ":ROUND:"
	CmdMatchEnd   = ":MATCH:END:"
)

// MatchEnd is the payload of CmdMatchEnd.
type MatchEnd struct {
	Result core.Result
	Digest string
}

// RegisterHandlers registers all event handlers with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	// Start and end are sync so callers see storage errors directly.
	d.Register(CmdMatchStart, m.handleMatchStart, dispatcher.Logged())
	d.Register(CmdMatchEnd, m.handleMatchEnd, dispatcher.Logged())

	// Rounds are buffered; a full queue stalls the engine rather than lose
	// a round.
	d.Register(CmdRound, m.handleRound, dispatcher.Buffered(256), dispatcher.Blocking(), dispatcher.Logged())
}

func (m *Manager) handleMatchStart(e dispatcher.Event) (any, error) {
	info, ok := e.Payload.(core.MatchInfo)
	if !ok {
		return nil, fmt.Errorf("match start payload is %T", e.Payload)
	}

	header := replay.Header{Version: replay.Version, Match: info, IncludeBytecodes: m.deps.IncludeBytecodes}
	if err := m.deps.Backend.StartMatch(header); err != nil {
		return nil, m.fail(fmt.Errorf("starting match: %w", err))
	}

	m.mu.Lock()
	m.info = &info
	m.errs = nil
	m.mu.Unlock()
	return nil, nil
}

func (m *Manager) handleRound(e dispatcher.Event) (any, error) {
	defer m.pending.Done()

	report, ok := e.Payload.(engine.RoundReport)
	if !ok {
		return nil, m.fail(fmt.Errorf("round payload is %T", e.Payload))
	}
	info, ok := m.match()
	if !ok {
		return nil, m.fail(ErrNoMatch)
	}

	start := time.Now()
	sigs := signal.Filter(report.Signals, m.deps.IncludeBytecodes)
	round, err := replay.NewRound(report.Round, sigs, report.Stats)
	if err != nil {
		return nil, m.fail(fmt.Errorf("encoding round %d: %w", report.Round, err))
	}
	if err := m.deps.Backend.RecordRound(round); err != nil {
		return nil, m.fail(fmt.Errorf("recording round %d: %w", report.Round, err))
	}
	if m.deps.Influx != nil {
		if err := m.deps.Influx.WriteRound(info, report.Round, report.Stats, e.Timestamp); err != nil {
			m.deps.Logger.Warn("influx write failed", "round", report.Round, "error", err)
		}
	}

	m.mu.Lock()
	m.lastWrite = time.Since(start)
	m.mu.Unlock()
	return nil, nil
}

func (m *Manager) handleMatchEnd(e dispatcher.Event) (any, error) {
	end, ok := e.Payload.(MatchEnd)
	if !ok {
		return nil, fmt.Errorf("match end payload is %T", e.Payload)
	}
	info, ok := m.match()
	if !ok {
		return nil, m.fail(ErrNoMatch)
	}

	// Every round must be stored before the result.
	m.pending.Wait()

	if err := m.deps.Backend.EndMatch(end.Result, end.Digest); err != nil {
		return nil, m.fail(fmt.Errorf("ending match: %w", err))
	}
	if m.deps.Influx != nil {
		if err := m.deps.Influx.WriteResult(info, end.Result, e.Timestamp); err != nil {
			m.deps.Logger.Warn("influx write failed", "error", err)
		}
	}
	if p, ok := m.deps.Backend.(storage.Exportable); ok && p.ExportedFilePath() != "" {
		m.deps.Logger.Info("replay written", "path", p.ExportedFilePath())
	}
	return nil, nil
}

// Recorder connects an engine to a dispatcher. It implements
// engine.Observer.
type Recorder struct {
	m      *Manager
	d      *dispatcher.Dispatcher
	digest func() (string, error)
}

// NewRecorder returns an observer publishing on d. Handlers must already
// be registered.
func (m *Manager) NewRecorder(d *dispatcher.Dispatcher) *Recorder {
	return &Recorder{m: m, d: d}
}

// Start announces a match. digest is called once the match is over, on
// the engine goroutine.
func (r *Recorder) Start(info core.MatchInfo, digest func() (string, error)) error {
	r.digest = digest
	_, err := r.d.Dispatch(dispatcher.Event{Command: CmdMatchStart, Round: -1, Payload: info})
	return err
}

// RoundComplete queues a finished round for storage. The report's signals
// belong to a closed round and are read by the handler goroutine as is.
func (r *Recorder) RoundComplete(ctx context.Context, report engine.RoundReport) {
	r.m.pending.Add(1)
	if _, err := r.d.Dispatch(dispatcher.Event{Command: CmdRound, Round: report.Round, Payload: report}); err != nil {
		r.m.pending.Done()
		r.m.fail(fmt.Errorf("queueing round %d: %w", report.Round, err))
	}
}

// MatchComplete stores the result after every queued round.
func (r *Recorder) MatchComplete(ctx context.Context, result core.Result) {
	var digest string
	if r.digest != nil {
		d, err := r.digest()
		if err != nil {
			r.m.fail(fmt.Errorf("computing digest: %w", err))
		}
		digest = d
	}
	if _, err := r.d.Dispatch(dispatcher.Event{Command: CmdMatchEnd, Round: result.Rounds, Payload: MatchEnd{Result: result, Digest: digest}}); err != nil {
		r.m.fail(err)
	}
}
