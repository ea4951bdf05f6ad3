// Package monitor runs untrusted robot programs one at a time under a fuel
// budget. Each program lives on its own goroutine and only runs between a
// resume from the engine and the next suspension point.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome says how a turn ended.
type Outcome uint8

const (
	// Yielded: the program gave up the rest of its turn.
	Yielded Outcome = iota
	// Exhausted: the fuel budget ran out.
	Exhausted
	// Finished: the program returned.
	Finished
	// Panicked: the program crashed.
	Panicked
	// TimedOut: the wall-clock bound expired; the agent is stopped for good.
	TimedOut
	// Stopped: no runnable program (never registered, finished, or released).
	Stopped
)

func (o Outcome) String() string {
	switch o {
	case Yielded:
		return "yielded"
	case Exhausted:
		return "exhausted"
	case Finished:
		return "finished"
	case Panicked:
		return "panicked"
	case TimedOut:
		return "timed_out"
	default:
		return "stopped"
	}
}

// Terminal reports whether the agent can never run again.
func (o Outcome) Terminal() bool {
	return o >= Finished
}

// TurnResult reports one turn.
type TurnResult struct {
	Outcome Outcome
	Used    int
	Err     error
}

// errAborted unwinds an agent goroutine that was stopped by the engine.
var errAborted = errors.New("agent aborted")

// Config holds monitor settings.
type Config struct {
	// TurnTimeout bounds the wall-clock time of one turn. Zero disables it.
	TurnTimeout time.Duration
}

type agent struct {
	id      int
	body    func()
	started bool

	resume    chan struct{}
	yield     chan TurnResult
	closeOnce sync.Once

	exec     sync.Mutex
	used     atomic.Int64
	limit    atomic.Int64
	timedOut atomic.Bool
	released atomic.Bool
	done     atomic.Bool

	turns    int
	lastUsed int
}

// Monitor owns every agent goroutine of a match.
type Monitor struct {
	cfg    Config
	logger *slog.Logger

	mu     sync.Mutex
	agents map[int]*agent

	turns    metric.Int64Counter
	timeouts metric.Int64Counter
	charged  metric.Int64Counter
}

// New creates a monitor. Metrics go to the global OTel meter.
func New(cfg Config, logger *slog.Logger) (*Monitor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Monitor{
		cfg:    cfg,
		logger: logger,
		agents: make(map[int]*agent),
	}

	mt := meter()
	var err error
	m.turns, err = mt.Int64Counter("monitor.turns", metric.WithDescription("Agent turns run"))
	if err != nil {
		return nil, fmt.Errorf("creating turns counter: %w", err)
	}
	m.timeouts, err = mt.Int64Counter("monitor.timeouts", metric.WithDescription("Agents stopped by the wall-clock bound"))
	if err != nil {
		return nil, fmt.Errorf("creating timeouts counter: %w", err)
	}
	m.charged, err = mt.Int64Counter("monitor.ops.charged", metric.WithDescription("Operations charged to agents"))
	if err != nil {
		return nil, fmt.Errorf("creating ops counter: %w", err)
	}
	return m, nil
}

// Register attaches a program body to entity id. The body does not start
// until the first RunTurn.
func (m *Monitor) Register(id int, body func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agents[id] = &agent{
		id:     id,
		body:   body,
		resume: make(chan struct{}),
		yield:  make(chan TurnResult, 1),
	}
}

func (m *Monitor) agent(id int) *agent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.agents[id]
}

// Registered reports whether id has a program.
func (m *Monitor) Registered(id int) bool {
	return m.agent(id) != nil
}

// RunTurn resumes agent id with a fresh budget of limit operations and
// blocks until it suspends or ends. The wall-clock bound caps the wait.
func (m *Monitor) RunTurn(ctx context.Context, id int, limit int) TurnResult {
	a := m.agent(id)
	if a == nil || a.done.Load() || a.released.Load() || a.timedOut.Load() {
		return TurnResult{Outcome: Stopped}
	}

	a.used.Store(0)
	a.limit.Store(int64(limit))
	a.turns++
	m.turns.Add(ctx, 1)

	if !a.started {
		a.started = true
		go m.loop(a)
	} else {
		a.resume <- struct{}{}
	}

	var timeout <-chan time.Time
	if m.cfg.TurnTimeout > 0 {
		timer := time.NewTimer(m.cfg.TurnTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	var res TurnResult
	select {
	case res = <-a.yield:
	case <-timeout:
		res = m.stop(ctx, a, "wall-clock bound exceeded")
	case <-ctx.Done():
		res = m.stop(ctx, a, ctx.Err().Error())
	}
	a.lastUsed = res.Used
	m.charged.Add(ctx, int64(res.Used), metric.WithAttributes(attribute.String("outcome", res.Outcome.String())))
	return res
}

// stop kills a runaway agent. Taking exec waits out any action in flight;
// afterwards every call the agent makes into the engine aborts it.
func (m *Monitor) stop(ctx context.Context, a *agent, reason string) TurnResult {
	a.timedOut.Store(true)
	a.exec.Lock()
	a.closeResume()
	a.exec.Unlock()
	m.timeouts.Add(ctx, 1)
	m.logger.Warn("agent stopped", "robot", a.id, "reason", reason, "used", a.used.Load())
	return TurnResult{Outcome: TimedOut, Used: int(a.used.Load())}
}

func (a *agent) closeResume() {
	a.closeOnce.Do(func() { close(a.resume) })
}

func (m *Monitor) loop(a *agent) {
	defer func() {
		res := TurnResult{Outcome: Finished, Used: int(a.used.Load())}
		if r := recover(); r != nil {
			if err, ok := r.(error); ok && errors.Is(err, errAborted) {
				res.Outcome = Stopped
			} else {
				res.Outcome = Panicked
				res.Err = fmt.Errorf("robot %d panicked: %v", a.id, r)
			}
		}
		a.done.Store(true)
		if a.timedOut.Load() {
			return
		}
		a.yield <- res
	}()
	a.body()
}

func (a *agent) suspend(o Outcome) {
	a.yield <- TurnResult{Outcome: o, Used: int(a.used.Load())}
	if _, ok := <-a.resume; !ok || a.released.Load() || a.timedOut.Load() {
		panic(errAborted)
	}
}

func (a *agent) checkAlive() {
	if a.timedOut.Load() || a.released.Load() {
		panic(errAborted)
	}
}

func (m *Monitor) mustAgent(id int) *agent {
	a := m.agent(id)
	if a == nil {
		panic(errAborted)
	}
	return a
}

// Charge bills n operations to agent id. Called on the agent's goroutine;
// it suspends the agent once the turn budget is spent.
func (m *Monitor) Charge(id int, n int) {
	a := m.mustAgent(id)
	a.checkAlive()
	if n <= 0 {
		return
	}
	if a.used.Add(int64(n)) >= a.limit.Load() {
		a.suspend(Exhausted)
	}
}

// Yield ends agent id's turn voluntarily.
func (m *Monitor) Yield(id int) {
	a := m.mustAgent(id)
	a.checkAlive()
	a.suspend(Yielded)
}

// Exec runs fn as one engine action on behalf of agent id. Actions are
// serialized against stop, and an agent that was stopped or released is
// aborted instead of running fn.
func (m *Monitor) Exec(id int, fn func()) {
	a := m.mustAgent(id)
	a.exec.Lock()
	if a.timedOut.Load() || a.released.Load() {
		a.exec.Unlock()
		panic(errAborted)
	}
	defer a.exec.Unlock()
	fn()
}

// Used returns the operations agent id has used this turn.
func (m *Monitor) Used(id int) int {
	a := m.agent(id)
	if a == nil {
		return 0
	}
	return int(a.used.Load())
}

// Release forgets agent id after its robot is destroyed. A parked agent
// goroutine unwinds; a running one aborts at its next engine call.
func (m *Monitor) Release(id int) {
	m.mu.Lock()
	a := m.agents[id]
	delete(m.agents, id)
	m.mu.Unlock()
	if a == nil {
		return
	}
	a.released.Store(true)
	if a.started {
		a.closeResume()
	}
}

// Shutdown releases every agent.
func (m *Monitor) Shutdown() {
	m.mu.Lock()
	ids := make([]int, 0, len(m.agents))
	for id := range m.agents {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		m.Release(id)
	}
}

// AgentStatus is a snapshot of one agent.
type AgentStatus struct {
	ID       int  `json:"id"`
	Started  bool `json:"started"`
	Done     bool `json:"done"`
	TimedOut bool `json:"timedOut"`
	Turns    int  `json:"turns"`
	LastUsed int  `json:"lastUsed"`
}

// Status returns every registered agent sorted by id. Call it from the
// engine goroutine between turns.
func (m *Monitor) Status() []AgentStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AgentStatus, 0, len(m.agents))
	for _, a := range m.agents {
		out = append(out, AgentStatus{
			ID:       a.id,
			Started:  a.started,
			Done:     a.done.Load(),
			TimedOut: a.timedOut.Load(),
			Turns:    a.turns,
			LastUsed: a.lastUsed,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// StatusJSON renders Status for operators.
func (m *Monitor) StatusJSON() string {
	b, err := json.MarshalIndent(m.Status(), "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "%s"}`, err)
	}
	return string(b)
}
