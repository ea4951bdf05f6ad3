// Package match holds the match currently being played so that loggers and
// recorders on other goroutines can label their output.
package match

import (
	"sync"

	"github.com/fluxwars/engine/pkg/core"
)

// Context holds the current match and round.
type Context struct {
	mu    sync.RWMutex
	info  *core.MatchInfo
	round int
}

// NewContext creates a Context with no match loaded.
func NewContext() *Context {
	return &Context{
		info:  &core.MatchInfo{Name: "No match loaded"},
		round: -1,
	}
}

// GetMatch returns the current match.
func (mc *Context) GetMatch() *core.MatchInfo {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.info
}

// Round returns the round being played, -1 before the first.
func (mc *Context) Round() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.round
}

// SetMatch installs a new match and resets the round.
func (mc *Context) SetMatch(info *core.MatchInfo) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.info = info
	mc.round = -1
}

// SetRound records the round being played.
func (mc *Context) SetRound(round int) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.round = round
}
