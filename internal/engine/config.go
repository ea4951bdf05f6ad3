package engine

import (
	"time"

	"github.com/fluxwars/engine/pkg/core"
)

// Config is the fixed rule set of one match. It is copied into the engine
// at construction and never changes afterwards.
type Config struct {
	// Upkeep charges chassis upkeep at the start of every turn.
	Upkeep bool
	// OpBudgetBase and OpBudgetPerCore size a robot's turn budget.
	OpBudgetBase    int
	OpBudgetPerCore int
	// TurnTimeout bounds the wall-clock time of one turn; 0 disables it.
	TurnTimeout time.Duration
	// FluxRegen is added to every depleted tile each round.
	FluxRegen int
	// MiningRate caps one Mine action; negative empties the tile.
	MiningRate int
	// Income is paid to each team at the start of every round.
	Income int
	// StartingResources seeds both team pools.
	StartingResources int
	// IncludeBytecodes keeps BytecodesUsed signals in exports.
	IncludeBytecodes bool
}

// DefaultConfig returns the standard rules.
func DefaultConfig() Config {
	return Config{
		Upkeep:            true,
		OpBudgetBase:      core.OpBudgetBase,
		OpBudgetPerCore:   core.OpBudgetPerCore,
		TurnTimeout:       2 * time.Second,
		FluxRegen:         0,
		MiningRate:        2,
		Income:            1,
		StartingResources: 100,
		IncludeBytecodes:  false,
	}
}
