package core

// Team identifies the side an entity fights for.
type Team uint8

const (
	TeamNeutral Team = iota
	TeamA
	TeamB
)

// Teams lists the two playing teams in a fixed order.
var Teams = [2]Team{TeamA, TeamB}

// Opponent returns the other playing team. Neutral has no opponent.
func (t Team) Opponent() Team {
	switch t {
	case TeamA:
		return TeamB
	case TeamB:
		return TeamA
	default:
		return TeamNeutral
	}
}

// Index maps a playing team to 0 or 1 for array-backed per-team state.
func (t Team) Index() int {
	if t == TeamB {
		return 1
	}
	return 0
}

func (t Team) String() string {
	switch t {
	case TeamA:
		return "A"
	case TeamB:
		return "B"
	default:
		return "NEUTRAL"
	}
}

// ParseTeam accepts "A", "B" or "NEUTRAL".
func ParseTeam(name string) (Team, bool) {
	switch name {
	case "A":
		return TeamA, true
	case "B":
		return TeamB, true
	case "NEUTRAL":
		return TeamNeutral, true
	default:
		return TeamNeutral, false
	}
}
