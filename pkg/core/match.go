package core

import "time"

// MatchInfo describes a match being played.
type MatchInfo struct {
	Name      string    `json:"name"`
	MapName   string    `json:"mapName"`
	Seed      int64     `json:"seed"`
	MaxRounds int       `json:"maxRounds"`
	TeamA     string    `json:"teamA"`
	TeamB     string    `json:"teamB"`
	StartTime time.Time `json:"startTime"`
}

// TeamName returns the program name playing t.
func (m *MatchInfo) TeamName(t Team) string {
	switch t {
	case TeamA:
		return m.TeamA
	case TeamB:
		return m.TeamB
	default:
		return ""
	}
}

// Domination grades how decisive a win was.
type Domination uint8

const (
	DominationNone Domination = iota
	Destroyed
	Pwned
	Beat
	BarelyBeat
	BarelyBarelyBeat
	WonByDubiousReasons
)

func (d Domination) String() string {
	switch d {
	case Destroyed:
		return "DESTROYED"
	case Pwned:
		return "PWNED"
	case Beat:
		return "BEAT"
	case BarelyBeat:
		return "BARELY_BEAT"
	case BarelyBarelyBeat:
		return "BARELY_BARELY_BEAT"
	case WonByDubiousReasons:
		return "WON_BY_DUBIOUS_REASONS"
	default:
		return "NONE"
	}
}

// TeamStats aggregates one team's match activity.
type TeamStats struct {
	Team        Team    `json:"team"`
	Spawned     int     `json:"spawned"`
	Deaths      int     `json:"deaths"`
	Equipped    int     `json:"equipped"`
	Attacks     int     `json:"attacks"`
	DamageDealt float64 `json:"damageDealt"`
	FluxMined   int     `json:"fluxMined"`
	Broadcasts  int     `json:"broadcasts"`
	Resources   int     `json:"resources"`
	LiveRobots  int     `json:"liveRobots"`
}

// Result is the final outcome of a match.
type Result struct {
	Winner     Team         `json:"winner"`
	Domination Domination   `json:"domination"`
	Rounds     int          `json:"rounds"`
	Stats      [2]TeamStats `json:"stats"`
}
