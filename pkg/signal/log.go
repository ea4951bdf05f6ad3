package signal

// Entry is a signal positioned in the log.
type Entry struct {
	Round  int
	Seq    int
	Signal Signal
}

// Log is the append-only, round-partitioned signal record of a match.
// It is written only by the engine goroutine; a finished round's slice is
// never modified again and may be handed to other goroutines.
type Log struct {
	rounds [][]Signal
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append records sig as the next signal of round. Rounds start at 0 and
// may not be appended out of order.
func (l *Log) Append(round int, sig Signal) {
	for len(l.rounds) <= round {
		l.rounds = append(l.rounds, nil)
	}
	l.rounds[round] = append(l.rounds[round], sig)
}

// Rounds returns how many rounds have at least been opened.
func (l *Log) Rounds() int {
	return len(l.rounds)
}

// Round returns the signals of round n in order. The result is capped so
// an append by the caller never reaches the log.
func (l *Log) Round(n int) []Signal {
	if n < 0 || n >= len(l.rounds) {
		return nil
	}
	r := l.rounds[n]
	return r[:len(r):len(r)]
}

// Len returns the total number of signals.
func (l *Log) Len() int {
	n := 0
	for _, r := range l.rounds {
		n += len(r)
	}
	return n
}

// All returns every entry in order. BytecodesUsed signals are omitted
// unless includeBytecodes is set.
func (l *Log) All(includeBytecodes bool) []Entry {
	out := make([]Entry, 0, l.Len())
	for round, sigs := range l.rounds {
		for seq, s := range sigs {
			if !includeBytecodes && s.Kind() == KindBytecodesUsed {
				continue
			}
			out = append(out, Entry{Round: round, Seq: seq, Signal: s})
		}
	}
	return out
}

// Filter drops BytecodesUsed signals unless includeBytecodes is set.
func Filter(sigs []Signal, includeBytecodes bool) []Signal {
	if includeBytecodes {
		return sigs
	}
	out := make([]Signal, 0, len(sigs))
	for _, s := range sigs {
		if s.Kind() != KindBytecodesUsed {
			out = append(out, s)
		}
	}
	return out
}
