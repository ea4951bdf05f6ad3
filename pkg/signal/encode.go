package signal

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Envelope is the self-describing export form of a signal.
type Envelope struct {
	Round   int             `json:"round"`
	Seq     int             `json:"seq"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Encode wraps sig for export.
func Encode(round, seq int, sig Signal) (Envelope, error) {
	payload, err := json.Marshal(sig)
	if err != nil {
		return Envelope{}, fmt.Errorf("encoding %s signal: %w", sig.Kind(), err)
	}
	return Envelope{Round: round, Seq: seq, Type: sig.Kind().String(), Payload: payload}, nil
}

// Decode restores the signal inside env.
func Decode(env Envelope) (Signal, error) {
	kind, ok := ParseKind(env.Type)
	if !ok {
		return nil, fmt.Errorf("unknown signal type: %s", env.Type)
	}
	sig, _ := New(kind)
	if err := json.Unmarshal(env.Payload, sig); err != nil {
		return nil, fmt.Errorf("decoding %s signal: %w", env.Type, err)
	}
	return sig, nil
}

// EncodeRound converts one round of signals to envelopes.
func EncodeRound(round int, sigs []Signal) ([]Envelope, error) {
	out := make([]Envelope, 0, len(sigs))
	for seq, s := range sigs {
		env, err := Encode(round, seq, s)
		if err != nil {
			return nil, err
		}
		out = append(out, env)
	}
	return out, nil
}

// canonical is the binary record hashed for determinism checks.
type canonical struct {
	Round  int    `msgpack:"r"`
	Kind   Kind   `msgpack:"k"`
	Signal Signal `msgpack:"s"`
}

// WriteCanonical writes the msgpack form of every entry to w. Struct
// fields encode in declaration order, so equal logs produce equal bytes.
func WriteCanonical(w io.Writer, entries []Entry) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	enc.UseArrayEncodedStructs(true)
	for _, e := range entries {
		if err := enc.Encode(canonical{Round: e.Round, Kind: e.Signal.Kind(), Signal: e.Signal}); err != nil {
			return fmt.Errorf("encoding round %d seq %d: %w", e.Round, e.Seq, err)
		}
	}
	return nil
}

// Canonical returns the msgpack form of the whole log, bytecode signals included.
func (l *Log) Canonical() ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCanonical(&buf, l.All(true)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Digest returns the hex sha256 of the canonical log.
func (l *Log) Digest() (string, error) {
	h := sha256.New()
	if err := WriteCanonical(h, l.All(true)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
