// Package replay defines the match recording format shared by the storage
// backends and the command line tools.
package replay

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/signal"
)

// Version is bumped whenever the file layout changes.
const Version = 1

// Header opens a recording.
type Header struct {
	Version          int            `json:"version"`
	Match            core.MatchInfo `json:"match"`
	IncludeBytecodes bool           `json:"includeBytecodes"`
}

// Round is one finished round.
type Round struct {
	Round   int               `json:"round"`
	Signals []signal.Envelope `json:"signals"`
	Stats   [2]core.TeamStats `json:"stats"`
}

// File is a complete recording. Result is nil while a match is running.
type File struct {
	Header
	Rounds []Round      `json:"rounds"`
	Result *core.Result `json:"result,omitempty"`
	Digest string       `json:"digest,omitempty"`
}

// NewRound encodes one round of signals.
func NewRound(round int, sigs []signal.Signal, stats [2]core.TeamStats) (Round, error) {
	envs, err := signal.EncodeRound(round, sigs)
	if err != nil {
		return Round{}, err
	}
	return Round{Round: round, Signals: envs, Stats: stats}, nil
}

// Write encodes f as JSON, gzipped when compress is set.
func Write(w io.Writer, f *File, compress bool) error {
	if !compress {
		return json.NewEncoder(w).Encode(f)
	}
	gz := gzip.NewWriter(w)
	if err := json.NewEncoder(gz).Encode(f); err != nil {
		gz.Close()
		return fmt.Errorf("encoding replay: %w", err)
	}
	return gz.Close()
}

// Read decodes a recording, detecting gzip from the stream header.
func Read(r io.Reader) (*File, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(2)

	var src io.Reader = br
	if bytes.Equal(magic, []byte{0x1f, 0x8b}) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	var f File
	if err := json.NewDecoder(src).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding replay: %w", err)
	}
	if f.Version != Version {
		return nil, fmt.Errorf("unsupported replay version %d", f.Version)
	}
	return &f, nil
}

// ReadFile opens and decodes the recording at path.
func ReadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening replay %s: %w", path, err)
	}
	defer fh.Close()
	return Read(fh)
}

// Log rebuilds the signal log from the recorded rounds.
func (f *File) Log() (*signal.Log, error) {
	l := signal.NewLog()
	for _, r := range f.Rounds {
		for _, env := range r.Signals {
			sig, err := signal.Decode(env)
			if err != nil {
				return nil, fmt.Errorf("round %d seq %d: %w", env.Round, env.Seq, err)
			}
			l.Append(env.Round, sig)
		}
	}
	return l, nil
}

// Verify recomputes the digest of the recorded signals and compares it to
// the stored one. Recordings without bytecode signals cannot be verified.
func (f *File) Verify() (string, error) {
	if !f.IncludeBytecodes {
		return "", fmt.Errorf("recording omits bytecode signals")
	}
	l, err := f.Log()
	if err != nil {
		return "", err
	}
	got, err := l.Digest()
	if err != nil {
		return "", err
	}
	if f.Digest != "" && got != f.Digest {
		return got, fmt.Errorf("digest mismatch: recorded %s, computed %s", f.Digest, got)
	}
	return got, nil
}
