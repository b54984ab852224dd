package universe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultPath is the universe resource location relative to the working dir.
const DefaultPath = "data/universe.json"

// ErrLoadUniverse wraps every failure to read or parse the resource.
var ErrLoadUniverse = errors.New("could not load universe")

// Loader serves the static universe. The resource is read on first use and
// kept for the life of the process; failed reads are not remembered.
type Loader struct {
	path string

	mu      sync.RWMutex
	symbols []string
	loaded  bool

	sf singleflight.Group
}

func NewLoader(path string) *Loader {
	if path == "" {
		path = DefaultPath
	}
	return &Loader{path: path}
}

// Path returns the resource location.
func (l *Loader) Path() string { return l.path }

// Symbols returns a copy of the universe, loading it if needed.
func (l *Loader) Symbols(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	if l.loaded {
		out := slices.Clone(l.symbols)
		l.mu.RUnlock()
		return out, nil
	}
	l.mu.RUnlock()

	if err := l.Load(ctx); err != nil {
		return nil, err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.symbols), nil
}

// Load reads the resource unless it is already loaded. Concurrent callers
// share one read.
func (l *Loader) Load(ctx context.Context) error {
	ch := l.sf.DoChan(l.path, func() (any, error) {
		l.mu.RLock()
		done := l.loaded
		l.mu.RUnlock()
		if done {
			return nil, nil
		}
		symbols, err := ReadFile(l.path)
		if err != nil {
			zap.L().Error("load universe failed", zap.String("path", l.path), zap.Error(err))
			return nil, err
		}
		l.mu.Lock()
		l.symbols, l.loaded = symbols, true
		l.mu.Unlock()
		zap.L().Info("universe loaded", zap.String("path", l.path), zap.Int("symbols", len(symbols)))
		return nil, nil
	})
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrLoadUniverse, ctx.Err())
	case res := <-ch:
		return res.Err
	}
}

// ReadFile reads and parses a universe resource.
func ReadFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadUniverse, err)
	}
	symbols, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadUniverse, path, err)
	}
	return symbols, nil
}

// Parse decodes a universe document.
// Rules:
// - a JSON array of strings is returned as is.
// - a JSON object maps keys to a symbol or an array of symbols; keys are
//   dropped and values are returned in document order.
// - anything else is an error.
func Parse(b []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	var out []string
	switch tok {
	case json.Delim('['):
		if out, err = readStrings(dec); err != nil {
			return nil, err
		}
	case json.Delim('{'):
		out = []string{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("decode key: %w", err)
			}
			key, _ := keyTok.(string)
			vals, err := readValue(dec)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			out = append(out, vals...)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
	default:
		return nil, fmt.Errorf("expected array or object, got %v", tok)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after universe document")
	}
	return out, nil
}

// readValue reads an object value: a string or an array of strings.
func readValue(dec *json.Decoder) ([]string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	switch v := tok.(type) {
	case string:
		return []string{v}, nil
	case json.Delim:
		if v == '[' {
			return readStrings(dec)
		}
	}
	return nil, fmt.Errorf("expected symbol or list of symbols, got %v", tok)
}

// readStrings reads array elements up to and including the closing ']'.
func readStrings(dec *json.Decoder) ([]string, error) {
	out := []string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode element: %w", err)
		}
		s, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected symbol string, got %v", tok)
		}
		out = append(out, s)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}
