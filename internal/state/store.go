// Package state persists target fingerprints and content snapshots between
// runs.
//
// The layout is two independent stores behind one interface: an aggregate
// fingerprint map (one human-diffable JSON object keyed by URL) and one
// plain-text snapshot file per target, so a large corpus never rewrites a
// monolithic content file.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"pagewatch/internal/watch"
)

const (
	fingerprintsFile = "fingerprints.json"
	snapshotsDir     = "pages"
)

// Store is the file-backed watch.Store.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore returns a store rooted at dir. The directory is created on the
// first Save.
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, logger: logger}
}

// Load reads the fingerprint map and the snapshots for the given targets.
// Missing files mean a first run; malformed JSON is an error so change
// history is never silently rebaselined.
func (s *Store) Load(targets []watch.Target) (map[string]watch.TargetState, error) {
	states := make(map[string]watch.TargetState, len(targets))

	raw, err := os.ReadFile(filepath.Join(s.dir, fingerprintsFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return states, nil
		}
		return nil, fmt.Errorf("read fingerprints: %w", err)
	}
	fingerprints := map[string]string{}
	if err := json.Unmarshal(raw, &fingerprints); err != nil {
		return nil, fmt.Errorf("parse fingerprints: %w", err)
	}
	for url, fingerprint := range fingerprints {
		states[url] = watch.TargetState{Fingerprint: watch.Fingerprint(fingerprint)}
	}

	for _, target := range targets {
		st, ok := states[target.URL]
		if !ok {
			continue
		}
		body, err := os.ReadFile(s.snapshotPath(target.Name))
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				s.logger.Warn("snapshot unreadable",
					zap.String("target", target.Name),
					zap.Error(err))
			}
			continue
		}
		st.Content = string(body)
		states[target.URL] = st
	}
	return states, nil
}

// Save persists the fingerprint map atomically and rewrites the snapshots of
// targets that carry content. Entries for URLs no longer configured are kept.
func (s *Store) Save(targets []watch.Target, states map[string]watch.TargetState) error {
	if err := os.MkdirAll(filepath.Join(s.dir, snapshotsDir), 0o750); err != nil {
		return fmt.Errorf("create state dir %s: %w", s.dir, err)
	}

	fingerprints := make(map[string]string, len(states))
	for url, st := range states {
		fingerprints[url] = string(st.Fingerprint)
	}
	payload, err := json.MarshalIndent(fingerprints, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fingerprints: %w", err)
	}
	payload = append(payload, '\n')
	if err := writeAtomic(filepath.Join(s.dir, fingerprintsFile), payload); err != nil {
		return fmt.Errorf("write fingerprints: %w", err)
	}

	for _, target := range targets {
		st, ok := states[target.URL]
		if !ok || st.Content == "" {
			continue
		}
		path := s.snapshotPath(target.Name)
		if err := os.WriteFile(path, []byte(st.Content), 0o600); err != nil {
			return fmt.Errorf("write snapshot %s: %w", path, err)
		}
	}
	return nil
}

func (s *Store) snapshotPath(name string) string {
	return filepath.Join(s.dir, snapshotsDir, Slug(name)+".txt")
}

func writeAtomic(path string, payload []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
