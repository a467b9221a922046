package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// snapshotRecord is the single persisted record, overwritten wholesale after
// every mutation. No history, no versioning.
type snapshotRecord struct {
	ContestID string     `json:"contestId"`
	GameState *GameState `json:"gameState"`
	SavedAt   time.Time  `json:"savedAt"`
}

// snapshotStore persists the pair (contest id, game state) to one local
// file. A write or read failure is never fatal; the in-memory state stays
// authoritative for the running process.
type snapshotStore struct {
	path string
}

func newSnapshotStore(path string) *snapshotStore {
	return &snapshotStore{path: path}
}

func (s *snapshotStore) save(contestID string, state *GameState) error {
	record := snapshotRecord{
		ContestID: contestID,
		GameState: state,
		SavedAt:   time.Now(),
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// load returns the persisted record, or nil when no snapshot exists.
func (s *snapshotStore) load() (*snapshotRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var record snapshotRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if record.GameState == nil || record.ContestID == "" {
		return nil, errors.New("snapshot is missing contest id or game state")
	}
	if err := record.GameState.validate(); err != nil {
		return nil, fmt.Errorf("snapshot state: %w", err)
	}

	return &record, nil
}

func (s *snapshotStore) clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
