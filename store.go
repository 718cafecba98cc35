/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Snapshot is the persisted form of a Game.
type Snapshot struct {
	Phase         Phase     `json:"phase"`
	Players       []Player  `json:"players"`
	RoundNumber   int       `json:"roundNumber"`
	QuestionsLeft int       `json:"questionsLeft"`
	Question      *Question `json:"question"`
	Timer         int       `json:"timer"`
	Ready         bool      `json:"ready"`
}

func snapshotOf(g *Game) Snapshot {
	var question *Question
	if g.Question != nil {
		q := *g.Question
		question = &q
	}

	return Snapshot{
		Phase:         g.Phase,
		Players:       g.playersCopy(),
		RoundNumber:   g.RoundNumber,
		QuestionsLeft: g.QuestionsLeft,
		Question:      question,
		Timer:         g.Timer,
		Ready:         g.Ready,
	}
}

// restore rebuilds a Game from a snapshot taken by a previous process. Every
// connection from that process is gone, so nobody is joined or ready, and
// the question is dropped.
func (s Snapshot) restore(questionCount int) *Game {
	g := newGame(questionCount)

	if s.Phase.valid() {
		g.Phase = s.Phase
	}
	g.RoundNumber = min(max(s.RoundNumber, 1), finalRound)
	g.QuestionsLeft = min(max(s.QuestionsLeft, 0), questionCount)
	g.Timer = max(s.Timer, 0)
	g.Ready = s.Ready

	seen := make(map[string]bool, len(s.Players))
	for _, p := range s.Players {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true

		p.Joined = false
		p.Ready = false
		g.Players = append(g.Players, &p)
	}

	return g
}

// Store keeps a single snapshot file on local disk.
type Store struct {
	path string
}

func newStore(path string) *Store {
	return &Store{path: path}
}

// Save replaces the snapshot and returns its size in bytes. The file is
// written beside the target and renamed into place so a crash never leaves a
// partial snapshot.
func (s *Store) Save(snap Snapshot) (int, error) {
	data, err := json.MarshalIndent(snap, "", "    ")
	if err != nil {
		return 0, fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := tmp.Write(data)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write snapshot: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("write snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return 0, fmt.Errorf("replace snapshot: %w", err)
	}

	return written, nil
}

// Load returns the stored snapshot. A missing file is a fresh install and is
// reported as found == false with no error.
func (s *Store) Load() (Snapshot, bool, error) {
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Snapshot{}, false, nil
	case err != nil:
		return Snapshot{}, false, fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}

	return snap, true, nil
}

// Reset deletes the snapshot. Deleting a missing snapshot is not an error.
func (s *Store) Reset() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	return nil
}
