/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package undo keeps in-memory undo/redo history for screenplay editing,
// one stack per screenplay, with memory and depth safeguards.
package undo

import (
	"sync"
	"time"
)

// Snapshot represents a reversible text state of one screenplay.
// Blob content is opaque to the manager; size is estimated as len(Blob).
// TS is when the snapshot was captured.
type Snapshot struct {
	Screenplay string
	Blob       []byte
	TS         time.Time
}

// Config controls memory and depth caps and coalescing behavior.
type Config struct {
	// MaxBytes is a soft cap; older entries are pruned when exceeded.
	MaxBytes int
	// MaxPerScreenplay limits snapshots kept per screenplay (0 means unlimited).
	MaxPerScreenplay int
	// MinInterval coalesces snapshots captured within the interval for the
	// same screenplay, replacing the previous one instead of pushing a new entry.
	MinInterval time.Duration
}

// Manager provides an in-memory undo/redo stack per screenplay with
// performance safeguards. It is safe for concurrent use.
type Manager struct {
	cfg Config
	mu  sync.Mutex
	// per-screenplay stacks
	undo map[string][]Snapshot
	redo map[string][]Snapshot
	// accounting
	totalBytes int
}

func NewManager(cfg Config) *Manager {
	// Set conservative defaults if not provided
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 16 * 1024 * 1024 // 16 MiB
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg, undo: make(map[string][]Snapshot), redo: make(map[string][]Snapshot)}
}

// PushSnapshot records a snapshot for a screenplay. If within MinInterval of
// the last snapshot on the same screenplay, it replaces the last one. Clears
// the redo stack for that screenplay.
func (m *Manager) PushSnapshot(s Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[s.Screenplay]
	if n := len(stack); n > 0 {
		last := stack[n-1]
		if s.TS.Sub(last.TS) < m.cfg.MinInterval {
			// Coalesce: adjust accounting and replace
			m.totalBytes -= len(last.Blob)
			m.totalBytes += len(s.Blob)
			stack[n-1] = s
			m.undo[s.Screenplay] = stack
			m.redo[s.Screenplay] = nil
			m.enforceCapsLocked(s.Screenplay)
			return
		}
	}
	// Push new
	stack = append(stack, s)
	m.undo[s.Screenplay] = stack
	m.totalBytes += len(s.Blob)
	// Any new change invalidates redo for the screenplay
	m.redo[s.Screenplay] = nil
	m.enforceCapsLocked(s.Screenplay)
}

// Undo pops from the screenplay's undo stack and pushes to its redo stack,
// returning the snapshot.
func (m *Manager) Undo(screenplay string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack := m.undo[screenplay]
	if len(stack) == 0 {
		return Snapshot{}, false
	}
	s := stack[len(stack)-1]
	m.undo[screenplay] = stack[:len(stack)-1]
	m.totalBytes -= len(s.Blob)
	m.redo[screenplay] = append(m.redo[screenplay], s)
	return s, true
}

// Redo pops from redo and pushes back to undo.
func (m *Manager) Redo(screenplay string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.redo[screenplay]
	if len(r) == 0 {
		return Snapshot{}, false
	}
	s := r[len(r)-1]
	m.redo[screenplay] = r[:len(r)-1]
	m.undo[screenplay] = append(m.undo[screenplay], s)
	m.totalBytes += len(s.Blob)
	m.enforceCapsLocked(screenplay)
	return s, true
}

// Clear drops undo/redo stacks for a screenplay to free memory.
func (m *Manager) Clear(screenplay string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.undo[screenplay] {
		m.totalBytes -= len(s.Blob)
	}
	delete(m.undo, screenplay)
	delete(m.redo, screenplay)
	if m.totalBytes < 0 {
		m.totalBytes = 0
	}
}

// Stats returns current sizes for diagnostics.
func (m *Manager) Stats() (totalBytes int, screenplays int, totalSnapshots int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	screenplays = len(m.undo)
	for _, v := range m.undo {
		totalSnapshots += len(v)
	}
	return m.totalBytes, screenplays, totalSnapshots
}

func (m *Manager) enforceCapsLocked(screenplay string) {
	// Per-screenplay depth cap
	if m.cfg.MaxPerScreenplay > 0 {
		stack := m.undo[screenplay]
		if len(stack) > m.cfg.MaxPerScreenplay {
			// drop the oldest extras
			toDrop := len(stack) - m.cfg.MaxPerScreenplay
			for i := 0; i < toDrop; i++ {
				m.totalBytes -= len(stack[i].Blob)
			}
			m.undo[screenplay] = append([]Snapshot{}, stack[toDrop:]...)
		}
	}
	// Global memory cap: prune oldest across all screenplays
	for m.cfg.MaxBytes > 0 && m.totalBytes > m.cfg.MaxBytes {
		oldestKey := ""
		oldestIdx := -1
		var oldestTS time.Time
		for key, stack := range m.undo {
			if len(stack) == 0 {
				continue
			}
			if oldestIdx == -1 || stack[0].TS.Before(oldestTS) {
				oldestKey = key
				oldestIdx = 0
				oldestTS = stack[0].TS
			}
		}
		if oldestIdx == -1 {
			break
		}
		stack := m.undo[oldestKey]
		m.totalBytes -= len(stack[0].Blob)
		m.undo[oldestKey] = stack[1:]
		if len(m.undo[oldestKey]) == 0 {
			delete(m.undo, oldestKey)
		}
	}
}
