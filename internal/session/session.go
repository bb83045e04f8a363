// Package session holds the summarization results of one user session.
package session

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"docsum/internal/domain"
)

const NoSelection = -1

var ErrNothingToSelect = errors.New("no per-file results to select from")

// Results is one complete set of outputs. File results (Items and/or
// Overall) and the website summary are never shown at the same time.
type Results struct {
	Items      []domain.SummaryResult `json:"items,omitempty"      yaml:"items,omitempty"`
	Overall    string                 `json:"overall,omitempty"    yaml:"overall,omitempty"`
	WebsiteURL string                 `json:"websiteUrl,omitempty" yaml:"websiteUrl,omitempty"`
	Website    string                 `json:"website,omitempty"    yaml:"website,omitempty"`
	Selected   int                    `json:"selected"             yaml:"selected"`
}

func Empty() Results {
	return Results{Selected: NoSelection}
}

func (r Results) Clone() Results {
	r.Items = slices.Clone(r.Items)
	return r
}

func (r Results) IsEmpty() bool {
	return len(r.Items) == 0 && r.Overall == "" && r.Website == ""
}

// SelectedItem returns the selected per-file row, if any.
func (r Results) SelectedItem() (domain.SummaryResult, bool) {
	if r.Selected < 0 || r.Selected >= len(r.Items) {
		return domain.SummaryResult{}, false
	}

	return r.Items[r.Selected], true
}

// Store keeps the current results and the last committed results. The
// pipeline is its only writer; readers get copies.
type Store struct {
	mu      sync.RWMutex
	current Results
	backup  Results
}

func NewStore() *Store {
	return &Store{current: Empty(), backup: Empty()}
}

func (s *Store) Current() Results {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current.Clone()
}

func (s *Store) Backup() Results {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.backup.Clone()
}

// Snapshot copies current into backup and clears current.
func (s *Store) Snapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.backup = s.current.Clone()
	s.current = Empty()
}

// Restore puts the snapshot taken by the last Snapshot back into current.
func (s *Store) Restore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = s.backup.Clone()
}

func (s *Store) CommitFiles(items []domain.SummaryResult, overall string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Results{
		Items:    slices.Clone(items),
		Overall:  overall,
		Selected: NoSelection,
	}
}

func (s *Store) CommitWebsite(url string, summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Results{
		WebsiteURL: url,
		Website:    summary,
		Selected:   NoSelection,
	}
}

// Select marks row i of the per-file table as selected and returns it.
func (s *Store) Select(i int) (domain.SummaryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.current.Items) == 0 {
		return domain.SummaryResult{}, ErrNothingToSelect
	}

	if i < 0 || i >= len(s.current.Items) {
		return domain.SummaryResult{}, fmt.Errorf("select row %d: out of range [0, %d)", i, len(s.current.Items))
	}

	s.current.Selected = i

	return s.current.Items[i], nil
}

func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Selected = NoSelection
}
