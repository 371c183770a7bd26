package session

import (
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"photopro/internal/filters"
	"photopro/internal/prompt"
)

// Entry is one processed image in a session's history.
type Entry struct {
	ID        string        `json:"id"`
	Filename  string        `json:"filename"`
	Prompt    string        `json:"prompt"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	Images    int           `json:"images"`
	Texts     []string      `json:"texts,omitempty"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

type Stats struct {
	TotalImages int `json:"total_images"`
	Successful  int `json:"successful"`
	Failed      int `json:"failed"`
}

// SuccessRate is the share of successful images in percent.
func (s Stats) SuccessRate() float64 {
	if s.TotalImages == 0 {
		return 0
	}
	return float64(s.Successful) / float64(s.TotalImages) * 100
}

type Session struct {
	ID           string
	Username     string
	Stats        Stats
	History      []Entry
	Selections   []prompt.Selection
	Custom       string
	LastActivity time.Time
}

type Options struct {
	MaxHistory int
}

type Store struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	maxHistory int
}

func NewStore(opts Options) *Store {
	maxHistory := opts.MaxHistory
	if maxHistory <= 0 {
		maxHistory = 50
	}

	return &Store{
		sessions:   make(map[string]*Session),
		maxHistory: maxHistory,
	}
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

func (s *Store) Touch(id, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(id, username)
	sess.LastActivity = time.Now()
}

// Record adds processed images to the history and updates the counters.
func (s *Store) Record(id string, entries ...Entry) {
	if len(entries) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(id, "")
	sess.LastActivity = time.Now()

	for _, e := range entries {
		sess.Stats.TotalImages++
		if e.Success {
			sess.Stats.Successful++
		} else {
			sess.Stats.Failed++
		}
	}

	sess.History = append(sess.History, entries...)
	if len(sess.History) > s.maxHistory {
		sess.History = slices.Clone(sess.History[len(sess.History)-s.maxHistory:])
	}
}

func (s *Store) Stats(id string) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess.Stats
	}
	return Stats{}
}

// History returns up to limit most recent entries, newest first. A limit of
// zero or less returns everything kept.
func (s *Store) History(id string, limit int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}

	n := len(sess.History)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, 0, n)
	for i := len(sess.History) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, sess.History[i])
	}
	return out
}

// Clear drops the history and resets the counters. Filter selections are
// kept.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.History = nil
		sess.Stats = Stats{}
		sess.LastActivity = time.Now()
	}
}

// Selections returns a copy of the session's filter selections in the order
// they were chosen.
func (s *Store) Selections(id string) []prompt.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	return cloneSelections(sess.Selections)
}

// ToggleFilter selects the filter with the given starting parameters, or
// removes it if it is already selected. It reports whether the filter is
// selected afterwards.
func (s *Store) ToggleFilter(id, filter string, defaults filters.Params) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(id, "")
	sess.LastActivity = time.Now()

	if i := indexOf(sess.Selections, filter); i >= 0 {
		sess.Selections = slices.Delete(sess.Selections, i, i+1)
		return false
	}
	sess.Selections = append(sess.Selections, prompt.Selection{Filter: filter, Params: maps.Clone(defaults)})
	return true
}

// SetParams merges values into a selected filter's parameters, selecting the
// filter with base as its starting parameters if needed.
func (s *Store) SetParams(id, filter string, base, values filters.Params) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(id, "")
	sess.LastActivity = time.Now()

	i := indexOf(sess.Selections, filter)
	if i < 0 {
		sess.Selections = append(sess.Selections, prompt.Selection{Filter: filter, Params: maps.Clone(base)})
		i = len(sess.Selections) - 1
	}
	if sess.Selections[i].Params == nil {
		sess.Selections[i].Params = filters.Params{}
	}
	maps.Copy(sess.Selections[i].Params, values)
}

func (s *Store) ClearSelections(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.Selections = nil
	}
}

// SetCustom stores the free-text instruction used when a request does not
// carry its own.
func (s *Store) SetCustom(id, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(id, "")
	sess.LastActivity = time.Now()
	sess.Custom = strings.TrimSpace(text)
}

func (s *Store) Custom(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess.Custom
	}
	return ""
}

// PruneIdle forgets sessions inactive for longer than maxIdle and returns
// how many were removed.
func (s *Store) PruneIdle(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastActivity.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) getOrCreateLocked(id, username string) *Session {
	if sess, ok := s.sessions[id]; ok {
		if sess.Username == "" && username != "" {
			sess.Username = username
		}
		return sess
	}

	sess := &Session{
		ID:           id,
		Username:     username,
		LastActivity: time.Now(),
	}
	s.sessions[id] = sess
	return sess
}

func indexOf(sels []prompt.Selection, filter string) int {
	return slices.IndexFunc(sels, func(sel prompt.Selection) bool { return sel.Filter == filter })
}

func cloneSelections(in []prompt.Selection) []prompt.Selection {
	if in == nil {
		return nil
	}
	out := make([]prompt.Selection, len(in))
	for i, sel := range in {
		out[i] = prompt.Selection{Filter: sel.Filter, Params: maps.Clone(sel.Params)}
	}
	return out
}
