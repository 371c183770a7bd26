// Package mediagroup collects the photos of a Telegram album, which arrive
// as separate updates, into one batch.
package mediagroup

import (
	"fmt"
	"sync"
	"time"
)

// MaxItems is the most photos a single album can carry.
const MaxItems = 10

type File struct {
	ID   string
	Name string
}

type Item struct {
	ChatID       int64
	UserID       int64
	Username     string
	MediaGroupID string
	Caption      string
	File         File
}

type Group struct {
	ChatID   int64
	UserID   int64
	Username string
	Caption  string
	Files    []File
}

type Options struct {
	Debounce time.Duration
	OnFlush  func(Group)
}

type Aggregator struct {
	mu       sync.Mutex
	debounce time.Duration
	onFlush  func(Group)
	groups   map[string]*pendingGroup
	stopped  bool
}

type pendingGroup struct {
	group Group
	timer *time.Timer
}

func New(opts Options) *Aggregator {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 1200 * time.Millisecond
	}

	return &Aggregator{
		debounce: debounce,
		onFlush:  opts.OnFlush,
		groups:   make(map[string]*pendingGroup),
	}
}

// Add queues one album photo. The group is flushed once no new photo has
// arrived for the debounce interval, or right away when it is full.
func (a *Aggregator) Add(item Item) {
	if item.MediaGroupID == "" || item.File.ID == "" {
		return
	}

	key := makeKey(item.ChatID, item.MediaGroupID)

	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}

	pg, ok := a.groups[key]
	if !ok {
		pg = &pendingGroup{
			group: Group{
				ChatID:   item.ChatID,
				UserID:   item.UserID,
				Username: item.Username,
				Caption:  item.Caption,
			},
		}
		a.groups[key] = pg
	}
	pg.group.Files = append(pg.group.Files, item.File)
	if item.Caption != "" {
		pg.group.Caption = item.Caption
	}

	if pg.timer != nil {
		pg.timer.Stop()
	}
	full := len(pg.group.Files) >= MaxItems
	if !full {
		pg.timer = time.AfterFunc(a.debounce, func() {
			a.flush(key)
		})
	}
	a.mu.Unlock()

	if full {
		a.flush(key)
	}
}

// Pending reports how many albums are still collecting photos.
func (a *Aggregator) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.groups)
}

// Stop flushes every pending album immediately and ignores later items.
func (a *Aggregator) Stop() {
	a.mu.Lock()
	a.stopped = true
	keys := make([]string, 0, len(a.groups))
	for key, pg := range a.groups {
		if pg.timer != nil {
			pg.timer.Stop()
		}
		keys = append(keys, key)
	}
	a.mu.Unlock()

	for _, key := range keys {
		a.flush(key)
	}
}

func (a *Aggregator) flush(key string) {
	a.mu.Lock()
	pg, ok := a.groups[key]
	if !ok {
		a.mu.Unlock()
		return
	}
	delete(a.groups, key)
	group := pg.group
	onFlush := a.onFlush
	a.mu.Unlock()

	if onFlush != nil {
		onFlush(group)
	}
}

func makeKey(chatID int64, mediaGroupID string) string {
	return fmt.Sprintf("%d:%s", chatID, mediaGroupID)
}
