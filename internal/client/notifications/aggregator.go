// Package notifications implements the session-wide notification list and the
// read-state derived from it. The list is the single owner of notification
// records; every badge surface (activity feed, messages badge,
// per-conversation badge) derives its unread count from the same list instead
// of maintaining its own counter.
package notifications

import (
	"context"
	"sync"

	"github.com/instaexplore/instacli/internal/client/api"
	"github.com/instaexplore/instacli/internal/client/models"
	"github.com/instaexplore/instacli/internal/logging"
)

// Predicate selects a subset of notification records.
type Predicate func(models.Notification) bool

// Activity matches every record outside the messages surface.
func Activity(n models.Notification) bool { return !n.IsMessage() }

// Messages matches direct-message records.
func Messages(n models.Notification) bool { return n.IsMessage() }

// FromSender matches message records from one conversation partner.
func FromSender(senderID string) Predicate {
	return func(n models.Notification) bool {
		return n.IsMessage() && n.Sender.ID == senderID
	}
}

// Aggregator holds the full notification list for the session, most recent
// first. Unread counts are derived, never stored: a count is a scan over the
// list, which keeps the partition property (activity unread + message unread
// == total unread) true by construction. At feed volumes the O(n) rescan is
// fine; an indexed structure would be needed before the list grows past a
// few thousand records.
type Aggregator struct {
	api api.Client
	log logging.Logger

	mu    sync.Mutex
	items []models.Notification
	subs  []func()
}

func New(apiClient api.Client, log logging.Logger) *Aggregator {
	return &Aggregator{api: apiClient, log: log}
}

// Subscribe registers a callback invoked after every mutation of the list.
// Callbacks run synchronously outside the aggregator lock.
func (a *Aggregator) Subscribe(fn func()) {
	a.mu.Lock()
	a.subs = append(a.subs, fn)
	a.mu.Unlock()
}

func (a *Aggregator) notify() {
	a.mu.Lock()
	subs := make([]func(), len(a.subs))
	copy(subs, a.subs)
	a.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Refresh replaces the list with a fresh REST snapshot. This is also the only
// point where local read-state diverging from server truth (after a failed
// mark-read persist) reconciles.
func (a *Aggregator) Refresh(ctx context.Context) error {
	items, err := a.api.Notifications(ctx)
	if err != nil {
		return err
	}
	a.Replace(items)
	return nil
}

// Replace swaps in a full snapshot.
func (a *Aggregator) Replace(items []models.Notification) {
	a.mu.Lock()
	a.items = make([]models.Notification, len(items))
	copy(a.items, items)
	a.mu.Unlock()
	a.notify()
}

// Append inserts a pushed record at the head; most-recent-first ordering is
// the invariant the activity feed renders from.
func (a *Aggregator) Append(n models.Notification) {
	a.mu.Lock()
	a.items = append([]models.Notification{n}, a.items...)
	a.mu.Unlock()
	a.notify()
}

// Reset clears the list, e.g. when the session identity changes.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	a.items = nil
	a.mu.Unlock()
	a.notify()
}

// All returns a copy of the list in feed order.
func (a *Aggregator) All() []models.Notification {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.Notification, len(a.items))
	copy(out, a.items)
	return out
}

// UnreadCount derives the badge value for one surface.
func (a *Aggregator) UnreadCount(p Predicate) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	count := 0
	for _, n := range a.items {
		if !n.IsRead && p(n) {
			count++
		}
	}
	return count
}

// TotalUnread counts every unread record regardless of surface.
func (a *Aggregator) TotalUnread() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	count := 0
	for _, n := range a.items {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// MarkRead flips IsRead on every record matching p, immediately and locally,
// then issues a best-effort server call persisting the same filter. The two
// are deliberately not linked: a failed persist leaves local state read until
// the next Refresh reconciles it. Local-first is the one consistent policy
// this client applies to read-state.
func (a *Aggregator) MarkRead(ctx context.Context, p Predicate, filter api.ReadFilter) {
	a.mu.Lock()
	changed := false
	for i := range a.items {
		if !a.items[i].IsRead && p(a.items[i]) {
			a.items[i].IsRead = true
			changed = true
		}
	}
	a.mu.Unlock()

	if changed {
		a.notify()
	}

	if err := a.api.MarkNotificationsRead(ctx, filter); err != nil {
		a.log.Warn(ctx, "failed to persist read-state", "filter", filter, "error", err)
	}
}

// MarkActivityRead marks the activity surface read (everything but messages).
func (a *Aggregator) MarkActivityRead(ctx context.Context) {
	a.MarkRead(ctx, Activity, api.ReadFilter{Type: "activity"})
}

// MarkMessagesRead marks the whole messages surface read.
func (a *Aggregator) MarkMessagesRead(ctx context.Context) {
	a.MarkRead(ctx, Messages, api.ReadFilter{Type: "message"})
}

// MarkConversationRead marks message records from one partner read, leaving
// other conversations untouched.
func (a *Aggregator) MarkConversationRead(ctx context.Context, senderID string) {
	a.MarkRead(ctx, FromSender(senderID), api.ReadFilter{Type: "message", SenderID: senderID})
}
