// Package messages keeps the direct-message state for the session: the
// conversation list, one open chat history, and their coupling to the
// read-state list. Histories are append-only within a session; the only
// replacement is the full refetch when a chat is opened.
package messages

import (
	"context"
	"sync"

	"github.com/instaexplore/instacli/internal/client/api"
	"github.com/instaexplore/instacli/internal/client/models"
	"github.com/instaexplore/instacli/internal/client/notifications"
	"github.com/instaexplore/instacli/internal/filex"
	"github.com/instaexplore/instacli/internal/logging"
)

// placeholderPreview is the preview text for a conversation that exists only
// locally, synthesized for a partner the user navigated to directly.
const placeholderPreview = "Start a conversation"

// Synchronizer owns the conversation list and the active chat. All methods
// are safe for concurrent use; the push handler and the REPL both touch it.
type Synchronizer struct {
	api   api.Client
	notes *notifications.Aggregator
	log   logging.Logger

	mu            sync.Mutex
	conversations []models.Conversation
	partner       *models.User
	history       []models.Message
	subs          []func()
}

func NewSynchronizer(apiClient api.Client, notes *notifications.Aggregator, log logging.Logger) *Synchronizer {
	return &Synchronizer{api: apiClient, notes: notes, log: log}
}

// Subscribe registers a callback invoked after every mutation. Callbacks run
// synchronously outside the lock.
func (s *Synchronizer) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Synchronizer) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// LoadConversations replaces the list with a fresh snapshot. A synthesized
// entry for the active partner survives the refresh if the server still has
// no conversation for them.
func (s *Synchronizer) LoadConversations(ctx context.Context) error {
	convs, err := s.api.Conversations(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.conversations = convs
	if s.partner != nil {
		s.ensurePartnerEntryLocked(*s.partner)
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// ensurePartnerEntryLocked prepends a placeholder conversation when the list
// has no entry for the given partner.
func (s *Synchronizer) ensurePartnerEntryLocked(partner models.User) {
	for _, c := range s.conversations {
		if c.UserInfo.ID == partner.ID {
			return
		}
	}
	entry := models.Conversation{
		UserInfo:    partner,
		LastMessage: models.LastMessage{Content: placeholderPreview},
	}
	s.conversations = append([]models.Conversation{entry}, s.conversations...)
}

// OpenChat makes partner the active conversation: the full history replaces
// whatever was loaded before, the partner's unread records flip to read, and
// a placeholder conversation entry appears if the partner is not in the list
// yet (the deep-link case).
func (s *Synchronizer) OpenChat(ctx context.Context, partner models.User) error {
	history, err := s.api.Messages(ctx, partner.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	p := partner
	s.partner = &p
	s.history = history
	s.ensurePartnerEntryLocked(partner)
	s.mu.Unlock()
	s.notify()

	s.notes.MarkConversationRead(ctx, partner.ID)
	return nil
}

// CloseChat leaves the active conversation. The conversation list stays.
func (s *Synchronizer) CloseChat() {
	s.mu.Lock()
	s.partner = nil
	s.history = nil
	s.mu.Unlock()
	s.notify()
}

// ActivePartner reports the open conversation, if any.
func (s *Synchronizer) ActivePartner() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.partner == nil {
		return models.User{}, false
	}
	return *s.partner, true
}

// Conversations returns a copy of the current list.
func (s *Synchronizer) Conversations() []models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// History returns a copy of the open chat's messages, oldest first.
func (s *Synchronizer) History() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.history))
	copy(out, s.history)
	return out
}

// UnreadFrom derives the per-conversation badge from the notification list.
func (s *Synchronizer) UnreadFrom(senderID string) int {
	return s.notes.UnreadCount(notifications.FromSender(senderID))
}

// Send delivers one message to the active partner. Sending is not
// optimistic: the server-assigned record is what lands in the history, so a
// failed send changes nothing locally and the error goes back to the caller.
func (s *Synchronizer) Send(ctx context.Context, content string, image *filex.Attachment, sharedPostID string) error {
	s.mu.Lock()
	if s.partner == nil {
		s.mu.Unlock()
		return ErrNoOpenChat
	}
	receiverID := s.partner.ID
	s.mu.Unlock()

	msg, err := s.api.SendMessage(ctx, api.SendMessageRequest{
		ReceiverID:   receiverID,
		Content:      content,
		SharedPostID: sharedPostID,
		Image:        image,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.history = append(s.history, *msg)
	s.mu.Unlock()
	s.notify()

	s.refreshConversations(ctx)
	return nil
}

// HandleIncoming folds one pushed message into local state. Only messages
// from the active partner join the history; a chat with P open must not grow
// a message from Q. The matching conversation's unread state clears right
// away since the user is looking at it.
func (s *Synchronizer) HandleIncoming(ctx context.Context, msg models.Message) {
	s.mu.Lock()
	inOpenChat := s.partner != nil && s.partner.ID == msg.Sender
	if inOpenChat {
		s.history = append(s.history, msg)
	}
	s.mu.Unlock()

	if inOpenChat {
		s.notify()
		s.notes.MarkConversationRead(ctx, msg.Sender)
	}

	s.refreshConversations(ctx)
}

// refreshConversations refetches the list previews best-effort; a failure
// only means stale previews until the next successful refresh.
func (s *Synchronizer) refreshConversations(ctx context.Context) {
	if err := s.LoadConversations(ctx); err != nil {
		s.log.Warn(ctx, "conversation list refresh failed", "error", err)
	}
}
