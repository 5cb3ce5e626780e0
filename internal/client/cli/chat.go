package cli

import (
	"context"
	"fmt"

	"github.com/instaexplore/instacli/internal/client/api"
	"github.com/instaexplore/instacli/internal/client/models"
	"github.com/instaexplore/instacli/internal/client/realtime"
	"github.com/instaexplore/instacli/internal/filex"
)

// Msgs lists the conversations, most recent first, with per-conversation
// unread badges.
func (a *App) Msgs(ctx context.Context) error {
	if err := a.chats.LoadConversations(ctx); err != nil {
		return err
	}

	convs := a.chats.Conversations()
	if len(convs) == 0 {
		fmt.Println("No conversations yet; use 'open <user>' to start one")
		return nil
	}
	for _, c := range convs {
		fmt.Printf("  @%-15s %s%s\n",
			c.UserInfo.Username, c.LastMessage.Content, a.unreadBadge(c.UserInfo.ID))
	}
	return nil
}

// OpenChat opens the conversation with a user and prints its history. While
// a chat is open, incoming messages from that partner print live and their
// alerts are suppressed.
func (a *App) OpenChat(ctx context.Context, name string) error {
	partner, err := a.resolveUser(ctx, name)
	if err != nil {
		return err
	}

	if err := a.chats.OpenChat(ctx, *partner); err != nil {
		return err
	}
	a.notifier.SetActiveSurface(realtime.SurfaceMessages)

	history := a.chats.History()
	fmt.Printf("--- chat with @%s (%d messages) ---\n", partner.Username, len(history))
	me := a.store.Active()
	for _, m := range history {
		a.printMessage(m, me)
	}
	return nil
}

func (a *App) printMessage(m models.Message, me *models.User) {
	who := "them"
	if me != nil && m.Sender == me.ID {
		who = "me"
	}
	body := m.Content
	if m.Image != "" {
		body += " [image]"
	}
	if m.SharedPost != nil {
		body += fmt.Sprintf(" [shared post %s]", m.SharedPost.ID)
	}
	fmt.Printf("  %s %-4s %s\n", m.CreatedAt.Format("15:04"), who, body)
}

// Send sends a text message in the open chat.
func (a *App) Send(ctx context.Context, text string) error {
	if err := a.chats.Send(ctx, text, nil, ""); err != nil {
		return err
	}
	fmt.Println("Sent")
	return nil
}

// SendImage sends an image-only message in the open chat. Attachments above
// the size limit are refused before any request is made.
func (a *App) SendImage(ctx context.Context, path string) error {
	image, err := filex.LoadAttachment(path)
	if err != nil {
		return err
	}
	if err := a.chats.Send(ctx, "", image, ""); err != nil {
		return err
	}
	fmt.Println("Sent")
	return nil
}

// Share sends a post to a user as a direct message. When the target is the
// open chat's partner the shared post joins the history like any other
// message; otherwise it goes out as a standalone send.
func (a *App) Share(ctx context.Context, ref, name string) error {
	postID, err := a.resolvePost(ref)
	if err != nil {
		return err
	}
	user, err := a.resolveUser(ctx, name)
	if err != nil {
		return err
	}

	if p, ok := a.chats.ActivePartner(); ok && p.ID == user.ID {
		if err := a.chats.Send(ctx, "", nil, postID); err != nil {
			return err
		}
	} else if _, err := a.api.SendMessage(ctx, api.SendMessageRequest{
		ReceiverID:   user.ID,
		SharedPostID: postID,
	}); err != nil {
		return err
	}
	fmt.Printf("Shared post with @%s\n", user.Username)
	return nil
}

// CloseChat leaves the open chat; alerts for its partner resume.
func (a *App) CloseChat(ctx context.Context) error {
	a.chats.CloseChat()
	a.notifier.SetActiveSurface(realtime.SurfaceNone)
	fmt.Println("Chat closed")
	return nil
}
