package cli

import (
	"context"
	"fmt"

	"github.com/instaexplore/instacli/internal/client/models"
	"github.com/instaexplore/instacli/internal/client/notifications"
)

// Activity prints the activity feed (every notification except direct
// messages), newest first, then marks the surface read. Unread records carry
// a marker so the user can see what is new before it flips.
func (a *App) Activity(ctx context.Context) error {
	if err := a.notes.Refresh(ctx); err != nil {
		a.log.Warn(ctx, "could not refresh notifications, showing cached list", "error", err)
	}

	var shown int
	for _, n := range a.notes.All() {
		if n.IsMessage() {
			continue
		}
		shown++
		a.printNotification(n)
	}
	if shown == 0 {
		fmt.Println("No activity yet")
		return nil
	}

	a.notes.MarkActivityRead(ctx)
	return nil
}

func (a *App) printNotification(n models.Notification) {
	marker := " "
	if !n.IsRead {
		marker = "*"
	}
	fmt.Printf("%s %s @%s %s\n",
		marker, n.CreatedAt.Format("Jan 02 15:04"), n.Sender.Username, activityText(n))
}

// activityText renders the per-type feed line.
func activityText(n models.Notification) string {
	switch n.Type {
	case models.NotificationLike:
		return "liked your post"
	case models.NotificationCommentLike:
		return fmt.Sprintf("liked your comment: %q", n.Content)
	case models.NotificationComment:
		return fmt.Sprintf("commented: %q", n.Content)
	case models.NotificationFollow:
		return "started following you"
	case models.NotificationFollowRequest:
		return "sent you a follow request"
	case models.NotificationFollowAccept:
		return "accepted your follow request"
	default:
		return string(n.Type)
	}
}

// unreadBadge is used by chat listings: per-conversation unread counts come
// from the same notification list every other surface derives from.
func (a *App) unreadBadge(senderID string) string {
	if c := a.notes.UnreadCount(notifications.FromSender(senderID)); c > 0 {
		return fmt.Sprintf(" (%d new)", c)
	}
	return ""
}
