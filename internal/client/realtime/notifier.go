package realtime

import (
	"fmt"
	"io"
	"sync"

	"github.com/instaexplore/instacli/internal/client/models"
)

// Surface is a distinct UI location displaying unread state.
type Surface string

const (
	SurfaceNone     Surface = ""
	SurfaceActivity Surface = "activity"
	SurfaceMessages Surface = "messages"
)

// surfaceFor maps a notification record to the surface it belongs to.
func surfaceFor(n models.Notification) Surface {
	if n.IsMessage() {
		return SurfaceMessages
	}
	return SurfaceActivity
}

// Notifier renders transient alerts for pushed notifications. An alert is
// suppressed while the user is already viewing the surface the event belongs
// to — a new message produces no alert on the messages screen.
type Notifier struct {
	mu     sync.Mutex
	out    io.Writer
	active Surface
}

func NewNotifier(out io.Writer) *Notifier {
	return &Notifier{out: out}
}

// SetActiveSurface records which surface the user is currently viewing.
func (n *Notifier) SetActiveSurface(s Surface) {
	n.mu.Lock()
	n.active = s
	n.mu.Unlock()
}

func (n *Notifier) ActiveSurface() Surface {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.active
}

// Notify prints one transient alert line, unless suppressed.
func (n *Notifier) Notify(rec models.Notification) {
	n.mu.Lock()
	suppressed := n.active == surfaceFor(rec)
	out := n.out
	n.mu.Unlock()

	if suppressed {
		return
	}
	fmt.Fprintf(out, "* %s %s\n", rec.Sender.Username, alertText(rec))
}

// alertText renders the per-type alert body, quoting at most the first 20
// characters of any content.
func alertText(n models.Notification) string {
	switch n.Type {
	case models.NotificationLike:
		return "liked your post"
	case models.NotificationCommentLike:
		return fmt.Sprintf("liked your comment: %q", truncate(n.Content, 20))
	case models.NotificationComment:
		return fmt.Sprintf("commented: %q", truncate(n.Content, 20))
	case models.NotificationFollow:
		return "started following you"
	case models.NotificationFollowRequest:
		return "sent you a follow request"
	case models.NotificationFollowAccept:
		return "accepted your follow request"
	case models.NotificationMessage:
		return fmt.Sprintf("sent you a message: %q", truncate(n.Content, 20))
	default:
		return "interacted with you"
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
