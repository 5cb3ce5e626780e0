package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/instaexplore/instacli/internal/client/realtime"
)

// getStatus renders the prompt suffix: the active username plus a "live"
// marker while the push channel is open, e.g. "(alice live)".
func (a *App) getStatus() string {
	active := a.store.Active()
	if active == nil {
		return ""
	}
	s := active.Username
	if a.channel.State() == realtime.StateOpen {
		s += " live"
	}
	if unread := a.notes.TotalUnread(); unread > 0 {
		s = fmt.Sprintf("%s *%d", s, unread)
	}
	return fmt.Sprintf(" (%s)", s)
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to instacli (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	if !a.isLoggedIn() {
		if accounts := a.store.Accounts(); len(accounts) > 0 {
			fmt.Println("Remembered accounts available; use 'accounts' and 'switch', or 'login'.")
		}
	}

	runREPL(ctx, a, a.getStatus, scanner)
}
