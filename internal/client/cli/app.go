package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log"
	"os"
	"sync"

	"github.com/instaexplore/instacli/internal/client/api"
	"github.com/instaexplore/instacli/internal/client/config"
	"github.com/instaexplore/instacli/internal/client/interactions"
	"github.com/instaexplore/instacli/internal/client/messages"
	"github.com/instaexplore/instacli/internal/client/models"
	"github.com/instaexplore/instacli/internal/client/notifications"
	"github.com/instaexplore/instacli/internal/client/realtime"
	"github.com/instaexplore/instacli/internal/client/session"
	"github.com/instaexplore/instacli/internal/logging"

	_ "modernc.org/sqlite"
)

// App ties the feature modules together behind the REPL. The session store is
// the identity authority: every account transition flows through its
// session-changed signal, which App uses to tear down and rebuild the
// identity-scoped state (push channel, notification list, open chat).
type App struct {
	config *config.Config
	log    logging.Logger

	db       *sql.DB
	api      api.Client
	store    *session.Store
	notes    *notifications.Aggregator
	channel  *realtime.Channel
	notifier *realtime.Notifier
	chats    *messages.Synchronizer
	controls *interactions.Controller

	reader *bufio.Reader

	mu     sync.Mutex
	feed   []models.Post
	posts  map[string]*interactions.PostState
	online []string
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()
	logger := logging.NewDefault()

	db, err := session.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	// The token provider closes over the store so that account switches take
	// effect on the very next request.
	var store *session.Store
	apiClient := api.NewRESTClient(c.APIEndpoint, func() string {
		if store == nil {
			return ""
		}
		return store.Token()
	}).SetTimeout(c.RequestTimeout)

	store = session.NewStore(apiClient, db, logger)
	notes := notifications.New(apiClient, logger)

	a := &App{
		config:   c,
		log:      logger,
		db:       db,
		api:      apiClient,
		store:    store,
		notes:    notes,
		channel:  realtime.NewChannel(c.SocketEndpoint, logger),
		notifier: realtime.NewNotifier(os.Stdout),
		chats:    messages.NewSynchronizer(apiClient, notes, logger),
		controls: interactions.NewController(apiClient, logger),
		reader:   bufio.NewReader(os.Stdin),
		posts:    make(map[string]*interactions.PostState),
	}
	a.wire()
	return a, nil
}

// wire connects the push channel to the feature modules and subscribes to
// session transitions. Handlers are registered once; the channel itself is
// reopened per identity.
func (a *App) wire() {
	a.channel.OnOnlineUsers(a.setOnline)
	a.channel.OnNotification(func(n models.Notification) {
		a.notes.Append(n)
		a.notifier.Notify(n)
	})
	a.channel.OnNewMessage(func(m models.Message) {
		a.chats.HandleIncoming(context.Background(), m)
		if p, ok := a.chats.ActivePartner(); ok && p.ID == m.Sender {
			a.printMessage(m, a.store.Active())
		}
	})
	a.store.Subscribe(a.onSessionChange)
}

// onSessionChange rebuilds identity-scoped state after login, logout or an
// account switch. Teardown happens unconditionally; the rebuild only when a
// new identity is active.
func (a *App) onSessionChange(active *models.User) {
	ctx := context.Background()

	a.channel.Close()
	a.notes.Reset()
	a.chats.CloseChat()
	a.notifier.SetActiveSurface(realtime.SurfaceNone)
	a.setOnline(nil)

	a.mu.Lock()
	a.feed = nil
	a.posts = make(map[string]*interactions.PostState)
	a.mu.Unlock()

	if active == nil {
		return
	}

	if err := a.notes.Refresh(ctx); err != nil {
		a.log.Warn(ctx, "could not load notifications", "error", err)
	}
	if err := a.channel.Open(ctx, active.ID); err != nil {
		a.log.Warn(ctx, "could not open realtime channel", "error", err)
	}
}

func (a *App) setOnline(userIDs []string) {
	a.mu.Lock()
	a.online = userIDs
	a.mu.Unlock()
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}

// Run restores the stored session and enters the REPL. It blocks until the
// user exits.
func (a *App) Run(ctx context.Context) {
	defer a.db.Close()
	defer a.channel.Close()

	if err := a.store.Restore(ctx); err != nil {
		// Server unreachable; the credential survives for the next start.
		a.log.Warn(ctx, "session restore incomplete", "error", err)
	}

	a.Root(ctx)
}
