package notifications

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/instaexplore/instacli/internal/client/api"
	"github.com/instaexplore/instacli/internal/client/api/apitest"
	"github.com/instaexplore/instacli/internal/client/models"
	"github.com/instaexplore/instacli/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func note(id string, typ models.NotificationType, senderID string, read bool) models.Notification {
	return models.Notification{
		ID:     id,
		Type:   typ,
		Sender: models.User{ID: senderID},
		IsRead: read,
	}
}

func TestUnreadCounts_PartitionProperty(t *testing.T) {
	a := New(&apitest.Fake{}, testLogger())
	a.Replace([]models.Notification{
		note("n1", models.NotificationLike, "x", false),
		note("n2", models.NotificationComment, "y", true),
		note("n3", models.NotificationMessage, "x", false),
		note("n4", models.NotificationMessage, "q", false),
		note("n5", models.NotificationFollow, "z", false),
	})

	activity := a.UnreadCount(Activity)
	messages := a.UnreadCount(Messages)
	require.Equal(t, 2, activity)
	require.Equal(t, 2, messages)
	require.Equal(t, a.TotalUnread(), activity+messages)
}

func TestMarkRead_ScopedByType(t *testing.T) {
	fake := &apitest.Fake{}
	a := New(fake, testLogger())
	a.Replace([]models.Notification{
		note("n1", models.NotificationLike, "x", false),
		note("n2", models.NotificationMessage, "x", false),
	})

	a.MarkActivityRead(context.Background())

	require.Equal(t, 0, a.UnreadCount(Activity))
	require.Equal(t, 1, a.UnreadCount(Messages), "message record must stay unread")
	require.Equal(t, []api.ReadFilter{{Type: "activity"}}, fake.ReadFilters)
}

func TestMarkConversationRead_ScopedBySender(t *testing.T) {
	fake := &apitest.Fake{}
	a := New(fake, testLogger())
	a.Replace([]models.Notification{
		note("n1", models.NotificationMessage, "p", false),
		note("n2", models.NotificationMessage, "q", false),
	})

	a.MarkConversationRead(context.Background(), "p")

	require.Equal(t, 0, a.UnreadCount(FromSender("p")))
	require.Equal(t, 1, a.UnreadCount(FromSender("q")))
	require.Equal(t, 1, a.UnreadCount(Messages))
	require.Equal(t, []api.ReadFilter{{Type: "message", SenderID: "p"}}, fake.ReadFilters)
}

func TestMarkRead_LocalFlipSurvivesServerFailure(t *testing.T) {
	fake := &apitest.Fake{
		MarkNotificationsReadFn: func(ctx context.Context, f api.ReadFilter) error {
			return errors.New("boom")
		},
	}
	a := New(fake, testLogger())
	a.Replace([]models.Notification{note("n1", models.NotificationLike, "x", false)})

	a.MarkActivityRead(context.Background())

	require.Equal(t, 0, a.UnreadCount(Activity), "read-state is optimistic-local first")
}

func TestMarkRead_MonotonicUntilAppend(t *testing.T) {
	a := New(&apitest.Fake{}, testLogger())
	a.Replace([]models.Notification{
		note("n1", models.NotificationLike, "x", false),
		note("n2", models.NotificationComment, "y", false),
	})
	ctx := context.Background()

	prev := a.UnreadCount(Activity)
	for i := 0; i < 3; i++ {
		a.MarkActivityRead(ctx)
		cur := a.UnreadCount(Activity)
		require.LessOrEqual(t, cur, prev)
		prev = cur
	}
	require.Equal(t, 0, prev)

	a.Append(note("n3", models.NotificationLike, "z", false))
	require.Equal(t, 1, a.UnreadCount(Activity))
}

func TestAppend_MostRecentFirst(t *testing.T) {
	a := New(&apitest.Fake{}, testLogger())
	a.Replace([]models.Notification{note("old", models.NotificationLike, "x", true)})
	a.Append(note("new", models.NotificationComment, "y", false))

	all := a.All()
	require.Equal(t, []string{"new", "old"}, []string{all[0].ID, all[1].ID})
}

func TestRefresh_LoadsSnapshot(t *testing.T) {
	fake := &apitest.Fake{
		NotificationsFn: func(ctx context.Context) ([]models.Notification, error) {
			return []models.Notification{note("n1", models.NotificationFollowRequest, "x", false)}, nil
		},
	}
	a := New(fake, testLogger())
	require.NoError(t, a.Refresh(context.Background()))
	require.Len(t, a.All(), 1)
	require.Equal(t, 1, a.UnreadCount(Activity))
}

func TestSubscribe_FiresOnMutations(t *testing.T) {
	a := New(&apitest.Fake{}, testLogger())
	var fired int
	a.Subscribe(func() { fired++ })

	a.Replace(nil)
	a.Append(note("n1", models.NotificationLike, "x", false))
	a.MarkActivityRead(context.Background())
	a.Reset()

	require.Equal(t, 4, fired)
}

func TestMarkRead_NoMatchesSkipsNotify(t *testing.T) {
	a := New(&apitest.Fake{}, testLogger())
	a.Replace([]models.Notification{note("n1", models.NotificationMessage, "x", false)})

	var fired int
	a.Subscribe(func() { fired++ })

	a.MarkActivityRead(context.Background())
	require.Zero(t, fired, "no records changed, no notification")
}
