package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/instaexplore/instacli/internal/client/api"
	"github.com/instaexplore/instacli/internal/client/interactions"
	"github.com/instaexplore/instacli/internal/client/models"
)

// resolveUser maps a command argument to a user via search: an exact username
// match wins, otherwise the first result. The id form is accepted as-is when
// search finds nothing.
func (a *App) resolveUser(ctx context.Context, ref string) (*models.User, error) {
	users, err := a.api.SearchUsers(ctx, ref)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == ref || users[i].ID == ref {
			return &users[i], nil
		}
	}
	if len(users) > 0 {
		return &users[0], nil
	}
	return a.api.GetUser(ctx, ref)
}

// Follow follows a user; against a private account this lands in the
// requested state rather than following.
func (a *App) Follow(ctx context.Context, name string) error {
	user, err := a.resolveUser(ctx, name)
	if err != nil {
		return err
	}

	st := interactions.FollowStateOf(*user)
	if st != interactions.NotFollowing {
		fmt.Printf("Already %s @%s\n", st, user.Username)
		return nil
	}

	a.controls.ToggleFollow(ctx, *user, &st)
	switch st {
	case interactions.Requested:
		fmt.Printf("Follow request sent to @%s\n", user.Username)
	case interactions.Following:
		fmt.Printf("Now following @%s\n", user.Username)
	default:
		fmt.Printf("Could not follow @%s\n", user.Username)
	}
	return nil
}

// Unfollow unfollows a user, or cancels a pending follow request; both are
// the same operation.
func (a *App) Unfollow(ctx context.Context, name string) error {
	user, err := a.resolveUser(ctx, name)
	if err != nil {
		return err
	}

	st := interactions.FollowStateOf(*user)
	if st == interactions.NotFollowing {
		fmt.Printf("Not following @%s\n", user.Username)
		return nil
	}
	wasRequested := st == interactions.Requested

	a.controls.ToggleFollow(ctx, *user, &st)
	if st != interactions.NotFollowing {
		fmt.Printf("Could not unfollow @%s\n", user.Username)
		return nil
	}
	if wasRequested {
		fmt.Printf("Follow request to @%s cancelled\n", user.Username)
	} else {
		fmt.Printf("Unfollowed @%s\n", user.Username)
	}
	return nil
}

// EditProfile prompts for the mutable profile fields. An empty answer leaves
// a field as it is.
func (a *App) EditProfile(ctx context.Context) error {
	fullName, err := getSimpleText(a.reader, "Full name (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	bio, err := getSimpleText(a.reader, "Bio (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	private, err := getSimpleText(a.reader, "Private account? (y/n, empty to keep)", os.Stdout)
	if err != nil {
		return err
	}

	var update api.ProfileUpdate
	if fullName != "" {
		update.FullName = &fullName
	}
	if bio != "" {
		update.Bio = &bio
	}
	switch strings.ToLower(private) {
	case "y", "yes":
		v := true
		update.IsPrivate = &v
	case "n", "no":
		v := false
		update.IsPrivate = &v
	}
	if update == (api.ProfileUpdate{}) {
		fmt.Println("Nothing to change")
		return nil
	}

	user, err := a.api.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	fmt.Printf("Profile updated for @%s\n", user.Username)
	return nil
}

// Block blocks a user after an explicit confirmation; the server drops any
// follow relation between the two accounts as part of the block.
func (a *App) Block(ctx context.Context, name string) error {
	user, err := a.resolveUser(ctx, name)
	if err != nil {
		return err
	}

	ok, err := confirm(a.reader, fmt.Sprintf("Block @%s?", user.Username), os.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled")
		return nil
	}

	if err := a.api.BlockUser(ctx, user.ID); err != nil {
		return err
	}
	fmt.Printf("Blocked @%s\n", user.Username)
	return nil
}

// Search prints users matching a query.
func (a *App) Search(ctx context.Context, query string) error {
	users, err := a.api.SearchUsers(ctx, query)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Println("No users found")
		return nil
	}
	for _, u := range users {
		a.printUser(u)
	}
	return nil
}

// Suggest prints the server's follow suggestions.
func (a *App) Suggest(ctx context.Context) error {
	users, err := a.api.Suggestions(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Println("No suggestions right now")
		return nil
	}
	for _, u := range users {
		a.printUser(u)
	}
	return nil
}

func (a *App) printUser(u models.User) {
	extra := ""
	if u.IsPrivate {
		extra = " [private]"
	}
	if st := interactions.FollowStateOf(u); st != interactions.NotFollowing {
		extra += fmt.Sprintf(" [%s]", st)
	}
	fmt.Printf("  @%-15s %s%s\n", u.Username, u.FullName, extra)
}

// Online prints the current presence snapshot from the push channel.
func (a *App) Online(ctx context.Context) error {
	a.mu.Lock()
	online := make([]string, len(a.online))
	copy(online, a.online)
	a.mu.Unlock()

	if len(online) == 0 {
		fmt.Println("Nobody online (or the live channel is down)")
		return nil
	}
	fmt.Printf("%d online:\n", len(online))
	for _, id := range online {
		fmt.Println(" ", id)
	}
	return nil
}
