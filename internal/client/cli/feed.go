package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/instaexplore/instacli/internal/client/interactions"
	"github.com/instaexplore/instacli/internal/client/models"
	"github.com/instaexplore/instacli/internal/filex"
)

// Feed fetches and prints the home feed. Each post gets a fresh interaction
// shadow; shadows of the previous feed snapshot are discarded.
func (a *App) Feed(ctx context.Context) error {
	posts, err := a.api.Feed(ctx)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.feed = posts
	a.posts = make(map[string]*interactions.PostState, len(posts))
	for _, p := range posts {
		st := interactions.PostStateOf(p)
		a.posts[p.ID] = &st
	}
	a.mu.Unlock()

	if len(posts) == 0 {
		fmt.Println("Feed is empty")
		return nil
	}
	for i, p := range posts {
		a.printPost(i+1, p)
	}
	return nil
}

func (a *App) printPost(n int, p models.Post) {
	st := a.postState(p.ID)
	liked, saved := " ", " "
	if st.Liked {
		liked = "♥"
	}
	if st.Saved {
		saved = "+"
	}
	fmt.Printf("%2d. [%s%s] @%-15s %s (%d likes, %d comments) %s\n",
		n, liked, saved, p.User.Username, p.Caption, st.LikeCount, len(st.Comments), p.ID)
}

// postState returns the interaction shadow for a post, creating an empty one
// for posts not in the last feed snapshot (e.g. referenced by raw id).
func (a *App) postState(postID string) *interactions.PostState {
	a.mu.Lock()
	defer a.mu.Unlock()
	if st, ok := a.posts[postID]; ok {
		return st
	}
	st := &interactions.PostState{ID: postID}
	a.posts[postID] = st
	return st
}

// resolvePost maps a command argument to a post id: a small integer indexes
// into the last feed printout (1-based), anything else is taken as an id.
func (a *App) resolvePost(ref string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(a.feed) {
			return "", fmt.Errorf("no post %d in the current feed", n)
		}
		return a.feed[n-1].ID, nil
	}
	return ref, nil
}

// Like toggles the like on a post. The toggle is optimistic; failures roll
// back quietly.
func (a *App) Like(ctx context.Context, ref string) error {
	postID, err := a.resolvePost(ref)
	if err != nil {
		return err
	}
	st := a.postState(postID)
	a.controls.ToggleLike(ctx, st)

	if st.Liked {
		fmt.Printf("Liked (%d)\n", st.LikeCount)
	} else {
		fmt.Printf("Unliked (%d)\n", st.LikeCount)
	}
	return nil
}

// Save toggles the saved flag on a post.
func (a *App) Save(ctx context.Context, ref string) error {
	postID, err := a.resolvePost(ref)
	if err != nil {
		return err
	}
	st := a.postState(postID)
	a.controls.ToggleSave(ctx, st)

	if st.Saved {
		fmt.Println("Saved")
	} else {
		fmt.Println("Removed from saved")
	}
	return nil
}

// Comment prompts for a comment body and posts it. The server's response is
// the full updated comment list.
func (a *App) Comment(ctx context.Context, ref string) error {
	postID, err := a.resolvePost(ref)
	if err != nil {
		return err
	}

	text, err := GetMultiline(a.reader, "Enter comment", os.Stdout)
	if err != nil {
		return err
	}
	if text == "" {
		fmt.Println("Empty comment, nothing sent")
		return nil
	}

	st := a.postState(postID)
	if err := a.controls.AddComment(ctx, st, text); err != nil {
		return err
	}
	fmt.Printf("Comment added (%d total)\n", len(st.Comments))
	return nil
}

// Uncomment deletes one of the user's comments. Unlike the toggles this is
// not optimistic: a refusal is reported.
func (a *App) Uncomment(ctx context.Context, ref, commentID string) error {
	postID, err := a.resolvePost(ref)
	if err != nil {
		return err
	}
	st := a.postState(postID)
	if err := a.controls.DeleteComment(ctx, st, commentID); err != nil {
		return err
	}
	fmt.Println("Comment deleted")
	return nil
}

// DelPost deletes one of the user's posts after an explicit confirmation and
// drops it from the cached feed printout.
func (a *App) DelPost(ctx context.Context, ref string) error {
	postID, err := a.resolvePost(ref)
	if err != nil {
		return err
	}

	ok, err := confirm(a.reader, "Delete post "+postID+"? This cannot be undone", os.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled")
		return nil
	}

	if err := a.api.DeletePost(ctx, postID); err != nil {
		return err
	}

	a.mu.Lock()
	for i := range a.feed {
		if a.feed[i].ID == postID {
			a.feed = append(a.feed[:i], a.feed[i+1:]...)
			break
		}
	}
	delete(a.posts, postID)
	a.mu.Unlock()

	fmt.Println("Post deleted")
	return nil
}

// NewPost prompts for a caption and an optional image path and publishes.
func (a *App) NewPost(ctx context.Context) error {
	caption, err := GetMultiline(a.reader, "Enter caption", os.Stdout)
	if err != nil {
		return err
	}
	imagePath, err := getSimpleText(a.reader, "Image path (empty for none)", os.Stdout)
	if err != nil {
		return err
	}
	visibility, err := getSimpleText(a.reader, "Visibility (public/followers, empty for public)", os.Stdout)
	if err != nil {
		return err
	}
	if visibility == "" {
		visibility = "public"
	}

	var image *filex.Attachment
	if imagePath != "" {
		image, err = filex.LoadAttachment(imagePath)
		if err != nil {
			return err
		}
	}

	post, err := a.api.CreatePost(ctx, caption, visibility, image)
	if err != nil {
		return err
	}
	fmt.Printf("Posted %s\n", post.ID)
	return nil
}
