package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Passwd(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Accounts(ctx context.Context) error
	Switch(ctx context.Context, ref string) error
	Feed(ctx context.Context) error
	Like(ctx context.Context, ref string) error
	Save(ctx context.Context, ref string) error
	Comment(ctx context.Context, ref string) error
	Uncomment(ctx context.Context, ref, commentID string) error
	NewPost(ctx context.Context) error
	DelPost(ctx context.Context, ref string) error
	Share(ctx context.Context, ref, name string) error
	Follow(ctx context.Context, name string) error
	Unfollow(ctx context.Context, name string) error
	Block(ctx context.Context, name string) error
	Search(ctx context.Context, query string) error
	Suggest(ctx context.Context) error
	Activity(ctx context.Context) error
	Msgs(ctx context.Context) error
	OpenChat(ctx context.Context, name string) error
	Send(ctx context.Context, text string) error
	SendImage(ctx context.Context, path string) error
	CloseChat(ctx context.Context) error
	Online(ctx context.Context) error
}

const loggedInHelp = `Available commands:
  feed               show the home feed
  like <n|id>        toggle like on a post
  save <n|id>        toggle save on a post
  comment <n|id>     comment on a post
  uncomment <n|id> <commentId>  delete your comment
  post               create a new post
  delpost <n|id>     delete your post (asks first)
  share <n|id> <user>  share a post in a direct message
  follow <user>      follow a user (request if private)
  unfollow <user>    unfollow or cancel a pending request
  block <user>       block a user (asks first)
  search <query>     search users
  suggest            suggested users
  activity           show activity notifications (marks them read)
  msgs               list conversations
  open <user>        open a chat
  send <text>        send a message in the open chat
  sendimg <path>     send an image in the open chat
  close              leave the open chat
  online             show who is online
  editprofile        edit name, bio and privacy
  passwd             change the account password
  accounts           list remembered accounts
  switch <n|id>      switch to a remembered account
  logout             log the current account out
  exit | quit        leave the program`

// runREPL starts a simple read–eval–print loop for the instacli client.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Any errors returned by command handlers are printed here; the loop itself
// never terminates on a handler error.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	report := func(err error) {
		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}

	for {
		printlnFn(fmt.Sprintf("insta%s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(loggedInHelp)
			} else {
				printlnFn("Available commands: register, login, accounts, switch, exit")
			}

		case "register":
			report(a.Register(ctx))

		case "login":
			report(a.Login(ctx))

		case "logout":
			report(a.Logout(ctx))

		case "passwd":
			report(a.Passwd(ctx))

		case "editprofile":
			report(a.EditProfile(ctx))

		case "accounts":
			report(a.Accounts(ctx))

		case "switch":
			if len(args) == 0 {
				printlnFn("Usage: switch <n|id>")
				continue
			}
			report(a.Switch(ctx, args[0]))

		case "feed":
			report(a.Feed(ctx))

		case "like":
			if len(args) == 0 {
				printlnFn("Usage: like <n|id>")
				continue
			}
			report(a.Like(ctx, args[0]))

		case "save":
			if len(args) == 0 {
				printlnFn("Usage: save <n|id>")
				continue
			}
			report(a.Save(ctx, args[0]))

		case "comment":
			if len(args) == 0 {
				printlnFn("Usage: comment <n|id>")
				continue
			}
			report(a.Comment(ctx, args[0]))

		case "uncomment":
			if len(args) < 2 {
				printlnFn("Usage: uncomment <n|id> <commentId>")
				continue
			}
			report(a.Uncomment(ctx, args[0], args[1]))

		case "post":
			report(a.NewPost(ctx))

		case "delpost":
			if len(args) == 0 {
				printlnFn("Usage: delpost <n|id>")
				continue
			}
			report(a.DelPost(ctx, args[0]))

		case "share":
			if len(args) < 2 {
				printlnFn("Usage: share <n|id> <user>")
				continue
			}
			report(a.Share(ctx, args[0], args[1]))

		case "follow":
			if len(args) == 0 {
				printlnFn("Usage: follow <user>")
				continue
			}
			report(a.Follow(ctx, args[0]))

		case "unfollow":
			if len(args) == 0 {
				printlnFn("Usage: unfollow <user>")
				continue
			}
			report(a.Unfollow(ctx, args[0]))

		case "block":
			if len(args) == 0 {
				printlnFn("Usage: block <user>")
				continue
			}
			report(a.Block(ctx, args[0]))

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <query>")
				continue
			}
			report(a.Search(ctx, strings.Join(args, " ")))

		case "suggest":
			report(a.Suggest(ctx))

		case "activity":
			report(a.Activity(ctx))

		case "msgs":
			report(a.Msgs(ctx))

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <user>")
				continue
			}
			report(a.OpenChat(ctx, args[0]))

		case "send":
			if len(args) == 0 {
				printlnFn("Usage: send <text>")
				continue
			}
			report(a.Send(ctx, strings.Join(args, " ")))

		case "sendimg":
			if len(args) == 0 {
				printlnFn("Usage: sendimg <path>")
				continue
			}
			report(a.SendImage(ctx, args[0]))

		case "close":
			report(a.CloseChat(ctx))

		case "online":
			report(a.Online(ctx))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
