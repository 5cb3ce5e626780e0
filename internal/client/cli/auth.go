package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/instaexplore/instacli/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for username, email and password and creates an account.
// On success the new account becomes the active session immediately, exactly
// as a fresh login would.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Choose a username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Register(ctx, username, email, string(password))
	if err != nil {
		return err
	}

	if err := a.store.Login(ctx, res.User, res.Token); err != nil {
		return err
	}
	fmt.Printf("Welcome, %s!\n", res.User.Username)
	return nil
}

// Login prompts for credentials and authenticates. The credential the server
// hands back goes into the remembered-accounts list at the most recently used
// position; all identity-scoped state rebuilds via the session-changed signal.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Login(ctx, username, string(password))
	if err != nil {
		return err
	}

	if err := a.store.Login(ctx, res.User, res.Token); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", res.User.Username)
	return nil
}

// Passwd changes the active account's password. Both passwords are read
// without echo and wiped after the request.
func (a *App) Passwd(ctx context.Context) error {
	fmt.Println("Current password:")
	oldPw, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPw)

	fmt.Println("New password:")
	newPw, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPw)

	if err := a.api.ChangePassword(ctx, string(oldPw), string(newPw)); err != nil {
		return err
	}
	fmt.Println("Password changed")
	return nil
}

// Logout drops the current account. When other accounts are remembered, the
// most recently used one becomes active.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Logout(ctx); err != nil {
		return err
	}
	if next := a.store.Active(); next != nil {
		fmt.Printf("Switched to %s\n", next.Username)
	} else {
		fmt.Println("Logged out")
	}
	return nil
}

// Accounts lists the remembered accounts, most recently used first.
func (a *App) Accounts(ctx context.Context) error {
	accounts := a.store.Accounts()
	if len(accounts) == 0 {
		fmt.Println("No remembered accounts")
		return nil
	}

	active := a.store.Active()
	for i, acc := range accounts {
		marker := " "
		if active != nil && active.ID == acc.User.ID {
			marker = "*"
		}
		fmt.Printf("%s %d. %s (%s)\n", marker, i+1, acc.User.Username, acc.User.ID)
	}
	return nil
}

// Switch activates a remembered account by list position, username or id.
func (a *App) Switch(ctx context.Context, ref string) error {
	accounts := a.store.Accounts()

	userID := ""
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(accounts) {
		userID = accounts[n-1].User.ID
	} else {
		for _, acc := range accounts {
			if acc.User.Username == ref || acc.User.ID == ref {
				userID = acc.User.ID
				break
			}
		}
	}
	if userID == "" {
		fmt.Println("No such remembered account:", ref)
		return nil
	}

	if err := a.store.SwitchAccount(ctx, userID); err != nil {
		return err
	}
	if active := a.store.Active(); active != nil {
		fmt.Printf("Switched to %s\n", active.Username)
	}
	return nil
}
