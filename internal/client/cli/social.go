package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/voicediary/internal/client/remote"
)

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return remote.ErrNotLoggedIn
	}
	return nil
}

func userArg(args []string, usage string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", fmt.Errorf("%w: %s", errUsage, usage)
	}
	return args[0], nil
}

func (a *App) printNames(empty string, names []string) {
	if len(names) == 0 {
		a.println(empty)
		return
	}
	for _, n := range names {
		a.println(" ", n)
	}
}

func (a *App) Friends(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	names, err := a.social.ListFriends(ctx)
	if err != nil {
		return err
	}
	a.printNames("No friends yet. Use 'add-friend <user>'.", names)
	return nil
}

func (a *App) AddFriend(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	user, err := userArg(args, "add-friend <user>")
	if err != nil {
		return err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.social.SendFriendRequest(ctx, user); err != nil {
		return err
	}
	a.println("Friend request sent to", user)
	return nil
}

func (a *App) Accept(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	user, err := userArg(args, "accept <user>")
	if err != nil {
		return err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.social.AcceptFriendRequest(ctx, user); err != nil {
		return err
	}
	a.println("You and", user, "are now friends")
	return nil
}

func (a *App) Requests(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	names, err := a.social.ListPendingRequests(ctx)
	if err != nil {
		return err
	}
	a.printNames("No pending requests.", names)
	return nil
}

// Notifications prints unread notifications. The server marks them read, so
// each one is shown only once.
func (a *App) Notifications(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	items, err := a.social.FetchNotifications(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		a.println("No new notifications.")
		return nil
	}
	for _, n := range items {
		a.printf("  %s  %s\n", n.CreatedAt.Format("2006-01-02 15:04"), n.Message)
	}
	return nil
}

func (a *App) ViewFriend(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	user, err := userArg(args, "view <user>")
	if err != nil {
		return err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	entries, err := a.diary.FriendEntries(ctx, user)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.println(user, "has no public entries.")
		return nil
	}
	for _, e := range entries {
		a.println(formatEntry(e))
		a.println()
	}
	return nil
}
