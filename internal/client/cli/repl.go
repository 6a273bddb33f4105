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
	NewEntry(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Finalize(ctx context.Context, args []string) error
	SetPrivacy(ctx context.Context, args []string, public bool) error
	Friends(ctx context.Context) error
	AddFriend(ctx context.Context, args []string) error
	Accept(ctx context.Context, args []string) error
	Requests(ctx context.Context) error
	Notifications(ctx context.Context) error
	ViewFriend(ctx context.Context, args []string) error
	Push(ctx context.Context) error
}

const (
	helpOffline = "Available commands: register, login, new [date], show <date>, list, finalize <date>, public <date>, private <date>, exit"
	helpOnline  = "Available commands: new [date], show <date>, list, finalize <date>, public <date>, private <date>, " +
		"friends, add-friend <user>, accept <user>, requests, notifications, view <user>, push, logout, exit"
)

// runREPL reads commands from scanner and dispatches them to a until the
// input ends or the user types exit or quit. Command errors are printed and
// the loop carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("diary %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpOnline)
			} else {
				printlnFn(helpOffline)
			}

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)

		case "new":
			err = a.NewEntry(ctx, args)
		case "show":
			err = a.Show(ctx, args)
		case "l", "list":
			err = a.List(ctx)
		case "finalize":
			err = a.Finalize(ctx, args)
		case "public":
			err = a.SetPrivacy(ctx, args, true)
		case "private":
			err = a.SetPrivacy(ctx, args, false)

		case "friends":
			err = a.Friends(ctx)
		case "add-friend":
			err = a.AddFriend(ctx, args)
		case "accept":
			err = a.Accept(ctx, args)
		case "requests":
			err = a.Requests(ctx)
		case "notifications":
			err = a.Notifications(ctx)
		case "view":
			err = a.ViewFriend(ctx, args)
		case "push":
			err = a.Push(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
