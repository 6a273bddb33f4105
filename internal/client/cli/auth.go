package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/voicediary/internal/client/session"
)

var errEmptyCredentials = errors.New("username and password are required")

func (a *App) readCredentials() (string, string, error) {
	prompt := "Enter username"
	if a.userName != "" {
		prompt = fmt.Sprintf("Enter username [%s]", a.userName)
	}
	userName, err := ask(a.reader, a.out, prompt)
	if err != nil {
		return "", "", err
	}
	if userName == "" {
		userName = a.userName
	}

	password, err := askPassword(a.out)
	if err != nil {
		return "", "", err
	}
	if userName == "" || len(password) == 0 {
		return "", "", errEmptyCredentials
	}
	return userName, string(password), nil
}

// Register creates an account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	if err := a.auth.Register(ctx, userName, password); err != nil {
		return err
	}

	a.userName = userName
	a.println("Registered. Use 'login' to sign in.")
	return nil
}

// Login authenticates and persists the session so later runs start logged in.
func (a *App) Login(ctx context.Context) error {
	userName, password, err := a.readCredentials()
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	if err := a.auth.Login(ctx, userName, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	access, refresh := a.auth.Tokens()
	if err := a.session.Save(ctx, session.Session{
		Username:     userName,
		AccessToken:  access,
		RefreshToken: refresh,
	}); err != nil {
		a.logger.Warn(ctx, "failed to persist session", "error", err)
	}

	a.userName = userName
	a.setMode(ModeOnline)
	a.println("Logged in as", userName)
	return nil
}

// Logout forgets the tokens in memory and on disk. The local diary stays.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout()
	if err := a.session.Clear(ctx); err != nil {
		return err
	}
	a.println("Logged out")
	return nil
}
