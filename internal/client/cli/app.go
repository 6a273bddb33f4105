package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/api"
	"github.com/dmitrijs2005/voicediary/internal/client/config"
	"github.com/dmitrijs2005/voicediary/internal/client/diary"
	"github.com/dmitrijs2005/voicediary/internal/client/localstore"
	"github.com/dmitrijs2005/voicediary/internal/client/photos"
	"github.com/dmitrijs2005/voicediary/internal/client/remote"
	"github.com/dmitrijs2005/voicediary/internal/client/session"
	"github.com/dmitrijs2005/voicediary/internal/client/summarizer"
	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// authClient is the account side of remote.GRPCClient.
type authClient interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, userName, password string) error
	Login(ctx context.Context, userName, password string) error
	Logout()
	LoggedIn() bool
	SetTokens(access, refresh string)
	Tokens() (string, string)
	Close() error
}

type socialClient interface {
	SendFriendRequest(ctx context.Context, receiver string) error
	AcceptFriendRequest(ctx context.Context, sender string) error
	ListFriends(ctx context.Context) ([]string, error)
	ListPendingRequests(ctx context.Context) ([]string, error)
	FetchNotifications(ctx context.Context) ([]*api.Notification, error)
}

type sessionStore interface {
	Load(ctx context.Context) (session.Session, error)
	Save(ctx context.Context, s session.Session) error
	SaveTokens(ctx context.Context, access, refresh string) error
	Clear(ctx context.Context) error
	Close() error
}

type photoLibrary interface {
	ForDate(ctx context.Context, date string) []string
}

type App struct {
	config  *config.Config
	auth    authClient
	diary   diary.Service
	social  socialClient
	session sessionStore
	photos  photoLibrary
	logger  logging.Logger

	reader   *bufio.Reader
	out      io.Writer
	readFile func(string) ([]byte, error)
	now      func() time.Time

	userName string

	// mode is written by the status watcher while the shell reads it.
	modeMu sync.RWMutex
	mode   Mode
}

// NewApp opens the local diary and session database under cfg.DataDir and
// connects the remote store. A missing Gemini key only disables summaries.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogBackend, c.LogLevel, os.Stderr)

	local, err := localstore.Open(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open diary: %w", err)
	}

	sess, err := session.Open(ctx, c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	grpcClient, err := remote.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		_ = sess.Close()
		return nil, err
	}
	grpcClient.OnTokens(func(access, refresh string) {
		if err := sess.SaveTokens(context.Background(), access, refresh); err != nil {
			logger.Warn(context.Background(), "failed to persist tokens", "error", err)
		}
	})

	rs := remote.NewStore(grpcClient, &http.Client{Timeout: c.RequestTimeout}, logger)

	var sum summarizer.Summarizer
	if c.GeminiAPIKey != "" {
		g, err := summarizer.NewGemini(ctx, c.GeminiAPIKey, c.GeminiModel)
		if err != nil {
			logger.Warn(ctx, "summarizer disabled", "error", err)
		} else {
			sum = g
		}
	}

	return &App{
		config:   c,
		auth:     grpcClient,
		diary:    diary.NewService(local, rs, sum, logger),
		social:   rs,
		session:  sess,
		photos:   photos.NewLibrary(c.PhotosDir, logger),
		logger:   logger,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		readFile: os.ReadFile,
		now:      time.Now,
		userName: c.Username,
	}, nil
}

func (a *App) Close() error {
	err := a.auth.Close()
	if cerr := a.session.Close(); err == nil {
		err = cerr
	}
	return err
}

// Restore loads the saved login, if any, into the gRPC client.
func (a *App) Restore(ctx context.Context) {
	s, err := a.session.Load(ctx)
	if err != nil {
		a.logger.Warn(ctx, "failed to load session", "error", err)
		return
	}
	if s.LoggedIn() {
		a.auth.SetTokens(s.AccessToken, s.RefreshToken)
	}
	if s.Username != "" {
		a.userName = s.Username
	}
}

// Run restores the session and starts the interactive shell.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Restore(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.auth.LoggedIn()
}

func (a *App) currentMode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
		a.printf("Switched to %s mode\n", mode)
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := a.auth.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// withTimeout bounds one remote or summarizer call.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) today() string {
	return common.FormatDate(a.now())
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
