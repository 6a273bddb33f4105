package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/client/config"
	"github.com/dmitrijs2005/voicediary/internal/client/photos"
	"github.com/dmitrijs2005/voicediary/internal/client/summarizer"
	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/spf13/cobra"
)

// RootOptions holds the global flags. Flags left unset keep the values from
// the config file and the environment.
type RootOptions struct {
	ConfigPath string
	Server     string
	DataDir    string
	PhotosDir  string
	Model      string
	Timeout    time.Duration
	LogBackend string
	LogLevel   string
}

// newAppFn is a test seam for NewApp.
var newAppFn = NewApp

// NewRootCommand builds the voicediary command tree. Without a subcommand
// it starts the interactive shell.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "voicediary",
		Short:         "Voice diary: record a day, keep a summary",
		Long:          "Record audio for a date, get a bullet summary, attach a photo and share public entries with friends.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.ConfigPath, "config", "c", "", "config file (.json or .toml)")
	f.StringVarP(&opts.Server, "server", "a", "", "server gRPC address")
	f.StringVarP(&opts.DataDir, "data-dir", "d", "", "local diary directory")
	f.StringVar(&opts.PhotosDir, "photos-dir", "", "photo library directory")
	f.StringVar(&opts.Model, "model", "", "Gemini model")
	f.DurationVar(&opts.Timeout, "timeout", 0, "per-request timeout")
	f.StringVar(&opts.LogBackend, "log-backend", "", "log backend (slog|zap)")
	f.StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(newShellCommand(opts))
	cmd.AddCommand(newNewCommand(opts))
	cmd.AddCommand(newShowCommand(opts))
	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newPushCommand(opts))
	cmd.AddCommand(newPhotosCommand(opts))
	cmd.AddCommand(newSummarizeCommand(opts))

	return cmd
}

// loadConfig layers changed flags over config.Load.
func loadConfig(cmd *cobra.Command, opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("server", &cfg.ServerEndpointAddr, opts.Server)
	set("data-dir", &cfg.DataDir, opts.DataDir)
	set("photos-dir", &cfg.PhotosDir, opts.PhotosDir)
	set("model", &cfg.GeminiModel, opts.Model)
	set("log-backend", &cfg.LogBackend, opts.LogBackend)
	set("log-level", &cfg.LogLevel, opts.LogLevel)
	if flags.Changed("timeout") {
		cfg.RequestTimeout = opts.Timeout
	}
	return cfg, nil
}

// withApp builds an App with the saved session restored and output going to
// the command's writer.
func withApp(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, a *App) error) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	ctx := cmdContext(cmd)
	a, err := newAppFn(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	a.out = cmd.OutOrStdout()
	a.Restore(ctx)
	return fn(ctx, a)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runShell(cmd *cobra.Command, opts *RootOptions) error {
	return withApp(cmd, opts, func(ctx context.Context, a *App) error {
		a.Root(ctx)
		return nil
	})
}

func newShellCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, opts)
		},
	}
}

func newNewCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "new [date]",
		Short: "Record a new entry, today by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *App) error {
				return a.NewEntry(ctx, args)
			})
		},
	}
}

func newShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <date>",
		Short: "Show one entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *App) error {
				return a.Show(ctx, args)
			})
		},
	}
}

func newListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all entries, local and synced",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *App) error {
				return a.List(ctx)
			})
		},
	}
}

func newPushCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload every local entry to the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *App) error {
				return a.Push(ctx)
			})
		},
	}
}

func newPhotosCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "photos <date>",
		Short: "List photos taken on a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := common.ParseDate(args[0]); err != nil {
				return err
			}
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			lib := photos.NewLibrary(cfg.PhotosDir, logging.New(cfg.LogBackend, cfg.LogLevel, cmd.ErrOrStderr()))

			out := cmd.OutOrStdout()
			paths := lib.ForDate(cmdContext(cmd), args[0])
			if len(paths) == 0 {
				fmt.Fprintln(out, "No photos found for", args[0])
				return nil
			}
			for _, p := range paths {
				ph, err := photos.Describe(p)
				if err != nil {
					fmt.Fprintln(out, p)
					continue
				}
				source := "mtime"
				if ph.FromEXIF {
					source = "exif"
				}
				fmt.Fprintf(out, "%s  %s (%s)\n", p, ph.Taken.Format("15:04:05"), source)
			}
			return nil
		},
	}
}

var errNoAPIKey = errors.New("no Gemini API key: set " + config.GeminiAPIKeyEnv + " or gemini_api_key in the config file")

func newSummarizeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <audio-file>",
		Short: "Print the summary of a recording without saving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if cfg.GeminiAPIKey == "" {
				return errNoAPIKey
			}
			audio, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmdContext(cmd), cfg.RequestTimeout)
			defer cancel()
			g, err := summarizer.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
			if err != nil {
				return err
			}
			text, err := g.Summarize(ctx, audio, summarizer.MIMEType(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
