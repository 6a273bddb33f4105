package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/voicediary/internal/client/diary"
	"github.com/dmitrijs2005/voicediary/internal/client/media"
	"github.com/dmitrijs2005/voicediary/internal/common"
)

var errUsage = errors.New("usage")

func dateArg(args []string, usage string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: %s", errUsage, usage)
	}
	if _, err := common.ParseDate(args[0]); err != nil {
		return "", err
	}
	return args[0], nil
}

func visibility(public bool) string {
	if public {
		return "public"
	}
	return "private"
}

func state(edited bool) string {
	if edited {
		return "final"
	}
	return "draft"
}

func mediaLine(r media.Ref) string {
	if !r.Available() {
		return r.Kind.String()
	}
	return fmt.Sprintf("%s %s", r.Kind, r.Location())
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimLeft(s, "-* ")
}

func formatEntry(e *diary.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s\n", e.Date, visibility(e.IsPublic), state(e.IsEdited))
	if e.Summary != "" {
		b.WriteString(e.Summary)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "audio: %s\n", mediaLine(e.Audio))
	fmt.Fprintf(&b, "image: %s", mediaLine(e.Image))
	return b.String()
}

func formatRow(e *diary.Entry) string {
	where := ""
	switch {
	case e.InLocal && e.InRemote:
		where = "synced"
	case e.InLocal:
		where = "local"
	case e.InRemote:
		where = "remote"
	}
	return fmt.Sprintf("%s  %-7s  %-5s  %-6s  %s", e.Date, visibility(e.IsPublic), state(e.IsEdited), where, firstLine(e.Summary))
}

func (a *App) Show(ctx context.Context, args []string) error {
	date, err := dateArg(args, "show <YYYY-MM-DD>")
	if err != nil {
		return err
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	e, err := a.diary.View(ctx, date)
	if errors.Is(err, common.ErrorNotFound) {
		a.println("No entry for", date)
		return nil
	}
	if err != nil {
		return err
	}
	a.println(formatEntry(e))
	return nil
}

func (a *App) List(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	entries, err := a.diary.Calendar(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		a.println("No entries yet. Use 'new' to record one.")
		return nil
	}
	for _, e := range entries {
		a.println(formatRow(e))
	}
	return nil
}

func (a *App) reportSync(res *diary.SyncResult) {
	if res.Synced {
		a.println("Saved and synced.")
		return
	}
	if res.RemoteErr != nil {
		a.println("Saved locally. Warning: not synced:", res.RemoteErr)
		return
	}
	a.println("Saved locally.")
}

// Finalize asks for the replacement summary. An empty answer cancels.
func (a *App) Finalize(ctx context.Context, args []string) error {
	date, err := dateArg(args, "finalize <YYYY-MM-DD>")
	if err != nil {
		return err
	}

	current, err := a.diary.View(ctx, date)
	if err != nil {
		return err
	}
	if current.IsEdited {
		return common.ErrAlreadyFinalized
	}
	a.println("Current summary:")
	a.println(current.Summary)

	text, err := askMultiline(a.reader, a.out, "Enter the final summary. It cannot be changed afterwards.")
	if err != nil {
		return err
	}
	if text == "" {
		a.println("Cancelled")
		return nil
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	res, err := a.diary.Finalize(ctx, date, text)
	if err != nil {
		return err
	}
	a.reportSync(res)
	return nil
}

func (a *App) SetPrivacy(ctx context.Context, args []string, public bool) error {
	usage := "private <YYYY-MM-DD>"
	if public {
		usage = "public <YYYY-MM-DD>"
	}
	date, err := dateArg(args, usage)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	res, err := a.diary.SetPrivacy(ctx, date, public)
	if err != nil {
		return err
	}
	a.printf("%s is now %s. ", date, visibility(public))
	a.reportSync(res)
	return nil
}

// Push uploads every local entry, reporting what could not be sent.
func (a *App) Push(ctx context.Context) error {
	outcomes, err := a.diary.Push(ctx)
	if err != nil {
		return err
	}

	failed, kept := 0, 0
	for _, o := range outcomes {
		if o.RemoteFinalized {
			kept++
			a.printf("%s  kept (finalized on server, local copy updated)\n", o.Date)
			continue
		}
		var notes []string
		if o.MissingAudio {
			notes = append(notes, "audio missing")
		}
		if o.MissingImage {
			notes = append(notes, "image missing")
		}
		status := "ok"
		if !o.Synced {
			status = "FAILED"
			failed++
		}
		line := fmt.Sprintf("%s  %s", o.Date, status)
		if len(notes) > 0 {
			line += " (" + strings.Join(notes, ", ") + ")"
		}
		a.println(line)
	}
	a.printf("Pushed %d of %d entries\n", len(outcomes)-failed-kept, len(outcomes))
	return nil
}
