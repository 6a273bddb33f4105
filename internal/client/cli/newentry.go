package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/voicediary/internal/client/diary"
	"github.com/dmitrijs2005/voicediary/internal/client/wizard"
	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/filex"
)

var errCancelled = errors.New("cancelled")

// NewEntry walks the wizard for args[0], or today when no date is given.
// An empty recording path cancels without saving anything. Dates that
// already have an entry are refused before anything is asked.
func (a *App) NewEntry(ctx context.Context, args []string) error {
	date := a.today()
	if len(args) > 0 {
		date = args[0]
	}
	if _, err := common.ParseDate(date); err != nil {
		return err
	}
	switch _, err := a.diary.View(ctx, date); {
	case err == nil:
		return fmt.Errorf("entry for %s: %w", date, common.ErrorAlreadyExists)
	case !errors.Is(err, common.ErrorNotFound):
		return err
	}

	st := wizard.New(date)
	for !st.Terminal() {
		ev, err := a.nextEvent(ctx, st)
		if errors.Is(err, errCancelled) {
			a.println("Cancelled")
			return nil
		}
		if err != nil {
			return err
		}
		if ev == nil {
			continue
		}
		next, err := st.Apply(ev)
		if err != nil {
			a.logger.Debug(ctx, "wizard rejected event", "error", err)
			continue
		}
		st = next
	}

	if st.Step == wizard.Failed {
		return st.Err
	}
	a.println(st.Prompt())
	return nil
}

// nextEvent renders st and turns the user's answer into an event. A nil
// event with a nil error asks again.
func (a *App) nextEvent(ctx context.Context, st wizard.State) (wizard.Event, error) {
	switch st.Step {
	case wizard.SelectPhoto:
		return a.selectPhoto(ctx, st)
	case wizard.Record:
		return a.record(ctx, st)
	case wizard.Review:
		a.println("Summary:")
		a.println(st.Summary)
		answer, err := ask(a.reader, a.out, st.Prompt())
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(answer) {
		case "", "y", "yes":
			return wizard.Accept{}, nil
		case "r", "retake":
			return wizard.Retake{}, nil
		}
		return nil, nil
	case wizard.Privacy:
		public, err := askYesNo(a.reader, a.out, st.Prompt())
		if err != nil {
			return nil, err
		}
		return wizard.PrivacyChosen{Public: public}, nil
	case wizard.Saving:
		return a.save(ctx, st), nil
	}
	return nil, fmt.Errorf("unexpected wizard step %s", st.Step)
}

func (a *App) selectPhoto(ctx context.Context, st wizard.State) (wizard.Event, error) {
	candidates := a.photos.ForDate(ctx, st.Date)
	if len(candidates) == 0 {
		a.println("No photos found for", st.Date)
	}
	for i, p := range candidates {
		a.printf("  %d) %s\n", i+1, p)
	}

	answer, err := ask(a.reader, a.out, st.Prompt())
	if err != nil {
		return nil, err
	}
	if answer == "" {
		return wizard.PhotoSkipped{}, nil
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(candidates) {
			a.println("No photo", n)
			return nil, nil
		}
		return wizard.PhotoChosen{Path: candidates[n-1]}, nil
	}
	if !filex.Exists(answer) {
		a.println("No such file:", answer)
		return nil, nil
	}
	return wizard.PhotoChosen{Path: answer}, nil
}

func (a *App) record(ctx context.Context, st wizard.State) (wizard.Event, error) {
	path, err := ask(a.reader, a.out, st.Prompt())
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, errCancelled
	}

	audio, err := a.readFile(path)
	if err != nil {
		a.println("Cannot read recording:", err)
		return nil, nil
	}
	if len(audio) == 0 {
		a.println("Recording is empty")
		return nil, nil
	}

	a.println("Summarizing...")
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	summary, err := a.diary.Summarize(ctx, audio, path)
	if err != nil {
		return wizard.Fail{Err: err}, nil
	}
	return wizard.Recorded{Audio: audio, Summary: summary}, nil
}

func (a *App) save(ctx context.Context, st wizard.State) wizard.Event {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	res, err := a.diary.Save(ctx, st.Date, diary.Draft{
		Summary:     st.Summary,
		Audio:       st.Audio,
		ImageSource: st.Photo,
		IsPublic:    st.Public,
	})
	if err != nil {
		return wizard.Fail{Err: err}
	}
	a.reportSync(res)
	return wizard.Saved{}
}
