// Package wizard models the new-entry flow as a value-typed state machine:
//
//	SelectPhoto -> Record -> Review -> Privacy -> Saving -> Done
//
// Any step may move to Failed; Reset starts over from SelectPhoto. Apply
// never mutates its receiver.
package wizard

import (
	"errors"
	"fmt"
)

type Step int

const (
	SelectPhoto Step = iota
	Record
	Review
	Privacy
	Saving
	Done
	Failed
)

var stepNames = [...]string{"select-photo", "record", "review", "privacy", "saving", "done", "failed"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

var ErrInvalidTransition = errors.New("invalid wizard transition")

// State is one frame of the flow. Photo is a path or empty; Audio holds the
// recording; Summary is filled after summarization.
type State struct {
	Step    Step
	Date    string
	Photo   string
	Audio   []byte
	Summary string
	Public  bool
	Err     error
}

func New(date string) State {
	return State{Step: SelectPhoto, Date: date}
}

// Event is one of the concrete event types below.
type Event interface{ event() }

type (
	PhotoChosen   struct{ Path string }
	PhotoSkipped  struct{}
	Retake        struct{}
	Accept        struct{}
	PrivacyChosen struct{ Public bool }
	Saved         struct{}
	Fail          struct{ Err error }
	Reset         struct{}
)

// Recorded carries the recording and the summary made from it.
type Recorded struct {
	Audio   []byte
	Summary string
}

func (PhotoChosen) event()   {}
func (PhotoSkipped) event()  {}
func (Recorded) event()      {}
func (Retake) event()        {}
func (Accept) event()        {}
func (PrivacyChosen) event() {}
func (Saved) event()         {}
func (Fail) event()          {}
func (Reset) event()         {}

// Apply returns the state that follows ev, or ErrInvalidTransition when ev
// is not accepted in the current step.
func (s State) Apply(ev Event) (State, error) {
	switch e := ev.(type) {
	case Reset:
		return New(s.Date), nil
	case Fail:
		if s.Step == Done {
			break
		}
		s.Step, s.Err = Failed, e.Err
		return s, nil
	}

	switch s.Step {
	case SelectPhoto:
		switch e := ev.(type) {
		case PhotoChosen:
			s.Photo, s.Step = e.Path, Record
			return s, nil
		case PhotoSkipped:
			s.Photo, s.Step = "", Record
			return s, nil
		}
	case Record:
		if e, ok := ev.(Recorded); ok && len(e.Audio) > 0 {
			s.Audio, s.Summary, s.Step = e.Audio, e.Summary, Review
			return s, nil
		}
	case Review:
		switch ev.(type) {
		case Accept:
			s.Step = Privacy
			return s, nil
		case Retake:
			s.Audio, s.Summary, s.Step = nil, "", Record
			return s, nil
		}
	case Privacy:
		if e, ok := ev.(PrivacyChosen); ok {
			s.Public, s.Step = e.Public, Saving
			return s, nil
		}
	case Saving:
		if _, ok := ev.(Saved); ok {
			s.Step = Done
			return s, nil
		}
	}
	return s, fmt.Errorf("%w: %T in %s", ErrInvalidTransition, ev, s.Step)
}

// Prompt is the line the shell shows for the current step.
func (s State) Prompt() string {
	switch s.Step {
	case SelectPhoto:
		return fmt.Sprintf("[%s] pick a photo number, a file path, or press enter to skip", s.Date)
	case Record:
		return "path to the audio recording (.wav)"
	case Review:
		return "accept summary? [y]es / [r]etake"
	case Privacy:
		return "make this entry public? [y/N]"
	case Saving:
		return "saving..."
	case Done:
		return "saved"
	case Failed:
		if s.Err != nil {
			return "failed: " + s.Err.Error()
		}
		return "failed"
	}
	return ""
}

func (s State) Terminal() bool { return s.Step == Done || s.Step == Failed }
