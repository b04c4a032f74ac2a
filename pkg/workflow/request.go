package workflow

import "github.com/harunnryd/kokoroctl/pkg/errorsx"

// Request is one conversion, built fresh from the front-end state.
type Request struct {
	Text       string
	Voice      string
	Autoplay   bool
	OutputName string
}

// Severity classifies a status line.
type Severity int

const (
	SeverityNeutral Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "neutral"
	}
}

// Status is the single user-facing outcome of the latest conversion.
type Status struct {
	Severity Severity
	Message  string
	// Path is the resolved output file, set once it is known.
	Path string
	// Reason is set for error statuses.
	Reason errorsx.ReasonCode
}

// IsError reports whether the status is an error.
func (s Status) IsError() bool { return s.Severity == SeverityError }

// Initial is shown before the first conversion.
var Initial = Status{Severity: SeverityNeutral, Message: "Ready"}

const (
	// LabelReady is the trigger label when a conversion can start.
	LabelReady = "Convert and Save"
	// LabelBusy is the trigger label while a conversion runs.
	LabelBusy = "Processing..."
)

// Presenter is the front-end surface the workflow drives.
type Presenter interface {
	// SetTrigger updates the convert control's label and enabled state.
	SetTrigger(label string, enabled bool)
	// SetStatus replaces the status line.
	SetStatus(st Status)
}

type nopPresenter struct{}

func (nopPresenter) SetTrigger(string, bool) {}
func (nopPresenter) SetStatus(Status)        {}

func errorStatus(err error, path string) Status {
	reason := errorsx.Reason(err)
	msg := "Error: " + err.Error()
	if reason == errorsx.ReasonPlayback {
		msg = "Error playing audio: " + err.Error()
	}
	return Status{Severity: SeverityError, Message: msg, Path: path, Reason: reason}
}
