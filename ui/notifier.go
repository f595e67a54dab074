package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// Level classifies a notification's severity.
type Level int

const (
	// LevelInfo is routine progress information.
	LevelInfo Level = iota

	// LevelSuccess confirms a completed operation, e.g. a model displayed.
	LevelSuccess

	// LevelWarn is a recoverable problem, e.g. a primary load falling back.
	LevelWarn

	// LevelError is a terminal failure the user has to act on.
	LevelError
)

// String returns the level's display label.
//
// Returns:
//   - string: the label
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "OK"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// Notice is a persistent notification that stays active until dismissed.
type Notice struct {
	// ID uniquely identifies the notice for dismissal.
	ID string

	// Level is the notice severity.
	Level Level

	// Message is the notice text.
	Message string
}

// notifierImpl is the implementation of the Notifier interface.
type notifierImpl struct {
	mu *sync.Mutex

	out    io.Writer
	frames []string

	// spinner state; stop is non-nil while the spinner goroutine runs
	spinnerStop chan struct{}
	spinnerWG   sync.WaitGroup

	notices map[string]Notice
}

// Notifier is the user-facing status surface of the viewer: a loading spinner
// for primary loads and leveled notifications for everything else. Persistent
// notices stay active until dismissed, which is how terminal load failures are
// surfaced. All methods are safe for concurrent use; the viewer calls them
// from its load goroutine.
type Notifier interface {
	// ShowSpinner starts the loading spinner with the given message.
	// Calling it while a spinner is already running replaces the message.
	//
	// Parameters:
	//   - message: text displayed next to the spinner
	ShowSpinner(message string)

	// HideSpinner stops the spinner and clears its line. A no-op when no
	// spinner is running.
	HideSpinner()

	// Notify emits a one-shot notification.
	//
	// Parameters:
	//   - level: the severity
	//   - message: the notification text
	Notify(level Level, message string)

	// NotifyPersistent emits a notification that stays active until
	// dismissed and returns its ID.
	//
	// Parameters:
	//   - level: the severity
	//   - message: the notification text
	//
	// Returns:
	//   - string: the notice ID, usable with Dismiss
	NotifyPersistent(level Level, message string) string

	// Dismiss removes a persistent notice. Unknown IDs are ignored.
	//
	// Parameters:
	//   - id: the notice ID returned by NotifyPersistent
	Dismiss(id string)

	// ActiveNotices returns a snapshot of the persistent notices that have
	// not been dismissed.
	//
	// Returns:
	//   - []Notice: the active notices
	ActiveNotices() []Notice

	// Close stops any running spinner and releases notifier resources.
	Close()
}

var _ Notifier = &notifierImpl{}

// NewNotifier creates a terminal Notifier with the provided options applied.
//
// Parameters:
//   - options: functional options to configure the notifier
//
// Returns:
//   - Notifier: the newly created notifier
func NewNotifier(options ...NotifierBuilderOption) Notifier {
	n := &notifierImpl{
		mu:      &sync.Mutex{},
		out:     os.Stderr,
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		notices: make(map[string]Notice),
	}
	for _, option := range options {
		option(n)
	}
	return n
}

func (n *notifierImpl) ShowSpinner(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.stopSpinnerLocked()

	stop := make(chan struct{})
	n.spinnerStop = stop
	n.spinnerWG.Add(1)

	go func() {
		defer n.spinnerWG.Done()
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		frame := 0
		for {
			select {
			case <-stop:
				n.mu.Lock()
				fmt.Fprint(n.out, "\r\033[K")
				n.mu.Unlock()
				return
			case <-ticker.C:
				n.mu.Lock()
				fmt.Fprintf(n.out, "\r%s %s",
					spinnerStyle.Render(n.frames[frame%len(n.frames)]), message)
				n.mu.Unlock()
				frame++
			}
		}
	}()
}

func (n *notifierImpl) HideSpinner() {
	n.mu.Lock()
	n.stopSpinnerLocked()
	n.mu.Unlock()
	n.spinnerWG.Wait()
}

// stopSpinnerLocked signals the spinner goroutine to exit. Caller must hold
// the mutex; the goroutine's final line clear reacquires it.
func (n *notifierImpl) stopSpinnerLocked() {
	if n.spinnerStop != nil {
		close(n.spinnerStop)
		n.spinnerStop = nil
	}
}

func (n *notifierImpl) Notify(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.printLocked(level, message)
}

func (n *notifierImpl) NotifyPersistent(level Level, message string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := uuid.NewString()
	n.notices[id] = Notice{ID: id, Level: level, Message: message}
	n.printLocked(level, message+" (press R to retry, D to dismiss)")
	return id
}

func (n *notifierImpl) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.notices, id)
}

func (n *notifierImpl) ActiveNotices() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()

	notices := make([]Notice, 0, len(n.notices))
	for _, notice := range n.notices {
		notices = append(notices, notice)
	}
	return notices
}

func (n *notifierImpl) Close() {
	n.mu.Lock()
	n.stopSpinnerLocked()
	n.mu.Unlock()
	n.spinnerWG.Wait()
}

// printLocked writes one styled notification line. Caller must hold the
// mutex.
func (n *notifierImpl) printLocked(level Level, message string) {
	var style lipgloss.Style
	switch level {
	case LevelSuccess:
		style = successStyle
	case LevelWarn:
		style = warnStyle
	case LevelError:
		style = errorStyle
	default:
		style = infoStyle
	}
	fmt.Fprintf(n.out, "\r\033[K%s %s\n", style.Render("["+level.String()+"]"), message)
}
