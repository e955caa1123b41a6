package robbie

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// DefaultPrompt is the cue written once at the start of each ReadLine.
const DefaultPrompt = "Prompt: "

// tabWidth is the distance between terminal tab stops.
const tabWidth = 8

// Terminal is the event source a LineReader reads from and echoes to.
//
// Writes are display output. Implementations backed by a real terminal are
// expected to translate "\n" into whatever the device needs while in raw
// mode.
type Terminal interface {
	io.Writer

	// MakeRaw switches the terminal to character-at-a-time input with no
	// line editing and no automatic echo.
	MakeRaw() error
	// Restore undoes MakeRaw.
	Restore() error
	// EnablePaste turns on bracketed-paste reporting, and extended key
	// reporting where the terminal has it.
	EnablePaste() error
	// DisablePaste turns off bracketed-paste reporting.
	DisablePaste() error
	// ReadEvent blocks until the next key press or paste block.
	ReadEvent() (Event, error)
}

// LineReader reads one user entry at a time from a raw-mode Terminal.
type LineReader struct {
	term   Terminal
	prompt string
}

// ReaderOption configures a LineReader.
type ReaderOption func(*LineReader)

// WithPrompt replaces DefaultPrompt.
func WithPrompt(prompt string) ReaderOption {
	return func(r *LineReader) { r.prompt = prompt }
}

// NewLineReader creates a LineReader over t.
func NewLineReader(t Terminal, opts ...ReaderOption) *LineReader {
	r := &LineReader{term: t, prompt: DefaultPrompt}
	for _, o := range opts {
		o(r)
	}
	return r
}

// ReadLine puts the terminal in raw mode with paste reporting, writes the
// prompt and collects input until Enter. The returned line includes the
// trailing "\n".
//
// Enter with a modifier (Alt+Enter, Ctrl+J) inserts a newline and keeps
// reading. Ctrl+C returns ErrInterrupted; Ctrl+D on an empty entry returns
// io.EOF. Navigation and other keys are ignored.
//
// Paste reporting is disabled and raw mode restored before ReadLine
// returns, whatever the outcome.
func (r *LineReader) ReadLine() (line string, err error) {
	release, err := r.acquire()
	if err != nil {
		return "", err
	}
	defer func() {
		if rerr := release(); rerr != nil {
			line, err = "", errors.Join(err, rerr)
		}
	}()

	if _, err := io.WriteString(r.term, r.prompt); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}

	ed := &lineEditor{out: r.term, origin: ansi.StringWidth(r.prompt)}
	for {
		ev, err := r.term.ReadEvent()
		if err != nil {
			return "", fmt.Errorf("read event: %w", err)
		}
		done, err := ed.apply(ev)
		if err != nil {
			return "", err
		}
		if done {
			return ed.String(), nil
		}
	}
}

// acquire enters raw mode and enables paste reporting. The returned func
// releases both, in reverse order.
func (r *LineReader) acquire() (func() error, error) {
	if err := r.term.MakeRaw(); err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}
	if err := r.term.EnablePaste(); err != nil {
		return nil, errors.Join(fmt.Errorf("enable paste: %w", err), restore(r.term))
	}
	return func() error {
		var errs []error
		if err := r.term.DisablePaste(); err != nil {
			errs = append(errs, fmt.Errorf("disable paste: %w", err))
		}
		if err := restore(r.term); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	}, nil
}

func restore(t Terminal) error {
	if err := t.Restore(); err != nil {
		return fmt.Errorf("restore terminal: %w", err)
	}
	return nil
}

// lineEditor is the per-call buffer of a ReadLine.
type lineEditor struct {
	buf    strings.Builder
	out    io.Writer
	origin int // screen column where the first line of input starts
}

func (e *lineEditor) String() string { return e.buf.String() }

// apply handles one event and reports whether the entry is complete.
func (e *lineEditor) apply(ev Event) (bool, error) {
	switch ev := ev.(type) {
	case PasteEvent:
		// Pasted text is taken whole; newlines inside it do not submit.
		return false, e.insert(ev.Text)
	case KeyEvent:
		return e.key(ev)
	default:
		return false, nil
	}
}

func (e *lineEditor) key(ev KeyEvent) (bool, error) {
	switch ev.Key {
	case KeyEnter:
		if err := e.insert("\n"); err != nil {
			return false, err
		}
		return ev.Mod == ModNone, nil
	case KeyBackspace:
		if ev.Mod != ModNone {
			return false, nil
		}
		return false, e.backspace()
	case KeyRune:
		return false, e.insert(string(ev.Rune))
	case KeyCtrlC:
		return false, ErrInterrupted
	case KeyCtrlD:
		if e.buf.Len() == 0 {
			return false, io.EOF
		}
		return false, nil
	case KeyTab, KeyEscape, KeyUp, KeyDown, KeyLeft, KeyRight,
		KeyHome, KeyEnd, KeyDelete, KeyUnknown:
		return false, nil
	default:
		return false, nil
	}
}

func (e *lineEditor) insert(s string) error {
	e.buf.WriteString(s)
	return e.echo(s)
}

// backspace removes the last grapheme cluster and erases the cells it
// occupied. A tab occupies the cells up to the next tab stop. Other clusters
// of zero display width (control characters, newlines) are removed without
// touching the screen.
func (e *lineEditor) backspace() error {
	s := e.buf.String()
	if s == "" {
		return nil
	}
	last := lastGraphemeCluster(s)
	rest := s[:len(s)-len(last)]
	e.buf.Reset()
	e.buf.WriteString(rest)

	w := advance(e.column(rest), last)
	if w == 0 {
		return nil
	}
	back := strings.Repeat("\b", w)
	return e.echo(back + strings.Repeat(" ", w) + back)
}

// column returns the screen column the cursor is at after s was echoed.
func (e *lineEditor) column(s string) int {
	col := e.origin
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s, col = s[i+1:], 0
	}
	state := -1
	var cluster string
	for s != "" {
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		col += advance(col, cluster)
	}
	return col
}

// advance returns how many cells cluster moves the cursor from col.
func advance(col int, cluster string) int {
	if cluster == "\t" {
		return tabWidth - col%tabWidth
	}
	return runewidth.StringWidth(cluster)
}

func (e *lineEditor) echo(s string) error {
	if _, err := io.WriteString(e.out, s); err != nil {
		return fmt.Errorf("echo: %w", err)
	}
	return nil
}

func lastGraphemeCluster(s string) string {
	var cluster string
	state := -1
	for s != "" {
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
	}
	return cluster
}
