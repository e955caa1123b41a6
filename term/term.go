// Package term implements [robbie.Terminal] for a real terminal device.
//
// Raw mode is handled by golang.org/x/term; bracketed paste and extended
// key reporting by the control sequences in
// github.com/charmbracelet/x/ansi. Input bytes are decoded into
// [robbie.Event] values by a small hand-written decoder.
package term

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/fwojciec/robbie"
	"golang.org/x/term"
)

// Interface compliance check.
var _ robbie.Terminal = (*Terminal)(nil)

// Terminal is a [robbie.Terminal] over an input file descriptor and an
// output writer, usually os.Stdin and os.Stdout.
type Terminal struct {
	in  *os.File
	out io.Writer
	dec *decoder

	state *term.State // non-nil while in raw mode
}

// New creates a Terminal reading from in and writing to out.
func New(in *os.File, out io.Writer) *Terminal {
	return &Terminal{
		in:  in,
		out: out,
		dec: newDecoder(bufio.NewReader(in)),
	}
}

// IsTerminal reports whether the input is a terminal.
func (t *Terminal) IsTerminal() bool {
	return term.IsTerminal(int(t.in.Fd()))
}

// Width returns the column count of the terminal, or fallback when it
// cannot be determined.
func (t *Terminal) Width(fallback int) int {
	w, _, err := term.GetSize(int(t.in.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// MakeRaw puts the terminal into raw mode, remembering the previous state.
// Calling it while already raw is a no-op.
func (t *Terminal) MakeRaw() error {
	if t.state != nil {
		return nil
	}
	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return err
	}
	t.state = state
	return nil
}

// Restore returns the terminal to the state saved by MakeRaw.
func (t *Terminal) Restore() error {
	if t.state == nil {
		return nil
	}
	state := t.state
	t.state = nil
	return term.Restore(int(t.in.Fd()), state)
}

// keyboardFlags asks kitty-protocol terminals to disambiguate modified keys.
const keyboardFlags = 1

// EnablePaste turns on bracketed-paste reporting together with extended
// key reporting (kitty keyboard protocol and xterm modifyOtherKeys), so
// modified keys such as Shift+Enter arrive distinguishable from plain ones.
func (t *Terminal) EnablePaste() error {
	_, err := io.WriteString(t.out, ansi.SetBracketedPasteMode+
		ansi.PushKittyKeyboard(keyboardFlags)+
		ansi.SetModifyOtherKeys1)
	return err
}

// DisablePaste undoes EnablePaste in reverse order.
func (t *Terminal) DisablePaste() error {
	_, err := io.WriteString(t.out, ansi.ResetModifyOtherKeys+
		ansi.PopKittyKeyboard(1)+
		ansi.ResetBracketedPasteMode)
	return err
}

// ReadEvent blocks until the next key press or paste block.
func (t *Terminal) ReadEvent() (robbie.Event, error) {
	return t.dec.next()
}

// Write writes p to the output. Raw mode disables output post-processing,
// so line feeds are expanded to CRLF.
func (t *Terminal) Write(p []byte) (int, error) {
	if _, err := io.WriteString(t.out, expandNewlines(string(p))); err != nil {
		return 0, err
	}
	return len(p), nil
}

// expandNewlines converts "\n" to "\r\n" without doubling existing CRLFs.
func expandNewlines(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}
