package term

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/robbie"
)

const (
	esc = 0x1b
	del = 0x7f
)

var (
	pasteStart = "200"
	pasteEnd   = []byte("\x1b[201~")
)

// decoder turns a raw-mode byte stream into events.
type decoder struct {
	r *bufio.Reader
}

func newDecoder(r *bufio.Reader) *decoder {
	return &decoder{r: r}
}

func key(k robbie.Key, mod robbie.Modifiers) robbie.KeyEvent {
	return robbie.KeyEvent{Key: k, Mod: mod}
}

func (d *decoder) next() (robbie.Event, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch {
	case b == esc:
		return d.escape()
	case b == '\r':
		return key(robbie.KeyEnter, robbie.ModNone), nil
	case b == '\n':
		// Ctrl+J.
		return key(robbie.KeyEnter, robbie.ModCtrl), nil
	case b == del, b == '\b':
		return key(robbie.KeyBackspace, robbie.ModNone), nil
	case b == '\t':
		return key(robbie.KeyTab, robbie.ModNone), nil
	case b == 0x03:
		return key(robbie.KeyCtrlC, robbie.ModNone), nil
	case b == 0x04:
		return key(robbie.KeyCtrlD, robbie.ModNone), nil
	case b < 0x20:
		return key(robbie.KeyUnknown, robbie.ModCtrl), nil
	}

	if err := d.r.UnreadByte(); err != nil {
		return nil, err
	}
	r, _, err := d.r.ReadRune()
	if err != nil {
		return nil, err
	}
	if r == utf8.RuneError {
		return key(robbie.KeyUnknown, robbie.ModNone), nil
	}
	return robbie.KeyEvent{Key: robbie.KeyRune, Rune: r}, nil
}

// more reads the next byte of a sequence already in progress.
func (d *decoder) more() (byte, error) {
	b, err := d.r.ReadByte()
	if errors.Is(err, io.EOF) {
		return 0, io.ErrUnexpectedEOF
	}
	return b, err
}

// escape decodes what follows an ESC byte. An ESC with nothing buffered
// behind it is the Escape key itself.
func (d *decoder) escape() (robbie.Event, error) {
	if d.r.Buffered() == 0 {
		return key(robbie.KeyEscape, robbie.ModNone), nil
	}
	b, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch {
	case (b == '[' || b == 'O') && d.r.Buffered() == 0:
		return robbie.KeyEvent{Key: robbie.KeyRune, Rune: rune(b), Mod: robbie.ModAlt}, nil
	case b == '[':
		return d.csi()
	case b == 'O':
		return d.ss3()
	case b == esc:
		if err := d.r.UnreadByte(); err != nil {
			return nil, err
		}
		return key(robbie.KeyEscape, robbie.ModNone), nil
	}

	// ESC followed by a key is that key with Alt held.
	if err := d.r.UnreadByte(); err != nil {
		return nil, err
	}
	ev, err := d.next()
	if err != nil {
		return nil, err
	}
	if k, ok := ev.(robbie.KeyEvent); ok {
		k.Mod |= robbie.ModAlt
		return k, nil
	}
	return ev, nil
}

// ss3 decodes ESC O sequences sent by terminals in application cursor mode.
func (d *decoder) ss3() (robbie.Event, error) {
	b, err := d.more()
	if err != nil {
		return nil, err
	}
	if k, ok := finalKeys[b]; ok {
		return key(k, robbie.ModNone), nil
	}
	return key(robbie.KeyUnknown, robbie.ModNone), nil
}

var finalKeys = map[byte]robbie.Key{
	'A': robbie.KeyUp,
	'B': robbie.KeyDown,
	'C': robbie.KeyRight,
	'D': robbie.KeyLeft,
	'H': robbie.KeyHome,
	'F': robbie.KeyEnd,
}

var tildeKeys = map[int]robbie.Key{
	1: robbie.KeyHome,
	3: robbie.KeyDelete,
	4: robbie.KeyEnd,
	7: robbie.KeyHome,
	8: robbie.KeyEnd,
}

// csi decodes a control sequence after ESC [.
func (d *decoder) csi() (robbie.Event, error) {
	var params strings.Builder
	var final byte
	for {
		b, err := d.more()
		if err != nil {
			return nil, err
		}
		if b >= 0x40 && b <= 0x7e {
			final = b
			break
		}
		params.WriteByte(b)
	}

	args := parseParams(params.String())
	switch final {
	case '~':
		if params.String() == pasteStart {
			return d.paste()
		}
		if arg(args, 0) == 27 {
			// xterm modifyOtherKeys: CSI 27 ; mod ; code ~
			return codeKey(arg(args, 2), modifiers(arg(args, 1))), nil
		}
		if k, ok := tildeKeys[arg(args, 0)]; ok {
			return key(k, modifiers(arg(args, 1))), nil
		}
	case 'u':
		// fixterms / kitty keyboard protocol: CSI code ; mod u
		return codeKey(arg(args, 0), modifiers(arg(args, 1))), nil
	case 'Z':
		return key(robbie.KeyTab, robbie.ModShift), nil
	default:
		if k, ok := finalKeys[final]; ok {
			return key(k, modifiers(arg(args, 1))), nil
		}
	}
	return key(robbie.KeyUnknown, robbie.ModNone), nil
}

// paste reads a bracketed paste body up to the end marker. Terminals send
// line breaks inside pastes as CR; they are normalized to LF.
func (d *decoder) paste() (robbie.Event, error) {
	var buf bytes.Buffer
	for !bytes.HasSuffix(buf.Bytes(), pasteEnd) {
		b, err := d.more()
		if err != nil {
			return nil, err
		}
		buf.WriteByte(b)
	}
	text := string(buf.Bytes()[:buf.Len()-len(pasteEnd)])
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return robbie.PasteEvent{Text: text}, nil
}

// codeKey maps a Unicode key code reported by an extended keyboard
// protocol.
func codeKey(code int, mod robbie.Modifiers) robbie.KeyEvent {
	switch code {
	case '\r':
		return key(robbie.KeyEnter, mod)
	case '\t':
		return key(robbie.KeyTab, mod)
	case del, '\b':
		return key(robbie.KeyBackspace, mod)
	case esc:
		return key(robbie.KeyEscape, mod)
	}
	if code < 0x20 || !utf8.ValidRune(rune(code)) {
		return key(robbie.KeyUnknown, mod)
	}
	if mod&robbie.ModCtrl != 0 {
		return ctrlKey(rune(code), mod)
	}
	return robbie.KeyEvent{Key: robbie.KeyRune, Rune: rune(code), Mod: mod}
}

// ctrlKey maps a Ctrl-held key code to what the same chord produces as a
// legacy control byte.
func ctrlKey(code rune, mod robbie.Modifiers) robbie.KeyEvent {
	rest := mod &^ robbie.ModCtrl
	switch unicode.ToLower(code) {
	case 'c':
		return key(robbie.KeyCtrlC, rest)
	case 'd':
		return key(robbie.KeyCtrlD, rest)
	case 'h':
		return key(robbie.KeyBackspace, rest)
	case 'j':
		return key(robbie.KeyEnter, mod)
	}
	return key(robbie.KeyUnknown, mod)
}

// modifiers decodes an xterm modifier parameter (1 + bit set).
func modifiers(p int) robbie.Modifiers {
	if p <= 1 {
		return robbie.ModNone
	}
	bits := p - 1
	var m robbie.Modifiers
	if bits&1 != 0 {
		m |= robbie.ModShift
	}
	if bits&2 != 0 {
		m |= robbie.ModAlt
	}
	if bits&4 != 0 {
		m |= robbie.ModCtrl
	}
	return m
}

func parseParams(s string) []int {
	if s == "" {
		return nil
	}
	fields := strings.Split(s, ";")
	out := make([]int, len(fields))
	for i, f := range fields {
		if j := strings.IndexByte(f, ':'); j >= 0 {
			f = f[:j]
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			n = 0
		}
		out[i] = n
	}
	return out
}

func arg(args []int, i int) int {
	if i >= len(args) {
		return 0
	}
	return args[i]
}
