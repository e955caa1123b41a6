package term

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/fwojciec/robbie"
)

// Decode runs the input decoder over s until it is exhausted.
func Decode(s string) ([]robbie.Event, error) {
	d := newDecoder(bufio.NewReader(strings.NewReader(s)))
	var events []robbie.Event
	for {
		ev, err := d.next()
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
	}
}

var ExpandNewlines = expandNewlines
