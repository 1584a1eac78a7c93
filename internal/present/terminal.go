package present

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"
)

// Terminal prints views as plain text. Messages are printed once; there is
// nothing to clear afterwards.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) ShowCurrent(v CurrentView) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "\n%s\n", v.City)
	fmt.Fprintf(t.out, "  %s  %s\n", v.Temperature, v.Description)
	fmt.Fprintf(t.out, "  %s\n", v.Details)
}

func (t *Terminal) ShowForecast(cards []DayCard) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(cards) == 0 {
		return
	}

	fmt.Fprintln(t.out)
	tw := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  DAY\tTEMP\tCONDITION\tDETAILS")
	for _, c := range cards {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", c.Label, c.Temperature, c.Condition, c.Details)
	}
	tw.Flush()
}

func (t *Terminal) ShowMessage(text string, kind Kind) {
	if text == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch kind {
	case KindError:
		fmt.Fprintf(t.out, "error: %s\n", text)
	default:
		fmt.Fprintln(t.out, text)
	}
}

func (t *Terminal) ShowRecents(cities []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(cities) == 0 {
		fmt.Fprintln(t.out, "No recent searches.")
		return
	}

	var b strings.Builder
	b.WriteString("Recent searches:\n")
	for i, c := range cities {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, c)
	}
	fmt.Fprint(t.out, b.String())
}
