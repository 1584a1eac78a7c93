package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-lookup/internal/models"
	"github.com/vzahanych/weather-lookup/internal/present"
	"github.com/vzahanych/weather-lookup/internal/session"
	"go.uber.org/zap"
)

const shellHelp = `Commands:
  <city>              search a city (same as "search <city>")
  search <city>       search a city
  here [<lat> <lon>]  weather at your location, or at the given position
  units               switch between metric and imperial
  recents             list recent searches
  pick <n>            search the n-th recent city
  clear               forget recent searches
  help                show this help
  quit                leave the shell
`

func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive weather lookup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			a, err := newApp(cmd.Context(), present.NewTerminal(out), appOptions{needAPIKey: true})
			if err != nil {
				return err
			}
			defer a.Close()

			sh := &shell{session: a.session, out: out, prompt: "weather> ", logger: log.Logger}
			return sh.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

type shell struct {
	session *session.Session
	out     io.Writer
	prompt  string
	logger  *zap.Logger
}

// run reads commands until EOF, quit, or ctx is cancelled.
func (sh *shell) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
	}()

	sh.session.Start(ctx)
	fmt.Fprint(sh.out, sh.prompt)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(sh.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(sh.out)
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}
			if sh.exec(ctx, line) {
				return nil
			}
			fmt.Fprint(sh.out, sh.prompt)
		}
	}
}

// exec runs one line and reports whether the shell should stop.
func (sh *shell) exec(ctx context.Context, line string) bool {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	var err error
	switch strings.ToLower(verb) {
	case "":
		return false
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprint(sh.out, shellHelp)
	case "search":
		err = sh.session.Search(ctx, rest)
	case "here":
		err = sh.here(ctx, rest)
	case "units":
		var units models.Units
		units, err = sh.session.ToggleUnits(ctx)
		fmt.Fprintf(sh.out, "Units: %s\n", units)
	case "recents":
		sh.session.Start(ctx)
	case "pick":
		err = sh.pick(ctx, rest)
	case "clear":
		sh.session.ClearRecents(ctx)
	default:
		err = sh.session.Search(ctx, line)
	}

	if err != nil {
		sh.logger.Debug("Shell command failed", zap.String("command", verb), zap.Error(err))
	}
	return false
}

func (sh *shell) here(ctx context.Context, args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return sh.session.SearchHere(ctx)
	}
	if len(fields) != 2 {
		fmt.Fprintln(sh.out, "usage: here [<lat> <lon>]")
		return nil
	}

	lat, err1 := strconv.ParseFloat(fields[0], 64)
	lon, err2 := strconv.ParseFloat(fields[1], 64)
	if err1 != nil || err2 != nil {
		fmt.Fprintf(sh.out, "error: %s\n", present.MsgInvalidCoords)
		return nil
	}
	return sh.session.SearchCoords(ctx, models.Coordinates{Lat: lat, Lon: lon})
}

func (sh *shell) pick(ctx context.Context, arg string) error {
	cities := sh.session.Recents(ctx)

	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(cities) {
		if len(cities) == 0 {
			fmt.Fprintln(sh.out, "No recent searches.")
		} else {
			fmt.Fprintf(sh.out, "usage: pick <1-%d>\n", len(cities))
		}
		return nil
	}
	return sh.session.SelectRecent(ctx, cities[n-1])
}
