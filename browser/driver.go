package browser

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
)

// Run drives s from line-based input until quit, EOF or ctx is done. In the
// dialog each line is typed and submitted; an empty line cancels it. While
// browsing a line is a command: j/k, n/p, a listing number, / or q.
func Run(ctx context.Context, s *Session, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	s.Render(out)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !dispatch(ctx, s, sc.Text()) {
			return nil
		}
		s.Render(out)
	}
	return sc.Err()
}

// dispatch translates one input line into events.
func dispatch(ctx context.Context, s *Session, line string) bool {
	if s.Mode() == ModeEditing {
		if strings.TrimSpace(line) == "" {
			return s.Handle(ctx, Event{Key: KeyEsc})
		}
		for len(s.Input()) > 0 {
			s.Handle(ctx, Event{Key: KeyBackspace})
		}
		for _, r := range line {
			s.Handle(ctx, Char(r))
		}
		return s.Handle(ctx, Event{Key: KeyEnter})
	}

	cmd := strings.TrimSpace(line)
	if n, err := strconv.Atoi(cmd); err == nil {
		return selectIndex(ctx, s, n-1)
	}
	switch strings.ToLower(cmd) {
	case "j", "down":
		return s.Handle(ctx, Event{Key: KeyDown})
	case "k", "up":
		return s.Handle(ctx, Event{Key: KeyUp})
	case "n", "next", "l":
		return s.Handle(ctx, Event{Key: KeyRight})
	case "p", "prev", "h":
		return s.Handle(ctx, Event{Key: KeyLeft})
	case "/", "s", "search":
		return s.Handle(ctx, Event{Key: KeyOpenDialog})
	case "q", "quit", "exit":
		return s.Handle(ctx, Event{Key: KeyQuit})
	}
	return true
}

func selectIndex(ctx context.Context, s *Session, idx int) bool {
	if idx < 0 || idx >= len(s.Listings()) {
		return true
	}
	for s.Selected() < idx {
		s.Handle(ctx, Event{Key: KeyDown})
	}
	for s.Selected() > idx {
		s.Handle(ctx, Event{Key: KeyUp})
	}
	return true
}
