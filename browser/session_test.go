package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"olx-browser/models"
	"olx-browser/utils"
)

// fakePages serves three listings per page over a fixed number of pages.
type fakePages struct {
	total int
	calls []string
	fail  bool
}

func (f *fakePages) FetchPage(_ context.Context, query string, page int) ([]models.Listing, int, error) {
	f.calls = append(f.calls, fmt.Sprintf("%s#%d", query, page))
	if f.fail {
		return nil, 0, &models.NetworkError{URL: query, Status: 503, Err: errors.New("unavailable")}
	}
	var out []models.Listing
	for i := 1; i <= 3; i++ {
		out = append(out, models.Listing{
			Title:    fmt.Sprintf("%s p%d #%d", query, page, i),
			PriceRaw: fmt.Sprintf("%d00 zł", page*10+i),
		})
	}
	return out, f.total, nil
}

func newTestSession(f *fakePages) *Session {
	return NewSession(f, utils.NewLoggerTo(io.Discard))
}

func typeQuery(s *Session, q string) {
	for _, r := range q {
		s.Handle(context.Background(), Char(r))
	}
	s.Handle(context.Background(), Event{Key: KeyEnter})
}

func TestSessionStartsInEditing(t *testing.T) {
	s := newTestSession(&fakePages{total: 1})
	if s.Mode() != ModeEditing {
		t.Fatalf("Mode: got %s, want editing", s.Mode())
	}
}

func TestEditingTypingAndBackspace(t *testing.T) {
	s := newTestSession(&fakePages{total: 1})
	ctx := context.Background()
	for _, r := range "rtxx" {
		s.Handle(ctx, Char(r))
	}
	s.Handle(ctx, Event{Key: KeyBackspace})
	if s.Input() != "rtx" {
		t.Errorf("Input: got %q, want rtx", s.Input())
	}
	s.Handle(ctx, Event{Key: KeyUp})
	if s.Mode() != ModeEditing || s.Selected() != 0 {
		t.Errorf("navigation keys must be ignored while editing")
	}
}

func TestEnterSearchesFirstPage(t *testing.T) {
	f := &fakePages{total: 4}
	s := newTestSession(f)
	typeQuery(s, " rtx  3060 ")

	if s.Mode() != ModeBrowsing {
		t.Fatalf("Mode: got %s, want browsing", s.Mode())
	}
	if s.Query() != "rtx 3060" || s.Page() != 1 || s.TotalPages() != 4 {
		t.Errorf("got query=%q page=%d total=%d", s.Query(), s.Page(), s.TotalPages())
	}
	if len(s.Listings()) != 3 {
		t.Errorf("expected 3 listings, got %d", len(s.Listings()))
	}
	if strings.Join(f.calls, ",") != "rtx 3060#1" {
		t.Errorf("calls: %v", f.calls)
	}
}

func TestEnterWithEmptyInputStaysEditing(t *testing.T) {
	f := &fakePages{total: 1}
	s := newTestSession(f)
	typeQuery(s, "   ")
	if s.Mode() != ModeEditing || len(f.calls) != 0 {
		t.Errorf("blank query should not search; mode=%s calls=%v", s.Mode(), f.calls)
	}
}

func TestPagingStaysInBounds(t *testing.T) {
	f := &fakePages{total: 2}
	s := newTestSession(f)
	ctx := context.Background()
	typeQuery(s, "gpu")

	s.Handle(ctx, Event{Key: KeyLeft})
	if s.Page() != 1 {
		t.Errorf("Left on page 1: got page %d", s.Page())
	}
	s.Handle(ctx, Event{Key: KeyRight})
	s.Handle(ctx, Event{Key: KeyRight})
	if s.Page() != 2 {
		t.Errorf("Right past the last page: got page %d", s.Page())
	}
	s.Handle(ctx, Event{Key: KeyLeft})
	if s.Page() != 1 {
		t.Errorf("Left from page 2: got page %d", s.Page())
	}
	if got := strings.Join(f.calls, ","); got != "gpu#1,gpu#2,gpu#1" {
		t.Errorf("calls: %s", got)
	}
}

func TestSelectionIsClamped(t *testing.T) {
	s := newTestSession(&fakePages{total: 1})
	ctx := context.Background()
	typeQuery(s, "gpu")

	s.Handle(ctx, Event{Key: KeyUp})
	if s.Selected() != 0 {
		t.Errorf("Up at top: got %d", s.Selected())
	}
	for i := 0; i < 10; i++ {
		s.Handle(ctx, Event{Key: KeyDown})
	}
	if s.Selected() != 2 {
		t.Errorf("Down past the end: got %d, want 2", s.Selected())
	}
}

func TestOpenDialogPrefillsAndEscReturns(t *testing.T) {
	f := &fakePages{total: 1}
	s := newTestSession(f)
	ctx := context.Background()
	typeQuery(s, "gpu")

	s.Handle(ctx, Event{Key: KeyOpenDialog})
	if s.Mode() != ModeEditing || s.Input() != "gpu" {
		t.Fatalf("got mode=%s input=%q", s.Mode(), s.Input())
	}
	s.Handle(ctx, Char('x'))
	s.Handle(ctx, Event{Key: KeyEsc})
	if s.Mode() != ModeBrowsing || s.Query() != "gpu" || s.Input() != "" {
		t.Errorf("Esc should discard input; mode=%s query=%q input=%q", s.Mode(), s.Query(), s.Input())
	}
	if len(f.calls) != 1 {
		t.Errorf("Esc must not refetch, calls=%v", f.calls)
	}
}

func TestFetchFailureBecomesStatus(t *testing.T) {
	f := &fakePages{total: 3}
	s := newTestSession(f)
	ctx := context.Background()
	typeQuery(s, "gpu")

	f.fail = true
	if !s.Handle(ctx, Event{Key: KeyRight}) {
		t.Fatal("a fetch failure must not end the session")
	}
	if s.Page() != 1 || len(s.Listings()) != 3 {
		t.Errorf("previous page should stay visible, page=%d listings=%d", s.Page(), len(s.Listings()))
	}
	if !strings.HasPrefix(s.Status(), "Fetch failed") {
		t.Errorf("Status: got %q", s.Status())
	}
}

func TestQuitEndsSession(t *testing.T) {
	s := newTestSession(&fakePages{total: 1})
	ctx := context.Background()
	if !s.Handle(ctx, Event{Key: KeyQuit}) {
		t.Errorf("Quit is ignored while editing")
	}
	s.Handle(ctx, Event{Key: KeyEsc})
	if s.Handle(ctx, Event{Key: KeyQuit}) {
		t.Errorf("Quit while browsing should end the session")
	}
}

func TestRender(t *testing.T) {
	s := newTestSession(&fakePages{total: 5})
	var buf bytes.Buffer
	s.Render(&buf)
	if !strings.Contains(buf.String(), "Search OLX") {
		t.Errorf("editing frame should show the dialog:\n%s", buf.String())
	}

	typeQuery(s, "gpu")
	s.Handle(context.Background(), Event{Key: KeyDown})
	buf.Reset()
	s.Render(&buf)
	out := buf.String()
	for _, want := range []string{"Page 1/5", ">  2. gpu p1 #2", "Price     : 1200 zł"} {
		if !strings.Contains(out, want) {
			t.Errorf("frame missing %q:\n%s", want, out)
		}
	}
}

func TestRunDriver(t *testing.T) {
	f := &fakePages{total: 3}
	s := newTestSession(f)
	in := strings.NewReader("rtx 3060\nn\n3\n/\ngtx 1080\nq\nnever reached\n")
	var out bytes.Buffer

	if err := Run(context.Background(), s, in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.Join(f.calls, ","); got != "rtx 3060#1,rtx 3060#2,gtx 1080#1" {
		t.Errorf("calls: %s", got)
	}
	if s.Query() != "gtx 1080" {
		t.Errorf("Query: got %q", s.Query())
	}
}
