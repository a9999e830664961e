// Package browser is a small terminal front end over the crawler: a query
// dialog and a paged listing view driven by discrete input events.
package browser

import (
	"context"

	"olx-browser/models"
	"olx-browser/utils"
)

// Mode is the view the session is in.
type Mode int

const (
	// ModeEditing shows the query dialog and captures typed input.
	ModeEditing Mode = iota
	// ModeBrowsing shows the listings of the current page.
	ModeBrowsing
)

func (m Mode) String() string {
	switch m {
	case ModeEditing:
		return "editing"
	case ModeBrowsing:
		return "browsing"
	}
	return "unknown"
}

// Key identifies an input event.
type Key int

const (
	KeyChar Key = iota
	KeyBackspace
	KeyEnter
	KeyEsc
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyOpenDialog
	KeyQuit
)

// Event is one input event. Rune is set for KeyChar only.
type Event struct {
	Key  Key
	Rune rune
}

// Char is a typed character.
func Char(r rune) Event { return Event{Key: KeyChar, Rune: r} }

// PageFetcher loads one results page; it is satisfied by *olx.Crawler.
type PageFetcher interface {
	FetchPage(ctx context.Context, query string, page int) ([]models.Listing, int, error)
}

// Session is the browser state. All transitions go through Handle.
type Session struct {
	fetcher PageFetcher
	logger  *utils.Logger

	mode       Mode
	input      []rune
	query      string
	listings   []models.Listing
	selected   int
	page       int
	totalPages int
	status     string
}

// NewSession starts in ModeEditing with an empty dialog.
func NewSession(fetcher PageFetcher, logger *utils.Logger) *Session {
	return &Session{fetcher: fetcher, logger: logger, mode: ModeEditing, page: 1, totalPages: 1}
}

func (s *Session) Mode() Mode                 { return s.mode }
func (s *Session) Query() string              { return s.query }
func (s *Session) Input() string              { return string(s.input) }
func (s *Session) Page() int                  { return s.page }
func (s *Session) TotalPages() int            { return s.totalPages }
func (s *Session) Selected() int              { return s.selected }
func (s *Session) Status() string             { return s.status }
func (s *Session) Listings() []models.Listing { return s.listings }

// Handle applies ev and reports whether the session should keep running.
// Events that have no transition in the current mode are ignored.
func (s *Session) Handle(ctx context.Context, ev Event) bool {
	switch s.mode {
	case ModeEditing:
		s.handleEditing(ctx, ev)
	case ModeBrowsing:
		return s.handleBrowsing(ctx, ev)
	}
	return true
}

func (s *Session) handleEditing(ctx context.Context, ev Event) {
	switch ev.Key {
	case KeyChar:
		s.input = append(s.input, ev.Rune)
	case KeyBackspace:
		if len(s.input) > 0 {
			s.input = s.input[:len(s.input)-1]
		}
	case KeyEnter:
		query := utils.NormalizeText(string(s.input))
		if query == "" {
			s.status = "Type something to search for"
			return
		}
		s.query = query
		s.input = nil
		s.mode = ModeBrowsing
		s.load(ctx, 1)
	case KeyEsc:
		s.input = nil
		s.mode = ModeBrowsing
	}
}

func (s *Session) handleBrowsing(ctx context.Context, ev Event) bool {
	switch ev.Key {
	case KeyUp:
		if s.selected > 0 {
			s.selected--
		}
	case KeyDown:
		if s.selected < len(s.listings)-1 {
			s.selected++
		}
	case KeyRight:
		if s.query != "" && s.page < s.totalPages {
			s.load(ctx, s.page+1)
		}
	case KeyLeft:
		if s.query != "" && s.page > 1 {
			s.load(ctx, s.page-1)
		}
	case KeyOpenDialog:
		s.input = []rune(s.query)
		s.mode = ModeEditing
	case KeyQuit:
		return false
	}
	return true
}

// load replaces the visible listings with page. On failure the previous page
// stays visible and the error becomes the status line.
func (s *Session) load(ctx context.Context, page int) {
	listings, total, err := s.fetcher.FetchPage(ctx, s.query, page)
	if err != nil {
		s.logger.Warn("[browser] %q page %d: %v", s.query, page, err)
		s.status = "Fetch failed: " + err.Error()
		return
	}
	s.listings = listings
	s.page = page
	if total > 0 {
		s.totalPages = total
	}
	if s.page > s.totalPages {
		s.totalPages = s.page
	}
	s.selected = 0
	s.status = ""
	if len(listings) == 0 {
		s.status = "No listings on this page"
	}
}
