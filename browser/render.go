package browser

import (
	"fmt"
	"io"
	"strings"
)

const width = 72

// Render writes a text frame of the current state to w.
func (s *Session) Render(w io.Writer) {
	bar := strings.Repeat("─", width)
	fmt.Fprintln(w, bar)
	if s.mode == ModeEditing {
		fmt.Fprintln(w, "  Search OLX")
		fmt.Fprintf(w, "  > %s_\n", string(s.input))
		fmt.Fprintln(w, "  enter: search   empty line: cancel")
		s.renderStatus(w)
		fmt.Fprintln(w, bar)
		return
	}

	query := s.query
	if query == "" {
		query = "(none)"
	}
	fmt.Fprintf(w, "  Query: %s   Page %d/%d\n", query, s.page, s.totalPages)
	fmt.Fprintln(w, bar)

	if len(s.listings) == 0 {
		fmt.Fprintln(w, "  No listings. Press / to search.")
	}
	for i, l := range s.listings {
		marker := " "
		if i == s.selected {
			marker = ">"
		}
		title := l.Title
		if title == "" {
			title = "(no title)"
		}
		fmt.Fprintf(w, "%s %2d. %-50s %s\n", marker, i+1, clip(title, 50), l.PriceRaw)
	}

	if s.selected < len(s.listings) {
		l := s.listings[s.selected]
		fmt.Fprintln(w, bar)
		fmt.Fprintf(w, "  %s\n", l.Title)
		fmt.Fprintf(w, "  Price     : %s\n", l.PriceRaw)
		fmt.Fprintf(w, "  Condition : %s\n", orDash(l.Condition))
		fmt.Fprintf(w, "  Location  : %s\n", orDash(l.LocationDate))
		fmt.Fprintf(w, "  Badges    : %s\n", badges(l.IsFeatured, l.HasDelivery, l.HasSafetyBadge))
		fmt.Fprintf(w, "  URL       : %s\n", orDash(l.URL))
	}
	s.renderStatus(w)
	fmt.Fprintln(w, bar)
	fmt.Fprintln(w, "  j/k: select   n/p: next/prev page   /: search   q: quit")
}

func (s *Session) renderStatus(w io.Writer) {
	if s.status != "" {
		fmt.Fprintf(w, "  ! %s\n", s.status)
	}
}

func badges(featured, delivery, safety bool) string {
	var out []string
	if featured {
		out = append(out, "featured")
	}
	if delivery {
		out = append(out, "delivery")
	}
	if safety {
		out = append(out, "safety")
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
