package olx

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"olx-browser/config"
	"olx-browser/models"
	"olx-browser/utils"
)

// Extractor turns a results page into listing records using a selector table.
type Extractor struct {
	sel  config.Selectors
	base *url.URL
}

// NewExtractor creates an Extractor. Relative links are kept as-is unless
// base is non-empty, in which case they are resolved against it.
func NewExtractor(sel config.Selectors, base string) *Extractor {
	e := &Extractor{sel: sel}
	if base != "" {
		if u, err := url.Parse(base); err == nil && u.IsAbs() {
			e.base = u
		}
	}
	return e
}

// ExtractPage parses markup once and returns its listings together with the
// pagination bound. A page without pagination controls reports one page.
func (e *Extractor) ExtractPage(markup string) (models.Page, error) {
	doc, err := parse(markup)
	if err != nil {
		return models.Page{}, err
	}
	page := models.Page{Listings: e.listings(doc), TotalPages: 1}
	if n, ok := e.maxPage(doc); ok {
		page.TotalPages = n
	}
	return page, nil
}

// ExtractListings returns one record per card. A page without cards yields an
// empty slice and no error.
func (e *Extractor) ExtractListings(markup string) ([]models.Listing, error) {
	doc, err := parse(markup)
	if err != nil {
		return nil, err
	}
	return e.listings(doc), nil
}

// ExtractMaxPage returns the highest numeric page label on the page. It fails
// with an *models.ExtractionError wrapping models.ErrNoPagination when there
// is none.
func (e *Extractor) ExtractMaxPage(markup string) (int, error) {
	doc, err := parse(markup)
	if err != nil {
		return 0, err
	}
	n, ok := e.maxPage(doc)
	if !ok {
		return 0, &models.ExtractionError{Reason: "no pagination found", Err: models.ErrNoPagination}
	}
	return n, nil
}

func parse(markup string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, &models.ExtractionError{Reason: "unreadable markup", Err: err}
	}
	return doc, nil
}

func (e *Extractor) listings(doc *goquery.Document) []models.Listing {
	cards := doc.Find(e.sel.Card)
	listings := make([]models.Listing, 0, cards.Length())
	cards.Each(func(_ int, card *goquery.Selection) {
		listings = append(listings, e.card(card))
	})
	return listings
}

func (e *Extractor) card(card *goquery.Selection) models.Listing {
	id, _ := card.Attr(e.sel.IDAttr)
	href, _ := card.Find(e.sel.Link).First().Attr(e.sel.LinkAttr)
	img, _ := card.Find(e.sel.Image).First().Attr(e.sel.ImageAttr)

	l := models.Listing{
		ID:             strings.TrimSpace(id),
		URL:            e.resolve(href),
		Title:          firstText(card, e.sel.Title),
		PriceRaw:       priceText(card.Find(e.sel.Price).First()),
		ImageURL:       strings.TrimSpace(img),
		LocationDate:   firstText(card, e.sel.LocationDate),
		Condition:      firstText(card, e.sel.Condition),
		IsFeatured:     card.Find(e.sel.Featured).Length() > 0,
		HasDelivery:    card.Find(e.sel.Delivery).Length() > 0,
		HasSafetyBadge: card.Find(e.sel.SafetyBadge).Length() > 0,
	}
	l.PriceValue = utils.NormalizePrice(l.PriceRaw)
	return l
}

func (e *Extractor) resolve(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || e.base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return e.base.ResolveReference(ref).String()
}

func (e *Extractor) maxPage(doc *goquery.Document) (int, bool) {
	best, found := 0, false
	doc.Find(e.sel.Pagination).Each(func(_ int, s *goquery.Selection) {
		n, err := strconv.Atoi(utils.NormalizeText(s.Text()))
		if err != nil || n < 1 {
			return
		}
		if !found || n > best {
			best, found = n, true
		}
	})
	return best, found
}

func firstText(card *goquery.Selection, pattern string) string {
	return utils.NormalizeText(card.Find(pattern).First().Text())
}

// priceText joins only the direct text children of the price element, so
// nested labels such as "do negocjacji" stay out of the price. When the
// element has no direct text the full text is used.
func priceText(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	var b strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if n := c.Get(0); n != nil && n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
	})
	if text := utils.NormalizeText(b.String()); text != "" {
		return text
	}
	return utils.NormalizeText(s.Text())
}

