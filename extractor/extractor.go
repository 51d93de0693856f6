package extractor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"pricewatch/models"
)

// Extractor encodes one site's markup assumptions: where the product title
// lives, where the price lives, and how to turn the raw price text into a
// number. Extractors are pure — they only read the document they are given.
type Extractor interface {
	Extract(doc *goquery.Document) (models.ExtractionResult, error)
}

// Registry maps a catalog site key to its extractor. An unknown key is not
// an error at this layer; the tracker treats a miss as a skip condition.
type Registry map[string]Extractor

// NewRegistry builds the dispatch table of all known sites. Adding a site
// means adding one Extractor implementation and one entry here.
func NewRegistry() Registry {
	return Registry{
		"books_to_scrape": &BooksToScrape{},
		"opencart_demo":   &OpenCartDemo{},
	}
}

// Lookup returns the extractor registered for site, if any.
func (r Registry) Lookup(site string) (Extractor, bool) {
	ex, ok := r[site]
	return ex, ok
}

// priceStrip removes currency symbols and thousands separators so the
// remainder parses as a plain float.
var priceStrip = strings.NewReplacer("£", "", "$", "", "€", "", "฿", "", ",", "", " ", "")

// parsePrice converts a currency-prefixed price string like "£51.77" or
// "$1,202.00" into its numeric value.
func parsePrice(raw string) (float64, error) {
	cleaned := strings.TrimSpace(priceStrip.Replace(raw))
	if cleaned == "" {
		return 0, models.NewWatchError(models.ErrCodeExtraction,
			fmt.Sprintf("price text %q is empty after stripping currency symbols", raw), nil)
	}

	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, models.NewWatchError(models.ErrCodeExtraction,
			fmt.Sprintf("price text %q is not numeric", raw), err)
	}
	return price, nil
}

// textOf returns the trimmed text of the first node matching selector, or
// an extraction error when the node is absent or empty.
func textOf(doc *goquery.Document, selector string) (string, error) {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", models.NewWatchError(models.ErrCodeExtraction,
			fmt.Sprintf("selector %q matched nothing", selector), nil)
	}

	text := strings.TrimSpace(sel.Text())
	if text == "" {
		return "", models.NewWatchError(models.ErrCodeExtraction,
			fmt.Sprintf("selector %q matched an empty node", selector), nil)
	}
	return text, nil
}
