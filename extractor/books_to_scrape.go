package extractor

import (
	"github.com/PuerkitoBio/goquery"

	"pricewatch/models"
)

// BooksToScrape extracts from books.toscrape.com product pages.
// Price renders like "£51.77" inside ".price_color".
type BooksToScrape struct{}

func (e *BooksToScrape) Extract(doc *goquery.Document) (models.ExtractionResult, error) {
	title, err := textOf(doc, "div.product_main h1")
	if err != nil {
		return models.ExtractionResult{}, err
	}

	raw, err := textOf(doc, ".price_color")
	if err != nil {
		return models.ExtractionResult{}, err
	}

	price, err := parsePrice(raw)
	if err != nil {
		return models.ExtractionResult{}, err
	}

	return models.ExtractionResult{Title: title, Price: price}, nil
}
