package extractor

import (
	"github.com/PuerkitoBio/goquery"

	"pricewatch/models"
)

// OpenCartDemo extracts from stock OpenCart demo product pages.
// Price renders like "$98.00" in the first "ul.list-unstyled h2".
type OpenCartDemo struct{}

func (e *OpenCartDemo) Extract(doc *goquery.Document) (models.ExtractionResult, error) {
	title, err := textOf(doc, "div#content h1")
	if err != nil {
		return models.ExtractionResult{}, err
	}

	raw, err := textOf(doc, "ul.list-unstyled h2")
	if err != nil {
		return models.ExtractionResult{}, err
	}

	price, err := parsePrice(raw)
	if err != nil {
		return models.ExtractionResult{}, err
	}

	return models.ExtractionResult{Title: title, Price: price}, nil
}
