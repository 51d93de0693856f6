package extractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"pricewatch/models"
)

func docFromHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture HTML: %v", err)
	}
	return doc
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"£51.77", 51.77, false},
		{"$98.00", 98, false},
		{"  €1,202.50 ", 1202.50, false},
		{"฿3,500", 3500, false},
		{"51.7", 51.7, false},
		{"", 0, true},
		{"call for price", 0, true},
		{"£", 0, true},
	}

	for _, tt := range tests {
		got, err := parsePrice(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parsePrice(%q) expected error, got %.2f", tt.raw, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parsePrice(%q) unexpected error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePrice(%q) = %.2f; want %.2f", tt.raw, got, tt.want)
		}
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()

	if _, ok := reg.Lookup("books_to_scrape"); !ok {
		t.Error("expected books_to_scrape to be registered")
	}
	if _, ok := reg.Lookup("opencart_demo"); !ok {
		t.Error("expected opencart_demo to be registered")
	}
	if _, ok := reg.Lookup("amazon"); ok {
		t.Error("unknown site key must not resolve")
	}
}

func TestBooksToScrapeExtract(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body>
			<div class="product_main">
				<h1>A Light in the Attic</h1>
				<p class="price_color">£51.77</p>
			</div>
		</body></html>`)

	got, err := (&BooksToScrape{}).Extract(doc)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got.Title != "A Light in the Attic" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Price != 51.77 {
		t.Errorf("price = %.2f; want 51.77", got.Price)
	}
}

func TestBooksToScrapeMissingPrice(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body>
			<div class="product_main"><h1>No Price Here</h1></div>
		</body></html>`)

	_, err := (&BooksToScrape{}).Extract(doc)
	if err == nil {
		t.Fatal("expected extraction error for missing price node")
	}

	var we *models.WatchError
	if !errors.As(err, &we) || we.Code != models.ErrCodeExtraction {
		t.Errorf("expected %s, got %v", models.ErrCodeExtraction, err)
	}
}

func TestOpenCartDemoExtract(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body>
			<div id="content">
				<h1>iPhone</h1>
				<ul class="list-unstyled"><li><h2>$98.00</h2></li></ul>
			</div>
		</body></html>`)

	got, err := (&OpenCartDemo{}).Extract(doc)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got.Title != "iPhone" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Price != 98 {
		t.Errorf("price = %.2f; want 98.00", got.Price)
	}
}

func TestOpenCartDemoEmptyTitle(t *testing.T) {
	doc := docFromHTML(t, `
		<html><body>
			<div id="content">
				<h1>   </h1>
				<ul class="list-unstyled"><li><h2>$98.00</h2></li></ul>
			</div>
		</body></html>`)

	if _, err := (&OpenCartDemo{}).Extract(doc); err == nil {
		t.Fatal("expected extraction error for empty title node")
	}
}
