package models

import "time"

// Product is one entry from the catalog file. Products are loaded once per
// run and never mutated afterwards.
type Product struct {
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	TargetPrice float64 `json:"target_price"`
	Site        string  `json:"site"`
}

// Observation is one timestamped price reading for a product. Once written
// to the ledger an observation is never updated or deleted.
type Observation struct {
	Timestamp    time.Time
	ProductName  string
	PageTitle    string
	URL          string
	Price        float64
	TargetPrice  float64
	SnapshotPath string
}

// ExtractionResult is the transient (title, price) pair an extractor pulls
// out of a loaded page. It has no identity of its own; the tracker folds it
// into an Observation immediately.
type ExtractionResult struct {
	Title string
	Price float64
}
