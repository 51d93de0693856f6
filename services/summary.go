package services

import (
	"fmt"
	"strings"

	"pricewatch/storage"
	"pricewatch/utils"
)

// SummaryService prints the tail of the ledger at the end of a run. It is a
// human review surface only; nothing consumes its output programmatically.
type SummaryService struct {
	logger *utils.Logger
}

func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

// PrintRecent renders the last n ledger rows as an aligned table.
func (s *SummaryService) PrintRecent(ledger *storage.Ledger, n int) {
	rows, err := ledger.Tail(n)
	if err != nil {
		s.logger.Warn("[summary] Could not read ledger: %v", err)
		return
	}
	if len(rows) == 0 {
		s.logger.Info("[summary] No observations recorded yet")
		return
	}

	fmt.Print(s.Render(rows))
}

// Render formats ledger rows under the header with padded columns.
func (s *SummaryService) Render(rows [][]string) string {
	widths := make([]int, len(storage.Header))
	for i, h := range storage.Header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%-*s", widths[i], cell)
		}
		b.WriteString("\n")
	}

	writeRow(storage.Header)
	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}
