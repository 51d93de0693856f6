package storage

import "pricewatch/models"

// ObservationAppender is the interface any ledger backend must satisfy.
// Backends are append-only: there is no update or delete.
type ObservationAppender interface {
	Append(obs models.Observation) error
	Close() error
}
