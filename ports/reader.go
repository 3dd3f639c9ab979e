package ports

import (
	"context"

	"goanova/domain/design"
)

// DatasetReader provides observations from a host-owned data source.
// Implementations own parsing and file handling; the core only ever
// sees the ordered (block, treatment, value) triples.
type DatasetReader interface {
	ReadObservations(ctx context.Context) ([]design.Observation, error)
}
