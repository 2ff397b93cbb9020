package ports

import (
	"context"

	"ethica/domain/dataset"
)

// PredictionSource produces labels for a feature table. Implementations wrap
// a live model; errors are propagated to the caller unmodified, never retried.
type PredictionSource interface {
	Predict(ctx context.Context, features *dataset.Table) ([]float64, error)
}
