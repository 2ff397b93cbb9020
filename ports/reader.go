package ports

import (
	"context"

	"ethica/domain/dataset"
)

// DatasetReader loads a sample table from an external file or source
type DatasetReader interface {
	Read(ctx context.Context, path string) (*dataset.Table, error)
}
