// Package ports declares the interfaces between the analysis core and
// its external collaborators: dataset loading, bundle persistence and
// report rendering.
package ports

import (
	"context"
	"io"

	"renastat/domain/analysis"
	"renastat/domain/core"
	"renastat/domain/dataset"
	"renastat/internal/plot"
)

// DatasetReader loads one patient table from an external source
type DatasetReader interface {
	ReadDataset() (*dataset.Dataset, error)
}

// BundleRepository persists finished analysis runs
type BundleRepository interface {
	Save(ctx context.Context, bundle *analysis.ResultBundle) error
	GetByID(ctx context.Context, runID core.RunID) (*analysis.ResultBundle, error)
}

// ReportRenderer formats a bundle (and its prepared plots) for humans
type ReportRenderer interface {
	Render(w io.Writer, bundle *analysis.ResultBundle, plots *plot.Set) error
}
