package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"renastat/domain/analysis"
	"renastat/domain/core"
	"renastat/domain/dataset"
	statcore "renastat/internal/analysis"
	"renastat/internal/errors"
	"renastat/internal/logging"
)

// ReportService orchestrates the full exploratory analysis: descriptive
// summary, correlation, group comparison, outlier census and the
// categorical/binary profiles, merged into one immutable ResultBundle.
type ReportService struct {
	schema dataset.Schema
	log    *logging.Logger
}

// NewReportService creates a report service for the given schema
func NewReportService(schema dataset.Schema, log *logging.Logger) *ReportService {
	if log == nil {
		log = logging.DefaultLogger
	}
	return &ReportService{schema: schema, log: log}
}

// Run executes every analyzer against the dataset and assembles the
// bundle. The analyzers are independent and read-only over the shared
// dataset, so they fan out concurrently; the result is deterministic
// regardless of completion order. Summarizer, correlation and
// categorical profiling failures abort the run (hard schema
// dependencies); comparator, outlier and binary profiling tolerate
// partial schemas by skipping rows.
func (s *ReportService) Run(ctx context.Context, ds *dataset.Dataset) (*analysis.ResultBundle, error) {
	if ds == nil || ds.Rows() == 0 {
		return nil, errors.EmptyDataset("dataset has no records")
	}
	if !ds.Has(s.schema.Outcome) {
		return nil, errors.SchemaViolation(s.schema.Outcome.String())
	}

	bundle := &analysis.ResultBundle{
		RunID:     core.RunID(core.NewID()),
		Dataset:   ds.Name(),
		Records:   ds.Rows(),
		CreatedAt: core.Now(),
	}

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := statcore.Describe(ds, s.schema.CorrelationVars)
		if err != nil {
			return errors.Wrap(err, "descriptive summary failed")
		}
		bundle.Summary = rows
		return nil
	})

	g.Go(func() error {
		matrix, err := statcore.Correlate(ds, s.schema.CorrelationVars)
		if err != nil {
			return errors.Wrap(err, "correlation analysis failed")
		}
		bundle.Correlation = matrix
		bundle.StrongCorrelations = statcore.StrongPairs(matrix)
		return nil
	})

	g.Go(func() error {
		bundle.Comparisons = statcore.Compare(ds, s.schema.Outcome, s.schema.KeyVars)
		return nil
	})

	g.Go(func() error {
		bundle.Outliers = statcore.DetectOutliers(ds, s.schema.KeyVars)
		return nil
	})

	g.Go(func() error {
		tables, err := statcore.ProfileCategorical(ds, s.schema.Categorical)
		if err != nil {
			return errors.Wrap(err, "categorical profiling failed")
		}
		bundle.Categorical = tables
		bundle.Prevalence = statcore.ProfileBinary(ds, s.schema.BinaryRiskFactors)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	bundle.Balance = s.classBalance(ds)
	if !bundle.Balance.Defined {
		s.log.Warn("class balance undefined: group counts %d/%d", bundle.Balance.Count0, bundle.Balance.Count1)
	}

	s.log.Info("analysis run %s complete: %d records, %d strong correlations, %d comparison rows",
		bundle.RunID, bundle.Records, len(bundle.StrongCorrelations), len(bundle.Comparisons))
	return bundle, nil
}

func (s *ReportService) classBalance(ds *dataset.Dataset) analysis.ClassBalance {
	values, _, _ := ds.Observed(s.schema.Outcome)
	count0, count1 := 0, 0
	for _, v := range values {
		if v == 0 {
			count0++
		} else {
			count1++
		}
	}
	return analysis.NewClassBalance(count0, count1)
}
