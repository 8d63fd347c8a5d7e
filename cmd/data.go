package cmd

import (
	"context"
	"fmt"

	cfgpkg "github.com/KaramelBytes/crimeflow/internal/config"
	"github.com/KaramelBytes/crimeflow/internal/dataset"
	"github.com/KaramelBytes/crimeflow/internal/metrics"
	"github.com/KaramelBytes/crimeflow/internal/table"
)

// loadIncidents resolves the configured data files, loads and cleans them.
func loadIncidents(ctx context.Context, c *cfgpkg.Global) (*table.Table, *dataset.Report, error) {
	paths, err := dataset.ResolvePaths(c.DataDir, c.DataFiles)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve data files: %w", err)
	}
	recs, rep, err := dataset.LoadFiles(ctx, paths, dataset.DefaultOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("load data: %w", err)
	}
	metrics.ObserveDataset(rep.RowsRead, rep.RowsKept)
	return dataset.ToTable(recs), rep, nil
}
