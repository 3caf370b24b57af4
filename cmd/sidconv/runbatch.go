package main

import (
	"fmt"
	"os"
	"path/filepath"

	"sid2sf2/internal/batch"
)

func runBatch(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("batch: expected one or more .sid files")
	}

	jobs := make([]batch.Job, len(args))
	for i, path := range args {
		jobs[i] = batch.Job{Path: path}
	}

	results := batch.Run(jobs, 0, func(j batch.Job) ([]byte, error) {
		image, warnings, err := convertFile(j.Path)
		if err != nil {
			return nil, err
		}
		for _, w := range warnings.Items() {
			logger.Warn(w.String(), "path", j.Path)
		}
		return image, nil
	})

	for i, r := range results {
		if r.Err != nil {
			logger.Error(r.Err.Error(), "job_id", r.JobID, "path", r.Path)
			continue
		}
		out := args[i][:len(args[i])-len(filepath.Ext(args[i]))] + ".sf2"
		if err := os.WriteFile(out, r.Output, 0o644); err != nil {
			logger.Error(err.Error(), "job_id", r.JobID, "path", r.Path)
			continue
		}
		logger.Info("wrote SF2 image", "job_id", r.JobID, "input", r.Path, "output", out, "bytes", len(r.Output))
	}

	summary := batch.Summarize(results)
	fmt.Printf("batch: %d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	if summary.Failed > 0 {
		return fmt.Errorf("batch: %d of %d conversions failed", summary.Failed, len(jobs))
	}
	return nil
}
