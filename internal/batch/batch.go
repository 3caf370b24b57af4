// Package batch runs independent SID→SF2 (or SF2→SID) conversions across
// many files concurrently. Each job gets its own CPU, extracted model, and
// result slot; nothing is shared between goroutines but the job slice
// itself, matching the one-goroutine-per-index / write-to-my-own-slot shape
// a worker pool needs when nothing downstream should race.
package batch

import (
	"sync"

	"github.com/google/uuid"
)

// Job is one unit of work: a single input file's conversion, identified by
// a path the caller understands (used only for logging and result
// correlation, never opened by this package).
type Job struct {
	Path string
}

// Result is one job's outcome. JobID correlates this result back to a log
// line emitted while the job ran; it carries no behavior of its own.
type Result struct {
	JobID   uuid.UUID
	Path    string
	Output  []byte
	Err     error
	Elapsed float64 // seconds, set by the caller's timing if it wants one
}

// ConvertFunc performs one job's conversion. Implementations must not touch
// any state shared with other concurrent calls — Run gives each goroutine
// its own Job and its own Result slot and nothing else.
type ConvertFunc func(job Job) ([]byte, error)

// Run executes convert for every job concurrently, bounded by maxWorkers
// (0 or negative means unbounded — one goroutine per job), and returns
// results in the same order as jobs regardless of completion order.
func Run(jobs []Job, maxWorkers int, convert ConvertFunc) []Result {
	results := make([]Result, len(jobs))

	sem := make(chan struct{}, workerLimit(maxWorkers, len(jobs)))
	var wg sync.WaitGroup

	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, j Job) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			id := uuid.New()
			out, err := convert(j)
			results[idx] = Result{JobID: id, Path: j.Path, Output: out, Err: err}
		}(i, job)
	}
	wg.Wait()

	return results
}

func workerLimit(requested, jobCount int) int {
	if jobCount == 0 {
		return 1
	}
	if requested <= 0 || requested > jobCount {
		return jobCount
	}
	return requested
}

// Summary tallies a batch run's outcome, for a CLI to print one line per
// job plus a final count.
type Summary struct {
	Succeeded int
	Failed    int
	Failures  []Result
}

// Summarize partitions results into succeeded/failed counts, preserving
// the failed Results (with their JobID and Err) for detailed reporting.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			s.Failures = append(s.Failures, r)
			continue
		}
		s.Succeeded++
	}
	return s
}
