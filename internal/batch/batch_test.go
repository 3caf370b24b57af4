package batch

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunPreservesJobOrderRegardlessOfCompletionOrder(t *testing.T) {
	jobs := make([]Job, 20)
	for i := range jobs {
		jobs[i] = Job{Path: fmt.Sprintf("tune-%02d.sid", i)}
	}

	results := Run(jobs, 4, func(j Job) ([]byte, error) {
		return []byte(j.Path), nil
	})

	require.Len(t, results, len(jobs))
	for i, r := range results {
		require.Equal(t, jobs[i].Path, r.Path)
		require.Equal(t, jobs[i].Path, string(r.Output))
		require.NoError(t, r.Err)
	}
}

func TestRunAssignsDistinctJobIDs(t *testing.T) {
	jobs := []Job{{Path: "a"}, {Path: "b"}, {Path: "c"}}
	results := Run(jobs, 0, func(j Job) ([]byte, error) { return nil, nil })

	seen := make(map[string]bool)
	for _, r := range results {
		require.False(t, seen[r.JobID.String()], "job ID reused: %s", r.JobID)
		seen[r.JobID.String()] = true
	}
}

func TestRunCapturesPerJobErrorsIndependently(t *testing.T) {
	jobs := []Job{{Path: "good.sid"}, {Path: "bad.sid"}}
	results := Run(jobs, 2, func(j Job) ([]byte, error) {
		if j.Path == "bad.sid" {
			return nil, fmt.Errorf("simulated failure")
		}
		return []byte("ok"), nil
	})

	require.NoError(t, results[0].Err)
	require.Error(t, results[1].Err)

	summary := Summarize(results)
	require.Equal(t, 1, summary.Succeeded)
	require.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Failures, 1)
	require.Equal(t, "bad.sid", summary.Failures[0].Path)
}

func TestRunRespectsWorkerLimit(t *testing.T) {
	var concurrent int32
	var maxSeen int32

	jobs := make([]Job, 10)
	Run(jobs, 2, func(j Job) ([]byte, error) {
		n := atomic.AddInt32(&concurrent, 1)
		for {
			cur := atomic.LoadInt32(&maxSeen)
			if n <= cur || atomic.CompareAndSwapInt32(&maxSeen, cur, n) {
				break
			}
		}
		atomic.AddInt32(&concurrent, -1)
		return nil, nil
	})

	require.LessOrEqual(t, maxSeen, int32(2))
}
