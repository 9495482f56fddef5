package dsgp4

import (
	"context"
	"os"
	"sync"

	kitlog "github.com/go-kit/kit/log"
)

// BatchResult is the outcome of one propagation in a batch. Exactly one of
// Err or the state fields is meaningful: on failure Err wraps the cause in a
// BatchItemError carrying the item index.
type BatchResult struct {
	State    State
	Jacobian *Jacobian // nil unless gradients were requested
	Err      error
}

type batchJob struct {
	row, col int
	el       *Elements
	tsince   float64
}

// PropagateBatch propagates each element set to its paired time offset:
// sets[k] at times[k]. Results come back in input order, one per pair, and a
// failing item never affects its neighbours. With grad set, each result also
// carries the Jacobian. The pool size comes from the configuration
// (batch.workers).
func PropagateBatch(ctx context.Context, sets []*Elements, times []float64, grad bool) ([]BatchResult, error) {
	if len(sets) != len(times) {
		return nil, InvalidElementsError{Field: "batch length", Value: float64(len(times))}
	}
	jobs := make([]batchJob, len(sets))
	for k := range sets {
		jobs[k] = batchJob{row: k, el: sets[k], tsince: times[k]}
	}
	out := make([]BatchResult, len(sets))
	runBatch(ctx, jobs, func(j batchJob, res BatchResult) {
		out[j.row] = res
	}, grad)
	return out, nil
}

// PropagateGrid propagates every element set at every time offset: the result
// is indexed [set][time]. This is the outer-product form of PropagateBatch.
func PropagateGrid(ctx context.Context, sets []*Elements, times []float64, grad bool) ([][]BatchResult, error) {
	jobs := make([]batchJob, 0, len(sets)*len(times))
	for r, el := range sets {
		for c, t := range times {
			jobs = append(jobs, batchJob{row: r, col: c, el: el, tsince: t})
		}
	}
	out := make([][]BatchResult, len(sets))
	for r := range out {
		out[r] = make([]BatchResult, len(times))
	}
	runBatch(ctx, jobs, func(j batchJob, res BatchResult) {
		out[j.row][j.col] = res
	}, grad)
	return out, nil
}

// runBatch fans the jobs out over a fixed worker pool. Each job writes to its
// own result slot, so no collection ordering is needed. Jobs not started
// before ctx is done are reported as cancelled.
func runBatch(ctx context.Context, jobs []batchJob, store func(batchJob, BatchResult), grad bool) {
	cfg := dsgp4Config()
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "pool", "propagate")

	feed := make(chan batchJob, cfg.batchWorkers)
	var wg sync.WaitGroup
	for w := 0; w < cfg.batchWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range feed {
				res := runOne(j, grad)
				if res.Err != nil {
					klog.Log("item", j.row, "tsince", j.tsince, "error", res.Err)
				}
				store(j, res)
			}
		}()
	}

feeding:
	for k, j := range jobs {
		select {
		case feed <- j:
		case <-ctx.Done():
			for _, rest := range jobs[k:] {
				store(rest, BatchResult{Err: BatchItemError{Index: rest.row, Err: ctx.Err()}})
			}
			break feeding
		}
	}
	close(feed)
	wg.Wait()
}

func runOne(j batchJob, grad bool) BatchResult {
	if grad {
		state, jac, err := j.el.PropagateGrad(j.tsince)
		if err != nil {
			return BatchResult{State: state, Err: BatchItemError{Index: j.row, Err: err}}
		}
		return BatchResult{State: state, Jacobian: jac}
	}
	state, err := j.el.Propagate(j.tsince)
	if err != nil {
		return BatchResult{Err: BatchItemError{Index: j.row, Err: err}}
	}
	return BatchResult{State: state}
}
