package extract

import (
	"runtime"
	"sync"
)

// WorkItem holds one raw annotation line awaiting classification.
// LineNum is the physical line number in the input, comments and blanks
// included.
type WorkItem struct {
	Seq     int
	LineNum int
	Line    string
}

// WorkResult holds the classification outcome for a single line. Err is
// set only for parse-level skips and locates the damaged line.
type WorkResult struct {
	Seq     int
	LineNum int
	Rec     *Classified
	Skip    SkipReason
	Err     error
}

// ParallelClassify classifies work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence
// order). Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (e *Extractor) ParallelClassify(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range items {
				rec, skip, err := e.classify(item)
				results <- WorkResult{Seq: item.Seq, LineNum: item.LineNum, Rec: rec, Skip: skip, Err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
