package youtube

import (
	"context"
	"fmt"
	"sync"

	"yttranscript/internal/transcript"

	"golang.org/x/sync/semaphore"
)

// BatchFetchTranscripts fetches transcripts for multiple videos concurrently,
// with at most maxConcurrent fetches in flight at once.
//
// The returned slice always has exactly one entry per input URL, in input
// order. Per-URL failures (including panics) are captured as failure records;
// they never cancel sibling fetches.
func (c *Client) BatchFetchTranscripts(ctx context.Context, videoURLs []string, language string, maxConcurrent int) []*transcript.Result {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	sem := semaphore.NewWeighted(int64(maxConcurrent))
	results := make([]*transcript.Result, len(videoURLs))

	var wg sync.WaitGroup
	for i, url := range videoURLs {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			results[i] = c.fetchOne(ctx, sem, url, language)
		}(i, url)
	}
	wg.Wait()

	return results
}

// fetchOne runs a single bounded fetch. The semaphore is released on every
// exit path, and any panic from the layers below is folded into a failure
// record.
func (c *Client) fetchOne(ctx context.Context, sem *semaphore.Weighted, url, language string) (result *transcript.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = &transcript.Result{
				Success:  false,
				Err:      fmt.Sprintf("unexpected error: %v", r),
				VideoURL: url,
			}
		}
	}()

	if err := sem.Acquire(ctx, 1); err != nil {
		return &transcript.Result{Success: false, Err: err.Error(), VideoURL: url}
	}
	defer sem.Release(1)

	res, err := c.FetchTranscript(ctx, url, language)
	if err != nil {
		return &transcript.Result{Success: false, Err: err.Error(), VideoURL: url}
	}
	return res
}
