// Package batch runs independent generation items concurrently while
// isolating per-item failures.
package batch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"petal-studio/server/internal/infrastructure/metrics"
)

// Item is one independent unit of work in a batch request.
type Item struct {
	ReferenceImageID string            `json:"referenceImageId"`
	Variables        map[string]string `json:"variables"`
}

// Result pairs an item with its outcome. Failed items carry a non-empty
// Error and an empty ImageURLs list.
type Result struct {
	ReferenceImageID string            `json:"referenceImageId"`
	Variables        map[string]string `json:"variables"`
	ProcessedPrompt  string            `json:"processedPrompt"`
	ImageURLs        []string          `json:"imageUrls"`
	Error            string            `json:"error,omitempty"`
}

// ItemFunc resolves and executes a single item, returning the substituted
// prompt (may be non-empty even on failure) and the produced image list.
type ItemFunc func(ctx context.Context, item Item) (processedPrompt string, imageURLs []string, err error)

// Run launches every item at once and waits for all of them to settle.
// One item's failure never aborts its siblings; results keep submission
// order regardless of completion order.
func Run(ctx context.Context, items []Item, fn ItemFunc) []Result {
	results := make([]Result, len(items))

	var eg errgroup.Group
	for i, item := range items {
		i, item := i, item
		eg.Go(func() error {
			prompt, urls, err := fn(ctx, item)

			result := Result{
				ReferenceImageID: item.ReferenceImageID,
				Variables:        item.Variables,
				ProcessedPrompt:  prompt,
				ImageURLs:        urls,
			}
			if err != nil {
				result.ImageURLs = []string{}
				result.Error = err.Error()
				metrics.RecordBatchItem("error")
			} else {
				if result.ImageURLs == nil {
					result.ImageURLs = []string{}
				}
				metrics.RecordBatchItem("success")
			}
			results[i] = result
			return nil
		})
	}
	// ItemFunc errors are captured per result, never returned.
	_ = eg.Wait()

	return results
}
