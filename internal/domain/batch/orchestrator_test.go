package batch_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"petal-studio/server/internal/domain/batch"
)

func TestRun_IsolatesItemFailures(t *testing.T) {
	items := []batch.Item{
		{ReferenceImageID: "ref-1", Variables: map[string]string{"flowerType": "rose"}},
		{ReferenceImageID: "ref-2", Variables: map[string]string{"flowerType": "tulip"}},
		{ReferenceImageID: "ref-3", Variables: map[string]string{"flowerType": "peony"}},
	}

	results := batch.Run(context.Background(), items, func(_ context.Context, item batch.Item) (string, []string, error) {
		if item.ReferenceImageID == "ref-2" {
			return "partial prompt", nil, errors.New("substitution failed")
		}
		return "prompt for " + item.Variables["flowerType"], []string{"https://img/" + item.ReferenceImageID}, nil
	})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, item := range items {
		if results[i].ReferenceImageID != item.ReferenceImageID {
			t.Fatalf("results out of submission order: %+v", results)
		}
	}

	if results[0].Error != "" || len(results[0].ImageURLs) != 1 {
		t.Fatalf("item 1 should succeed: %+v", results[0])
	}
	if results[2].Error != "" || len(results[2].ImageURLs) != 1 {
		t.Fatalf("item 3 should succeed: %+v", results[2])
	}

	failed := results[1]
	if failed.Error == "" {
		t.Fatal("item 2 must carry a non-empty error")
	}
	if failed.ImageURLs == nil || len(failed.ImageURLs) != 0 {
		t.Fatalf("failed item must have an empty, non-nil url list: %#v", failed.ImageURLs)
	}
	if failed.ProcessedPrompt != "partial prompt" {
		t.Fatalf("prompt resolved before the failure should be kept: %+v", failed)
	}
}

func TestRun_LaunchesAllItemsAtOnce(t *testing.T) {
	const n = 8
	var inFlight, peak int64

	items := make([]batch.Item, n)
	for i := range items {
		items[i] = batch.Item{ReferenceImageID: "ref"}
	}

	results := batch.Run(context.Background(), items, func(context.Context, batch.Item) (string, []string, error) {
		current := atomic.AddInt64(&inFlight, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if current <= old || atomic.CompareAndSwapInt64(&peak, old, current) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return "p", []string{"u"}, nil
	})

	if len(results) != n {
		t.Fatalf("expected %d results, got %d", n, len(results))
	}
	if atomic.LoadInt64(&peak) != n {
		t.Fatalf("expected uncapped fan-out (peak %d), got peak %d", n, peak)
	}
}

func TestRun_EmptyBatch(t *testing.T) {
	results := batch.Run(context.Background(), nil, func(context.Context, batch.Item) (string, []string, error) {
		t.Fatal("item func must not run for an empty batch")
		return "", nil, nil
	})
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestRun_NilURLListBecomesEmpty(t *testing.T) {
	results := batch.Run(context.Background(), []batch.Item{{ReferenceImageID: "ref"}},
		func(context.Context, batch.Item) (string, []string, error) {
			return "p", nil, nil
		})
	if results[0].ImageURLs == nil {
		t.Fatal("successful item with no urls must still carry an empty list")
	}
}
