package metrics

import (
	"testing"
	"time"
)

func TestStoreRecordsSuccess(t *testing.T) {
	store := NewStore()
	store.RecordExtractionSuccess(100*time.Millisecond, Usage{InputTokens: 10, OutputTokens: 5})

	totals := store.UsageTotals()
	if totals.InputTokens != 10 || totals.OutputTokens != 5 || totals.TotalTokens != 15 {
		t.Fatalf("unexpected usage totals: %+v", totals)
	}

	snapshot := store.Snapshot()
	if snapshot["total_extractions"] != 1 {
		t.Fatalf("unexpected extraction count: %v", snapshot["total_extractions"])
	}
	if snapshot["total_errors"] != 0 {
		t.Fatalf("unexpected error count: %v", snapshot["total_errors"])
	}
	if snapshot["avg_duration_ms"] != 100 {
		t.Fatalf("unexpected avg duration: %v", snapshot["avg_duration_ms"])
	}
}

func TestStoreRecordsErrorsAndCaptureFails(t *testing.T) {
	store := NewStore()
	store.RecordExtractionError(50 * time.Millisecond)
	store.RecordCaptureFailure()

	snapshot := store.Snapshot()
	if snapshot["total_extractions"] != 1 || snapshot["total_errors"] != 1 {
		t.Fatalf("unexpected counters: %+v", snapshot)
	}
	if snapshot["total_capture_fails"] != 1 {
		t.Fatalf("unexpected capture fails: %v", snapshot["total_capture_fails"])
	}
}
