package sheets

import (
	"sync"
	"testing"
)

func TestAPICallTracker_ResetSession(t *testing.T) {
	tracker := NewAPICallTracker()

	tracker.RecordCall("values.get")
	tracker.RecordCall("spreadsheets.get")
	tracker.RecordCall("values.get")

	stats := tracker.GetSessionStats()
	if stats.TotalCalls != 3 {
		t.Errorf("Expected 3 total calls before reset, got %d", stats.TotalCalls)
	}
	if stats.CallsByEndpoint["values.get"] != 2 {
		t.Errorf("Expected 2 values.get calls, got %d", stats.CallsByEndpoint["values.get"])
	}

	tracker.ResetSession()

	// Session calls reset, total and per-endpoint counts are kept
	stats = tracker.GetSessionStats()
	if stats.SessionCalls != 0 {
		t.Errorf("Expected 0 session calls after reset, got %d", stats.SessionCalls)
	}
	if stats.TotalCalls != 3 {
		t.Errorf("Expected total calls to be preserved after session reset, got %d", stats.TotalCalls)
	}
}

func TestAPICallTracker_StatsAreCopied(t *testing.T) {
	tracker := NewAPICallTracker()
	tracker.RecordCall("values.append")

	stats := tracker.GetSessionStats()
	stats.CallsByEndpoint["values.append"] = 100

	if got := tracker.GetSessionStats().CallsByEndpoint["values.append"]; got != 1 {
		t.Errorf("Expected tracker state to be unaffected by caller, got %d", got)
	}
}

func TestAPICallTracker_ConcurrentRecord(t *testing.T) {
	tracker := NewAPICallTracker()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tracker.RecordCall("values.get")
			}
		}()
	}
	wg.Wait()

	if stats := tracker.GetSessionStats(); stats.SessionCalls != 1000 {
		t.Errorf("Expected 1000 session calls, got %d", stats.SessionCalls)
	}
}

func TestAPICallTracker_LogSessionSummary(t *testing.T) {
	tracker := NewAPICallTracker()
	tracker.RecordCall("values.get")
	tracker.RecordCall("values.clear")

	// This should not panic
	tracker.LogSessionSummary()

	if stats := tracker.GetSessionStats(); stats.TotalCalls != 2 {
		t.Errorf("Expected 2 total calls after logging, got %d", stats.TotalCalls)
	}
}
