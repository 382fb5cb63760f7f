package core

import (
	"testing"
	"time"
)

func TestResultStoreReplaceIsWholesale(t *testing.T) {
	store := NewResultStore()
	store.Replace([]BatchResult{{URL: "http://a.com"}, {URL: "http://b.com"}}, ProgressCounters{Total: 2, Processed: 2, Successful: 2})
	store.Replace([]BatchResult{{URL: "http://c.com"}}, ProgressCounters{Total: 1, Processed: 1, Successful: 1})

	snapshot := store.Snapshot()
	if len(snapshot) != 1 || snapshot[0].URL != "http://c.com" {
		t.Errorf("replace did not overwrite: %+v", snapshot)
	}
	if store.Counters().Total != 1 {
		t.Errorf("counters not replaced: %+v", store.Counters())
	}
}

func TestResultStoreSnapshotIsACopy(t *testing.T) {
	store := NewResultStore()
	store.Replace([]BatchResult{{URL: "http://a.com"}}, ProgressCounters{Total: 1, Processed: 1, Successful: 1})

	snapshot := store.Snapshot()
	snapshot[0].URL = "http://mutated.com"

	if store.Snapshot()[0].URL != "http://a.com" {
		t.Error("mutating a snapshot changed the store")
	}
}

func TestRiskLevelRank(t *testing.T) {
	if !(RiskLow.Rank() < RiskMedium.Rank() && RiskMedium.Rank() < RiskHigh.Rank()) {
		t.Error("risk levels are not ordered low < medium < high")
	}
	if RiskLevel("critical").Rank() >= RiskLow.Rank() {
		t.Error("unknown risk levels should rank below low")
	}
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()

	var nilSession *Session
	if !nilSession.Expired(now) {
		t.Error("nil session should be expired")
	}

	fresh := &Session{ExpiresAt: now.Add(time.Hour)}
	if fresh.Expired(now) {
		t.Error("future expiry should not be expired")
	}

	stale := &Session{ExpiresAt: now.Add(-time.Hour)}
	if !stale.Expired(now) {
		t.Error("past expiry should be expired")
	}

	noExpiry := &Session{}
	if noExpiry.Expired(now) {
		t.Error("session without expiry should be treated as valid")
	}
}
