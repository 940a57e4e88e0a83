package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(LoginAttempts.WithLabelValues("failure"))
	IncLogin("failure")
	if got := testutil.ToFloat64(LoginAttempts.WithLabelValues("failure")); got != before+1 {
		t.Errorf("login failures = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(DecryptionFailures)
	IncDecryptionFailure()
	if got := testutil.ToFloat64(DecryptionFailures); got != before+1 {
		t.Errorf("decryption failures = %v, want %v", got, before+1)
	}
}

func TestRecordRequest(t *testing.T) {
	route := "/api/client/data/{id}"
	before := testutil.ToFloat64(RequestTotal.WithLabelValues("DELETE", route, "404"))
	RecordRequest("DELETE", route, 404, 0.01)
	if got := testutil.ToFloat64(RequestTotal.WithLabelValues("DELETE", route, "404")); got != before+1 {
		t.Errorf("requests = %v, want %v", got, before+1)
	}
}
