package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDecode(t *testing.T) {
	m := New()

	m.RecordDecode(true, "", time.Millisecond)
	m.RecordDecode(true, "", time.Millisecond)
	m.RecordDecode(false, "bad_magic", time.Millisecond)

	if got := testutil.ToFloat64(m.DecodesTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("ok decodes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.DecodesTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("failed decodes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.DecodeErrors.WithLabelValues("bad_magic")); got != 1 {
		t.Errorf("bad_magic errors = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.DecodeLatency); got != 1 {
		t.Errorf("latency series = %d, want 1", got)
	}
}

func TestRecordWarningAndHash(t *testing.T) {
	m := New()

	m.RecordWarning("padding")
	m.RecordWarning("padding")
	m.RecordWarning("audio")
	m.RecordHashVerification(true)
	m.RecordHashVerification(false)
	m.RecordHeader(12, 1<<24)

	if got := testutil.ToFloat64(m.Warnings.WithLabelValues("padding")); got != 2 {
		t.Errorf("padding warnings = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Warnings.WithLabelValues("audio")); got != 1 {
		t.Errorf("audio warnings = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.HashVerifications.WithLabelValues("mismatch")); got != 1 {
		t.Errorf("hash mismatches = %v, want 1", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	// None of these may panic.
	m.RecordDecode(false, "truncated_header", time.Second)
	m.RecordHeader(1, 1)
	m.RecordWarning("padding")
	m.RecordHashVerification(true)
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.RecordWarning("padding")

	if got := testutil.ToFloat64(b.Warnings.WithLabelValues("padding")); got != 0 {
		t.Errorf("second registry saw %v warnings, want 0", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.RecordDecode(false, "unexpected_field", time.Millisecond)

	path := filepath.Join(t.TempDir(), "tonie.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `tonie_header_decode_errors_total{kind="unexpected_field"} 1`) {
		t.Errorf("textfile missing error counter:\n%s", data)
	}
}
