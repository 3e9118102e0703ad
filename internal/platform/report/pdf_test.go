package report

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vitals/vitals/internal/domain/vitals"
)

func TestGenerate_WritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	g := NewGenerator(dir, 2)

	ts := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
	hr := 72
	rec := &vitals.Record{PatientID: "p1", Timestamp: &ts, HeartRate: &hr}

	path, err := g.Generate(context.Background(), "p1", rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if filepath.Base(path) != "p1_20240301123045.pdf" {
		t.Errorf("unexpected filename: %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read generated pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("expected output to start with %PDF")
	}
}

func TestGenerate_CreatesReportsDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	g := NewGenerator(dir, 1)

	rec := &vitals.Record{PatientID: "p1"}
	if _, err := g.Generate(context.Background(), "p1", rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("expected reports dir created: %v", err)
	}
}

func TestGenerate_NoTimestampNamesFileWithNow(t *testing.T) {
	g := NewGenerator(t.TempDir(), 1)

	rec := &vitals.Record{PatientID: "p9"}
	path, err := g.Generate(context.Background(), "p9", rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	name := filepath.Base(path)
	want := "p9_" + time.Now().UTC().Format("20060102") // date part is enough
	if len(name) != len("p9_20060102150405.pdf") || name[:len(want)] != want {
		t.Errorf("expected filename stamped with current UTC time, got %s", name)
	}
}

func TestGenerate_CancelledContext(t *testing.T) {
	g := NewGenerator(t.TempDir(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Exhaust the only slot so Acquire must wait, then observe the
	// cancelled context.
	g.sem.Acquire(context.Background(), 1)
	defer g.sem.Release(1)

	if _, err := g.Generate(ctx, "p1", &vitals.Record{PatientID: "p1"}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestBloodPressureValue(t *testing.T) {
	if got := bloodPressureValue(nil); got != "N/A" {
		t.Errorf("expected N/A for absent blood pressure, got %q", got)
	}
	sys, dia := 120, 80
	if got := bloodPressureValue(&vitals.BloodPressure{Systolic: &sys, Diastolic: &dia}); got != "120/80 mmHg" {
		t.Errorf("expected 120/80 mmHg, got %q", got)
	}
	if got := bloodPressureValue(&vitals.BloodPressure{Systolic: &sys}); got != "120/N/A mmHg" {
		t.Errorf("expected partial reading rendered, got %q", got)
	}
}

func TestRowValues(t *testing.T) {
	if got := intValue(nil); got != "N/A" {
		t.Errorf("intValue(nil) = %q", got)
	}
	n := 72
	if got := intValue(&n); got != "72" {
		t.Errorf("intValue(72) = %q", got)
	}
	if got := floatValue(nil); got != "N/A" {
		t.Errorf("floatValue(nil) = %q", got)
	}
	f := 36.6
	if got := floatValue(&f); got != "36.6" {
		t.Errorf("floatValue(36.6) = %q", got)
	}
	if got := notesValue(nil); got != "-" {
		t.Errorf("notesValue(nil) = %q", got)
	}
	s := "resting"
	if got := notesValue(&s); got != "resting" {
		t.Errorf("notesValue = %q", got)
	}
	if got := timestampValue(nil); got != "N/A" {
		t.Errorf("timestampValue(nil) = %q", got)
	}
}
