// Package report renders a patient's most recent vitals record into a
// single-page, fixed-layout PDF under a server-local reports directory.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/sync/semaphore"

	"github.com/vitals/vitals/internal/domain/vitals"
)

const (
	marginLeft  = 50.0
	marginTop   = 50.0
	valueOffset = 160.0
	rowStep     = 20.0
)

// Generator writes vitals PDFs. Drawing and file output are blocking, so
// concurrent renders are capped by a weighted semaphore; Generate blocks
// the caller until a slot frees up and its render completes.
type Generator struct {
	dir string
	sem *semaphore.Weighted
}

func NewGenerator(dir string, workers int64) *Generator {
	return &Generator{dir: dir, sem: semaphore.NewWeighted(workers)}
}

// Generate renders rec and returns the path of the written file.
func (g *Generator) Generate(ctx context.Context, patientID string, rec *vitals.Record) (string, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer g.sem.Release(1)
	return g.buildPDF(patientID, rec)
}

func (g *Generator) buildPDF(patientID string, rec *vitals.Record) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	ts := time.Now().UTC()
	if rec.Timestamp != nil {
		ts = *rec.Timestamp
	}
	path := filepath.Join(g.dir, fmt.Sprintf("%s_%s.pdf", patientID, ts.Format("20060102150405")))

	pdf := gofpdf.New("P", "pt", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	title := patientID
	if rec.PatientName != nil {
		title = *rec.PatientName
	}

	y := marginTop
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(marginLeft, y, tr("Vitals Report - "+title))
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(marginLeft, y+30, tr("Patient ID: "+patientID))
	pdf.Text(marginLeft, y+50, tr("Timestamp: "+timestampValue(rec.Timestamp)))

	y += 90
	drawRow := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Text(marginLeft, y, tr(label+":"))
		pdf.SetFont("Helvetica", "", 10)
		pdf.Text(marginLeft+valueOffset, y, tr(value))
		y += rowStep
	}

	drawRow("Heart Rate (bpm)", intValue(rec.HeartRate))
	drawRow("Blood Pressure", bloodPressureValue(rec.BloodPressure))
	drawRow("Respiratory Rate (breaths/min)", intValue(rec.RespiratoryRate))
	drawRow("Temperature (°C)", floatValue(rec.TemperatureC))
	drawRow("Oxygen Saturation (%)", intValue(rec.OxygenSaturation))
	drawRow("Notes", notesValue(rec.Notes))

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return path, nil
}

func timestampValue(ts *time.Time) string {
	if ts == nil {
		return "N/A"
	}
	return ts.Format(time.RFC3339)
}

func intValue(n *int) string {
	if n == nil {
		return "N/A"
	}
	return strconv.Itoa(*n)
}

func floatValue(f *float64) string {
	if f == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func bloodPressureValue(bp *vitals.BloodPressure) string {
	if bp == nil {
		return "N/A"
	}
	return fmt.Sprintf("%s/%s mmHg", intValue(bp.Systolic), intValue(bp.Diastolic))
}

func notesValue(notes *string) string {
	if notes == nil {
		return "-"
	}
	return *notes
}
