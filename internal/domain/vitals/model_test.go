package vitals

import (
	"encoding/json"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRecordFromDocument_NativeTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	doc := bson.M{
		"_id":        primitive.NewObjectID(),
		"patient_id": "p1",
		"timestamp":  primitive.NewDateTimeFromTime(ts),
		"heart_rate": int32(72),
	}

	rec, fellBack := RecordFromDocument(doc)
	if fellBack {
		t.Error("expected no fallback for native timestamp")
	}
	if rec.PatientID != "p1" {
		t.Errorf("expected patient_id p1, got %s", rec.PatientID)
	}
	if rec.Timestamp == nil || !rec.Timestamp.Equal(ts) {
		t.Errorf("expected timestamp %v, got %v", ts, rec.Timestamp)
	}
	if rec.HeartRate == nil || *rec.HeartRate != 72 {
		t.Errorf("expected heart_rate 72, got %v", rec.HeartRate)
	}
}

func TestRecordFromDocument_StringTimestamp(t *testing.T) {
	doc := bson.M{
		"patient_id": "p1",
		"timestamp":  "2024-03-01T12:30:00Z",
	}

	rec, fellBack := RecordFromDocument(doc)
	if fellBack {
		t.Error("expected no fallback for a parsable string")
	}
	want := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	if rec.Timestamp == nil || !rec.Timestamp.Equal(want) {
		t.Errorf("expected timestamp %v, got %v", want, rec.Timestamp)
	}
}

func TestRecordFromDocument_UnparsableTimestampFallsBack(t *testing.T) {
	doc := bson.M{
		"patient_id": "p1",
		"timestamp":  "yesterday-ish",
	}

	rec, fellBack := RecordFromDocument(doc)
	if !fellBack {
		t.Error("expected fallback flag for unparsable timestamp")
	}
	if rec.Timestamp == nil {
		t.Fatal("expected a substituted timestamp, got nil")
	}
	if time.Since(*rec.Timestamp) > 5*time.Second {
		t.Errorf("expected now-ish substitute, got %v", rec.Timestamp)
	}
}

func TestRecordFromDocument_MissingTimestamp(t *testing.T) {
	rec, fellBack := RecordFromDocument(bson.M{"patient_id": "p1"})
	if fellBack {
		t.Error("expected no fallback when timestamp is absent")
	}
	if rec.Timestamp != nil {
		t.Errorf("expected nil timestamp, got %v", rec.Timestamp)
	}
}

func TestRecordFromDocument_AllFields(t *testing.T) {
	doc := bson.M{
		"_id":               primitive.NewObjectID(),
		"patient_id":        "p1",
		"patient_name":      "Ada Lovelace",
		"heart_rate":        int64(68),
		"respiratory_rate":  int32(14),
		"oxygen_saturation": float64(98),
		"temperature_c":     36.6,
		"notes":             "resting",
		"blood_pressure": bson.M{
			"systolic":  int32(120),
			"diastolic": int32(80),
		},
	}

	rec, _ := RecordFromDocument(doc)
	if rec.PatientName == nil || *rec.PatientName != "Ada Lovelace" {
		t.Errorf("patient_name: got %v", rec.PatientName)
	}
	if rec.HeartRate == nil || *rec.HeartRate != 68 {
		t.Errorf("heart_rate: got %v", rec.HeartRate)
	}
	if rec.RespiratoryRate == nil || *rec.RespiratoryRate != 14 {
		t.Errorf("respiratory_rate: got %v", rec.RespiratoryRate)
	}
	if rec.OxygenSaturation == nil || *rec.OxygenSaturation != 98 {
		t.Errorf("oxygen_saturation: got %v", rec.OxygenSaturation)
	}
	if rec.TemperatureC == nil || *rec.TemperatureC != 36.6 {
		t.Errorf("temperature_c: got %v", rec.TemperatureC)
	}
	if rec.Notes == nil || *rec.Notes != "resting" {
		t.Errorf("notes: got %v", rec.Notes)
	}
	if rec.BloodPressure == nil {
		t.Fatal("expected blood_pressure")
	}
	if *rec.BloodPressure.Systolic != 120 || *rec.BloodPressure.Diastolic != 80 {
		t.Errorf("blood_pressure: got %+v", rec.BloodPressure)
	}
}

func TestRecord_JSONWireFormat(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	sys, dia := 130, 140 // diastolic above systolic is accepted as-is
	rec := Record{
		ID:            primitive.NewObjectID(),
		PatientID:     "p1",
		Timestamp:     &ts,
		BloodPressure: &BloodPressure{Systolic: &sys, Diastolic: &dia},
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var wire map[string]interface{}
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := wire["_id"].(string); !ok {
		t.Errorf("expected _id as string, got %T", wire["_id"])
	}
	if wire["timestamp"] != "2024-03-01T12:30:00Z" {
		t.Errorf("expected ISO-8601 timestamp, got %v", wire["timestamp"])
	}
	if _, present := wire["heart_rate"]; present {
		t.Error("expected absent optional fields to be omitted")
	}
}
