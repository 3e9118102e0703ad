package vitals

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BloodPressure is the nested reading on a Record. No invariant is
// enforced between the two values.
type BloodPressure struct {
	Systolic  *int `json:"systolic" bson:"systolic,omitempty"`
	Diastolic *int `json:"diastolic" bson:"diastolic,omitempty"`
}

// Record is one vital-sign observation for one patient. Every field
// except PatientID is optional; absent fields stay nil. The identifier
// is assigned by the database on insert and is never accepted as input.
type Record struct {
	ID               primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	PatientID        string             `json:"patient_id" bson:"patient_id"`
	PatientName      *string            `json:"patient_name,omitempty" bson:"patient_name,omitempty"`
	Timestamp        *time.Time         `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
	HeartRate        *int               `json:"heart_rate,omitempty" bson:"heart_rate,omitempty"`
	BloodPressure    *BloodPressure     `json:"blood_pressure,omitempty" bson:"blood_pressure,omitempty"`
	RespiratoryRate  *int               `json:"respiratory_rate,omitempty" bson:"respiratory_rate,omitempty"`
	TemperatureC     *float64           `json:"temperature_c,omitempty" bson:"temperature_c,omitempty"`
	OxygenSaturation *int               `json:"oxygen_saturation,omitempty" bson:"oxygen_saturation,omitempty"`
	Notes            *string            `json:"notes,omitempty" bson:"notes,omitempty"`
}

// RecordFromDocument rebuilds a Record from a raw stored document. Stored
// timestamps may be native BSON datetimes or ISO-8601 strings; an
// unparsable string falls back to now-UTC instead of failing the read.
// The second return value reports whether that fallback was applied.
func RecordFromDocument(doc bson.M) (*Record, bool) {
	rec := &Record{}
	fellBack := false

	if id, ok := doc["_id"].(primitive.ObjectID); ok {
		rec.ID = id
	}
	if pid, ok := doc["patient_id"].(string); ok {
		rec.PatientID = pid
	}
	rec.PatientName = stringField(doc, "patient_name")
	rec.HeartRate = intField(doc, "heart_rate")
	rec.RespiratoryRate = intField(doc, "respiratory_rate")
	rec.OxygenSaturation = intField(doc, "oxygen_saturation")
	rec.TemperatureC = floatField(doc, "temperature_c")
	rec.Notes = stringField(doc, "notes")

	if bp, ok := doc["blood_pressure"].(bson.M); ok {
		rec.BloodPressure = &BloodPressure{
			Systolic:  intField(bp, "systolic"),
			Diastolic: intField(bp, "diastolic"),
		}
	}

	switch ts := doc["timestamp"].(type) {
	case primitive.DateTime:
		t := ts.Time().UTC()
		rec.Timestamp = &t
	case time.Time:
		t := ts.UTC()
		rec.Timestamp = &t
	case string:
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			t = t.UTC()
			rec.Timestamp = &t
		} else {
			now := time.Now().UTC()
			rec.Timestamp = &now
			fellBack = true
		}
	}

	return rec, fellBack
}

func stringField(doc bson.M, key string) *string {
	if s, ok := doc[key].(string); ok {
		return &s
	}
	return nil
}

// intField coerces the numeric encodings the driver may hand back for a
// stored integer.
func intField(doc bson.M, key string) *int {
	switch v := doc[key].(type) {
	case int32:
		n := int(v)
		return &n
	case int64:
		n := int(v)
		return &n
	case int:
		n := v
		return &n
	case float64:
		n := int(v)
		return &n
	}
	return nil
}

func floatField(doc bson.M, key string) *float64 {
	switch v := doc[key].(type) {
	case float64:
		f := v
		return &f
	case int32:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	}
	return nil
}
