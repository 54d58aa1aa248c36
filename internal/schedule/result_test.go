package schedule

import (
	"encoding/json"
	"testing"
	"time"
)

func TestResultMarshalSuccessInlinesRecord(t *testing.T) {
	e := &EventRef{
		ID:    "evt-1",
		Title: "Team Meeting",
		Start: time.Date(2025, time.June, 12, 10, 0, 0, 0, DefaultLocation()),
		End:   time.Date(2025, time.June, 12, 11, 0, 0, 0, DefaultLocation()),
	}

	data, err := json.Marshal(Success(e))
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["id"] != "evt-1" {
		t.Errorf("success payload carries no id: %s", data)
	}
	if _, ok := m["status"]; ok {
		t.Errorf("success payload carries a status: %s", data)
	}
}

func TestResultMarshalStatus(t *testing.T) {
	data, err := json.Marshal(ConnectionError())
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["status"] != string(StatusConnectionError) {
		t.Errorf("status = %v", m["status"])
	}
	if _, ok := m["id"]; ok {
		t.Errorf("status payload carries an id: %s", data)
	}
}
