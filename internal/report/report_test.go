package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/certwatch/internal/domain"
)

func sampleResult() *domain.BatchResult {
	expiry := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	days := 120
	return &domain.BatchResult{
		Outcomes: []domain.Outcome{
			{Host: "a.example.com", Port: 443, Expiry: &expiry, DaysLeft: &days, Status: domain.StatusOK},
			{Host: "c.example.com", Port: 443, Status: domain.StatusError, Error: "connection refused"},
		},
		Summary:   domain.Summary{Total: 2, OK: 1, Error: 1},
		CheckedAt: time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResult()); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("want header + 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != "host,port,expiry,days_left,status,error" {
		t.Fatalf("header wrong: %v", rows[0])
	}
	if rows[1][2] != "2026-03-01 08:30:00" || rows[1][3] != "120" || rows[1][4] != "OK" {
		t.Fatalf("ok row wrong: %v", rows[1])
	}
	if rows[2][2] != "-" || rows[2][3] != "" || rows[2][4] != "ERROR" || rows[2][5] == "" {
		t.Fatalf("error row wrong: %v", rows[2])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("write json: %v", err)
	}

	var rows []Row
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(rows))
	}
	if rows[0].Expiry != "2026-03-01 08:30:00" || rows[0].DaysLeft == nil || *rows[0].DaysLeft != 120 {
		t.Fatalf("ok row wrong: %+v", rows[0])
	}
	if rows[1].Expiry != "-" || rows[1].DaysLeft != nil || rows[1].Error == "" {
		t.Fatalf("error row wrong: %+v", rows[1])
	}
}
