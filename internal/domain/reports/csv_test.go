package reports

import (
	"strings"
	"testing"
)

func TestWriteTimecardCSVHeader(t *testing.T) {
	var buf strings.Builder
	if err := WriteTimecardCSV(&buf, nil); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	want := `"Job Code","Shift Date","Start Time","End Time","Total Hours","Status","Nurse Name","Client Name"` + "\r\n"
	if buf.String() != want {
		t.Fatalf("header mismatch:\n got %q\nwant %q", buf.String(), want)
	}
}

func TestWriteTimecardCSVQuotesEveryField(t *testing.T) {
	rows := []ExportRow{
		{
			JobCode:    "ICU-221",
			ShiftDate:  "2026-03-14",
			StartTime:  "07:00",
			EndTime:    "15:00",
			TotalHours: 8,
			Status:     "Paid",
			NurseName:  "Ada Okafor",
			ClientName: "Ridge Home Care",
		},
	}

	var buf strings.Builder
	if err := WriteTimecardCSV(&buf, rows); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	want := `"ICU-221","2026-03-14","07:00","15:00","8.00","Paid","Ada Okafor","Ridge Home Care"`
	if lines[1] != want {
		t.Fatalf("row mismatch:\n got %q\nwant %q", lines[1], want)
	}
}

func TestWriteTimecardCSVEscapesEmbeddedQuotes(t *testing.T) {
	rows := []ExportRow{{JobCode: `Night "Float"`, TotalHours: 10.5, Status: "Approved"}}

	var buf strings.Builder
	if err := WriteTimecardCSV(&buf, rows); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if !strings.Contains(buf.String(), `"Night ""Float"""`) {
		t.Fatalf("embedded quotes not doubled: %q", buf.String())
	}
	if !strings.Contains(buf.String(), `"10.50"`) {
		t.Fatalf("hours not formatted to two decimals: %q", buf.String())
	}
}
