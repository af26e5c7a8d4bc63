package timecard

import (
	"strings"
	"testing"
)

// approved_by is a uuid column; COALESCE against a '' literal resolves the
// whole expression to uuid and Postgres rejects the empty string at parse
// time, so the cast to text has to come first.
func TestTimecardColumnsCastApprovedByBeforeCoalesce(t *testing.T) {
	if !strings.Contains(timecardColumns, "COALESCE(t.approved_by::text, '')") {
		t.Fatalf("approved_by must be cast to text inside COALESCE:\n%s", timecardColumns)
	}
	if strings.Contains(timecardColumns, "COALESCE(t.approved_by, ") {
		t.Fatalf("uncast uuid COALESCE would fail on every read:\n%s", timecardColumns)
	}
}
