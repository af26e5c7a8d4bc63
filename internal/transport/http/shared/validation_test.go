package shared

import "testing"

func TestValidatorCollectsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("email", "", "email is required")
	v.Positive("hourlyRate", 0, "hourly rate must be greater than 0")
	v.Required("jobCode", "ICU-221", "job code is required")

	if !v.HasIssues() {
		t.Fatal("expected issues")
	}
	issues := v.Issues()
	if len(issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(issues))
	}
	// Issues come back sorted by field for stable API responses.
	if issues[0].Field != "email" || issues[1].Field != "hourlyRate" {
		t.Fatalf("unexpected order: %+v", issues)
	}
}

func TestValidatorDate(t *testing.T) {
	v := NewValidator()
	if _, ok := v.Date("shiftDate", "2026-03-14"); !ok {
		t.Fatal("expected YYYY-MM-DD to parse")
	}
	if _, ok := v.Date("shiftDate", "14/03/2026"); ok {
		t.Fatal("expected bad format to be rejected")
	}
	if !v.HasIssues() {
		t.Fatal("expected a recorded issue for the bad date")
	}
}

func TestValidatorEnumIgnoresEmpty(t *testing.T) {
	v := NewValidator()
	v.Enum("status", "", []string{"Submitted", "Paid"}, "unknown status")
	if v.HasIssues() {
		t.Fatal("empty value should not be an enum violation")
	}
	v.Enum("status", "Archived", []string{"Submitted", "Paid"}, "unknown status")
	if !v.HasIssues() {
		t.Fatal("expected enum violation")
	}
}
