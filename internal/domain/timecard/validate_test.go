package timecard

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

func validSubmission() Submission {
	return Submission{
		ContractID:   "contract-1",
		JobCode:      "ICU-221",
		ShiftDate:    "2026-03-14",
		StartTime:    "07:00",
		EndTime:      "15:00",
		BreakMinutes: 30,
		TotalHours:   8,
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestValidateSubmissionAccepts(t *testing.T) {
	result := ValidateSubmission(validSubmission(), testNow)
	if !result.IsValid {
		t.Fatalf("expected valid submission, got errors %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", result.Warnings)
	}
}

func TestValidateSubmissionRequiredFields(t *testing.T) {
	result := ValidateSubmission(Submission{}, testNow)
	if result.IsValid {
		t.Fatal("expected invalid submission")
	}
	for _, want := range []string{
		"job code is required",
		"shift date is required",
		"start time is required",
		"end time is required",
		"total hours must be greater than 0",
	} {
		if !containsString(result.Errors, want) {
			t.Fatalf("expected error %q, got %v", want, result.Errors)
		}
	}
}

func TestValidateSubmissionFutureDate(t *testing.T) {
	sub := validSubmission()
	sub.ShiftDate = "2026-03-16"
	result := ValidateSubmission(sub, testNow)
	if result.IsValid || !containsString(result.Errors, "shift date cannot be in the future") {
		t.Fatalf("expected future-date error, got %v", result.Errors)
	}
}

func TestValidateSubmissionTodayIsAllowed(t *testing.T) {
	sub := validSubmission()
	sub.ShiftDate = "2026-03-15"
	result := ValidateSubmission(sub, testNow)
	if !result.IsValid {
		t.Fatalf("expected today's shift to be valid, got %v", result.Errors)
	}
}

func TestValidateSubmissionAgeBoundary(t *testing.T) {
	sub := validSubmission()
	sub.ShiftDate = "2026-02-13" // exactly 30 days before testNow
	result := ValidateSubmission(sub, testNow)
	if !result.IsValid {
		t.Fatalf("expected 30-day-old shift to be valid, got %v", result.Errors)
	}

	sub.ShiftDate = "2026-02-12" // 31 days
	result = ValidateSubmission(sub, testNow)
	if result.IsValid || !containsString(result.Errors, "shift date cannot be more than 30 days old") {
		t.Fatalf("expected 31-day-old shift to be rejected, got %v", result.Errors)
	}
}

func TestValidateSubmissionHoursBounds(t *testing.T) {
	sub := validSubmission()
	sub.TotalHours = 24
	result := ValidateSubmission(sub, testNow)
	if !result.IsValid {
		t.Fatalf("expected 24h shift to be valid, got %v", result.Errors)
	}

	sub.TotalHours = 24.5
	result = ValidateSubmission(sub, testNow)
	if result.IsValid || !containsString(result.Errors, "total hours cannot exceed 24") {
		t.Fatalf("expected >24h shift to be rejected, got %v", result.Errors)
	}

	sub.TotalHours = -1
	result = ValidateSubmission(sub, testNow)
	if result.IsValid || !containsString(result.Errors, "total hours must be greater than 0") {
		t.Fatalf("expected negative hours to be rejected, got %v", result.Errors)
	}
}

func TestValidateSubmissionLongShiftWarning(t *testing.T) {
	sub := validSubmission()
	sub.TotalHours = 16.5
	result := ValidateSubmission(sub, testNow)
	if !result.IsValid {
		t.Fatalf("expected long shift to stay valid, got %v", result.Errors)
	}
	if !containsString(result.Warnings, "shift is longer than 16 hours, please verify the hours are correct") {
		t.Fatalf("expected long-shift warning, got %v", result.Warnings)
	}
}

func TestValidateSubmissionBreakBounds(t *testing.T) {
	sub := validSubmission()
	sub.BreakMinutes = -10
	result := ValidateSubmission(sub, testNow)
	if result.IsValid || !containsString(result.Errors, "break minutes cannot be negative") {
		t.Fatalf("expected negative break to be rejected, got %v", result.Errors)
	}

	sub.BreakMinutes = 481
	result = ValidateSubmission(sub, testNow)
	if result.IsValid || !containsString(result.Errors, "break minutes cannot exceed 480") {
		t.Fatalf("expected oversized break to be rejected, got %v", result.Errors)
	}
}

func TestValidateSubmissionNoBreakWarning(t *testing.T) {
	sub := validSubmission()
	sub.TotalHours = 7
	sub.BreakMinutes = 0
	result := ValidateSubmission(sub, testNow)
	if !result.IsValid {
		t.Fatalf("expected valid submission, got %v", result.Errors)
	}
	if !containsString(result.Warnings, "no break recorded for a shift longer than 6 hours") {
		t.Fatalf("expected no-break warning, got %v", result.Warnings)
	}
}

func TestValidateSubmissionZeroDurationShift(t *testing.T) {
	sub := validSubmission()
	sub.StartTime = "07:00"
	sub.EndTime = "07:00"
	result := ValidateSubmission(sub, testNow)
	if result.IsValid || !containsString(result.Errors, "start and end time cannot be identical on a non-overnight shift") {
		t.Fatalf("expected zero-duration error, got %v", result.Errors)
	}

	sub.IsOvernight = true
	result = ValidateSubmission(sub, testNow)
	if !result.IsValid {
		t.Fatalf("expected overnight shift with identical times to be valid, got %v", result.Errors)
	}
}

func TestValidateSubmissionBadDateFormat(t *testing.T) {
	sub := validSubmission()
	sub.ShiftDate = "03/14/2026"
	result := ValidateSubmission(sub, testNow)
	if result.IsValid || !containsString(result.Errors, "shift date must be a valid date in YYYY-MM-DD format") {
		t.Fatalf("expected date format error, got %v", result.Errors)
	}
}
