package timecard

import (
	"strings"
	"time"
)

// ValidateSubmission applies the shift business rules. Rule failures come
// back as human-readable strings, never as Go errors: errors block
// submission, warnings do not.
func ValidateSubmission(sub Submission, now time.Time) ValidationResult {
	result := ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}

	if strings.TrimSpace(sub.JobCode) == "" {
		result.Errors = append(result.Errors, "job code is required")
	}
	if strings.TrimSpace(sub.ShiftDate) == "" {
		result.Errors = append(result.Errors, "shift date is required")
	}
	if strings.TrimSpace(sub.StartTime) == "" {
		result.Errors = append(result.Errors, "start time is required")
	}
	if strings.TrimSpace(sub.EndTime) == "" {
		result.Errors = append(result.Errors, "end time is required")
	}

	if strings.TrimSpace(sub.ShiftDate) != "" {
		shiftDate, err := time.Parse("2006-01-02", strings.TrimSpace(sub.ShiftDate))
		if err != nil {
			result.Errors = append(result.Errors, "shift date must be a valid date in YYYY-MM-DD format")
		} else {
			today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			if shiftDate.After(today) {
				result.Errors = append(result.Errors, "shift date cannot be in the future")
			}
			if shiftDate.Before(today.AddDate(0, 0, -MaxSubmissionAgeDays)) {
				result.Errors = append(result.Errors, "shift date cannot be more than 30 days old")
			}
		}
	}

	if sub.TotalHours <= 0 {
		result.Errors = append(result.Errors, "total hours must be greater than 0")
	} else if sub.TotalHours > MaxShiftHours {
		result.Errors = append(result.Errors, "total hours cannot exceed 24")
	} else if sub.TotalHours > LongShiftWarnHours {
		result.Warnings = append(result.Warnings, "shift is longer than 16 hours, please verify the hours are correct")
	}

	if sub.BreakMinutes < 0 {
		result.Errors = append(result.Errors, "break minutes cannot be negative")
	} else if sub.BreakMinutes > MaxBreakMinutes {
		result.Errors = append(result.Errors, "break minutes cannot exceed 480")
	}

	if sub.TotalHours > BreakWarnHours && sub.BreakMinutes == 0 {
		result.Warnings = append(result.Warnings, "no break recorded for a shift longer than 6 hours")
	}

	if strings.TrimSpace(sub.StartTime) != "" && sub.StartTime == sub.EndTime && !sub.IsOvernight {
		result.Errors = append(result.Errors, "start and end time cannot be identical on a non-overnight shift")
	}

	result.IsValid = len(result.Errors) == 0
	return result
}
