package reports

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ExportHeaders is the fixed column order of the admin timecard export.
var ExportHeaders = []string{
	"Job Code", "Shift Date", "Start Time", "End Time",
	"Total Hours", "Status", "Nurse Name", "Client Name",
}

type ExportRow struct {
	JobCode    string
	ShiftDate  string
	StartTime  string
	EndTime    string
	TotalHours float64
	Status     string
	NurseName  string
	ClientName string
}

// WriteTimecardCSV writes the export with every field double-quoted.
// encoding/csv only quotes fields that need it, and the downstream admin
// tooling expects uniform quoting, so the rows are written by hand.
func WriteTimecardCSV(w io.Writer, rows []ExportRow) error {
	if err := writeQuotedLine(w, ExportHeaders); err != nil {
		return err
	}
	for _, row := range rows {
		fields := []string{
			row.JobCode,
			row.ShiftDate,
			row.StartTime,
			row.EndTime,
			strconv.FormatFloat(row.TotalHours, 'f', 2, 64),
			row.Status,
			row.NurseName,
			row.ClientName,
		}
		if err := writeQuotedLine(w, fields); err != nil {
			return err
		}
	}
	return nil
}

func writeQuotedLine(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	_, err := fmt.Fprintf(w, "%s\r\n", strings.Join(quoted, ","))
	return err
}
