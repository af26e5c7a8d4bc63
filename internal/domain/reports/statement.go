package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	cryptoutil "nursenest/internal/platform/crypto"
)

// GenerateEarningsStatement renders a nurse's paid-shift history to a PDF
// under dir. When the crypto service is configured the file is stored
// encrypted and the plaintext removed.
func (s *Service) GenerateEarningsStatement(ctx context.Context, crypto *cryptoutil.Service, dir, nurseID string) (string, error) {
	name, err := s.Store.NurseName(ctx, nurseID)
	if err != nil {
		return "", err
	}
	lines, err := s.Store.NurseEarningsLines(ctx, nurseID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(dir, nurseID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Earnings Statement")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Nurse: %s", name))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02")))
	pdf.Ln(10)

	total := decimal.Zero
	for _, line := range lines {
		paidAt := ""
		if line.PaidAt != nil {
			paidAt = line.PaidAt.Format("2006-01-02")
		}
		pdf.Cell(0, 7, fmt.Sprintf("%s  %s  %.2fh  net %s  paid %s",
			line.ShiftDate.Format("2006-01-02"), line.JobCode, line.Hours, line.NetAmount.StringFixed(2), paidAt))
		pdf.Ln(6)
		total = total.Add(line.NetAmount)
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total net earnings: %s", total.StringFixed(2)))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}

	if crypto != nil && crypto.Configured() {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", err
		}
		encrypted, err := crypto.Encrypt(data)
		if err != nil {
			return "", err
		}
		encryptedPath := filePath + ".enc"
		if err := os.WriteFile(encryptedPath, encrypted, 0o600); err != nil {
			return "", err
		}
		if err := os.Remove(filePath); err != nil {
			return "", err
		}
		return encryptedPath, nil
	}

	return filePath, nil
}
