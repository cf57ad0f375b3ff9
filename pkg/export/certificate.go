package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Certificate describes a completion certificate to be rendered as PDF.
type Certificate struct {
	ID            string
	StudentName   string
	CourseTitle   string
	TeacherName   string
	CompletedDate time.Time
}

// CertificateExporter renders course completion certificates.
type CertificateExporter struct{}

func NewCertificateExporter() *CertificateExporter {
	return &CertificateExporter{}
}

// Render produces a landscape A4 PDF certificate.
func (e *CertificateExporter) Render(cert Certificate) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()

	pdf.SetLineWidth(1.2)
	pdf.SetDrawColor(30, 60, 120)
	pdf.Rect(10, 10, pageW-20, pageH-20, "D")

	pdf.SetFont("Helvetica", "B", 32)
	pdf.SetTextColor(30, 60, 120)
	pdf.SetY(40)
	pdf.CellFormat(0, 16, "Certificate of Completion", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(60, 60, 60)
	pdf.Ln(10)
	pdf.CellFormat(0, 8, "This certifies that", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)
	pdf.CellFormat(0, 12, cert.StudentName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(60, 60, 60)
	pdf.Ln(4)
	pdf.CellFormat(0, 8, "has successfully completed the course", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)
	pdf.CellFormat(0, 10, cert.CourseTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(60, 60, 60)
	pdf.Ln(8)
	completed := cert.CompletedDate.Format("January 2, 2006")
	pdf.CellFormat(0, 7, fmt.Sprintf("Completed on %s", completed), "", 1, "C", false, 0, "")
	if cert.TeacherName != "" {
		pdf.CellFormat(0, 7, fmt.Sprintf("Instructor: %s", cert.TeacherName), "", 1, "C", false, 0, "")
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetY(pageH - 28)
	pdf.CellFormat(0, 6, fmt.Sprintf("Certificate ID: %s", cert.ID), "", 1, "C", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render certificate pdf: %w", err)
	}

	return buf.Bytes(), nil
}
