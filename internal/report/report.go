// Package report renders analysis results for download and display.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"agrisense/internal/model"
)

const (
	fontFamily   = "DejaVu"
	titleSize    = 18
	bodySize     = 11
	lineHeight   = 14
	titleSpacing = 20
	fieldSpacing = 10
)

// DejaVu Sans covers Latin, Cyrillic and Greek plus currency signs such as ₹.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	regularFont []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	boldFont []byte
)

// fixedDate keeps the document metadata stable across renders.
var fixedDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Title returns the heading printed at the top of the report.
func Title(cropName string) string {
	return "AgriSense AI Crop Report: " + cropName
}

// Filename returns the download name for cropName's report.
func Filename(cropName string) string {
	return cropName + "_analysis.pdf"
}

// RenderPDF lays out result as a single-column A4 document. The same input
// always produces the same bytes.
func RenderPDF(cropName string, result model.AnalysisResult) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCreationDate(fixedDate)
	pdf.SetModificationDate(fixedDate)
	pdf.SetCatalogSort(true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", regularFont)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", boldFont)
	pdf.SetTitle(Title(cropName), true)
	pdf.SetMargins(56, 56, 56)
	pdf.SetAutoPageBreak(true, 56)
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", titleSize)
	pdf.CellFormat(0, titleSize+6, Title(cropName), "", 1, "C", false, 0, "")
	pdf.Ln(titleSpacing)

	for _, f := range result.Fields() {
		pdf.SetFont(fontFamily, "B", bodySize)
		pdf.Write(lineHeight, f.Label)
		pdf.SetFont(fontFamily, "", bodySize)
		pdf.Write(lineHeight, ": "+f.Value)
		pdf.Ln(lineHeight)
		pdf.Ln(fieldSpacing)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
