// Package report renders pipeline output: the PDF product report and a plain
// text table of competitor analyses.
package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/sonpt-afk/product-research-agent/internal/model"
)

var (
	ErrMalformedRecord = errors.New("malformed product record")
	ErrNameCollision   = errors.New("could not find a free report file name")
)

const (
	reportTitle   = "SaaS Product Launch Report"
	filePrefix    = "saas_product_report_"
	pageMargin    = 72.0
	maxNameTries  = 1000
	bodyLineH     = 14.0
	bodySpace     = 8.0
	sectionSpace  = 20.0
	headingLineH  = 20.0
	headingSpace  = 12.0
	titleLineH    = 30.0
	titleSpace    = 30.0
	dateLineSpace = 30.0
)

// PDFRenderer writes Letter sized reports with fixed one inch margins.
type PDFRenderer struct {
	outputDir string
	now       func() time.Time
}

func NewPDFRenderer(outputDir string) *PDFRenderer {
	return &PDFRenderer{outputDir: outputDir, now: time.Now}
}

// ReportFilename returns saas_product_report_<YYYYMMDD_HHMMSS_ffffff>.pdf.
func ReportFilename(t time.Time) string {
	return fmt.Sprintf("%s%s_%06d.pdf", filePrefix, t.Format("20060102_150405"), t.Nanosecond()/1000)
}

// Render writes one section per product and returns the file path. Failed
// records are not rendered: they make Render fail with ErrMalformedRecord
// before anything is written.
func (r *PDFRenderer) Render(products []model.Result[model.Product]) (string, error) {
	values := make([]model.Product, 0, len(products))
	for i, p := range products {
		if p.IsErr() {
			return "", fmt.Errorf("%w: record %d: %s", ErrMalformedRecord, i, p.Message())
		}
		values = append(values, p.Value())
	}

	now := r.now()

	pdf := buildDocument(values, now)
	if pdf.Err() {
		return "", fmt.Errorf("failed to build pdf: %w", pdf.Error())
	}

	f, path, err := r.createFile(now)
	if err != nil {
		return "", err
	}

	if err := pdf.Output(f); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close pdf: %w", err)
	}

	return path, nil
}

// createFile opens a new file named after t. An existing file is never
// reused; the timestamp moves forward one microsecond per collision.
func (r *PDFRenderer) createFile(t time.Time) (*os.File, string, error) {
	if err := os.MkdirAll(r.outputDir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create output dir: %w", err)
	}

	dir, err := filepath.Abs(r.outputDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve output dir: %w", err)
	}

	for i := 0; i < maxNameTries; i++ {
		path := filepath.Join(dir, ReportFilename(t))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("failed to create report file: %w", err)
		}
		t = t.Add(time.Microsecond)
	}

	return nil, "", ErrNameCollision
}

func buildDocument(products []model.Product, now time.Time) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(reportTitle, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.MultiCell(0, titleLineH, tr(reportTitle), "", "C", false)
	pdf.Ln(titleSpace)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, bodyLineH, tr("Generated on "+now.Format("January 02, 2006")), "", "L", false)
	pdf.Ln(dateLineSpace)

	for _, p := range products {
		pdf.SetFont("Helvetica", "B", 16)
		pdf.MultiCell(0, headingLineH, tr(p.Name), "", "L", false)
		pdf.Ln(headingSpace)

		writeField(pdf, tr, "Tagline", p.Tagline)
		writeField(pdf, tr, "Description", p.Description)
		writeField(pdf, tr, "Votes", strconv.Itoa(p.VotesCount))
		writeLink(pdf, tr, "Website", "Click here", websiteOf(p))
		writeField(pdf, tr, "Categories", strings.Join(p.Topics, ", "))

		pdf.Ln(sectionSpace)
	}

	return pdf
}

func writeField(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Write(bodyLineH, tr(label+": "))
	pdf.SetFont("Helvetica", "", 11)
	pdf.Write(bodyLineH, tr(value))
	pdf.Ln(bodyLineH + bodySpace)
}

func writeLink(pdf *fpdf.Fpdf, tr func(string) string, label, text, target string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Write(bodyLineH, tr(label+": "))

	if target == "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.Write(bodyLineH, tr("Not available"))
		pdf.Ln(bodyLineH + bodySpace)
		return
	}

	pdf.SetFont("Helvetica", "U", 11)
	pdf.SetTextColor(0, 0, 255)
	pdf.WriteLinkString(bodyLineH, tr(text), target)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(bodyLineH + bodySpace)
}

// websiteOf falls back to the Product Hunt page when no website is listed.
func websiteOf(p model.Product) string {
	if p.Website != "" {
		return p.Website
	}
	return p.URL
}
