package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/phpdave11/gofpdf"

	"github.com/bridgegad/bridgegad/pkg/buildinfo"
	"github.com/bridgegad/bridgegad/pkg/drawing"
	"github.com/bridgegad/bridgegad/pkg/params"
)

// Sheet sizes in millimetres, landscape.
const (
	a3Width  = 420.0
	a3Height = 297.0
)

// PDFOption configures PDF rendering via [RenderPDF].
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	margin float64
	stroke float64
	params *params.Set
}

// WithPDFMargin sets the sheet margin in millimetres. Defaults to 10.
func WithPDFMargin(mm float64) PDFOption { return func(r *pdfRenderer) { r.margin = mm } }

// WithPDFParameters appends a schedule page listing every parameter value.
func WithPDFParameters(s *params.Set) PDFOption { return func(r *pdfRenderer) { r.params = s } }

// RenderPDF draws doc on an A3 landscape sheet, scaled uniformly to fit
// inside the margins.
func RenderPDF(doc *drawing.Document, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{margin: 10, stroke: 0.25}
	for _, opt := range opts {
		opt(&r)
	}

	pdf := gofpdf.New("L", "mm", "A3", "")
	pdf.SetTitle(doc.Meta.Title, true)
	pdf.SetSubject(doc.Meta.Project, true)
	pdf.SetCreator(buildinfo.Creator(), true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	r.drawDocument(pdf, doc, tr)

	if r.params != nil {
		pdf.AddPage()
		r.drawSchedule(pdf, doc, tr)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r pdfRenderer) drawDocument(pdf *gofpdf.Fpdf, doc *drawing.Document, tr func(string) string) {
	ext := doc.Bounds()
	if ext.IsEmpty() {
		return
	}
	availW := a3Width - 2*r.margin
	availH := a3Height - 2*r.margin
	k := math.Min(availW/math.Max(ext.Width(), 1e-9), availH/math.Max(ext.Height(), 1e-9))
	offX := r.margin + (availW-ext.Width()*k)/2
	offY := r.margin + (availH-ext.Height()*k)/2
	tx := func(x float64) float64 { return offX + (x-ext.MinX)*k }
	ty := func(y float64) float64 { return offY + (ext.MaxY-y)*k }

	pdf.SetLineWidth(r.stroke)
	pdf.SetFont("Helvetica", "", 8)
	dimHeight := dimTextHeight(doc)

	for _, l := range doc.Layers {
		c := aciToRGB(l.Color)
		pdf.SetDrawColor(c.r, c.g, c.b)
		pdf.SetTextColor(c.r, c.g, c.b)
		for _, p := range doc.OnLayer(l.Name) {
			switch p.Kind {
			case drawing.KindLine:
				pdf.Line(tx(p.Points[0].X), ty(p.Points[0].Y), tx(p.Points[1].X), ty(p.Points[1].Y))
			case drawing.KindPolyline:
				pts := make([]gofpdf.PointType, len(p.Points))
				for i, pt := range p.Points {
					pts[i] = gofpdf.PointType{X: tx(pt.X), Y: ty(pt.Y)}
				}
				if p.Closed {
					pdf.Polygon(pts, "D")
				} else {
					for i := 1; i < len(pts); i++ {
						pdf.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y)
					}
				}
			case drawing.KindText:
				pdfText(pdf, tr, tx, ty, k, p.Points[0], p.Height, p.Align, p.Text)
			case drawing.KindDimension:
				segs, lbl := explodeDimension(p, dimHeight)
				for _, s := range segs {
					pdf.Line(tx(s.a.X), ty(s.a.Y), tx(s.b.X), ty(s.b.Y))
				}
				pdfText(pdf, tr, tx, ty, k, lbl.at, lbl.height, lbl.align, lbl.text)
			}
		}
	}
}

func pdfText(pdf *gofpdf.Fpdf, tr func(string) string, tx, ty func(float64) float64, k float64,
	at drawing.Point, height float64, align drawing.Align, s string) {
	pdf.SetFontUnitSize(height * k)
	s = tr(s)
	x := textLeft(tx(at.X), pdf.GetStringWidth(s), align)
	pdf.Text(x, ty(at.Y), s)
}

// Schedule row heights in millimetres. A category costs a heading row, a
// column header row and a gap of scheduleGap rows on top of its rules.
const (
	scheduleMaxRow = 6.0
	scheduleMinRow = 3.0
	scheduleGap    = 0.6
	scheduleTitle  = 12.0
)

// scheduleRowHeight returns the tallest row height, in 0.1 mm steps, that
// fits categories and rows into avail millimetres.
func scheduleRowHeight(avail float64, categories, rows int) float64 {
	units := float64(categories)*(2+scheduleGap) + float64(rows)
	if units <= 0 {
		return scheduleMaxRow
	}
	h := math.Floor(avail/units*10) / 10
	return math.Max(scheduleMinRow, math.Min(scheduleMaxRow, h))
}

// drawSchedule lists parameters grouped by category on a single page. Rows
// shrink until the whole schedule fits; page breaks are off so a schedule
// never spills onto a second sheet.
func (r pdfRenderer) drawSchedule(pdf *gofpdf.Fpdf, doc *drawing.Document, tr func(string) string) {
	widths := []float64{45, 35, 25, 120}
	headers := []string{"Parameter", "Value", "Unit", "Description"}

	cats := params.Categories()
	groups := make([][]params.Rule, len(cats))
	rows := 0
	for i, c := range cats {
		groups[i] = params.ByCategory(c)
		rows += len(groups[i])
	}
	_, top, _, bottom := pdf.GetMargins()
	h := scheduleRowHeight(a3Height-top-bottom-scheduleTitle, len(cats), rows)
	font := h * 1.5 // points per millimetre of row height

	auto, breakMargin := pdf.GetAutoPageBreak()
	pdf.SetAutoPageBreak(false, 0)
	defer pdf.SetAutoPageBreak(auto, breakMargin)

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, tr(doc.Meta.Title+" - PARAMETERS"))
	pdf.Ln(scheduleTitle)

	for i, c := range cats {
		pdf.SetFont("Helvetica", "B", font+1)
		pdf.Cell(0, h, tr(string(c)))
		pdf.Ln(h)
		pdf.SetFillColor(230, 230, 230)
		for j, head := range headers {
			pdf.CellFormat(widths[j], h, head, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", font)
		for _, rule := range groups[i] {
			row := []string{
				rule.Key,
				params.FormatValue(rule.Name, r.params.Get(rule.Name)),
				rule.Unit,
				rule.Description,
			}
			for j, v := range row {
				align := "L"
				if j == 1 {
					align = "R"
				}
				pdf.CellFormat(widths[j], h, tr(v), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(h * scheduleGap)
	}
}
