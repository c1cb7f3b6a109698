package layout

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bridgegad/bridgegad/pkg/drawing"
	"github.com/bridgegad/bridgegad/pkg/params"
)

// Title block size and margin, in metres of model scale.
const (
	titleBlockWidth  = 90.0
	titleBlockHeight = 30.0
	titleBlockMargin = 10.0
)

// titleBlock places the title block to the right of everything drawn so
// far, bottom aligned. It must run last.
func (b *builder) titleBlock() {
	g := b.geo
	L := drawing.LayerTitle
	ext := b.extent()

	x0 := ext.MaxX + b.m(titleBlockMargin)
	y0 := ext.MinY
	w, h := b.m(titleBlockWidth), b.m(titleBlockHeight)
	pad := b.m(2)
	th := b.textHeight()
	row := th * 1.8

	b.add("title block", drawing.Rectangle(L, drawing.Pt(x0, y0), drawing.Pt(x0+w, y0+h)))

	titleBase := y0 + h - pad - b.titleHeight()
	divider := titleBase - pad
	b.add("title block", drawing.Line(L, drawing.Pt(x0, divider), drawing.Pt(x0+w, divider)))
	b.add("title block", drawing.Text(L, drawing.Pt(x0+pad, titleBase), b.titleHeight(), drawing.AlignLeft, b.opts.Title))

	lines := []string{
		"Drawing No: " + orDash(b.opts.Number),
		"Project: " + b.opts.Project,
		"Scale: " + b.opts.Scale,
		"Date: " + b.opts.Time.Format("2006-01-02"),
		"Drawn by: " + orDash(b.opts.PreparedBy),
		fmt.Sprintf("Spans: %d x %s m", g.spans, formatMetres(g.span)),
	}
	y := divider - pad - th
	for _, s := range lines {
		b.add("title block", drawing.Text(L, drawing.Pt(x0+pad, y), th, drawing.AlignLeft, s))
		y -= row
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// DrawingNumber derives a drawing number from the parameter values, so
// the same bridge always carries the same number: "GAD-" followed by the
// first eight hex digits of a SHA-256 over the sorted NAME=value pairs.
func DrawingNumber(set *params.Set) string {
	values := set.Map()
	names := make([]string, 0, len(values))
	for n := range values {
		names = append(names, n)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, n := range names {
		sb.WriteString(n)
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatFloat(values[n], 'g', -1, 64))
		sb.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return fmt.Sprintf("GAD-%X", sum[:4])
}
