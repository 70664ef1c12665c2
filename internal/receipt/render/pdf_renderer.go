package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
)

// PDFRenderer renders a document description to a binary PDF using core
// fonts. All coordinates are millimeters.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) Render(ctx context.Context, doc Document) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	size := doc.Page.Size
	if size == "" {
		size = "A4"
	}
	pdf := fpdf.New("P", "mm", size, "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	left, top, right, bottom := doc.Page.MarginLeft, doc.Page.MarginTop, doc.Page.MarginRight, doc.Page.MarginBottom
	if left <= 0 {
		left = 15
	}
	if top <= 0 {
		top = 15
	}
	if right <= 0 {
		right = 15
	}
	if bottom <= 0 {
		bottom = 20
	}
	pdf.SetMargins(left, top, right)
	pdf.SetAutoPageBreak(true, bottom)
	if doc.Title != "" {
		pdf.SetTitle(doc.Title, true)
	}

	if doc.Footer.IssuerLine != "" || doc.Footer.ShowPageNumber {
		footer := doc.Footer
		pdf.AliasNbPages("")
		pdf.SetFooterFunc(func() {
			pdf.SetY(-12)
			pdf.SetFont("Helvetica", "I", 8)
			pdf.SetTextColor(107, 114, 128)
			line := footer.IssuerLine
			if footer.ShowPageNumber {
				page := fmt.Sprintf("Page %d/{nb}", pdf.PageNo())
				if line != "" {
					line += " - " + page
				} else {
					line = page
				}
			}
			pdf.CellFormat(0, 8, tr(line), "", 0, "C", false, 0, "")
		})
	}

	pdf.AddPage()

	walker := &pdfWalker{pdf: pdf, tr: tr, defaultStyle: doc.DefaultStyle}
	pageW, _ := pdf.GetPageSize()
	walker.renderBlocks(doc.Content, left, pageW-left-right)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &pdfHandle{data: buf.Bytes()}, nil
}

type pdfWalker struct {
	pdf          *fpdf.Fpdf
	tr           func(string) string
	defaultStyle Style
}

func (w *pdfWalker) renderBlocks(blocks []Block, x, width float64) {
	for _, block := range blocks {
		w.renderBlock(block, x, width)
	}
}

func (w *pdfWalker) renderBlock(block Block, x, width float64) {
	switch {
	case block.Text != nil:
		w.renderText(block.Text, x, width)
	case block.Stack != nil:
		w.advance(block.Stack.Margin.Top)
		w.renderBlocks(block.Stack.Blocks, x, width)
		w.advance(block.Stack.Margin.Bottom)
	case block.Columns != nil:
		w.renderColumns(block.Columns, x, width)
	case block.Table != nil:
		w.renderTable(block.Table, x, width)
	case block.Spacer != nil:
		w.advance(block.Spacer.Height)
	}
}

func (w *pdfWalker) renderText(text *TextBlock, x, width float64) {
	style := w.applyStyle(text.Style)
	w.advance(text.Margin.Top)
	w.pdf.SetX(x)
	w.pdf.MultiCell(width, lineHeight(style), w.tr(text.Content), "", alignCode(style.Alignment), false)
	w.advance(text.Margin.Bottom)
}

func (w *pdfWalker) renderColumns(columns *ColumnsBlock, x, width float64) {
	w.advance(columns.Margin.Top)
	widths := resolveWidths(columnWidths(columns.Columns), width)

	startY := w.pdf.GetY()
	maxY := startY
	colX := x
	for i, column := range columns.Columns {
		w.pdf.SetY(startY)
		w.pdf.SetX(colX)
		w.renderBlocks(column.Blocks, colX, widths[i])
		if y := w.pdf.GetY(); y > maxY {
			maxY = y
		}
		colX += widths[i]
	}
	w.pdf.SetY(maxY)
	w.advance(columns.Margin.Bottom)
}

func (w *pdfWalker) renderTable(table *TableBlock, x, width float64) {
	w.advance(table.Margin.Top)
	widths := resolveWidths(table.Widths, width)

	border := "B"
	if table.Borderless {
		border = ""
	}

	for _, row := range table.Rows {
		w.pdf.SetX(x)
		for colIdx, cell := range row {
			if colIdx >= len(widths) {
				break
			}
			style := w.applyStyle(cell.Style)
			fill := style.FillColor != ""
			if fill {
				red, green, blue := hexToRGB(style.FillColor)
				w.pdf.SetFillColor(red, green, blue)
			}
			w.pdf.CellFormat(widths[colIdx], lineHeight(style)+2, w.tr(cell.Content),
				border, 0, alignCode(style.Alignment), fill, 0, "")
		}
		w.pdf.Ln(-1)
	}
	w.advance(table.Margin.Bottom)
}

func (w *pdfWalker) applyStyle(style Style) Style {
	if style.FontSize <= 0 {
		style.FontSize = w.defaultStyle.FontSize
	}
	if style.FontSize <= 0 {
		style.FontSize = 10
	}
	if style.Color == "" {
		style.Color = w.defaultStyle.Color
	}

	variant := ""
	if style.Bold {
		variant += "B"
	}
	if style.Italic {
		variant += "I"
	}
	w.pdf.SetFont("Helvetica", variant, style.FontSize)

	red, green, blue := 0, 0, 0
	if style.Color != "" {
		red, green, blue = hexToRGB(style.Color)
	}
	w.pdf.SetTextColor(red, green, blue)
	return style
}

func (w *pdfWalker) advance(height float64) {
	if height > 0 {
		w.pdf.SetY(w.pdf.GetY() + height)
	}
}

func lineHeight(style Style) float64 {
	// Font size is in points; convert to a comfortable line height in mm.
	return style.FontSize*0.42 + 1.4
}

func alignCode(alignment Alignment) string {
	switch alignment {
	case AlignCenter:
		return "C"
	case AlignRight:
		return "R"
	default:
		return "L"
	}
}

func columnWidths(columns []Column) []float64 {
	widths := make([]float64, len(columns))
	for i, column := range columns {
		widths[i] = column.Width
	}
	return widths
}

// resolveWidths distributes the available width: fixed entries keep their
// value, zero entries share the remainder equally.
func resolveWidths(widths []float64, available float64) []float64 {
	if len(widths) == 0 {
		return nil
	}
	resolved := make([]float64, len(widths))
	remaining := available
	flexible := 0
	for i, width := range widths {
		if width > 0 {
			resolved[i] = width
			remaining -= width
		} else {
			flexible++
		}
	}
	if flexible > 0 && remaining > 0 {
		share := remaining / float64(flexible)
		for i, width := range widths {
			if width <= 0 {
				resolved[i] = share
			}
		}
	}
	return resolved
}

func hexToRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return 0, 0, 0
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(value >> 16 & 0xff), int(value >> 8 & 0xff), int(value & 0xff)
}

type pdfHandle struct {
	data []byte
}

func (h *pdfHandle) Bytes() ([]byte, error) { return h.data, nil }

func (h *pdfHandle) ContentType() string { return "application/pdf" }

func (h *pdfHandle) Persist(filename string) error {
	return os.WriteFile(filename, h.data, 0o644)
}

// Open writes the document to a temporary file and hands it to the platform
// viewer. Failures are returned but callers treat them as best effort.
func (h *pdfHandle) Open() error {
	tmp, err := os.CreateTemp("", "nfeat-receipt-*.pdf")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(h.data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return openInViewer(tmp.Name())
}

func openInViewer(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", filepath.Clean(path))
	default:
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}
