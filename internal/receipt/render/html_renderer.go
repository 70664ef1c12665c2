package render

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"strings"
)

// HTMLRenderer renders the document description to a standalone HTML page.
// It is the fallback render target for environments without a PDF engine,
// and keeps renderer tests free of binary assertions.
type HTMLRenderer struct{}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

func (r *HTMLRenderer) Render(ctx context.Context, doc Document) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("<!doctype html>\n<html lang=\"fr\">\n<head>\n<meta charset=\"utf-8\" />\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html(doc.Title))
	b.WriteString(`<style>
body { margin: 0; padding: 32px; font-family: "Helvetica Neue", Arial, sans-serif; color: #111827; background: #ffffff; }
.document { max-width: 820px; margin: 0 auto; }
.columns { display: flex; justify-content: space-between; gap: 16px; }
.columns > div { flex: 1; }
table { width: 100%; border-collapse: collapse; }
td { padding: 8px; }
.bordered td { border-bottom: 1px solid #e5e7eb; }
.footer { border-top: 1px solid #e5e7eb; margin-top: 24px; padding-top: 12px; font-size: 11px; color: #6b7280; text-align: center; }
</style>
</head>
<body>
<div class="document">
`)
	writeBlocks(&b, doc.Content, doc.DefaultStyle)
	if doc.Footer.IssuerLine != "" {
		fmt.Fprintf(&b, "<div class=\"footer\">%s</div>\n", html(doc.Footer.IssuerLine))
	}
	b.WriteString("</div>\n</body>\n</html>\n")

	return &htmlHandle{data: []byte(b.String())}, nil
}

func writeBlocks(b *strings.Builder, blocks []Block, defaults Style) {
	for _, block := range blocks {
		writeBlock(b, block, defaults)
	}
}

func writeBlock(b *strings.Builder, block Block, defaults Style) {
	switch {
	case block.Text != nil:
		fmt.Fprintf(b, "<div style=\"%s\">%s</div>\n",
			inlineStyle(block.Text.Style, defaults, block.Text.Margin), html(block.Text.Content))
	case block.Stack != nil:
		b.WriteString("<div>\n")
		writeBlocks(b, block.Stack.Blocks, defaults)
		b.WriteString("</div>\n")
	case block.Columns != nil:
		b.WriteString("<div class=\"columns\">\n")
		for _, column := range block.Columns.Columns {
			b.WriteString("<div>\n")
			writeBlocks(b, column.Blocks, defaults)
			b.WriteString("</div>\n")
		}
		b.WriteString("</div>\n")
	case block.Table != nil:
		class := "bordered"
		if block.Table.Borderless {
			class = "borderless"
		}
		fmt.Fprintf(b, "<table class=\"%s\">\n", class)
		for _, row := range block.Table.Rows {
			b.WriteString("<tr>")
			for _, cell := range row {
				fmt.Fprintf(b, "<td style=\"%s\">%s</td>",
					inlineStyle(cell.Style, defaults, Margin{}), html(cell.Content))
			}
			b.WriteString("</tr>\n")
		}
		b.WriteString("</table>\n")
	case block.Spacer != nil:
		fmt.Fprintf(b, "<div style=\"height:%.0fpx\"></div>\n", block.Spacer.Height*3)
	}
}

func inlineStyle(style Style, defaults Style, margin Margin) string {
	if style.FontSize <= 0 {
		style.FontSize = defaults.FontSize
	}
	if style.FontSize <= 0 {
		style.FontSize = 10
	}
	if style.Color == "" {
		style.Color = defaults.Color
	}

	parts := []string{fmt.Sprintf("font-size:%.0fpt", style.FontSize)}
	if style.Bold {
		parts = append(parts, "font-weight:bold")
	}
	if style.Italic {
		parts = append(parts, "font-style:italic")
	}
	if style.Color != "" {
		parts = append(parts, "color:"+sanitizeColor(style.Color))
	}
	if style.FillColor != "" {
		parts = append(parts, "background:"+sanitizeColor(style.FillColor))
	}
	if style.Alignment != "" {
		parts = append(parts, "text-align:"+string(style.Alignment))
	}
	if margin.Top > 0 {
		parts = append(parts, fmt.Sprintf("margin-top:%.0fpx", margin.Top*3))
	}
	if margin.Bottom > 0 {
		parts = append(parts, fmt.Sprintf("margin-bottom:%.0fpx", margin.Bottom*3))
	}
	return strings.Join(parts, ";")
}

func sanitizeColor(value string) string {
	value = strings.TrimSpace(value)
	if len(value) == 7 && value[0] == '#' {
		for _, r := range value[1:] {
			if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
				return "#111827"
			}
		}
		return value
	}
	return "#111827"
}

func html(value string) string {
	return template.HTMLEscapeString(value)
}

type htmlHandle struct {
	data []byte
}

func (h *htmlHandle) Bytes() ([]byte, error) { return h.data, nil }

func (h *htmlHandle) ContentType() string { return "text/html; charset=utf-8" }

func (h *htmlHandle) Persist(filename string) error {
	return os.WriteFile(filename, h.data, 0o644)
}

func (h *htmlHandle) Open() error {
	tmp, err := os.CreateTemp("", "nfeat-receipt-*.html")
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
