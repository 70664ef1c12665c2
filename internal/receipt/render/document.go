package render

// Package render defines the in-memory document description produced by the
// receipt builder and the renderers that turn it into a persistable artifact.
// The description is pure data: building it never touches a rendering engine,
// so two builds from the same inputs are structurally identical.

// Alignment positions a block or cell horizontally.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Style carries the text attributes a renderer may honor.
type Style struct {
	FontSize  float64
	Bold      bool
	Italic    bool
	Color     string // hex, e.g. "#1f2937"
	FillColor string
	Alignment Alignment
}

// Margin is vertical whitespace around a block, in document units (mm).
type Margin struct {
	Top    float64
	Bottom float64
}

// Block is a tagged union of the supported layout nodes. Exactly one field
// is non-nil.
type Block struct {
	Text    *TextBlock
	Columns *ColumnsBlock
	Stack   *StackBlock
	Table   *TableBlock
	Spacer  *SpacerBlock
}

// TextBlock is a single styled text run.
type TextBlock struct {
	Content string
	Style   Style
	Margin  Margin
}

// ColumnsBlock lays blocks out side by side.
type ColumnsBlock struct {
	Columns []Column
	Margin  Margin
}

// Column holds one column of a ColumnsBlock. Width 0 means "share the
// remaining space".
type Column struct {
	Width  float64
	Blocks []Block
}

// StackBlock stacks blocks vertically.
type StackBlock struct {
	Blocks []Block
	Margin Margin
}

// TableBlock is a grid of styled cells. HeaderRows rows at the top repeat
// the header treatment.
type TableBlock struct {
	HeaderRows int
	// Widths per column; 0 means equal share of the remaining width.
	Widths []float64
	Rows   [][]Cell
	Margin Margin
	// Borderless tables render without rules (totals blocks).
	Borderless bool
}

// Cell is one table cell.
type Cell struct {
	Content string
	Style   Style
}

// SpacerBlock inserts vertical whitespace.
type SpacerBlock struct {
	Height float64
}

// PageSetup fixes the physical page characteristics.
type PageSetup struct {
	Size         string // "A4"
	MarginLeft   float64
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
}

// Footer is repeated on every page.
type Footer struct {
	IssuerLine     string
	ShowPageNumber bool
}

// Document is the complete renderable description.
type Document struct {
	Title        string
	Page         PageSetup
	DefaultStyle Style
	Content      []Block
	Footer       Footer
}

// Convenience constructors keep builder code terse.

func Text(content string, style Style) Block {
	return Block{Text: &TextBlock{Content: content, Style: style}}
}

func TextWithMargin(content string, style Style, margin Margin) Block {
	return Block{Text: &TextBlock{Content: content, Style: style, Margin: margin}}
}

func Stack(blocks ...Block) Block {
	return Block{Stack: &StackBlock{Blocks: blocks}}
}

func Spacer(height float64) Block {
	return Block{Spacer: &SpacerBlock{Height: height}}
}
