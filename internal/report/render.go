package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour/v2"
	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
)

// Output formats understood by NewRenderer.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Section titles, in the order the rankings are printed.
const (
	TitleBySize      = "Printing largest indexes by storage size"
	TitleByShards    = "Printing largest indexes by shard count"
	TitleByImbalance = "Printing least balanced indexes"
)

// Renderer writes a report to an output destination.
type Renderer interface {
	Render(rep *Report) error
}

// Options tune how a renderer presents the report.
type Options struct {
	// Color enables ANSI styling in text and markdown output.
	Color bool
	// Width is the word wrap width for rendered markdown. Zero means 80.
	Width int
	// RawMarkdown writes markdown source instead of terminal-rendered markdown.
	RawMarkdown bool
}

// NewRenderer creates a renderer for the given format writing to w.
func NewRenderer(format string, w io.Writer, opts Options) (Renderer, error) {
	switch format {
	case "", FormatText:
		return &TextRenderer{w: w, paint: painter{color: opts.Color}}, nil
	case FormatMarkdown:
		return &MarkdownRenderer{w: w, opts: opts}, nil
	case FormatJSON:
		return &JSONRenderer{w: w}, nil
	default:
		return nil, fmt.Errorf("unknown report format: %s", format)
	}
}

// Section is one ranking rendered as text.
type Section struct {
	Title string
	Body  string
}

// TextSections renders each ranking as a titled block of "Field: value" lines.
func TextSections(rep *Report, color bool) []Section {
	p := painter{color: color}

	var size strings.Builder
	for _, e := range rep.BySize {
		fmt.Fprintf(&size, "Index: %s\n", p.paint(nameStyle, e.Name))
		fmt.Fprintf(&size, "Size: %.2f GB\n", e.SizeGB)
	}

	var shards strings.Builder
	for _, e := range rep.ByShards {
		fmt.Fprintf(&shards, "Index: %s\n", p.paint(nameStyle, e.Name))
		fmt.Fprintf(&shards, "Shards: %d\n", e.Shards)
	}

	var imbalance strings.Builder
	for _, e := range rep.ByImbalance {
		fmt.Fprintf(&imbalance, "Index: %s\n", p.paint(nameStyle, e.Name))
		fmt.Fprintf(&imbalance, "Size: %.2f GB\n", e.SizeGB)
		fmt.Fprintf(&imbalance, "Shards: %d\n", e.Shards)
		fmt.Fprintf(&imbalance, "Balance Ratio: %d\n", e.CurrentRatio)
		fmt.Fprintf(&imbalance, "Recommended Shard count is %d\n", e.RecommendedShards)
	}
	if rep.SkippedZeroShard > 0 {
		imbalance.WriteString(p.paint(noteStyle, fmt.Sprintf("(%d records with zero shards skipped)", rep.SkippedZeroShard)))
		imbalance.WriteString("\n")
	}

	return []Section{
		{Title: TitleBySize, Body: size.String()},
		{Title: TitleByShards, Body: shards.String()},
		{Title: TitleByImbalance, Body: imbalance.String()},
	}
}

// Summary is the one-line footer describing the input.
func Summary(rep *Report) string {
	return fmt.Sprintf("%s records, %s of primary storage",
		humanize.Comma(int64(rep.Records)), humanize.Bytes(uint64(max(rep.TotalBytes, 0))))
}

// TextRenderer prints the console layout: a heading per ranking followed by
// one block of lines per index, and a blank line after each ranking.
type TextRenderer struct {
	w     io.Writer
	paint painter
}

func (r *TextRenderer) Render(rep *Report) error {
	var sb strings.Builder
	for _, s := range TextSections(rep, r.paint.color) {
		sb.WriteString(r.paint.paint(headingStyle, s.Title))
		sb.WriteString("\n")
		sb.WriteString(s.Body)
		sb.WriteString("\n")
	}
	sb.WriteString(r.paint.paint(noteStyle, Summary(rep)))
	sb.WriteString("\n")

	_, err := io.WriteString(r.w, sb.String())
	return err
}

// MarkdownRenderer prints each ranking as a markdown table.
type MarkdownRenderer struct {
	w    io.Writer
	opts Options
}

// Markdown returns the report as markdown source.
func Markdown(rep *Report) string {
	var sb strings.Builder

	sb.WriteString("## Largest indexes by storage size\n\n")
	sb.WriteString("| # | Index | Size (GB) |\n|---|---|---|\n")
	for i, e := range rep.BySize {
		fmt.Fprintf(&sb, "| %d | %s | %.2f |\n", i+1, e.Name, e.SizeGB)
	}

	sb.WriteString("\n## Largest indexes by shard count\n\n")
	sb.WriteString("| # | Index | Shards |\n|---|---|---|\n")
	for i, e := range rep.ByShards {
		fmt.Fprintf(&sb, "| %d | %s | %d |\n", i+1, e.Name, e.Shards)
	}

	sb.WriteString("\n## Least balanced indexes\n\n")
	sb.WriteString("| # | Index | Size (GB) | Shards | Ratio | Recommended |\n|---|---|---|---|---|---|\n")
	for i, e := range rep.ByImbalance {
		fmt.Fprintf(&sb, "| %d | %s | %.2f | %d | %d | %d |\n",
			i+1, e.Name, e.SizeGB, e.Shards, e.CurrentRatio, e.RecommendedShards)
	}
	if rep.SkippedZeroShard > 0 {
		fmt.Fprintf(&sb, "\n_%d records with zero shards skipped._\n", rep.SkippedZeroShard)
	}

	fmt.Fprintf(&sb, "\n%s\n", Summary(rep))
	return sb.String()
}

func (r *MarkdownRenderer) Render(rep *Report) error {
	md := Markdown(rep)
	if r.opts.RawMarkdown {
		_, err := io.WriteString(r.w, md)
		return err
	}

	width := r.opts.Width
	if width <= 0 {
		width = 80
	}
	style := "notty"
	if r.opts.Color {
		style = "dark"
	}

	tr, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := tr.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(r.w, out)
	return err
}

// JSONRenderer prints the report as an indented JSON document.
type JSONRenderer struct {
	w io.Writer
}

func (r *JSONRenderer) Render(rep *Report) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')
	_, err = r.w.Write(data)
	return err
}
