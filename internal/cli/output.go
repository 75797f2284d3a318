package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"quiver/internal/api"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// OutputFormat selects how results are rendered.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// ParseOutputFormat validates a --output value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use table, json or yaml)", s)
	}
}

// Printer renders command results.
type Printer struct {
	out       io.Writer
	format    OutputFormat
	noHeaders bool
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer, format OutputFormat, noHeaders bool) *Printer {
	return &Printer{out: out, format: format, noHeaders: noHeaders}
}

// Table is the table rendering of a result.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Print writes data as JSON or YAML, or renders tbl in table mode.
func (p *Printer) Print(data any, tbl Table) error {
	switch p.format {
	case FormatJSON:
		return p.printJSON(data)
	case FormatYAML:
		return p.printYAML(data)
	}

	if len(tbl.Rows) == 0 {
		fmt.Fprintln(p.out, text.FgYellow.Sprint("No items found"))
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleRounded)
	if !p.noHeaders {
		header := make(table.Row, len(tbl.Headers))
		for i, h := range tbl.Headers {
			header[i] = text.FgHiCyan.Sprint(strings.ToUpper(h))
		}
		t.AppendHeader(header)
	}
	for _, row := range tbl.Rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		t.AppendRow(r)
	}
	t.Render()
	return nil
}

// PrintValue writes a single command result. Strings are printed as-is in
// table mode.
func (p *Printer) PrintValue(v any) error {
	switch p.format {
	case FormatJSON:
		return p.printJSON(v)
	case FormatYAML:
		return p.printYAML(v)
	}
	if s, ok := v.(string); ok {
		fmt.Fprintln(p.out, s)
		return nil
	}
	return p.printJSON(v)
}

func (p *Printer) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(p.out, string(data))
	return err
}

// printYAML goes through JSON so ordered parameter maps and json tags are
// honored, then re-emits the document in block style.
func (p *Printer) printYAML(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	blockStyle(&node)
	out, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	_, err = p.out.Write(out)
	return err
}

func blockStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle
	if n.Kind == yaml.ScalarNode && n.Style&yaml.DoubleQuotedStyle != 0 && n.Tag == "!!str" {
		n.Style &^= yaml.DoubleQuotedStyle
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// FormatParams renders a parameter table as "name=default" pairs, with
// required parameters shown bare.
func FormatParams(params *api.Params) string {
	if params == nil {
		return ""
	}
	var parts []string
	for pair := params.Oldest(); pair != nil; pair = pair.Next() {
		switch v := pair.Value.(type) {
		case string:
			if v == "" {
				parts = append(parts, pair.Key)
				continue
			}
			parts = append(parts, fmt.Sprintf("%s=%q", pair.Key, v))
		case nil:
			parts = append(parts, pair.Key+"=null")
		default:
			parts = append(parts, fmt.Sprintf("%s=%v", pair.Key, v))
		}
	}
	return strings.Join(parts, ", ")
}
