package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/extkit/api"
)

// printer renders command results as text, JSON or YAML.
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) *printer {
	return &printer{w: w, format: format}
}

// print writes v in the structured formats and calls text otherwise.
func (p *printer) print(v any, text func(w io.Writer)) error {
	switch p.format {
	case outputJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	text(p.w)
	return nil
}

// table writes rows aligned in columns under header.
func table(w io.Writer, header []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	_ = tw.Flush()
}

func idsText(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ",")
}

// writeMenu renders a menu as an indented tree.
func writeMenu(w io.Writer, items []api.ActionView, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, a := range items {
		var mark string
		switch a.Style {
		case "separator":
			fmt.Fprintf(w, "%s----\n", indent)
			continue
		case "check":
			mark = "[ ]"
			if a.Checked {
				mark = "[x]"
			}
		case "radio":
			mark = "( )"
			if a.Checked {
				mark = "(*)"
			}
		case "dropdown":
			mark = ">"
		default:
			mark = "-"
		}
		line := fmt.Sprintf("%s%s %s", indent, mark, a.Label)
		if a.ID != "" {
			line += " [" + a.ID + "]"
		}
		if !a.Enabled {
			line += " (disabled)"
		}
		fmt.Fprintln(w, line)
		if len(a.Children) > 0 {
			writeMenu(w, a.Children, depth+1)
		}
	}
}
