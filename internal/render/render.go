// Package render writes session results for the terminal or for other
// programs.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"docsum/internal/decoder"
	"docsum/internal/session"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const summaryWidth = 72

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// Report is one finished job as shown to the user.
type Report struct {
	JobID   string          `json:"jobId"   yaml:"jobId"`
	State   string          `json:"state"   yaml:"state"`
	Results session.Results `json:"results" yaml:"results"`
}

func Write(w io.Writer, format Format, r Report) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, r)
	case FormatYAML:
		return writeYAML(w, r)
	default:
		return writeText(w, r)
	}
}

func writeJSON(w io.Writer, r Report) error {
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if _, err = w.Write(pretty.Pretty(raw)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

func writeYAML(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("close yaml encoder: %w", err)
	}

	return nil
}

func writeText(w io.Writer, r Report) error {
	res := r.Results

	var b strings.Builder

	if res.Website != "" {
		fmt.Fprintf(&b, "Website summary (%s)\n\n%s\n", res.WebsiteURL, res.Website)
		_, err := io.WriteString(w, b.String())

		return err
	}

	if len(res.Items) > 0 {
		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"#", "File", "Kind", "Size", "Summary"})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 5, WidthMax: summaryWidth, WidthMaxEnforcer: text.WrapSoft},
		})

		for i, item := range res.Items {
			t.AppendRow(table.Row{
				i + 1,
				item.SourceName,
				item.Meta.Kind,
				humanBytes(item.Meta.ByteSize),
				item.Summary,
			})
		}

		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	if item, ok := res.SelectedItem(); ok {
		fmt.Fprintf(&b, "\nSelected: %s\n\n%s\n", item.SourceName, item.Summary)
	}

	if res.Overall != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Overall summary\n\n%s\n", res.Overall)
	}

	if b.Len() == 0 {
		b.WriteString("No results.\n")
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// Capabilities lists the supported file extensions and whether each one
// can be decoded in this build.
func Capabilities(w io.Writer, caps []decoder.Capability) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Extension", "Kind", "Available"})

	for _, c := range caps {
		available := "yes"
		if !c.Available {
			available = "no"
		}
		t.AppendRow(table.Row{c.Extension, c.Kind, available})
	}

	_, err := io.WriteString(w, t.Render()+"\n")

	return err
}

func humanBytes(n int) string {
	const unit = 1024

	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := unit, 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}
