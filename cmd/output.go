package cmd

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/PaesslerAG/jsonpath"
	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// outputFlags select how a command prints its report.
type outputFlags struct {
	format string
	query  string
}

func (o *outputFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&o.format, "format", "md", "Output format: md (rendered markdown), raw (plain markdown), html or json.")
	f.StringVar(&o.query, "q", "", "JSONPath query applied to the json output, e.g. '$.npv'. Implies -format json.")
}

// print writes the report, md is its markdown rendition and v its data.
func (o *outputFlags) print(w io.Writer, md string, v any) error {
	format := o.format
	if o.query != "" {
		format = "json"
	}
	switch format {
	case "md", "":
		return renderMarkdown(w, md)
	case "raw":
		_, err := io.WriteString(w, md)
		return err
	case "html":
		return markdownToHTML(w, md)
	case "json":
		return printJSON(w, v, o.query)
	default:
		return fmt.Errorf("unknown output format %q", o.format)
	}
}

func renderMarkdown(w io.Writer, md string) error {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func markdownToHTML(w io.Writer, md string) error {
	conv := goldmark.New(goldmark.WithExtensions(extension.GFM))
	return conv.Convert([]byte(md), w)
}

// printJSON writes v as indented JSON, or the result of the JSONPath query on it.
func printJSON(w io.Writer, v any, query string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if query != "" {
		var obj any
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		res, err := jsonpath.Get(query, obj)
		if err != nil {
			return fmt.Errorf("invalid query %q: %w", query, err)
		}
		if data, err = json.Marshal(res); err != nil {
			return err
		}
	}
	var b bytes.Buffer
	if err := json.Indent(&b, data, "", "  "); err != nil {
		return err
	}
	b.WriteByte('\n')
	_, err = b.WriteTo(w)
	return err
}
