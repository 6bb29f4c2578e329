package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"docsearch/internal/docsapi"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const titleWidth = 60

type renderer struct {
	w    io.Writer
	json bool
}

func newRenderer(cmd *cobra.Command, output string) renderer {
	return renderer{w: cmd.OutOrStdout(), json: output == "json"}
}

func clientFor(cmd *cobra.Command) (*cliState, *docsapi.Client, error) {
	st, err := stateFrom(cmd)
	if err != nil {
		return nil, nil, err
	}
	client, err := newClient(st)
	if err != nil {
		return nil, nil, err
	}
	return st, client, nil
}

func (r renderer) encode(value interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func (r renderer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)
	return t
}

func (r renderer) documentPage(page *docsapi.DocumentPage) error {
	if r.json {
		return r.encode(page)
	}

	if len(page.Documents) == 0 {
		_, _ = fmt.Fprintln(r.w, "(0 documents)")
		return nil
	}

	t := r.newTable()
	t.AppendHeader(table.Row{"ID", "Title", "Date", "Authors"})
	for _, doc := range page.Documents {
		t.AppendRow(table.Row{doc.ID, truncate(doc.Title, titleWidth), doc.Date, strings.Join(doc.Authors, "; ")})
	}
	t.Render()
	_, _ = fmt.Fprintf(r.w, "page %d/%d (%d documents)\n", page.Page, page.TotalPages, page.Total)
	return nil
}

func (r renderer) document(response *docsapi.DocumentResponse) error {
	if r.json {
		return r.encode(response)
	}

	doc := response.Document
	t := r.newTable()
	rows := []struct {
		label string
		value string
	}{
		{"ID", doc.ID},
		{"Title", doc.Title},
		{"URI", doc.URI},
		{"Authors", strings.Join(doc.Authors, "; ")},
		{"Date", doc.Date},
		{"Type", doc.Type},
		{"Language", doc.Language},
		{"Grade", doc.Grade},
		{"Keywords", strings.Join(doc.Keywords, "; ")},
		{"UDC subjects", strings.Join(doc.SubjectsUDC, "; ")},
		{"Fields of science", strings.Join(doc.SubjectsFOS, "; ")},
		{"Collections", strings.Join(doc.Collections, "; ")},
	}
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		t.AppendRow(table.Row{row.label, row.value})
	}
	t.Render()

	if abstract := strings.TrimSpace(doc.Abstract); abstract != "" {
		_, _ = fmt.Fprintf(r.w, "\n%s\n", abstract)
	}
	return nil
}

// scored prints ranked results; payload is what -o json emits.
func (r renderer) scored(payload interface{}, results []docsapi.ScoredDocument) error {
	if r.json {
		return r.encode(payload)
	}

	if len(results) == 0 {
		_, _ = fmt.Fprintln(r.w, "(0 results)")
		return nil
	}

	t := r.newTable()
	t.AppendHeader(table.Row{"#", "Score", "ID", "Title"})
	for idx, result := range results {
		t.AppendRow(table.Row{
			idx + 1,
			strconv.FormatFloat(result.Score, 'f', 4, 64),
			result.Document.ID,
			truncate(result.Document.Title, titleWidth),
		})
	}
	t.Render()
	return nil
}

func (r renderer) stats(stats *docsapi.Stats) error {
	if r.json {
		return r.encode(stats)
	}

	t := r.newTable()
	t.AppendRows([]table.Row{
		{"Total documents", stats.TotalDocuments},
		{"Memory cached items", stats.CacheStats.MemoryCachedItems},
		{"Disk cached items", stats.CacheStats.DiskCachedItems},
		{"Cache directory", stats.CacheStats.CacheDirectory},
	})
	t.Render()
	return nil
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}
	return string(runes[:width-3]) + "..."
}
