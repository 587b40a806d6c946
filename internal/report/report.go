// Package report renders categorized results for the terminal: category
// frequency counts and a bounded preview table.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sells-group/poi-cli/internal/model"
)

// CategoryCount is one row of the frequency breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Frequencies counts entities per category, sorted by count descending.
// Ties are ordered by collated category name so output is stable.
func Frequencies(entities []model.CategorizedEntity) []CategoryCount {
	counts := make(map[string]int)
	for _, e := range entities {
		counts[e.Category]++
	}

	out := make([]CategoryCount, 0, len(counts))
	for cat, n := range counts {
		out = append(out, CategoryCount{Category: cat, Count: n})
	}

	c := collate.New(language.English)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return c.CompareString(out[i].Category, out[j].Category) < 0
	})
	return out
}

// Top returns the first n frequency rows.
func Top(freqs []CategoryCount, n int) []CategoryCount {
	if n < 0 || n > len(freqs) {
		n = len(freqs)
	}
	return freqs[:n]
}

// WriteSummary writes the run header and top-N category breakdown.
func WriteSummary(w io.Writer, rs *model.ResultSet, topN int) {
	fmt.Fprintf(w, "Total business entities found: %d\n", rs.Count())
	if rs.Count() == 0 {
		fmt.Fprintln(w, "No data found for this location/radius.")
		return
	}

	fmt.Fprintf(w, "\nTop %d business categories:\n", topN)
	for _, fc := range Top(Frequencies(rs.Entities), topN) {
		fmt.Fprintf(w, "  %-40s %d\n", fc.Category, fc.Count)
	}
}

// previewHeaders are the preview table columns and the tags backing them.
var previewHeaders = []struct {
	header string
	tag    string
}{
	{"Name", "name"},
	{"Street", "addr:street"},
	{"No.", "addr:housenumber"},
	{"Postcode", "addr:postcode"},
	{"Website", "website"},
}

// WritePreview renders the first limit entities as a table.
func WritePreview(w io.Writer, entities []model.CategorizedEntity, limit int) {
	if len(entities) == 0 {
		return
	}
	if limit < 0 || limit > len(entities) {
		limit = len(entities)
	}

	table := tablewriter.NewWriter(w)
	headers := []string{"Category"}
	for _, h := range previewHeaders {
		headers = append(headers, h.header)
	}
	headers = append(headers, "Dist (m)")
	table.SetHeader(headers)
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, e := range entities[:limit] {
		row := []string{e.Category}
		for _, h := range previewHeaders {
			row = append(row, e.Tag(h.tag))
		}
		dist := ""
		if e.DistanceM >= 0 {
			dist = strconv.FormatFloat(e.DistanceM, 'f', 0, 64)
		}
		row = append(row, dist)
		table.Append(row)
	}
	table.Render()
}
