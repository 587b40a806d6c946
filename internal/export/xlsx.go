// Package export writes categorized results to spreadsheet files.
package export

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/poi-cli/internal/model"
)

// DefaultSheetName is used when the caller gives no sheet name.
const DefaultSheetName = "POI Data"

// Column maps a spreadsheet header to the tag it is sourced from. An empty
// Tag means the column carries the assigned business category.
type Column struct {
	Header string
	Tag    string
}

// DefaultColumns is the curated export column set.
var DefaultColumns = []Column{
	{Header: "business_category"},
	{Header: "name", Tag: "name"},
	{Header: "addr:street", Tag: "addr:street"},
	{Header: "addr:housenumber", Tag: "addr:housenumber"},
	{Header: "addr:postcode", Tag: "addr:postcode"},
	{Header: "website", Tag: "website"},
}

// WriteXLSX writes one sheet with one row per entity, in the given order.
// Columns whose tag is absent from every entity are dropped, so the sheet
// only carries data actually present in the result.
func WriteXLSX(w io.Writer, entities []model.CategorizedEntity, sheetName string, cols []Column) error {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	if len(cols) == 0 {
		cols = DefaultColumns
	}
	cols = presentColumns(entities, cols)

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrapf(err, "export: add sheet %q", sheetName)
	}

	header := sheet.AddRow()
	for _, col := range cols {
		header.AddCell().Value = col.Header
	}

	for _, e := range entities {
		row := sheet.AddRow()
		for _, col := range cols {
			cell := row.AddCell()
			if col.Tag == "" {
				cell.Value = e.Category
				continue
			}
			cell.Value = e.Tag(col.Tag)
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

// WriteXLSXFile writes the result to path, creating or truncating the file.
func WriteXLSXFile(path string, entities []model.CategorizedEntity, sheetName string, cols []Column) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	return WriteXLSX(f, entities, sheetName, cols)
}

// presentColumns keeps the category column plus every tag column with at
// least one non-empty value.
func presentColumns(entities []model.CategorizedEntity, cols []Column) []Column {
	out := make([]Column, 0, len(cols))
	for _, col := range cols {
		if col.Tag == "" {
			out = append(out, col)
			continue
		}
		for _, e := range entities {
			if e.Tag(col.Tag) != "" {
				out = append(out, col)
				break
			}
		}
	}
	return out
}
