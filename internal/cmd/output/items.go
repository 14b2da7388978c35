package output

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/wishlist/pkg/items"
)

// ItemsToTableData converts items to table rows. Wide adds the store,
// category and variant details.
func ItemsToTableData(list []items.Item, wide bool) Data {
	title := cases.Title(language.English)

	headers := []string{"ID", "Name", "Kind", "Type", "Price"}
	align := []tw.Align{tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignRight}
	if wide {
		headers = append(headers, "Store", "Category", "Details")
		align = append(align, tw.AlignLeft, tw.AlignLeft, tw.AlignLeft)
	}

	rows := make([][]string, 0, len(list))
	for _, it := range list {
		row := []string{
			it.ID,
			it.Name,
			title.String(it.Kind().String()),
			title.String(it.Type.Label()),
			it.Price,
		}
		if wide {
			row = append(row, it.StoreSlug, it.Category, details(it))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// details summarizes the variant specific fields.
func details(it items.Item) string {
	var parts []string
	if p := it.Product; p != nil {
		if p.RentalTerms != nil && p.RentalTerms.MinDuration != "" {
			parts = append(parts, "min "+p.RentalTerms.MinDuration)
		}
		if p.PreparationTime != "" {
			parts = append(parts, "prep "+p.PreparationTime)
		}
	}
	if s := it.Service; s != nil {
		if s.Duration != "" {
			parts = append(parts, s.Duration)
		}
		if s.Location != "" {
			parts = append(parts, s.Location)
		}
	}
	return strings.Join(parts, ", ")
}

// FormatItems writes items in the requested format.
func FormatItems(w io.Writer, list []items.Item, format Format) error {
	if list == nil {
		list = []items.Item{}
	}
	var data any = list
	if format.IsTable() {
		data = ItemsToTableData(list, format == FormatWide)
	}
	return NewFormatter(format).Format(w, data)
}
