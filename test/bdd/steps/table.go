package steps

import (
	"fmt"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
)

// columnValues returns every body cell of the named column
func columnValues(table *godog.Table, column string) ([]string, error) {
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("table has no header row")
	}
	index := -1
	for i, cell := range table.Rows[0].Cells {
		if cell.Value == column {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("table has no %q column", column)
	}

	values := make([]string, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		values = append(values, cellAt(row, index))
	}
	return values, nil
}

func cellAt(row *messages.PickleTableRow, index int) string {
	if index >= len(row.Cells) {
		return ""
	}
	return row.Cells[index].Value
}
