package renderer

import (
	"bytes"
	"fmt"

	"github.com/StockwatchDev/stockwatch"
	md "github.com/nao1215/markdown"
)

// PositionsMarkdown renders the per-instrument detail of one reconciled
// portfolio. Instruments that were sold before this date keep a row as
// long as they still carry a realized result.
func PositionsMarkdown(p stockwatch.Portfolio) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Positions on %s", p.Date()))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"ISIN", "Name", "Quantity", "Price", "Value", "Investment", "Unrealized", "Realized"},
	}
	for _, pos := range p.Positions() {
		if pos.Value.IsZero() && pos.Investment.IsZero() && pos.Realized.IsZero() {
			// Back-filled placeholder, nothing to report.
			continue
		}
		table.Rows = append(table.Rows, []string{
			pos.ISIN,
			pos.Name,
			pos.Quantity.String(),
			pos.Price.String(),
			pos.Value.String(),
			pos.Investment.String(),
			pos.Unrealized().String(),
			pos.Realized.String(),
		})
	}
	doc.Table(table)

	return doc.String()
}
