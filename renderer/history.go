package renderer

import (
	"bytes"

	"github.com/StockwatchDev/stockwatch"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders the date series of portfolio totals, oldest
// first.
func HistoryMarkdown(portfolios []stockwatch.Portfolio) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio History")

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Value", "Investment", "Unrealized", "Realized"},
	}
	for _, p := range portfolios {
		table.Rows = append(table.Rows, []string{
			p.Date().String(),
			p.Value().String(),
			p.Investment().String(),
			p.Unrealized().String(),
			p.Realized().String(),
		})
	}
	doc.Table(table)

	return doc.String()
}
