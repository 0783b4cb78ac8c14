package renderer

import (
	"bytes"
	"fmt"

	"github.com/StockwatchDev/stockwatch"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the aggregate figures of one reconciled
// portfolio.
func SummaryMarkdown(p stockwatch.Portfolio) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio Summary on %s", p.Date()))

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"", "Amount"},
		Rows: [][]string{
			{"Value", p.Value().String()},
			{"Investment", p.Investment().String()},
			{"Unrealized result", p.Unrealized().String()},
			{"Realized result", p.Realized().String()},
			{"Total return", p.TotalReturn().String()},
		},
	}
	doc.Table(table)

	if pct, ok := returnPercent(p); ok {
		doc.PlainText(fmt.Sprintf("Total return is %s%% of the invested amount.", pct))
	}

	return doc.String()
}
