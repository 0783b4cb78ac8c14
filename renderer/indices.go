package renderer

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"github.com/StockwatchDev/stockwatch"
	md "github.com/nao1215/markdown"
)

// IndicesMarkdown renders, next to the actual portfolio result, what the
// same cash flows would have returned when invested in each reference
// index instead.
func IndicesMarkdown(actual []stockwatch.Portfolio, indices map[string][]stockwatch.Position) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Index Comparison")

	if len(actual) > 0 {
		latest := actual[len(actual)-1]
		comparison := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"", "Value", "Investment", "Total return"},
			Rows: [][]string{{
				"Portfolio",
				latest.Value().String(),
				latest.Investment().String(),
				latest.TotalReturn().String(),
			}},
		}
		for _, name := range slices.Sorted(maps.Keys(indices)) {
			series := indices[name]
			if len(series) == 0 {
				continue
			}
			last := series[len(series)-1]
			comparison.Rows = append(comparison.Rows, []string{
				last.Name,
				last.Value.String(),
				last.Investment.String(),
				last.TotalReturn().String(),
			})
		}
		doc.Table(comparison)
	}

	for _, name := range slices.Sorted(maps.Keys(indices)) {
		series := indices[name]
		if len(series) == 0 {
			continue
		}
		doc.H2(fmt.Sprintf("As if invested in %s", series[0].Name))
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"Date", "Units", "Price", "Value", "Total return"},
		}
		for _, pos := range series {
			table.Rows = append(table.Rows, []string{
				pos.Date.String(),
				pos.Quantity.Round(4).String(),
				pos.Price.String(),
				pos.Value.String(),
				pos.TotalReturn().String(),
			})
		}
		doc.Table(table)
	}

	return doc.String()
}
