// Package report prints the dashboard and resume views as text tables.
package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"gofinances/internal/core"
)

const noData = "-"

type Writer struct {
	out io.Writer
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w.out)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}

// Highlights prints the three summary cards. A type without records shows a
// dash instead of a date.
func (w *Writer) Highlights(h core.Highlights) {
	table := w.newTable("Resumo", "Valor", "Última transação")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})
	table.Append([]string{"Entradas", h.Entries.AmountFormatted, lastOrDash(h.Entries)})
	table.Append([]string{"Saídas", h.Expenses.AmountFormatted, lastOrDash(h.Expenses)})
	table.Append([]string{"Total", h.Total.AmountFormatted, noData})
	table.Render()
}

func lastOrDash(h core.Highlight) string {
	if !h.HasLastTransaction() {
		return noData
	}
	return h.LastTransactionFormatted
}

// Listing prints every record, expenses with a leading minus sign.
func (w *Writer) Listing(items []core.ListedTransaction) {
	table := w.newTable("Data", "Nome", "Categoria", "Valor")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	for _, it := range items {
		amount := it.AmountFormatted
		if it.Type == core.Expense {
			amount = "- " + amount
		}
		table.Append([]string{it.DateFormatted, it.Name, it.CategoryInfo.Name, amount})
	}
	table.Render()
}

// Breakdown prints the category totals of one month under its label.
func (w *Writer) Breakdown(label string, totals []core.CategoryTotal) {
	fmt.Fprintf(w.out, "%s\n", label)
	if len(totals) == 0 {
		fmt.Fprintln(w.out, "Nenhuma saída registrada neste mês.")
		return
	}
	table := w.newTable("Categoria", "Total", "%")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	for _, t := range totals {
		table.Append([]string{t.Name, t.TotalFormatted, t.PercentFormatted})
	}
	table.Render()
}
