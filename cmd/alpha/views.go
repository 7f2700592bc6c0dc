package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-alpha/internal/types"
	"github.com/rxtech-lab/argo-alpha/pkg/frame"
)

// Matrix names shown in the inspector.
const (
	MatrixPrices  = "prices"
	MatrixSigmas  = "sigmas"
	MatrixVolumes = "volumes"
	MatrixReturns = "returns"
	MatrixFactors = "factors"
)

// maxTableColumns caps the instrument columns rendered at once.
const maxTableColumns = 10

// listItem implements list.Item interface for the matrix list.
type listItem struct {
	name        string
	description string
}

func (i listItem) Title() string       { return i.name }
func (i listItem) Description() string { return i.description }
func (i listItem) FilterValue() string { return i.name }

// DatasetMatrices returns the non-empty matrices of dataset by name, in
// display order.
func DatasetMatrices(dataset *types.RealizedDataset) ([]string, map[string]*frame.Frame) {
	all := []struct {
		name  string
		frame *frame.Frame
	}{
		{MatrixPrices, dataset.Prices},
		{MatrixSigmas, dataset.Sigmas},
		{MatrixVolumes, dataset.Volumes},
		{MatrixReturns, dataset.Returns},
		{MatrixFactors, dataset.FactorReturns},
	}

	names := make([]string, 0, len(all))
	frames := make(map[string]*frame.Frame, len(all))

	for _, m := range all {
		if m.frame == nil {
			continue
		}

		names = append(names, m.name)
		frames[m.name] = m.frame
	}

	return names, frames
}

// NewMatrixList creates a new list for matrix selection.
func NewMatrixList(names []string, frames map[string]*frame.Frame) list.Model {
	items := make([]list.Item, 0, len(names))

	for _, name := range names {
		f := frames[name]
		items = append(items, listItem{
			name:        name,
			description: fmt.Sprintf("%d dates x %d columns", f.Len(), f.Width()),
		})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select Matrix"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// NewMatrixTable creates a table showing f, newest date first.
func NewMatrixTable(name string, f *frame.Frame) table.Model {
	columns := f.Columns()
	if len(columns) > maxTableColumns {
		columns = columns[:maxTableColumns]
	}

	tableColumns := make([]table.Column, 0, len(columns)+1)
	tableColumns = append(tableColumns, table.Column{Title: "Date", Width: 12})

	for _, c := range columns {
		tableColumns = append(tableColumns, table.Column{Title: c, Width: max(12, len(c)+2)})
	}

	index := f.Index()
	rows := make([]table.Row, 0, len(index))

	for r := len(index) - 1; r >= 0; r-- {
		row := table.Row{index[r].Format(time.DateOnly)}
		for _, c := range columns {
			row = append(row, FormatCell(f.At(r, c), name))
		}

		rows = append(rows, row)
	}

	t := table.New(
		table.WithColumns(tableColumns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}
