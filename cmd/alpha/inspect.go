package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-alpha/internal/types"
	"github.com/rxtech-lab/argo-alpha/pkg/frame"
)

// Inspector states.
const (
	StateMatrixSelect = iota
	StateMatrixDisplay
)

// InspectModel is the Bubble Tea model browsing a realized dataset.
type InspectModel struct {
	state      int
	name       string
	names      []string
	matrices   map[string]*frame.Frame
	matrixList list.Model
	dataTable  table.Model
	selected   string
	width      int
	height     int
}

// NewInspectModel creates an inspector over dataset.
func NewInspectModel(name string, dataset *types.RealizedDataset) InspectModel {
	names, matrices := DatasetMatrices(dataset)

	return InspectModel{
		state:      StateMatrixSelect,
		name:       name,
		names:      names,
		matrices:   matrices,
		matrixList: NewMatrixList(names, matrices),
		dataTable:  table.New(),
		selected:   "",
		width:      0,
		height:     0,
	}
}

// Init implements tea.Model.
func (m InspectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.state == StateMatrixDisplay {
				m.state = StateMatrixSelect
				m.selected = ""

				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.matrixList.SetSize(msg.Width, msg.Height-4)
		m.dataTable.SetWidth(msg.Width)
		m.dataTable.SetHeight(msg.Height - 6)

		return m, nil
	}

	switch m.state {
	case StateMatrixSelect:
		return m.updateMatrixSelect(msg)
	case StateMatrixDisplay:
		return m.updateMatrixDisplay(msg)
	}

	return m, nil
}

func (m InspectModel) updateMatrixSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if item, ok := m.matrixList.SelectedItem().(listItem); ok {
			m.selected = item.name
			m.dataTable = NewMatrixTable(item.name, m.matrices[item.name])

			if m.width > 0 {
				m.dataTable.SetWidth(m.width)
				m.dataTable.SetHeight(m.height - 6)
			}

			m.state = StateMatrixDisplay

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.matrixList, cmd = m.matrixList.Update(msg)

	return m, cmd
}

func (m InspectModel) updateMatrixDisplay(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.dataTable, cmd = m.dataTable.Update(msg)

	return m, cmd
}

// View implements tea.Model.
func (m InspectModel) View() string {
	var s strings.Builder

	switch m.state {
	case StateMatrixSelect:
		s.WriteString(TitleStyle.Render(fmt.Sprintf("Argo Alpha - %s", m.name)))
		s.WriteString("\n\n")

		if len(m.names) == 0 {
			s.WriteString(ErrorStyle.Render("Dataset has no matrices"))
			s.WriteString("\n")
		} else {
			s.WriteString(m.matrixList.View())
			s.WriteString("\n")
		}

		s.WriteString(HelpStyle.Render("Press Enter to select, q to quit"))

	case StateMatrixDisplay:
		f := m.matrices[m.selected]
		s.WriteString(TitleStyle.Render(fmt.Sprintf("%s - %s", m.name, m.selected)))
		s.WriteString("\n\n")
		s.WriteString(m.dataTable.View())
		s.WriteString("\n")

		help := "q: quit | Esc: back"
		if f.Width() > maxTableColumns {
			help += fmt.Sprintf(" | showing %d of %d columns", maxTableColumns, f.Width())
		}

		s.WriteString(HelpStyle.Render(help))
	}

	return s.String()
}
