package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgtree/pkg/hierarchy"
	"github.com/matzehuels/orgtree/pkg/pipeline"
	"github.com/matzehuels/orgtree/pkg/render/outline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listWarnStyle     = lipgloss.NewStyle().Foreground(colorYellow)
)

// browseCommand creates the interactive tree browser.
func (c *CLI) browseCommand() *cobra.Command {
	var includeInactive, noCache bool

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Browse the organization tree interactively",
		Long: `Browse the organization tree in the terminal. Nodes can be expanded and
collapsed, and the selected position's attributes are shown below the tree.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var input string
			if len(args) == 1 {
				input = args[0]
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			loader, closeLoader, err := newLoader(ctx, cfg, input, c.Logger)
			if err != nil {
				return err
			}
			defer closeLoader()

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Loading "+loader.Name()+"...")
			spinner.Start()
			doc, err := runner.Load(ctx, loader)
			if err != nil {
				spinner.StopWithError("Could not load " + loader.Name())
				return err
			}
			res, _, _ := runner.BuildWithCacheInfo(ctx, doc, pipeline.Options{
				IncludeInactive: includeInactive,
				Logger:          c.Logger,
			})
			spinner.StopWithSuccess(fmt.Sprintf("Loaded %d positions", res.Stats.Positions))

			if len(res.Tree) == 0 {
				ui{w: cmd.ErrOrStderr()}.warning("No relationships: nothing to browse")
				return nil
			}

			_, err = tea.NewProgram(newTreeModel(res), tea.WithContext(ctx), tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&includeInactive, "inactive", false, "include inactive positions and relationships")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// =============================================================================
// treeModel - Interactive hierarchy browser
// =============================================================================

// treeRow is one visible line of the browser.
type treeRow struct {
	node  *hierarchy.TreeNode
	depth int
	key   string
}

// treeModel is the bubbletea model for browsing a built hierarchy.
type treeModel struct {
	result    hierarchy.Result
	collapsed map[string]bool
	rows      []treeRow
	cursor    int
	offset    int
	height    int
}

// newTreeModel starts with the first two levels below the virtual root open.
func newTreeModel(res hierarchy.Result) treeModel {
	m := treeModel{result: res, collapsed: map[string]bool{}, height: 15}
	var collapse func(nodes []hierarchy.TreeNode, prefix string, depth int)
	collapse = func(nodes []hierarchy.TreeNode, prefix string, depth int) {
		for i := range nodes {
			key := prefix + strconv.Itoa(i)
			if depth >= 2 && len(nodes[i].Children) > 0 {
				m.collapsed[key] = true
			}
			collapse(nodes[i].Children, key+"/", depth+1)
		}
	}
	collapse(m.result.Tree, "", 0)
	m.rows = m.visibleRows()
	return m
}

// visibleRows flattens the forest, skipping children of collapsed nodes.
func (m treeModel) visibleRows() []treeRow {
	var rows []treeRow
	var walk func(nodes []hierarchy.TreeNode, prefix string, depth int)
	walk = func(nodes []hierarchy.TreeNode, prefix string, depth int) {
		for i := range nodes {
			key := prefix + strconv.Itoa(i)
			rows = append(rows, treeRow{node: &nodes[i], depth: depth, key: key})
			if !m.collapsed[key] {
				walk(nodes[i].Children, key+"/", depth+1)
			}
		}
	}
	walk(m.result.Tree, "", 0)
	return rows
}

func (m treeModel) Init() tea.Cmd {
	return nil
}

func (m treeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "enter", " ":
			m.toggle(!m.collapsed[m.rows[m.cursor].key])
		case "right", "l":
			m.toggle(false)
		case "left", "h":
			row := m.rows[m.cursor]
			if len(row.node.Children) > 0 && !m.collapsed[row.key] {
				m.toggle(true)
			} else if i := strings.LastIndex(row.key, "/"); i >= 0 {
				m.moveTo(row.key[:i])
			}
		case "E":
			m.collapsed = map[string]bool{}
			m.rows = m.visibleRows()
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 12
		if m.height < 5 {
			m.height = 5
		}
	}
	m.scroll()
	return m, nil
}

// toggle collapses or expands the node under the cursor.
func (m *treeModel) toggle(collapse bool) {
	row := m.rows[m.cursor]
	if len(row.node.Children) == 0 {
		return
	}
	if collapse {
		m.collapsed[row.key] = true
	} else {
		delete(m.collapsed, row.key)
	}
	m.rows = m.visibleRows()
}

func (m *treeModel) moveTo(key string) {
	for i, r := range m.rows {
		if r.key == key {
			m.cursor = i
			return
		}
	}
}

func (m *treeModel) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m treeModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Organization"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ toggle  ←/→ collapse/expand  E expand all  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.rows))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.details())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.rows))))
	return b.String()
}

func (m treeModel) renderRow(i int) string {
	row := m.rows[i]
	marker := "  "
	switch {
	case len(row.node.Children) == 0:
	case m.collapsed[row.key]:
		marker = "▸ "
	default:
		marker = "▾ "
	}

	label := outline.Label(*row.node, false)
	if m.collapsed[row.key] {
		label += listDimStyle.Render(fmt.Sprintf(" (%d)", countNodes(row.node.Children)))
	}

	style := listNormalStyle
	switch {
	case i == m.cursor:
		style = listSelectedStyle
	case row.node.IsCycleMarker(), row.node.IsIsolatedCycleRoot():
		style = listWarnStyle
	case row.node.IsVirtualRoot(), row.node.IsInactive():
		style = listDimStyle
	}

	cursor := "  "
	if i == m.cursor {
		cursor = "› "
	}
	return cursor + strings.Repeat("  ", row.depth) + marker + style.Render(label)
}

// details renders the attributes of the selected node as a table.
func (m treeModel) details() string {
	if len(m.rows) == 0 {
		return ""
	}
	n := m.rows[m.cursor].node

	keys := make([]string, 0, len(n.Attributes))
	for k := range n.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := [][]string{{"Name", n.Name}}
	for _, k := range keys {
		rows = append(rows, []string{k, fmt.Sprint(n.Attributes[k])})
	}
	rows = append(rows, []string{"Reports", strconv.Itoa(len(n.Children))})

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true).PaddingRight(1)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

func countNodes(nodes []hierarchy.TreeNode) int {
	n := 0
	hierarchy.Walk(nodes, func(*hierarchy.TreeNode, int) { n++ })
	return n
}
