// Package tui implements the interactive preview: a spreadsheet-like view
// of original → proposed names with apply, undo and redo driven by key
// presses, and live rescanning when the directory changes on disk.
package tui

import (
	"context"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"

	"simplerename/internal/config"
	"simplerename/internal/engine"
	"simplerename/internal/executor"
	"simplerename/internal/history"
	"simplerename/internal/rule"
	"simplerename/internal/scan"

	"github.com/Digital-Shane/treeview"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Cached base styles (applied with dynamic Width each render) to avoid
// re-allocating identical style pipelines on every View call.
var (
	headerStyleBase = lipgloss.NewStyle().
			Bold(true).
			Background(colorPrimary).
			Foreground(colorBackground).
			Align(lipgloss.Center)

	statusStyleBase = lipgloss.NewStyle().
			Background(colorSecondary).
			Foreground(colorBackground).
			Padding(0, 1)
)

// ApplyCompleteMsg is emitted when a commit finishes.
type ApplyCompleteMsg struct {
	Batch    *history.Batch
	Failures []executor.Failure
}

// UndoCompleteMsg is emitted after an undo or redo replay.
type UndoCompleteMsg struct {
	Redo     bool
	Count    int
	Failures []executor.Failure
}

// applyStepMsg schedules the next commit step.
type applyStepMsg struct{}

// fsChangedMsg signals that the watched directory changed externally.
type fsChangedMsg struct{}

// Options carries the per-invocation settings that must stay identical
// between preview and commit: the effective overwrite policy and the include
// filter used for rescans.
type Options struct {
	Overwrite bool
	Include   string
}

// PreviewModel wraps the treeview TUI model with rename preview state.
type PreviewModel struct {
	*treeview.TuiTreeModel[treeview.FileInfo]

	dir       string
	rules     []rule.Rule
	cfg       *config.Config
	hist      *history.History
	entries   []*engine.FileEntry
	watcher   *scan.Watcher
	scanOpt   scan.Options
	overwrite bool

	width  int
	height int

	treeWidth   int
	treeHeight  int
	statsWidth  int
	statsHeight int

	applying        bool
	commit          *executor.Progress
	progressModel   progress.Model
	progressVisible bool
	successCount    int
	errorCount      int
	failures        []executor.Failure

	lastUndo *UndoCompleteMsg
	errMsg   string

	statsViewport viewport.Model
	statsFocused  bool
	statsDirty    bool
	statsCache    statistics
}

// NewPreviewModel builds the preview over already previewed entries. opts
// must match the options the preview was computed with, so that commit and
// rescan see the same world the preview did.
func NewPreviewModel(dir string, entries []*engine.FileEntry, rules []rule.Rule, cfg *config.Config, hist *history.History, opts Options) *PreviewModel {
	m := &PreviewModel{
		dir:        dir,
		rules:      rules,
		cfg:        cfg,
		hist:       hist,
		entries:    entries,
		scanOpt:    scan.Options{Ignore: cfg.IgnorePatterns, Include: opts.Include},
		overwrite:  opts.Overwrite,
		width:      80,
		height:     24,
		statsDirty: true,
	}
	runewidth.DefaultCondition.EastAsianWidth = false

	m.progressModel = progress.New(progress.WithGradient(string(colorPrimary), string(colorAccent)))
	m.progressModel.Width = 40
	m.calculateLayout()

	m.statsViewport = viewport.New(m.statsWidth, m.statsHeight)
	m.statsViewport.Style = lipgloss.NewStyle()

	m.TuiTreeModel = m.createSizedTuiModel(buildTree(entries))

	if w, err := scan.Watch(dir); err == nil {
		m.watcher = w
	}
	return m
}

// Entries exposes the current preview rows, mainly for tests.
func (m *PreviewModel) Entries() []*engine.FileEntry { return m.entries }

// buildTree creates one leaf node per entry with the entry attached.
func buildTree(entries []*engine.FileEntry) *treeview.Tree[treeview.FileInfo] {
	nodes := make([]*treeview.Node[treeview.FileInfo], 0, len(entries))
	for _, e := range entries {
		info, err := os.Stat(e.Path)
		if err != nil {
			continue
		}
		node := treeview.NewNodeSimple(e.Name, treeview.FileInfo{FileInfo: info, Path: e.Path})
		attachEntry(node, e)
		nodes = append(nodes, node)
	}
	return treeview.NewTree(nodes,
		treeview.WithExpandAll[treeview.FileInfo](),
		treeview.WithProvider(newPreviewProvider()),
	)
}

// calculateLayout recomputes panel dimensions from current window size.
func (m *PreviewModel) calculateLayout() {
	tw := m.width * 6 / 10
	// header + blank + blank + status bar
	th := m.height - 4
	if th < 5 {
		th = 5
	}
	m.treeWidth = tw
	m.treeHeight = th
	m.statsWidth = m.width - tw
	m.statsHeight = th
	if m.statsHeight < 1 {
		m.statsHeight = 1
	}

	if m.statsViewport.Width > 0 || m.statsViewport.Height > 0 {
		// Border (2) + padding (2) on both axes.
		vw := m.statsWidth - 4
		vh := m.statsHeight - 4
		if vw < 1 {
			vw = 1
		}
		if vh < 1 {
			vh = 1
		}
		m.statsViewport.Width = vw
		m.statsViewport.Height = vh
	}
}

// createSizedTuiModel builds a tree model sized to current dimensions with
// search and reset disabled.
func (m *PreviewModel) createSizedTuiModel(tree *treeview.Tree[treeview.FileInfo]) *treeview.TuiTreeModel[treeview.FileInfo] {
	keyMap := treeview.DefaultKeyMap()
	keyMap.SearchStart = []string{}
	keyMap.Reset = []string{}

	return treeview.NewTuiTreeModel(tree,
		treeview.WithTuiWidth[treeview.FileInfo](m.treeWidth),
		treeview.WithTuiHeight[treeview.FileInfo](m.treeHeight),
		treeview.WithTuiAllowResize[treeview.FileInfo](true),
		treeview.WithTuiDisableNavBar[treeview.FileInfo](true),
		treeview.WithTuiKeyMap[treeview.FileInfo](keyMap),
	)
}

// Init initializes the embedded tree model and starts watching for external
// directory changes.
func (m *PreviewModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.TuiTreeModel.Init(), tea.WindowSize()}
	if m.watcher != nil {
		cmds = append(cmds, m.waitForChange())
	}
	return tea.Batch(cmds...)
}

// Update handles Bubble Tea messages.
func (m *PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.calculateLayout()
		internalMsg := tea.WindowSizeMsg{Width: m.treeWidth, Height: m.treeHeight}
		updated, cmd := m.TuiTreeModel.Update(internalMsg)
		if tm, ok := updated.(*treeview.TuiTreeModel[treeview.FileInfo]); ok {
			m.TuiTreeModel = tm
		}
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			if m.watcher != nil {
				m.watcher.Close()
			}
			return m, tea.Quit
		case "tab":
			m.statsFocused = !m.statsFocused
			return m, nil
		case "d":
			if !m.applying {
				if focused := m.Tree.GetFocusedNode(); focused != nil {
					m.Tree.Move(context.Background(), -1)
					m.excludeNode(focused)
					m.statsDirty = true
				}
			}
			return m, nil
		case "r":
			if !m.applying && len(engine.Pending(m.entries)) > 0 {
				m.applying = true
				m.progressVisible = true
				m.lastUndo = nil
				m.commit = executor.Begin(m.entries, executor.Options{
					Overwrite:     m.overwrite,
					CreateBackups: m.cfg.CreateBackup,
				})
				return m, m.performApply()
			}
		case "u":
			if !m.applying && m.hist.CanUndo() {
				m.progressVisible = true
				return m, m.performUndo(false)
			}
		case "U":
			if !m.applying && m.hist.CanRedo() {
				m.progressVisible = true
				return m, m.performUndo(true)
			}
		case "up":
			if m.statsFocused {
				m.statsViewport.ScrollUp(1)
				return m, nil
			}
		case "down":
			if m.statsFocused {
				m.statsViewport.ScrollDown(1)
				return m, nil
			}
		}

	case applyStepMsg:
		var pct float64
		if m.commit.Total() > 0 {
			pct = math.Min(float64(m.commit.Completed())/float64(m.commit.Total()), 1)
		}
		m.statsDirty = true
		return m, tea.Batch(m.progressModel.SetPercent(pct), m.performApply())

	case ApplyCompleteMsg:
		m.applying = false
		m.progressVisible = false
		m.failures = msg.Failures
		m.errorCount = len(msg.Failures)
		m.successCount = len(msg.Batch.Pairs)
		m.statsDirty = true
		if !msg.Batch.Empty() {
			m.hist.Record(msg.Batch)
			if err := m.hist.Save(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save history: %v\n", err)
			}
		}
		return m, nil

	case UndoCompleteMsg:
		m.progressVisible = false
		m.lastUndo = &msg
		if err := m.hist.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to save history: %v\n", err)
		}
		m.rescan()
		return m, nil

	case fsChangedMsg:
		if !m.applying {
			m.rescan()
		}
		return m, m.waitForChange()

	case progress.FrameMsg:
		pm, cmd := m.progressModel.Update(msg)
		m.progressModel = pm.(progress.Model)
		return m, cmd
	}

	updated, cmd := m.TuiTreeModel.Update(msg)
	if tm, ok := updated.(*treeview.TuiTreeModel[treeview.FileInfo]); ok {
		m.TuiTreeModel = tm
	}
	return m, cmd
}

// performApply processes one commit step per Bubble Tea cycle so progress
// renders between operations.
func (m *PreviewModel) performApply() tea.Cmd {
	return func() tea.Msg {
		if m.commit.Done() {
			batch, failures := m.commit.Finish()
			return ApplyCompleteMsg{Batch: batch, Failures: failures}
		}
		m.commit.Step()
		return applyStepMsg{}
	}
}

// performUndo replays the nearest batch backwards (or forwards for redo).
// The cursor moves regardless of per-entry failures.
func (m *PreviewModel) performUndo(redo bool) tea.Cmd {
	return func() tea.Msg {
		var batch *history.Batch
		var ok bool
		if redo {
			batch, ok = m.hist.Redo()
		} else {
			batch, ok = m.hist.Undo()
		}
		if !ok {
			return UndoCompleteMsg{Redo: redo}
		}
		var failures []executor.Failure
		if redo {
			failures = executor.Reapply(batch)
		} else {
			failures = executor.Revert(batch)
		}
		return UndoCompleteMsg{
			Redo:     redo,
			Count:    len(batch.Pairs) - len(failures),
			Failures: failures,
		}
	}
}

// waitForChange blocks until the watcher reports a directory change.
func (m *PreviewModel) waitForChange() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-m.watcher.Changes(); !ok {
			return nil
		}
		return fsChangedMsg{}
	}
}

// rescan reloads the directory, recomputes the preview and rebuilds the
// grid. A rule set that became invalid is surfaced in the status bar.
func (m *PreviewModel) rescan() {
	entries, err := scan.Directory(m.dir, m.scanOpt)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	if err := engine.Preview(entries, m.rules, engine.Options{
		Overwrite:         m.overwrite,
		PreserveExtension: m.cfg.PreserveExtension,
	}); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.entries = entries
	m.TuiTreeModel = m.createSizedTuiModel(buildTree(entries))
	m.statsDirty = true
}

// excludeNode drops a row from the preview so it is not committed, then
// recomputes the preview over the remaining rows: duplicate conflicts may
// resolve once one side is gone, and numbering follows the visible order.
func (m *PreviewModel) excludeNode(node *treeview.Node[treeview.FileInfo]) {
	if e := entryFor(node); e != nil {
		m.entries = slices.DeleteFunc(slices.Clone(m.entries), func(x *engine.FileEntry) bool {
			return x == e
		})
	}
	roots := slices.Clone(m.Tree.Nodes())
	roots = slices.DeleteFunc(roots, func(n *treeview.Node[treeview.FileInfo]) bool {
		return n == node
	})
	m.Tree.SetNodes(roots)

	if err := engine.Preview(m.entries, m.rules, engine.Options{
		Overwrite:         m.overwrite,
		PreserveExtension: m.cfg.PreserveExtension,
	}); err != nil {
		m.errMsg = err.Error()
	}
}

// View renders header, tree+stats layout and the status bar.
func (m *PreviewModel) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(m.renderTwoPanelLayout())
	b.WriteByte('\n')
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m *PreviewModel) renderHeader() string {
	title := fmt.Sprintf("Rename Preview - %s", m.dir)
	if len(m.rules) > 0 {
		parts := make([]string, len(m.rules))
		for i, r := range m.rules {
			parts[i] = r.Describe()
		}
		title = fmt.Sprintf("%s │ %s", title, strings.Join(parts, ", "))
	}
	return headerStyleBase.Width(m.width).Render(runewidth.Truncate(title, m.width, "…"))
}

func (m *PreviewModel) renderStatusBar() string {
	if m.errMsg != "" {
		errStyle := lipgloss.NewStyle().
			Background(colorError).
			Foreground(colorBackground).
			Padding(0, 1)
		return errStyle.Width(m.width).Render(runewidth.Truncate("Error: "+m.errMsg, m.width-2, "…"))
	}

	if m.progressVisible && m.applying {
		bar := m.progressModel.View()
		textStyle := lipgloss.NewStyle().
			Background(colorSecondary).
			Foreground(colorBackground).
			Padding(0, 1)
		statusText := textStyle.Render(fmt.Sprintf("%d/%d - Renaming...", m.commit.Completed(), m.commit.Total()))
		return statusStyleBase.Width(m.width - 1).Render(fmt.Sprintf("%s  %s", bar, statusText))
	}

	undoInfo := ""
	switch {
	case m.lastUndo != nil && m.lastUndo.Redo:
		undoInfo = fmt.Sprintf("Redo: %d reapplied, %d failed  │  ", m.lastUndo.Count, len(m.lastUndo.Failures))
	case m.lastUndo != nil:
		undoInfo = fmt.Sprintf("Undo: %d reversed, %d failed  │  ", m.lastUndo.Count, len(m.lastUndo.Failures))
	case m.hist.CanUndo():
		undoInfo = "u: Undo  │  "
	}
	if m.hist.CanRedo() {
		undoInfo += "U: Redo  │  "
	}

	statusText := fmt.Sprintf("↑↓: Navigate  │  r: Rename  │  %sd: Exclude  │  Tab: Stats  │  Esc: Quit", undoInfo)
	return statusStyleBase.Width(m.width - 1).Render(statusText)
}

func (m *PreviewModel) renderTwoPanelLayout() string {
	statsPanel := m.renderStatsPanel()
	treeView := m.TuiTreeModel.View()

	treeContainer := lipgloss.NewStyle().
		Width(m.treeWidth).
		MaxWidth(m.treeWidth).
		Render(treeView)

	return lipgloss.JoinHorizontal(lipgloss.Top, treeContainer, statsPanel)
}

func (m *PreviewModel) renderStatsPanel() string {
	if m.statsDirty || m.statsViewport.View() == "" {
		m.updateStatsContent()
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(1)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Underline(true).
		MarginBottom(1)

	scrollHint := ""
	if m.statsViewport.TotalLineCount() > m.statsViewport.Height {
		scrollHint = " [Tab to scroll]"
	}
	title := titleStyle.Render(fmt.Sprintf("%s Preview%s", icon("stats"), scrollHint))

	content := lipgloss.JoinVertical(lipgloss.Left, title, m.statsViewport.View())

	return borderStyle.
		Width(m.statsWidth - borderStyle.GetHorizontalFrameSize()).
		Height(m.statsHeight - borderStyle.GetVerticalFrameSize()).
		Render(content)
}

func (m *PreviewModel) updateStatsContent() {
	stats := m.calculateStats()
	var b strings.Builder
	b.Grow(512)

	b.WriteString("Files:\n")
	fmt.Fprintf(&b, "  %-12s %d\n", "Total:", len(m.entries))
	fmt.Fprintf(&b, "  %-12s %d\n", "To rename:", stats.pending)
	fmt.Fprintf(&b, "  %-12s %d\n", "No change:", stats.unmodified)
	if stats.conflicts > 0 {
		fmt.Fprintf(&b, "  %-12s %d\n", "Conflicts:", stats.conflicts)
	}

	if m.successCount > 0 || m.errorCount > 0 {
		b.WriteString("\nLast Operation:\n")
		fmt.Fprintf(&b, "  %s %-10s %d\n", icon("success"), "Renamed:", m.successCount)
		if m.errorCount > 0 {
			fmt.Fprintf(&b, "  %s %-10s %d\n", icon("error"), "Failed:", m.errorCount)
		}
	}

	if stats.conflicts > 0 {
		b.WriteString("\nConflicts:\n")
		for _, e := range engine.Conflicts(m.entries) {
			line := fmt.Sprintf("  %s %s", icon("conflict"), e.Name)
			b.WriteString(runewidth.Truncate(line, m.statsViewport.Width, "…"))
			b.WriteByte('\n')
		}
	}

	if len(m.failures) > 0 {
		b.WriteString("\nFailures:\n")
		for _, f := range m.failures {
			line := fmt.Sprintf("  %s %s", icon("error"), f.String())
			b.WriteString(runewidth.Truncate(line, m.statsViewport.Width, "…"))
			b.WriteByte('\n')
		}
	}

	m.statsViewport.SetContent(b.String())
}

type statistics struct {
	pending    int
	unmodified int
	conflicts  int
	renamed    int
	failed     int
}

func (m *PreviewModel) calculateStats() statistics {
	if !m.statsDirty {
		return m.statsCache
	}
	stats := statistics{}
	for _, e := range m.entries {
		switch e.Status {
		case engine.StatusPending:
			stats.pending++
		case engine.StatusUnmodified:
			stats.unmodified++
		case engine.StatusConflict:
			stats.conflicts++
		case engine.StatusRenamed:
			stats.renamed++
		case engine.StatusFailed:
			stats.failed++
		}
	}
	m.statsCache = stats
	m.statsDirty = false
	return stats
}
