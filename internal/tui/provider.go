package tui

import (
	"fmt"

	"simplerename/internal/engine"

	"github.com/Digital-Shane/treeview"
	"github.com/charmbracelet/lipgloss"
)

// entryFor retrieves the preview entry attached to a node, or nil.
func entryFor(n *treeview.Node[treeview.FileInfo]) *engine.FileEntry {
	if n == nil || n.Data().Extra == nil {
		return nil
	}
	if e, ok := n.Data().Extra["entry"].(*engine.FileEntry); ok {
		return e
	}
	return nil
}

// attachEntry stores the preview entry on a node for the provider to read.
func attachEntry(n *treeview.Node[treeview.FileInfo], e *engine.FileEntry) {
	if n.Data().Extra == nil {
		n.Data().Extra = map[string]any{}
	}
	n.Data().Extra["entry"] = e
}

// statusIs returns a predicate matching nodes whose entry status equals s.
func statusIs(s engine.Status) func(*treeview.Node[treeview.FileInfo]) bool {
	return func(n *treeview.Node[treeview.FileInfo]) bool {
		if e := entryFor(n); e != nil {
			return e.Status == s
		}
		return false
	}
}

// newPreviewProvider constructs the node provider used by the preview grid:
// status icons, status-driven row styles, and the proposed←original
// formatter.
func newPreviewProvider() *treeview.DefaultNodeProvider[treeview.FileInfo] {
	pendingIconRule := treeview.WithIconRule(statusIs(engine.StatusPending), icon("pending"))
	renamedIconRule := treeview.WithIconRule(statusIs(engine.StatusRenamed), icon("success"))
	failedIconRule := treeview.WithIconRule(statusIs(engine.StatusFailed), icon("error"))
	conflictIconRule := treeview.WithIconRule(statusIs(engine.StatusConflict), icon("conflict"))
	defaultIconRule := treeview.WithDefaultIcon[treeview.FileInfo](icon("file"))

	conflictStyleRule := treeview.WithStyleRule(
		statusIs(engine.StatusConflict),
		lipgloss.NewStyle().Foreground(colorWarning),
		lipgloss.NewStyle().Foreground(colorBackground).Background(colorWarning),
	)
	failedStyleRule := treeview.WithStyleRule(
		statusIs(engine.StatusFailed),
		lipgloss.NewStyle().Foreground(colorError),
		lipgloss.NewStyle().Foreground(colorError).Background(colorBackground),
	)
	renamedStyleRule := treeview.WithStyleRule(
		statusIs(engine.StatusRenamed),
		lipgloss.NewStyle().Foreground(colorSuccess),
		lipgloss.NewStyle().Foreground(colorSuccess).Background(colorBackground),
	)
	pendingStyleRule := treeview.WithStyleRule(
		statusIs(engine.StatusPending),
		lipgloss.NewStyle().Foreground(colorPrimary),
		lipgloss.NewStyle().Foreground(colorBackground).Background(colorPrimary),
	)
	defaultStyleRule := treeview.WithStyleRule(
		func(*treeview.Node[treeview.FileInfo]) bool { return true },
		lipgloss.NewStyle().Foreground(colorMuted),
		lipgloss.NewStyle().Foreground(colorBackground).Background(colorMuted),
	)

	formatterRule := treeview.WithFormatter(previewFormatter)

	return treeview.NewDefaultNodeProvider(
		renamedIconRule, failedIconRule, conflictIconRule, pendingIconRule, defaultIconRule,
		failedStyleRule, conflictStyleRule, renamedStyleRule, pendingStyleRule, defaultStyleRule,
		formatterRule,
	)
}

// previewFormatter produces the display label for a preview row.
//
//   - No entry or no proposal: the original name unchanged.
//   - Renamed: the new name only, keeping the grid clean post-apply.
//   - Failed or Conflict: the original name plus the reason.
//   - Unchanged proposal: the original name.
//   - Otherwise: "<proposed> ← <original>" conveys the pending mapping.
func previewFormatter(node *treeview.Node[treeview.FileInfo]) (string, bool) {
	e := entryFor(node)
	if e == nil || e.Proposed == "" {
		return node.Name(), true
	}
	switch e.Status {
	case engine.StatusRenamed:
		return e.Name, true
	case engine.StatusFailed, engine.StatusConflict:
		return fmt.Sprintf("%s: %s", node.Name(), e.Reason), true
	}
	if e.Proposed == e.Name {
		return node.Name(), true
	}
	return fmt.Sprintf("%s ← %s", e.Proposed, node.Name()), true
}
