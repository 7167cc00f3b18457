package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/factory-planner/internal/domain/planning"
)

// TreeFormatter renders a production tree as a box-drawing outline
type TreeFormatter struct {
	styles     outputStyles
	useEmojis  bool
	activeOnly bool
}

// NewTreeFormatter creates a new tree formatter. With activeOnly set, inactive
// alternatives are collapsed to a single line.
func NewTreeFormatter(useColors, useEmojis, activeOnly bool) *TreeFormatter {
	return &TreeFormatter{
		styles:     newOutputStyles(useColors),
		useEmojis:  useEmojis,
		activeOnly: activeOnly,
	}
}

// FormatTree renders root and everything below it
func (f *TreeFormatter) FormatTree(root planning.Node) string {
	if root == nil {
		return "(empty tree)"
	}

	var builder strings.Builder
	f.formatNode(&builder, root, "", true, true, true)
	return builder.String()
}

// formatNode recursively formats a node and its children
func (f *TreeFormatter) formatNode(builder *strings.Builder, node planning.Node, prefix string, isLast, isRoot, active bool) {
	var linePrefix string
	if isRoot {
		linePrefix = ""
	} else if isLast {
		linePrefix = prefix + "└── "
	} else {
		linePrefix = prefix + "├── "
	}

	builder.WriteString(linePrefix)
	builder.WriteString(f.getStatusIcon(node, active))
	builder.WriteString(" ")
	builder.WriteString(f.styleFor(node, active).Render(node.Summary()))
	builder.WriteString("\n")

	children := node.Children()
	if len(children) == 0 {
		return
	}

	var childPrefix string
	if isRoot {
		childPrefix = ""
	} else if isLast {
		childPrefix = prefix + "    "
	} else {
		childPrefix = prefix + "│   "
	}

	alt, isAlt := node.(*planning.AltNode)
	for i, child := range children {
		isLastChild := i == len(children)-1
		childActive := active
		if isAlt {
			childActive = active && alt.IsActive(child.(*planning.ProdNode))
		}
		if isAlt && f.activeOnly && !childActive {
			f.formatCollapsed(builder, child, childPrefix, isLastChild)
			continue
		}
		f.formatNode(builder, child, childPrefix, isLastChild, false, childActive)
	}
}

// formatCollapsed prints an inactive candidate without its subtree
func (f *TreeFormatter) formatCollapsed(builder *strings.Builder, node planning.Node, prefix string, isLast bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}
	fmt.Fprintf(builder, "%s%s%s %s\n",
		prefix, connector,
		f.getStatusIcon(node, false),
		f.styles.Muted.Render(node.Summary()+" …"))
}

// getStatusIcon returns a visual indicator for the node kind
func (f *TreeFormatter) getStatusIcon(node planning.Node, active bool) string {
	var icon, plain string
	switch n := node.(type) {
	case *planning.ProdNode:
		icon, plain = "⚙️", "[P]"
		if n.DepthTruncated() {
			icon, plain = "⏸️", "[T]"
		}
	case *planning.AltNode:
		icon, plain = "🔀", "[A]"
	case *planning.EndNode:
		switch n.EndKind() {
		case planning.EndSource:
			icon, plain = "⛏️", "[S]"
		case planning.EndCyclic:
			icon, plain = "🔁", "[C]"
		default:
			icon, plain = "❌", "[U]"
		}
	}

	marker := " "
	if active {
		marker = "*"
	}
	if f.useEmojis {
		return marker + icon
	}
	return marker + plain
}

func (f *TreeFormatter) styleFor(node planning.Node, active bool) lipglossRenderer {
	if !active {
		return f.styles.Muted
	}
	switch n := node.(type) {
	case *planning.ProdNode:
		if n.DepthTruncated() {
			return f.styles.Warning
		}
		return f.styles.Production
	case *planning.EndNode:
		if n.IsSource() {
			return f.styles.Source
		}
		if n.IsCyclic() {
			return f.styles.Warning
		}
		return f.styles.Error
	default:
		return f.styles.Bold
	}
}

// lipglossRenderer is the subset of lipgloss.Style the formatter needs
type lipglossRenderer interface {
	Render(strs ...string) string
}

// FormatTreeSummary creates a one-line summary of the tree
func (f *TreeFormatter) FormatTreeSummary(tree *planning.ProductionTree) string {
	if tree == nil {
		return "No production tree"
	}

	sources, unresolved, cyclic := 0, 0, 0
	for _, end := range tree.ActiveEnds() {
		switch end.EndKind() {
		case planning.EndSource:
			sources++
		case planning.EndUnresolved:
			unresolved++
		case planning.EndCyclic:
			cyclic++
		}
	}

	return fmt.Sprintf(
		"Tree: %d nodes, %d alternatives, depth=%d, active leaves: %d source / %d unresolved / %d cyclic",
		tree.CountNodes(), len(tree.Alternatives()), tree.Depth(), sources, unresolved, cyclic,
	)
}
