// Package report renders a scanned workspace tree as colored text for the
// CLI report mode.
package report

import (
	"context"
	"fmt"
	"strings"

	"workbench/internal/model"
	"workbench/internal/schema"
	"workbench/internal/status"

	"github.com/fatih/color"
)

var (
	header     = color.New(color.FgCyan, color.Bold).SprintFunc()
	dirName    = color.New(color.FgBlue, color.Bold).SprintFunc()
	dim        = color.New(color.Faint).SprintFunc()
	completed  = color.New(color.FgGreen).SprintFunc()
	blocked    = color.New(color.FgRed).SprintFunc()
	inProgress = color.New(color.FgYellow).SprintFunc()
)

// Generate renders the tree with one line per node and a status tag on each
// agent folder. Agent statuses are read from the leaves' handles; read
// failures fall back to not-started.
func Generate(ctx context.Context, tree *model.TreeNode) string {
	var b strings.Builder
	b.WriteString(header("Workspace: "+displayName(tree)) + "\n")

	counts := map[status.Status]int{}
	var walk func(n *model.TreeNode, depth int)
	walk = func(n *model.TreeNode, depth int) {
		for _, c := range n.Children {
			indent := strings.Repeat("  ", depth+1)
			switch {
			case c.IsDir() && schema.IsAgentDir(c.Path):
				st := agentStatus(ctx, c)
				counts[st]++
				fmt.Fprintf(&b, "%s%s %s\n", indent, dirName(c.Name+"/"), statusTag(st))
			case c.IsDir():
				fmt.Fprintf(&b, "%s%s\n", indent, dirName(c.Name+"/"))
			default:
				fmt.Fprintf(&b, "%s%s\n", indent, c.Name)
			}
			walk(c, depth+1)
		}
	}
	walk(tree, 0)

	if total := counts[status.Completed] + counts[status.Blocked] +
		counts[status.InProgress] + counts[status.NotStarted]; total > 0 {
		fmt.Fprintf(&b, "\n%s %d agents: %s, %s, %s, %s\n",
			header("Summary:"), total,
			completed(fmt.Sprintf("%d completed", counts[status.Completed])),
			blocked(fmt.Sprintf("%d blocked", counts[status.Blocked])),
			inProgress(fmt.Sprintf("%d in progress", counts[status.InProgress])),
			dim(fmt.Sprintf("%d not started", counts[status.NotStarted])))
	}
	return b.String()
}

func displayName(tree *model.TreeNode) string {
	if tree.Name != "" {
		return tree.Name
	}
	return "."
}

func agentStatus(ctx context.Context, agent *model.TreeNode) status.Status {
	for _, c := range agent.Children {
		if c.Name == "status.md" && c.Ref != nil {
			if content, err := c.Ref.ReadText(ctx); err == nil {
				return status.Parse(content)
			}
		}
	}
	return status.NotStarted
}

func statusTag(st status.Status) string {
	text := "[" + status.DisplayText(st) + "]"
	switch st {
	case status.Completed:
		return completed(text)
	case status.Blocked:
		return blocked(text)
	case status.InProgress:
		return inProgress(text)
	}
	return dim(text)
}
