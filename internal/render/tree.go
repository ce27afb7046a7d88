package render

import (
	"strings"

	"git-repository-analyzer/internal/git"
)

// Tree draws a file structure as an indented tree. Directories end with a
// slash; directories cut at the depth limit are followed by "...".
func Tree(root *git.Node) string {
	if root == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(root.Name)
	b.WriteString("/\n")
	writeChildren(&b, root, "")
	return b.String()
}

func writeChildren(b *strings.Builder, n *git.Node, prefix string) {
	for i, child := range n.Children {
		last := i == len(n.Children)-1

		connector, indent := "├── ", "│   "
		if last {
			connector, indent = "└── ", "    "
		}

		b.WriteString(prefix)
		b.WriteString(connector)
		b.WriteString(child.Name)
		if child.IsDir {
			b.WriteString("/")
			if child.Truncated {
				b.WriteString(" ...")
			}
		}
		b.WriteString("\n")

		if child.IsDir {
			writeChildren(b, child, prefix+indent)
		}
	}
}
