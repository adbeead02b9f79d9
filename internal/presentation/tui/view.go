package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"

	"github.com/aretw0/espalier/pkg/domain"
)

// TreeMarkdown renders a snapshot as a nested markdown list. Missing
// values are emphasized so they stand out after glamour rendering.
func TreeMarkdown(t domain.Tree) string {
	var buf strings.Builder
	writeNode(&buf, "", t, 0)
	return buf.String()
}

func writeNode(buf *strings.Builder, name string, t domain.Tree, depth int) {
	indent := strings.Repeat("  ", depth)
	if !t.Composite {
		if name == "" {
			fmt.Fprintf(buf, "%s- %s\n", indent, leafText(t))
		} else {
			fmt.Fprintf(buf, "%s- %s: %s\n", indent, name, leafText(t))
		}
		return
	}

	label := t.Label
	if label == "" {
		label = "(list)"
	}
	if name == "" {
		fmt.Fprintf(buf, "%s- **%s**\n", indent, label)
	} else {
		fmt.Fprintf(buf, "%s- %s: **%s**\n", indent, name, label)
	}
	for i, c := range t.Children {
		n := c.Name
		if !c.Named {
			n = strconv.Itoa(i)
		}
		writeNode(buf, n, c.Tree, depth+1)
	}
}

func leafText(t domain.Tree) string {
	if t.Missing {
		return "*missing*"
	}
	return t.Value
}

// OptionsMarkdown renders a menu as markdown: the prompt as a heading, the
// choices as a numbered list and a trailing hint when free text is
// accepted. The numbers map onto choice ids one-based, matching what the
// console loop accepts.
func OptionsMarkdown(o domain.Options) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "## %s\n\n", o.Prompt)
	for i, c := range o.Choices {
		marker := ""
		if c.NeedsAction {
			marker = " *(incomplete)*"
		}
		fmt.Fprintf(&buf, "%d. %s%s\n", i+1, c.Label, marker)
	}
	if o.TextInput {
		buf.WriteString("\nType a value and press enter.\n")
	}
	return buf.String()
}

// MissingTable renders a markdown table of every missing leaf and its
// location in the tree. It returns the empty string for a complete tree.
func MissingTable(t domain.Tree) string {
	var missing [][2]string
	collectMissing(t, "", &missing)
	if len(missing) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString("# Missing values:\n")
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Location", "Field")
	for _, m := range missing {
		_ = table.Append(m[0], m[1])
	}
	_ = table.Render()
	return buf.String()
}

func collectMissing(t domain.Tree, path string, out *[][2]string) {
	if !t.Composite {
		if t.Missing {
			loc := path
			if loc == "" {
				loc = "(root)"
			}
			name := loc
			if i := strings.LastIndex(loc, "."); i >= 0 {
				name = loc[i+1:]
				loc = loc[:i]
			} else {
				loc = "(root)"
			}
			*out = append(*out, [2]string{loc, name})
		}
		return
	}
	for i, c := range t.Children {
		name := c.Name
		if !c.Named {
			name = strconv.Itoa(i)
		}
		childPath := name
		if path != "" {
			childPath = path + "." + name
		}
		collectMissing(c.Tree, childPath, out)
	}
}
