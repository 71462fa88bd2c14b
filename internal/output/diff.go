package output

import (
	"fmt"
	"strings"
)

// ModifiedItem is a Function whose live state differs, with its rendered
// diff.
type ModifiedItem struct {
	Name string
	Diff string
}

// RenderDiff renders the comparison of built Functions against the cluster.
// It takes plain data so output does not import the kubernetes package.
func RenderDiff(added []string, modified []ModifiedItem, unchanged []string) string {
	if len(added) == 0 && len(modified) == 0 {
		return "No changes detected."
	}

	var sb strings.Builder

	if len(added) > 0 {
		sb.WriteString(StatusStyle(StatusCreated).Render("Not deployed:"))
		sb.WriteString("\n")
		for _, name := range added {
			sb.WriteString("  + ")
			sb.WriteString(StatusStyle(StatusCreated).Render(name))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if len(modified) > 0 {
		sb.WriteString(StatusStyle(StatusExists).Render("Differs from cluster:"))
		sb.WriteString("\n")
		for _, mod := range modified {
			sb.WriteString("  ~ ")
			sb.WriteString(StatusStyle(StatusExists).Render(mod.Name))
			sb.WriteString("\n")
			sb.WriteString(IndentDiff(mod.Diff, "    "))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("Summary: ")
	sb.WriteString(diffSummary(len(added), len(modified), len(unchanged)))
	sb.WriteString("\n")

	return sb.String()
}

// IndentDiff indents every non-empty line of diff.
func IndentDiff(diff string, indent string) string {
	if diff == "" {
		return ""
	}

	var sb strings.Builder
	for _, line := range strings.Split(diff, "\n") {
		if line != "" {
			sb.WriteString(indent)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func diffSummary(added, modified, unchanged int) string {
	parts := make([]string, 0, 3)
	if added > 0 {
		parts = append(parts, fmt.Sprintf("%d to deploy", added))
	}
	if modified > 0 {
		parts = append(parts, fmt.Sprintf("%d differ", modified))
	}
	if unchanged > 0 {
		parts = append(parts, fmt.Sprintf("%d unchanged", unchanged))
	}
	return strings.Join(parts, ", ")
}
