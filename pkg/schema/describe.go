package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Describe renders one line per parameter with its description and default.
func Describe(params []Parameter) string {
	if len(params) == 0 {
		return "No parameters.\n"
	}
	var b strings.Builder
	b.WriteString("Parameter description\n")
	for _, p := range params {
		fmt.Fprintf(&b, " %s: %s (default: '%s')", p.Name, p.Description, p.Default)
		if hint := hint(p); hint != "" {
			fmt.Fprintf(&b, " [%s]", hint)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Markdown renders the parameters as a table.
func Markdown(name string, params []Parameter) string {
	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "# %s\n\n", name)
	}
	if len(params) == 0 {
		b.WriteString("_This script takes no parameters._\n")
		return b.String()
	}
	b.WriteString("| Name | Type | Default | Values | Description |\n")
	b.WriteString("|------|------|---------|--------|-------------|\n")
	for _, p := range params {
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %s |\n",
			p.Name, p.Kind.Name(), cell(p.Default), cell(hint(p)), cell(p.Description))
	}
	return b.String()
}

func hint(p Parameter) string {
	switch {
	case p.Kind == Enum:
		return strings.Join(p.Choices(), ", ")
	case p.Kind == Boolean:
		return "true, false"
	case p.Numeric():
		return formatNumber(p.Min) + ".." + formatNumber(p.Max)
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
