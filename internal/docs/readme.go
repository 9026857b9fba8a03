// Package docs renders README.md from the command registry.
package docs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"

	"initial-bot/internal/command"
	"initial-bot/pkg/cmd"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// generalSection holds commands that belong to no group.
const generalSection = "General"

// UpdateReadme renders tmplPath into outPath.
func UpdateReadme(registry *cmd.Registry, prefix, tmplPath, outPath string) error {
	tmplData, err := os.ReadFile(tmplPath)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}

	var out bytes.Buffer
	if err := Render(&out, string(tmplData), registry, prefix); err != nil {
		return err
	}

	if err := os.WriteFile(outPath, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}

// Render executes tmplText with .Prefix and .CommandSections set.
func Render(w io.Writer, tmplText string, registry *cmd.Registry, prefix string) error {
	tmpl, err := template.New("readme").Parse(tmplText)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}

	data := struct {
		Prefix          string
		CommandSections string
	}{
		Prefix:          prefix,
		CommandSections: CommandSections(registry, prefix),
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render template: %w", err)
	}
	return nil
}

// CommandSections renders one markdown table per command group, ungrouped
// commands first.
func CommandSections(registry *cmd.Registry, prefix string) string {
	byGroup := lo.GroupBy(registry.GetAll(), func(c cmd.Command) string {
		return cmd.GroupOf(c)
	})

	groups := lo.Keys(byGroup)
	sort.Strings(groups)

	var buf strings.Builder
	for i, group := range groups {
		if i > 0 {
			buf.WriteString("\n")
		}
		title := group
		if title == "" {
			title = generalSection
		}
		fmt.Fprintf(&buf, "### %s\n\n", title)
		buf.WriteString(commandTable(byGroup[group], prefix))
	}
	return buf.String()
}

func commandTable(cmds []cmd.Command, prefix string) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Command", "Aliases", "Description"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, c := range cmds {
		aliases := lo.Map(cmd.AliasesOf(c), func(a string, _ int) string { return "`" + a + "`" })
		table.Append([]string{
			"`" + prefix + command.InvocationLine(c) + "`",
			strings.Join(aliases, ", "),
			c.Description(),
		})
	}
	table.Render()
	return buf.String()
}
