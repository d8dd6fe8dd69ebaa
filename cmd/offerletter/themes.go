package main

import (
	"encoding/json"
	"fmt"
	"strings"

	offerletter "github.com/alnah/go-offerletter"
)

// themeInfo describes one theme for listing.
type themeInfo struct {
	Name     string   `json:"name"`
	Layout   string   `json:"layout"`
	Movable  bool     `json:"movable"`
	Sections []string `json:"sections"`
}

// runThemes lists the themes with their layout and default section order.
func runThemes(args []string, env *Environment) error {
	fs := newFlagSet("themes", printThemesUsage, env.Stderr)
	jsonOutput := fs.Bool("json", false, "output JSON")
	if err := fs.Parse(args); err != nil {
		return usageError(err)
	}

	infos := listThemes()
	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	for _, t := range infos {
		order := "fixed"
		if t.Movable {
			order = "movable"
		}
		fmt.Fprintf(env.Stdout, "%-10s %-8s %-8s %s\n", t.Name, t.Layout, order, strings.Join(t.Sections, ", "))
	}
	return nil
}

func listThemes() []themeInfo {
	names := offerletter.Themes()
	infos := make([]themeInfo, 0, len(names))
	for _, name := range names {
		layout := offerletter.ResolveLayout(offerletter.Document{Theme: name})
		sections := make([]string, len(layout.Sections))
		for i, sec := range layout.Sections {
			sections[i] = string(sec)
		}
		infos = append(infos, themeInfo{
			Name:     name,
			Layout:   layout.Kind,
			Movable:  offerletter.SectionsFor(name) != nil,
			Sections: sections,
		})
	}
	return infos
}
