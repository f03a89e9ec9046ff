package navigation

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/eduadmin/internal/client/models"
)

// Renderer draws the menu for the signed-in roles.
type Renderer interface {
	Render(w io.Writer, roles models.Roles, path string) error
}

// Vertical is a collapsible sidebar. A group is expanded when it is active
// or its name is in Expanded.
type Vertical struct {
	Tree     []Entry
	Expanded map[string]bool
}

func (v Vertical) Render(w io.Writer, roles models.Roles, path string) error {
	return v.write(w, Filter(v.Tree, roles), path, 0)
}

func (v Vertical) write(w io.Writer, entries []Entry, path string, level int) error {
	for _, e := range entries {
		active := IsActive(e, path)
		marker := " "
		if active {
			marker = ">"
		}

		line := e.Name
		if len(e.Children) > 0 {
			open := active || v.Expanded[e.Name]
			if open {
				line += " [-]"
			} else {
				line += " [+]"
			}
			if e.Path != "" {
				line += "  " + e.Path
			}
			if _, err := fmt.Fprintf(w, "%s %s%s\n", marker, strings.Repeat("  ", level), line); err != nil {
				return err
			}
			if open {
				if err := v.write(w, e.Children, path, level+1); err != nil {
					return err
				}
			}
			continue
		}

		if _, err := fmt.Fprintf(w, "%s %s%s  %s\n", marker, strings.Repeat("  ", level), line, e.Path); err != nil {
			return err
		}
	}
	return nil
}

// Horizontal is a top bar. Groups open a dropdown that shows their children
// and one more level below them.
type Horizontal struct {
	Tree []Entry
}

func (h Horizontal) Render(w io.Writer, roles models.Roles, path string) error {
	entries := Filter(h.Tree, roles)

	items := make([]string, 0, len(entries))
	for _, e := range entries {
		label := e.Name
		if len(e.Children) > 0 {
			label += " v"
		}
		if IsActive(e, path) {
			label = "[" + label + "]"
		}
		items = append(items, label)
	}
	if _, err := fmt.Fprintln(w, strings.Join(items, " | ")); err != nil {
		return err
	}

	for _, e := range entries {
		if len(e.Children) == 0 {
			continue
		}
		header := e.Name + ":"
		if e.Path != "" {
			header += "  " + e.Path
		}
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
		for _, c := range e.Children {
			if err := dropdownLine(w, c, path, 1); err != nil {
				return err
			}
			for _, gc := range c.Children {
				if err := dropdownLine(w, gc, path, 2); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func dropdownLine(w io.Writer, e Entry, path string, level int) error {
	marker := " "
	if IsActive(e, path) {
		marker = ">"
	}
	line := e.Name
	if e.Path != "" {
		line += "  " + e.Path
	}
	_, err := fmt.Fprintf(w, "%s %s%s\n", marker, strings.Repeat("  ", level), line)
	return err
}

// For picks the renderer matching the menu position preference.
func For(pos models.MenuPosition, tree []Entry, expanded map[string]bool) Renderer {
	if pos == models.MenuHorizontal {
		return Horizontal{Tree: tree}
	}
	return Vertical{Tree: tree, Expanded: expanded}
}

// Paths lists every path roles may navigate to, in menu order.
func Paths(entries []Entry, roles models.Roles) []string {
	var out []string
	var walk func([]Entry)
	walk = func(es []Entry) {
		for _, e := range es {
			if e.Path != "" {
				out = append(out, e.Path)
			}
			walk(e.Children)
		}
	}
	walk(Filter(entries, roles))
	return out
}
