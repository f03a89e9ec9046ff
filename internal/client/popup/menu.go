package popup

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Action is one entry of a row actions menu.
type Action struct {
	Label     string
	Disabled  bool
	Separator bool
	Run       func() error
}

// EventKind is what the user did while the menu was open.
type EventKind int

const (
	// Outside is a selection anywhere but the menu.
	Outside EventKind = iota
	Escape
	Select
)

type Event struct {
	Kind EventKind
	// Index is the selected action for Select events.
	Index int
}

// Menu is a floating actions menu. It closes on an outside selection, on
// escape, or after an enabled action runs.
type Menu struct {
	Title   string
	Actions []Action
	// MaxWidth caps the menu width in cells, 0 for no cap. Longer labels
	// are cut.
	MaxWidth int

	open      bool
	anchor    Rect
	placement Placement
}

// Open shows the menu next to anchor and returns where it was placed.
func (m *Menu) Open(anchor Rect, viewport Size) Placement {
	m.open = true
	m.anchor = anchor
	m.placement = Place(anchor, m.Size(), viewport)
	return m.placement
}

func (m *Menu) IsOpen() bool {
	return m.open
}

func (m *Menu) Close() {
	m.open = false
}

// Handle applies ev. It reports whether an action ran, and that action's
// error. Selecting a disabled entry or a separator keeps the menu open.
func (m *Menu) Handle(ev Event) (bool, error) {
	if !m.open {
		return false, nil
	}
	switch ev.Kind {
	case Outside, Escape:
		m.open = false
		return false, nil
	case Select:
		if ev.Index < 0 || ev.Index >= len(m.Actions) {
			return false, nil
		}
		a := m.Actions[ev.Index]
		if a.Separator || a.Disabled {
			return false, nil
		}
		m.open = false
		if a.Run == nil {
			return true, nil
		}
		return true, a.Run()
	}
	return false, nil
}

// minWidth fits the borders and a few characters of each label.
const minWidth = 8

// Size is the menu's footprint in cells: a title line, one line per entry
// and a border line above and below.
func (m *Menu) Size() Size {
	w := utf8.RuneCountInString(m.Title)
	for i, a := range m.Actions {
		if n := utf8.RuneCountInString(itemLabel(i, a)); n > w {
			w = n
		}
	}
	w += 4
	if m.MaxWidth > 0 {
		w = min(w, max(m.MaxWidth, minWidth))
	}
	return Size{W: w, H: len(m.Actions) + 3}
}

func itemLabel(i int, a Action) string {
	if a.Separator {
		return ""
	}
	label := fmt.Sprintf("%d) %s", i+1, a.Label)
	if a.Disabled {
		label += " (unavailable)"
	}
	return label
}

// Render draws the open menu at its placement, one line per row starting
// at the current cursor line. The border facing the anchor carries a notch
// under the anchor's centre: "^" when the menu hangs below the anchor, "v"
// when it was flipped above it. A flipped menu lists its entries upward so
// the title sits next to the anchor.
func (m *Menu) Render(w io.Writer) error {
	if !m.open {
		return nil
	}
	size := m.Size()
	pad := strings.Repeat(" ", m.placement.X)
	inner := size.W - 4
	border := "+" + strings.Repeat("-", size.W-2) + "+"
	row := func(s string) string {
		return fmt.Sprintf("%s| %-*s |", pad, inner, cut(s, inner))
	}

	items := make([]string, 0, len(m.Actions))
	for i, a := range m.Actions {
		if a.Separator {
			items = append(items, pad+"|"+strings.Repeat("-", size.W-2)+"|")
			continue
		}
		items = append(items, row(itemLabel(i, a)))
	}

	var lines []string
	if m.placement.Flipped {
		lines = append(lines, pad+border)
		for i := len(items) - 1; i >= 0; i-- {
			lines = append(lines, items[i])
		}
		lines = append(lines, row(m.Title), pad+m.notch(border, 'v'))
	} else {
		lines = append(lines, pad+m.notch(border, '^'), row(m.Title))
		lines = append(lines, items...)
		lines = append(lines, pad+border)
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// notch marks the anchor's centre column on border, kept off the corners.
func (m *Menu) notch(border string, mark byte) string {
	col := m.anchor.X + m.anchor.W/2 - m.placement.X
	col = min(max(col, 1), len(border)-2)
	b := []byte(border)
	b[col] = mark
	return string(b)
}

// cut shortens s to n runes, marking the cut with "~".
func cut(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n < 1 {
		return ""
	}
	return string(r[:n-1]) + "~"
}

// ParseEvent reads one line of input typed while the menu is open: a
// number selects, an empty line, "esc" or "q" escapes, anything else is an
// outside selection.
func ParseEvent(input string) Event {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "", "esc", "escape", "q":
		return Event{Kind: Escape}
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err == nil && fmt.Sprint(n) == s {
		return Event{Kind: Select, Index: n - 1}
	}
	return Event{Kind: Outside}
}
