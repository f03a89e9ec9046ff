package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/eduadmin/internal/client/popup"
)

// Search sets the search filter of the current list. An empty text clears
// it.
func (a *App) Search(ctx context.Context, text string) error {
	return a.Filter(ctx, "search", strings.TrimSpace(text))
}

// Filter changes one filter of the current list and shows the result once
// the debounced request has landed.
func (a *App) Filter(ctx context.Context, key, value string) error {
	s, err := a.currentScreen()
	if err != nil {
		return err
	}
	if err := s.setFilter(ctx, key, value); err != nil {
		return err
	}
	return s.render(ctx, a.out)
}

func (a *App) Clear(ctx context.Context) error {
	s, err := a.currentScreen()
	if err != nil {
		return err
	}
	s.clearFilters(ctx)
	return s.render(ctx, a.out)
}

// Refresh reloads the current screen.
func (a *App) Refresh(ctx context.Context) error {
	s, err := a.currentScreen()
	if err != nil {
		return a.Navigate(ctx, a.path)
	}
	s.refresh(ctx)
	return s.render(ctx, a.out)
}

func (a *App) Add(ctx context.Context) error {
	s, err := a.currentScreen()
	if err != nil {
		return err
	}
	return s.add(ctx)
}

// withRow resolves the current screen and a row id for a row command.
func (a *App) withRow(ctx context.Context, rawID string, fn func(screen, int64) error) error {
	s, err := a.currentScreen()
	if err != nil {
		return err
	}
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	return fn(s, id)
}

func (a *App) Edit(ctx context.Context, id string) error {
	return a.withRow(ctx, id, func(s screen, id int64) error { return s.edit(ctx, id) })
}

func (a *App) Show(ctx context.Context, id string) error {
	return a.withRow(ctx, id, func(s screen, id int64) error { return s.show(ctx, id) })
}

func (a *App) Archive(ctx context.Context, id string) error {
	return a.withRow(ctx, id, func(s screen, id int64) error { return s.archive(ctx, id) })
}

func (a *App) Restore(ctx context.Context, id string) error {
	return a.withRow(ctx, id, func(s screen, id int64) error { return s.restore(ctx, id) })
}

func (a *App) Delete(ctx context.Context, id string) error {
	return a.withRow(ctx, id, func(s screen, id int64) error { return s.remove(ctx, id) })
}

// Actions opens the row actions menu next to the row and runs the chosen
// action. The menu closes on escape, on any input that is not an entry,
// or once an action ran.
func (a *App) Actions(ctx context.Context, id string) error {
	return a.withRow(ctx, id, func(s screen, id int64) error {
		m, anchor, err := s.menu(ctx, id)
		if err != nil {
			return err
		}

		w, h := viewport()
		if a.contained() {
			w = min(w, containedWidth)
			m.MaxWidth = containedMenu
		}
		m.Open(anchor, popup.Size{W: w, H: h})
		for m.IsOpen() {
			if err := m.Render(a.out); err != nil {
				return err
			}
			line, err := getSimpleText(a.reader, "Choose an action (number, Enter to close)", a.out)
			if err != nil {
				m.Close()
				return err
			}
			ran, err := m.Handle(popup.ParseEvent(line))
			if ran {
				return err
			}
			if m.IsOpen() {
				a.notifier.Info("That entry is not available.")
			}
		}
		return nil
	})
}
