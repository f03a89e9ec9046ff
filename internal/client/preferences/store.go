// Package preferences keeps the UI-only settings (theme, menu position,
// layout width, selected branch) and the branch list they refer to.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/eduadmin/internal/client/models"
	"github.com/dmitrijs2005/eduadmin/internal/client/storage"
	"github.com/dmitrijs2005/eduadmin/internal/logging"
)

// ErrInvalidValue is returned by setters for values outside their domain.
var ErrInvalidValue = errors.New("invalid preference value")

// KV is the storage the store persists to.
type KV interface {
	storage.KV
	SaveAll(ctx context.Context, values map[string]any) error
	Keys(ctx context.Context) ([]string, error)
}

// prefKeys are the storage keys the store owns, in display order.
var prefKeys = []string{
	storage.KeyTheme,
	storage.KeyMenuPosition,
	storage.KeyLayoutWidth,
	storage.KeySelectedBranchID,
}

// BranchLister fetches the branches a user may pick from.
type BranchLister interface {
	ListBranches(ctx context.Context) ([]models.Branch, error)
}

type Store struct {
	kv      KV
	lister  BranchLister
	markers *Markers
	log     logging.Logger

	mu       sync.RWMutex
	prefs    models.Preferences
	branches []models.Branch
	loading  bool

	// loadMu serializes branch fetches; fetched is set once one succeeded.
	loadMu  sync.Mutex
	fetched bool
}

type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New reads every preference from kv. Missing keys take their default; a
// corrupt or unknown stored value is removed and the default used.
func New(ctx context.Context, kv KV, lister BranchLister, opts ...Option) *Store {
	s := &Store{
		kv:      kv,
		lister:  lister,
		markers: NewMarkers(),
		log:     logging.Nop(),
		prefs:   models.DefaultPreferences(),
		loading: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	if v, ok := loadString(ctx, s, storage.KeyTheme); ok {
		if t, err := models.ParseTheme(v); err == nil {
			s.prefs.Theme = t
		} else {
			s.discard(ctx, storage.KeyTheme, err)
		}
	}
	if v, ok := loadString(ctx, s, storage.KeyMenuPosition); ok {
		if p, err := models.ParseMenuPosition(v); err == nil {
			s.prefs.MenuPosition = p
		} else {
			s.discard(ctx, storage.KeyMenuPosition, err)
		}
	}
	if v, ok := loadString(ctx, s, storage.KeyLayoutWidth); ok {
		if w, err := models.ParseLayoutWidth(v); err == nil {
			s.prefs.LayoutWidth = w
		} else {
			s.discard(ctx, storage.KeyLayoutWidth, err)
		}
	}

	var branchID *int64
	found, err := kv.Load(ctx, storage.KeySelectedBranchID, &branchID)
	switch {
	case err != nil && errors.Is(err, storage.ErrCorrupt):
		s.discard(ctx, storage.KeySelectedBranchID, err)
	case err != nil:
		s.log.Error(ctx, "failed to read preference", "key", storage.KeySelectedBranchID, "error", err)
	case found:
		s.prefs.SelectedBranchID = branchID
	}

	s.markers.Clear()
	s.markers.Apply(s.prefs.Theme)
	return s
}

func loadString(ctx context.Context, s *Store, key string) (string, bool) {
	var v string
	found, err := s.kv.Load(ctx, key, &v)
	if err != nil {
		if errors.Is(err, storage.ErrCorrupt) {
			s.discard(ctx, key, err)
		} else {
			s.log.Error(ctx, "failed to read preference", "key", key, "error", err)
		}
		return "", false
	}
	return v, found
}

func (s *Store) discard(ctx context.Context, key string, cause error) {
	s.log.Warn(ctx, "discarding stored preference", "key", key, "error", cause)
	if err := s.kv.Remove(ctx, key); err != nil {
		s.log.Error(ctx, "failed to remove preference", "key", key, "error", err)
	}
}

// Preferences returns a snapshot of every preference.
func (s *Store) Preferences() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.prefs
	if p.SelectedBranchID != nil {
		id := *p.SelectedBranchID
		p.SelectedBranchID = &id
	}
	return p
}

func (s *Store) Theme() models.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.Theme
}

func (s *Store) MenuPosition() models.MenuPosition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.MenuPosition
}

func (s *Store) LayoutWidth() models.LayoutWidth {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.LayoutWidth
}

// SelectedBranchID returns the selected branch, or false when none is.
func (s *Store) SelectedBranchID() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.prefs.SelectedBranchID == nil {
		return 0, false
	}
	return *s.prefs.SelectedBranchID, true
}

// Markers exposes the theme markers for rendering.
func (s *Store) Markers() *Markers {
	return s.markers
}

// SetTheme persists t, then swaps the theme marker so that only t is active.
func (s *Store) SetTheme(ctx context.Context, t models.Theme) error {
	if !slices.Contains(models.AllThemes, t) {
		return fmt.Errorf("%w: theme %q", ErrInvalidValue, t)
	}
	if err := s.kv.Save(ctx, storage.KeyTheme, string(t)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}

	s.mu.Lock()
	s.prefs.Theme = t
	s.mu.Unlock()

	s.markers.Clear()
	s.markers.Apply(t)
	return nil
}

func (s *Store) SetMenuPosition(ctx context.Context, p models.MenuPosition) error {
	if p != models.MenuVertical && p != models.MenuHorizontal {
		return fmt.Errorf("%w: menu position %q", ErrInvalidValue, p)
	}
	if err := s.kv.Save(ctx, storage.KeyMenuPosition, string(p)); err != nil {
		return fmt.Errorf("save menu position: %w", err)
	}
	s.mu.Lock()
	s.prefs.MenuPosition = p
	s.mu.Unlock()
	return nil
}

func (s *Store) SetLayoutWidth(ctx context.Context, w models.LayoutWidth) error {
	if w != models.LayoutFull && w != models.LayoutContained {
		return fmt.Errorf("%w: layout width %q", ErrInvalidValue, w)
	}
	if err := s.kv.Save(ctx, storage.KeyLayoutWidth, string(w)); err != nil {
		return fmt.Errorf("save layout width: %w", err)
	}
	s.mu.Lock()
	s.prefs.LayoutWidth = w
	s.mu.Unlock()
	return nil
}

// SetSelectedBranch selects a branch from the fetched list, or clears the
// selection when id is nil.
func (s *Store) SetSelectedBranch(ctx context.Context, id *int64) error {
	if id != nil && !s.hasBranch(*id) {
		return fmt.Errorf("%w: branch %d is not in the branch list", ErrInvalidValue, *id)
	}
	return s.saveBranch(ctx, id)
}

func (s *Store) saveBranch(ctx context.Context, id *int64) error {
	if err := s.kv.Save(ctx, storage.KeySelectedBranchID, id); err != nil {
		return fmt.Errorf("save selected branch: %w", err)
	}
	s.mu.Lock()
	if id == nil {
		s.prefs.SelectedBranchID = nil
	} else {
		v := *id
		s.prefs.SelectedBranchID = &v
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) hasBranch(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.branches {
		if b.ID == id {
			return true
		}
	}
	return false
}

// Branches returns the fetched branch list.
func (s *Store) Branches() []models.Branch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.branches)
}

// BranchesLoading reports true until a branch fetch has succeeded.
func (s *Store) BranchesLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LoadBranches fetches the branch list once per session. Concurrent calls
// wait for the fetch in flight; once one succeeded later calls return
// immediately. A failed fetch is retried by the next call. The selection
// falls back to the first branch when it is unset or no longer listed.
func (s *Store) LoadBranches(ctx context.Context) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if s.fetched {
		return nil
	}
	if err := s.loadBranches(ctx); err != nil {
		return err
	}
	s.fetched = true
	return nil
}

// ResetBranches forgets the fetched branch list so that the next session
// loads its own. The stored selection is kept.
func (s *Store) ResetBranches() {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	s.fetched = false

	s.mu.Lock()
	s.branches = nil
	s.loading = true
	s.mu.Unlock()
}

func (s *Store) loadBranches(ctx context.Context) error {
	branches, err := s.lister.ListBranches(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to load branches", "error", err)
		return fmt.Errorf("load branches: %w", err)
	}

	s.mu.Lock()
	s.branches = branches
	s.loading = false
	current := s.prefs.SelectedBranchID
	s.mu.Unlock()

	if current != nil && s.hasBranch(*current) {
		return nil
	}

	var next *int64
	if len(branches) > 0 {
		next = &branches[0].ID
	}
	if current == nil && next == nil {
		return nil
	}
	return s.saveBranch(ctx, next)
}

// Saved lists the preference keys holding a stored value. The others are
// at their defaults.
func (s *Store) Saved(ctx context.Context) ([]string, error) {
	stored, err := s.kv.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	var out []string
	for _, k := range prefKeys {
		if slices.Contains(stored, k) {
			out = append(out, k)
		}
	}
	return out, nil
}

// Reset restores every preference to its default in one write.
func (s *Store) Reset(ctx context.Context) error {
	def := models.DefaultPreferences()
	err := s.kv.SaveAll(ctx, map[string]any{
		storage.KeyTheme:            string(def.Theme),
		storage.KeyMenuPosition:     string(def.MenuPosition),
		storage.KeyLayoutWidth:      string(def.LayoutWidth),
		storage.KeySelectedBranchID: nil,
	})
	if err != nil {
		return fmt.Errorf("reset preferences: %w", err)
	}

	s.mu.Lock()
	s.prefs = def
	s.mu.Unlock()

	s.markers.Clear()
	s.markers.Apply(def.Theme)
	return nil
}
