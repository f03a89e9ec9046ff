package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/eduadmin/internal/client/client"
	"github.com/dmitrijs2005/eduadmin/internal/client/forms"
	"github.com/dmitrijs2005/eduadmin/internal/client/models"
	"github.com/dmitrijs2005/eduadmin/internal/client/notify"
	"github.com/dmitrijs2005/eduadmin/internal/client/preferences"
	"github.com/dmitrijs2005/eduadmin/internal/client/services"
	"github.com/dmitrijs2005/eduadmin/internal/client/session"
	"github.com/dmitrijs2005/eduadmin/internal/client/storage"
)

// ------------ fake backend ------------

type call struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// fakeAPI answers requests by "METHOD path". Unknown requests succeed with
// an empty body.
type fakeAPI struct {
	mu      sync.Mutex
	calls   []call
	replies map[string]any
	errs    map[string]error
	// hook runs before the reply, outside the lock.
	hook func(client.Request)

	pair      models.TokenPair
	loginErr  error
	gotPhone  string
	gotSecret string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{replies: map[string]any{}, errs: map[string]error{}}
}

func (f *fakeAPI) Do(_ context.Context, req client.Request, out any) error {
	key := req.Method + " " + req.Path
	f.mu.Lock()
	f.calls = append(f.calls, call{Method: req.Method, Path: req.Path, Query: req.Query, Body: req.Body})
	reply, err, hook := f.replies[key], f.errs[key], f.hook
	f.mu.Unlock()

	if hook != nil {
		hook(req)
	}
	if err != nil {
		return err
	}
	if out == nil || reply == nil {
		return nil
	}
	raw, err := json.Marshal(reply)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (f *fakeAPI) Login(_ context.Context, phone, password string) (models.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotPhone, f.gotSecret = phone, password
	return f.pair, f.loginErr
}

func (f *fakeAPI) RefreshTokens(context.Context, string) (models.TokenPair, error) {
	return models.TokenPair{}, errors.New("not used")
}

func (f *fakeAPI) set(key string, reply any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[key] = reply
}

func (f *fakeAPI) fail(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[key] = err
}

// find returns the calls made to method and path, oldest first.
func (f *fakeAPI) find(method, path string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeAPI) last(t *testing.T, method, path string) call {
	t.Helper()
	calls := f.find(method, path)
	require.NotEmpty(t, calls, "no %s %s", method, path)
	return calls[len(calls)-1]
}

// ------------ tokens ------------

func accessToken(t *testing.T, roles ...string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":      7,
		"full_name":    "Aziza Karimova",
		"phone_number": "998901234567",
		"roles":        roles,
		"exp":          time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

// ------------ harness ------------

type harness struct {
	t   *testing.T
	ctx context.Context
	api *fakeAPI
	kv  *storage.Store
	out *bytes.Buffer
	app *App
}

// newHarness builds an App over in-memory storage and a fake backend. A
// non-empty access token is stored first, as if from an earlier run.
func newHarness(t *testing.T, input, access string) *harness {
	t.Helper()
	stubTerminal(t)

	ctx := context.Background()
	db, err := storage.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	kv := storage.New(db)

	if access != "" {
		require.NoError(t, kv.Save(ctx, storage.KeyAuthTokens, models.TokenPair{Access: access, Refresh: "refresh"}))
	}

	h := &harness{t: t, ctx: ctx, api: newFakeAPI(), kv: kv}
	h.api.set("GET "+services.BranchesPath, []map[string]any{
		{"id": 1, "name": "Main", "address": "Tashkent"},
		{"id": 2, "name": "North", "address": "Chilonzor"},
	})
	h.build(input)
	return h
}

// build creates a fresh App on the same storage, as a restart would.
func (h *harness) build(input string) {
	sess := session.New(h.ctx, h.kv, h.api)
	svcs := services.New(h.api, forms.NewValidator(), sess)
	prefs := preferences.New(h.ctx, h.kv, svcs)
	h.out = &bytes.Buffer{}
	h.app = newApp(deps{
		Session:  sess,
		Prefs:    prefs,
		Services: svcs,
		In:       strings.NewReader(input),
		Out:      h.out,
		Debounce: time.Millisecond,
	})
}

func (h *harness) lastToast() notify.Toast {
	h.t.Helper()
	toasts := h.app.notifier.Recent()
	require.NotEmpty(h.t, toasts)
	return toasts[len(toasts)-1]
}

// stubTerminal replaces every terminal seam for the duration of the test.
func stubTerminal(t *testing.T) {
	t.Helper()
	origPrint, origPassword, origSize := printlnFn, getPassword, terminalSize
	printlnFn = func(...any) (int, error) { return 0, nil }
	getPassword = func(w io.Writer, prompt string) ([]byte, error) { return []byte("secret-pass"), nil }
	terminalSize = func(int) (int, int, error) { return 100, 40, nil }
	t.Cleanup(func() {
		printlnFn, getPassword, terminalSize = origPrint, origPassword, origSize
	})
}
