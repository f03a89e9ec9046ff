package cli

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/eduadmin/internal/client/access"
	"github.com/dmitrijs2005/eduadmin/internal/client/client"
	"github.com/dmitrijs2005/eduadmin/internal/client/forms"
	"github.com/dmitrijs2005/eduadmin/internal/client/models"
	"github.com/dmitrijs2005/eduadmin/internal/client/notify"
	"github.com/dmitrijs2005/eduadmin/internal/client/services"
	"github.com/dmitrijs2005/eduadmin/internal/client/storage"
)

func TestStart_AnonymousLandsOnLogin(t *testing.T) {
	h := newHarness(t, "", "")

	h.app.start(h.ctx)

	assert.Equal(t, access.PathLogin, h.app.path)
	assert.Contains(t, h.out.String(), "Sign in with 'login'.")
	assert.False(t, h.app.isLoggedIn())
	assert.Empty(t, h.api.find(http.MethodGet, services.BranchesPath))
}

func TestLoginAndLogout(t *testing.T) {
	h := newHarness(t, "+998 90 123-45-67\n", "")
	h.api.pair = models.TokenPair{Access: accessToken(t, "CEO"), Refresh: "r1"}
	h.api.set("GET /core/dashboard-stats/", map[string]any{"active_students": 42, "groups": 5})
	h.app.start(h.ctx)

	require.NoError(t, h.app.Login(h.ctx))

	assert.Equal(t, "998901234567", h.api.gotPhone)
	assert.Equal(t, "secret-pass", h.api.gotSecret)
	assert.Equal(t, access.PathHome, h.app.path)
	assert.Contains(t, h.out.String(), "Welcome, Aziza Karimova!")
	assert.Contains(t, h.out.String(), "== Dashboard (Main) ==")
	assert.Contains(t, h.out.String(), "42")

	// the first branch becomes the scope
	id, ok := h.app.prefs.SelectedBranchID()
	require.True(t, ok)
	assert.EqualValues(t, 1, id)
	assert.Equal(t, "1", h.api.last(t, http.MethodGet, "/core/dashboard-stats/").Query.Get("branch"))

	require.NoError(t, h.app.Logout(h.ctx))
	assert.Equal(t, access.PathLogin, h.app.path)

	var pair models.TokenPair
	found, err := h.kv.Load(h.ctx, storage.KeyAuthTokens, &pair)
	require.NoError(t, err)
	assert.False(t, found)

	// a restart on the same storage is anonymous
	h.build("")
	h.app.start(h.ctx)
	assert.False(t, h.app.isLoggedIn())
	assert.Equal(t, access.PathLogin, h.app.path)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	h := newHarness(t, "901234567\n", "")
	h.api.loginErr = client.ErrInvalidCredentials

	err := h.app.Login(h.ctx)
	require.ErrorIs(t, err, client.ErrInvalidCredentials)

	h.app.report(h.ctx, err)
	toast := h.lastToast()
	assert.Equal(t, notify.Failure, toast.Kind)
	assert.Contains(t, toast.Message, "check your phone number and password")
	assert.False(t, h.app.isLoggedIn())
}

func TestNavigate_GateRedirects(t *testing.T) {
	h := newHarness(t, "", accessToken(t, "Teacher"))
	h.app.start(h.ctx)
	require.Equal(t, access.PathHome, h.app.path)

	require.NoError(t, h.app.Navigate(h.ctx, access.PathStudents))

	assert.Equal(t, access.PathHome, h.app.path)
	assert.Equal(t, "You do not have access to /students.", h.lastToast().Message)
	assert.Empty(t, h.api.find(http.MethodGet, services.StudentsPath))

	require.NoError(t, h.app.Navigate(h.ctx, access.PathLogin))
	assert.Equal(t, access.PathHome, h.app.path)
}

func TestNavigate_UnknownPath(t *testing.T) {
	h := newHarness(t, "", accessToken(t, "CEO"))
	h.app.start(h.ctx)

	require.NoError(t, h.app.Navigate(h.ctx, "/reports/"))

	assert.Equal(t, "/reports", h.app.path)
	assert.Contains(t, h.out.String(), "Page not found: /reports")
	assert.Contains(t, h.out.String(), "Available: /, /students, /teachers, /staff, /groups")
	assert.Contains(t, h.out.String(), "/settings/office/rooms")
	assert.Nil(t, h.app.screen)
}

func TestStudents_ListSearchAndClear(t *testing.T) {
	h := newHarness(t, "", accessToken(t, "Admin"))
	h.api.set("GET "+services.StudentsPath, map[string]any{
		"count": 3,
		"results": []map[string]any{{
			"id": 5, "full_name": "Ali Valiyev", "phone_number": "998901112233",
			"groups": []map[string]any{{"name": "English A1", "teacher": "Dilnoza"}}, "balance": "-150000.00",
		}},
	})
	h.app.start(h.ctx)

	require.NoError(t, h.app.Navigate(h.ctx, access.PathStudents))

	q := h.api.last(t, http.MethodGet, services.StudentsPath).Query
	assert.Equal(t, "1", q.Get("branch"))
	assert.Equal(t, "false", q.Get("is_archived"))
	out := h.out.String()
	assert.Contains(t, out, "== Students == [branch=1 is_archived=false]")
	assert.Contains(t, out, "Ali Valiyev")
	assert.Contains(t, out, "English A1")
	assert.Contains(t, out, "Showing 1 of 3.")

	require.NoError(t, h.app.Search(h.ctx, "Ali"))
	assert.Equal(t, "Ali", h.api.last(t, http.MethodGet, services.StudentsPath).Query.Get("search"))

	err := h.app.Filter(h.ctx, "color", "red")
	require.Error(t, err)
	assert.Contains(t, client.Message(err), `Unknown filter "color"`)

	require.NoError(t, h.app.Clear(h.ctx))
	q = h.api.last(t, http.MethodGet, services.StudentsPath).Query
	assert.Equal(t, "1", q.Get("branch"))
	assert.Empty(t, q.Get("search"))
	assert.Empty(t, q.Get("is_archived"))
}

func TestStudents_SearchOnScreenWithoutSearch(t *testing.T) {
	h := newHarness(t, "", accessToken(t, "CEO"))
	h.app.start(h.ctx)
	require.NoError(t, h.app.Navigate(h.ctx, access.PathTeachers))

	err := h.app.Search(h.ctx, "Ali")
	require.Error(t, err)
	assert.Equal(t, "Teachers has no search.", client.Message(err))
}

func TestGroups_InvalidFormSendsNothingAndKeepsDraft(t *testing.T) {
	input := strings.Join([]string{
		// first attempt, end date before start date
		"Level 1", "500000", "3", "", "2025-02-01", "2025-01-15", "14:00", "15:30", "135", "#FFFFFF", "#000000", "",
		// second attempt keeps everything but the end date
		"", "", "", "", "", "2025-06-30", "", "", "", "", "", "",
	}, "\n") + "\n"
	h := newHarness(t, input, accessToken(t, "CEO"))
	h.api.set("POST "+services.GroupsPath, map[string]any{"id": 12, "name": "Level 1"})
	h.app.start(h.ctx)
	require.NoError(t, h.app.Navigate(h.ctx, access.PathGroups))

	err := h.app.Add(h.ctx)
	var verr *forms.ValidationError
	require.ErrorAs(t, err, &verr)
	_, bad := verr.For("end_date")
	assert.True(t, bad)
	assert.Empty(t, h.api.find(http.MethodPost, services.GroupsPath))
	assert.Contains(t, h.app.drafts, "group:0")

	require.NoError(t, h.app.Add(h.ctx))

	posts := h.api.find(http.MethodPost, services.GroupsPath)
	require.Len(t, posts, 1)
	form, ok := posts[0].Body.(*forms.GroupForm)
	require.True(t, ok, "body is %T", posts[0].Body)
	assert.Equal(t, "Level 1", form.Name)
	assert.Equal(t, "2025-02-01", form.StartDate)
	assert.Equal(t, "2025-06-30", form.EndDate)
	assert.EqualValues(t, 3, form.Teacher)
	assert.EqualValues(t, 1, form.Branch)
	assert.NotContains(t, h.app.drafts, "group:0")
	assert.Equal(t, "Group #12 created.", h.lastToast().Message)
}

func TestRooms_ArchiveAndDeleteAskFirst(t *testing.T) {
	h := newHarness(t, "n\ny\ny\n", accessToken(t, "CEO"))
	h.api.set("GET "+services.RoomsPath, []map[string]any{{"id": 4, "name": "Room 4", "capacity": 12}})
	h.app.start(h.ctx)
	require.NoError(t, h.app.Navigate(h.ctx, access.PathRooms))

	require.NoError(t, h.app.Archive(h.ctx, "4"))
	assert.Empty(t, h.api.find(http.MethodPost, "/core/rooms/4/archive/"))

	require.NoError(t, h.app.Archive(h.ctx, "4"))
	assert.Len(t, h.api.find(http.MethodPost, "/core/rooms/4/archive/"), 1)
	assert.Equal(t, "Room #4 archived.", h.lastToast().Message)

	require.NoError(t, h.app.Delete(h.ctx, "4"))
	assert.Contains(t, h.out.String(), "Delete room #4? This cannot be undone.")
	assert.Len(t, h.api.find(http.MethodDelete, "/core/rooms/4/"), 1)
}

func TestPaymentTypes_CannotBeArchived(t *testing.T) {
	h := newHarness(t, "", accessToken(t, "CEO"))
	h.app.start(h.ctx)
	require.NoError(t, h.app.Navigate(h.ctx, access.PathPaymentTypes))

	err := h.app.Archive(h.ctx, "2")
	require.Error(t, err)
	assert.Equal(t, "Payment type records cannot be archived.", client.Message(err))
}

func TestShow_DetailRouteAndNotFound(t *testing.T) {
	h := newHarness(t, "", accessToken(t, "Admin"))
	h.api.set("GET /core/students/6/", map[string]any{"id": 6, "full_name": "Ali Valiyev", "gender": "male"})
	h.api.fail("GET /core/students/5/", client.ErrNotFound)
	h.app.start(h.ctx)

	require.NoError(t, h.app.Navigate(h.ctx, "/students/6"))
	assert.Equal(t, "/students/6", h.app.path)
	assert.Contains(t, h.out.String(), "== Student #6 ==")
	assert.Contains(t, h.out.String(), "Ali Valiyev")

	require.NoError(t, h.app.Show(h.ctx, "5"))
	assert.Contains(t, h.out.String(), "Student #5 not found.")

	err := h.app.Show(h.ctx, "abc")
	require.Error(t, err)
	assert.Equal(t, `"abc" is not a valid id`, client.Message(err))
}

func TestActions_MenuStaysOpenOnUnavailableEntry(t *testing.T) {
	h := newHarness(t, "9\n1\n", accessToken(t, "CEO"))
	h.api.set("GET /core/branches/1/", map[string]any{"id": 1, "name": "Main", "address": "Tashkent"})
	h.app.start(h.ctx)
	require.NoError(t, h.app.Navigate(h.ctx, access.PathBranches))

	require.NoError(t, h.app.Actions(h.ctx, "1"))

	out := h.out.String()
	assert.Contains(t, out, "| Branch #1")
	assert.Contains(t, out, "1) Show")
	assert.Contains(t, out, "Restore (unavailable)")
	assert.Contains(t, out, "That entry is not available.")
	assert.Contains(t, out, "== Branch #1 ==")
	assert.Len(t, h.api.find(http.MethodGet, "/core/branches/1/"), 1)
}

func TestActions_EscapeRunsNothing(t *testing.T) {
	h := newHarness(t, "esc\n", accessToken(t, "CEO"))
	h.app.start(h.ctx)
	require.NoError(t, h.app.Navigate(h.ctx, access.PathBranches))

	require.NoError(t, h.app.Actions(h.ctx, "1"))
	assert.Empty(t, h.api.find(http.MethodGet, "/core/branches/1/"))
	assert.Empty(t, h.api.find(http.MethodPost, "/core/branches/1/archive/"))
}

func TestListCommands_WithoutListScreen(t *testing.T) {
	h := newHarness(t, "", accessToken(t, "CEO"))
	h.app.start(h.ctx)

	err := h.app.Add(h.ctx)
	require.Error(t, err)
	assert.Contains(t, client.Message(err), "has no list")
}

func TestFind(t *testing.T) {
	h := newHarness(t, "", accessToken(t, "CEO"))
	h.api.set("GET /core/global-search/", []map[string]any{
		{"id": 5, "type": "student", "name": "Ali Valiyev", "phone": "998901112233"},
		{"id": 3, "type": "teacher", "name": "Alisher Nazarov"},
	})

	err := h.app.Find(h.ctx, "a")
	require.Error(t, err)
	assert.Empty(t, h.api.find(http.MethodGet, "/core/global-search/"))

	require.NoError(t, h.app.Find(h.ctx, "ali"))
	out := h.out.String()
	assert.Contains(t, out, "/students/5")
	assert.Contains(t, out, "Ali Valiyev")
	assert.Contains(t, out, "/teachers/3")
	assert.Equal(t, "ali", h.api.last(t, http.MethodGet, "/core/global-search/").Query.Get("q"))
}

func TestPreferenceCommands(t *testing.T) {
	h := newHarness(t, "", accessToken(t, "CEO"))
	h.app.start(h.ctx)

	require.NoError(t, h.app.Theme(h.ctx, "dark"))
	assert.Equal(t, models.ThemeDark, h.app.prefs.Theme())
	assert.Equal(t, []models.Theme{models.ThemeDark}, h.app.prefs.Markers().Active())

	require.Error(t, h.app.Theme(h.ctx, "neon"))
	assert.Equal(t, models.ThemeDark, h.app.prefs.Theme())

	h.out.Reset()
	require.NoError(t, h.app.Menu(h.ctx, "horizontal"))
	assert.Equal(t, models.MenuHorizontal, h.app.prefs.MenuPosition())
	assert.Contains(t, h.out.String(), "[Dashboard] | Students")

	require.NoError(t, h.app.Branch(h.ctx, "2"))
	id, _ := h.app.prefs.SelectedBranchID()
	assert.EqualValues(t, 2, id)

	err := h.app.Branch(h.ctx, "9")
	require.Error(t, err)
	assert.Equal(t, "Branch 9 is not in the branch list.", client.Message(err))

	h.out.Reset()
	require.NoError(t, h.app.Prefs(h.ctx, []string{"reset"}))
	assert.Contains(t, h.out.String(), "Saved:  theme, menuPosition, layoutWidth, selectedBranchId\n")
	assert.Equal(t, models.DefaultPreferences().Theme, h.app.prefs.Theme())
	assert.Equal(t, models.MenuVertical, h.app.prefs.MenuPosition())
}

func TestNav_TogglesGroups(t *testing.T) {
	h := newHarness(t, "", accessToken(t, "CEO"))
	h.app.start(h.ctx)

	require.NoError(t, h.app.Nav(h.ctx, ""))
	assert.Contains(t, h.out.String(), "Settings [+]")
	assert.NotContains(t, h.out.String(), "Rooms")

	h.out.Reset()
	require.NoError(t, h.app.Nav(h.ctx, "Settings"))
	assert.Contains(t, h.out.String(), "Settings [-]")
	assert.Contains(t, h.out.String(), "Office [+]")
}

func TestReport_ExpiredSessionReturnsToLogin(t *testing.T) {
	h := newHarness(t, "", accessToken(t, "CEO"))
	h.app.start(h.ctx)
	h.api.fail("GET "+services.StudentsPath, client.ErrUnauthorized)
	h.api.hook = func(req client.Request) {
		if req.Path == services.StudentsPath {
			h.app.session.Expire(context.Background())
		}
	}

	execute(h.ctx, h.app, "go", []string{access.PathStudents})

	assert.False(t, h.app.isLoggedIn())
	assert.Equal(t, access.PathLogin, h.app.path)
	assert.Nil(t, h.app.screen)
	assert.Equal(t, "Your session has expired. Please log in again.", h.lastToast().Message)
}

func TestEnroll(t *testing.T) {
	h := newHarness(t, "2025-03-01\n\n", accessToken(t, "Admin"))
	h.api.set("POST "+services.EnrollmentsPath, map[string]any{"id": 40, "group_name": "English A1"})
	h.app.start(h.ctx)

	require.NoError(t, h.app.Enroll(h.ctx, "5", "8"))

	post := h.api.last(t, http.MethodPost, services.EnrollmentsPath)
	form, ok := post.Body.(forms.EnrollmentForm)
	require.True(t, ok, "body is %T", post.Body)
	assert.EqualValues(t, 5, form.Student)
	assert.EqualValues(t, 8, form.Group)
	assert.Equal(t, "2025-03-01", form.JoinedAt)
	assert.Equal(t, "Student #5 enrolled in English A1.", h.lastToast().Message)
}

func TestPassword_MismatchSendsNothing(t *testing.T) {
	h := newHarness(t, "", accessToken(t, "Teacher"))
	answers := [][]byte{[]byte("old-secret"), []byte("new-secret-1"), []byte("new-secret-2")}
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		next := answers[0]
		answers = answers[1:]
		return next, nil
	}

	err := h.app.Password(h.ctx)
	var verr *forms.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, h.api.find(http.MethodPost, "/users/password/change/"))
}

func TestBranches_FetchedAgainAfterOutageAndPerSession(t *testing.T) {
	h := newHarness(t, "998901234567\n", accessToken(t, "CEO"))
	h.api.fail("GET "+services.BranchesPath, client.ErrUnavailable)
	h.app.start(h.ctx)
	assert.True(t, h.app.prefs.BranchesLoading())

	// the backend is back: selecting a branch loads the list first
	h.api.fail("GET "+services.BranchesPath, nil)
	require.NoError(t, h.app.Branch(h.ctx, "2"))
	id, _ := h.app.prefs.SelectedBranchID()
	assert.EqualValues(t, 2, id)
	fetches := len(h.api.find(http.MethodGet, services.BranchesPath))
	assert.Equal(t, 2, fetches)

	require.NoError(t, h.app.Logout(h.ctx))
	assert.Empty(t, h.app.prefs.Branches())

	h.api.pair = models.TokenPair{Access: accessToken(t, "Admin"), Refresh: "r2"}
	h.api.set("GET "+services.BranchesPath, []map[string]any{{"id": 2, "name": "North"}})
	require.NoError(t, h.app.Login(h.ctx))
	assert.Len(t, h.api.find(http.MethodGet, services.BranchesPath), fetches+1)
	assert.Equal(t, []models.Branch{{ID: 2, Name: "North"}}, h.app.prefs.Branches())
}

func TestThemeAndWidth_ChangeOutput(t *testing.T) {
	const long = "Conference room on the second floor"
	h := newHarness(t, "", accessToken(t, "CEO"))
	h.api.set("GET "+services.RoomsPath, []map[string]any{{"id": 4, "name": long, "capacity": 12}})
	h.app.start(h.ctx)

	plain := h.app.status()
	assert.NotContains(t, plain, "\x1b[")

	h.out.Reset()
	require.NoError(t, h.app.Theme(h.ctx, "dark"))
	assert.True(t, strings.HasPrefix(h.out.String(), notify.Green+"[ok]"))
	assert.Equal(t, notify.Paint(models.ThemeDark, notify.Cyan, plain), h.app.status())

	h.out.Reset()
	require.NoError(t, h.app.Navigate(h.ctx, access.PathRooms))
	assert.Contains(t, h.out.String(), long)

	require.NoError(t, h.app.Width(h.ctx, "contained"))
	h.out.Reset()
	require.NoError(t, h.app.Refresh(h.ctx))
	assert.NotContains(t, h.out.String(), long)
	assert.Contains(t, h.out.String(), "Conference room on th...")

	require.NoError(t, h.app.Theme(h.ctx, "light"))
	require.NoError(t, h.app.Width(h.ctx, "full"))
	assert.NotContains(t, h.app.status(), "\x1b[")
	h.out.Reset()
	require.NoError(t, h.app.Refresh(h.ctx))
	assert.Contains(t, h.out.String(), long)
}

func TestMyGroups_TeacherSeesOwnGroupsReadOnly(t *testing.T) {
	h := newHarness(t, "", accessToken(t, "Teacher"))
	h.api.set("GET "+services.GroupsPath, []map[string]any{{"id": 3, "name": "English A1", "teacher_name": "Aziza Karimova"}})
	h.api.set("GET /core/groups/3/", map[string]any{"id": 3, "name": "English A1"})
	h.app.start(h.ctx)

	h.out.Reset()
	require.NoError(t, h.app.Nav(h.ctx, ""))
	assert.Contains(t, h.out.String(), "My groups  /my-groups")
	assert.Contains(t, h.out.String(), "My students  /my-students")

	require.NoError(t, h.app.Navigate(h.ctx, access.PathMyGroups))
	assert.Equal(t, access.PathMyGroups, h.app.path)
	assert.Contains(t, h.out.String(), "== My groups == [branch=1 is_archived=false teacher=7]")
	assert.Contains(t, h.out.String(), "English A1")
	assert.Equal(t, "7", h.api.last(t, http.MethodGet, services.GroupsPath).Query.Get("teacher"))

	err := h.app.Filter(h.ctx, "teacher", "9")
	require.Error(t, err)
	assert.Contains(t, client.Message(err), `Unknown filter "teacher"`)

	require.NoError(t, h.app.Clear(h.ctx))
	q := h.api.last(t, http.MethodGet, services.GroupsPath).Query
	assert.Equal(t, "7", q.Get("teacher"))
	assert.Equal(t, "1", q.Get("branch"))
	assert.Empty(t, q.Get("is_archived"))

	for _, run := range []func() error{
		func() error { return h.app.Add(h.ctx) },
		func() error { return h.app.Edit(h.ctx, "3") },
		func() error { return h.app.Archive(h.ctx, "3") },
		func() error { return h.app.Delete(h.ctx, "3") },
		func() error { return h.app.Actions(h.ctx, "3") },
	} {
		err := run()
		require.Error(t, err)
		assert.Equal(t, "My groups is read-only.", client.Message(err))
	}
	assert.Empty(t, h.api.find(http.MethodPost, "/core/groups/3/archive/"))
	assert.Empty(t, h.api.find(http.MethodDelete, "/core/groups/3/"))

	require.NoError(t, h.app.Navigate(h.ctx, "/my-groups/3"))
	assert.Contains(t, h.out.String(), "== Group #3 ==")
}

func TestMyStudents_ScopedToTeacher(t *testing.T) {
	h := newHarness(t, "", accessToken(t, "Teacher"))
	h.app.start(h.ctx)

	require.NoError(t, h.app.Navigate(h.ctx, access.PathMyStudents))
	assert.Equal(t, "7", h.api.last(t, http.MethodGet, services.StudentsPath).Query.Get("teacher_id"))
	assert.Contains(t, h.out.String(), "== My students ==")

	require.NoError(t, h.app.Navigate(h.ctx, access.PathStudents))
	assert.Equal(t, access.PathHome, h.app.path, "the admin list stays closed to teachers")
}

func TestMyGroups_ClosedToAdmins(t *testing.T) {
	h := newHarness(t, "", accessToken(t, "Admin"))
	h.app.start(h.ctx)

	require.NoError(t, h.app.Navigate(h.ctx, access.PathMyGroups))
	assert.Equal(t, access.PathHome, h.app.path)
	assert.Empty(t, h.api.find(http.MethodGet, services.GroupsPath))
}
