package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_BareArray(t *testing.T) {
	var p Page[Branch]
	require.NoError(t, json.Unmarshal([]byte(`[{"id":1,"name":"Chilonzor"},{"id":2,"name":"Yunusobod"}]`), &p))

	require.Len(t, p.Results, 2)
	assert.Equal(t, "Yunusobod", p.Results[1].Name)
	assert.Equal(t, 2, p.Count)
	assert.Empty(t, p.Next)
}

func TestPage_Envelope(t *testing.T) {
	body := `{"count":41,"next":"http://x/api/core/students/?page=2","previous":null,
		"results":[{"id":7,"full_name":"Ali Valiyev","phone_number":998901234567,"balance":"-150000.00"}]}`

	var p Page[Student]
	require.NoError(t, json.Unmarshal([]byte(body), &p))

	require.Len(t, p.Results, 1)
	assert.Equal(t, 41, p.Count)
	assert.Equal(t, "http://x/api/core/students/?page=2", p.Next)
	assert.Equal(t, Phone("998901234567"), p.Results[0].PhoneNumber)
	assert.Equal(t, Decimal("-150000.00"), p.Results[0].Balance)
}

func TestPage_EmptyShapes(t *testing.T) {
	for _, body := range []string{`[]`, `{"results":[]}`, `null`} {
		var p Page[Room]
		require.NoError(t, json.Unmarshal([]byte(body), &p), body)
		assert.NotNil(t, p.Results, body)
		assert.Empty(t, p.Results, body)
	}
}

func TestPage_Rejects(t *testing.T) {
	for _, body := range []string{`{"detail":"Not found."}`, `"oops"`, `42`} {
		var p Page[Room]
		assert.Error(t, json.Unmarshal([]byte(body), &p), body)
	}
}

func TestPhone_AcceptsStringOrNumber(t *testing.T) {
	var s struct {
		A Phone `json:"a"`
		B Phone `json:"b"`
		C Phone `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":998901112233,"b":"998901112244","c":null}`), &s))
	assert.Equal(t, Phone("998901112233"), s.A)
	assert.Equal(t, Phone("998901112244"), s.B)
	assert.Equal(t, Phone(""), s.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &s))
}

func TestNumericID_AcceptsStringOrNumber(t *testing.T) {
	var s struct {
		A NumericID `json:"a"`
		B NumericID `json:"b"`
		C NumericID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":12,"b":"34","c":null}`), &s))
	assert.EqualValues(t, 12, s.A)
	assert.EqualValues(t, 34, s.B)
	assert.EqualValues(t, 0, s.C)

	assert.Error(t, json.Unmarshal([]byte(`{"a":"abc"}`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"a":1.5}`), &s))
}

func TestRoles(t *testing.T) {
	rs := NewRoles("teacher", "CEO", "ceo", "janitor")
	assert.Equal(t, Roles{RoleCEO, RoleTeacher}, rs)
	assert.True(t, rs.Has(RoleTeacher))
	assert.False(t, rs.Has(RoleAdmin))
	assert.True(t, rs.Intersects(Roles{RoleAdmin, RoleCEO}))
	assert.False(t, rs.Intersects(Roles{RoleAdmin}))
	assert.False(t, rs.Intersects(nil))
	assert.Equal(t, "CEO, Teacher", rs.String())
}

func TestIdentityPatch_Apply(t *testing.T) {
	name := "Aziza Karimova"
	id := Identity{UserID: 3, FullName: "Aziza", Roles: Roles{RoleAdmin}, PhoneNumber: "998900000001"}

	got := IdentityPatch{FullName: &name}.Apply(id)

	assert.Equal(t, "Aziza Karimova", got.FullName)
	assert.Equal(t, "998900000001", got.PhoneNumber)
	assert.Equal(t, Roles{RoleAdmin}, got.Roles)
	assert.Equal(t, "Aziza", id.FullName, "original is not modified")
}

func TestParsePreferences(t *testing.T) {
	th, err := ParseTheme("DARK")
	require.NoError(t, err)
	assert.Equal(t, ThemeDark, th)
	_, err = ParseTheme("sepia")
	assert.Error(t, err)

	mp, err := ParseMenuPosition("horizontal")
	require.NoError(t, err)
	assert.Equal(t, MenuHorizontal, mp)
	_, err = ParseMenuPosition("diagonal")
	assert.Error(t, err)

	lw, err := ParseLayoutWidth("contained")
	require.NoError(t, err)
	assert.Equal(t, LayoutContained, lw)
	_, err = ParseLayoutWidth("")
	assert.Error(t, err)
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "998901234567", DigitsOnly("+998 (90) 123-45-67"))
	assert.Equal(t, "", DigitsOnly("abc"))
	assert.Equal(t, "12", DigitsOnly("1٣2"))
}
