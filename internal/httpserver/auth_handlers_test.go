package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flashBody struct {
	Flash Flash `json:"flash"`
}

func TestRegister_SetsSessionCookies(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cookies := env.register("a@b.c")

	names := map[string]bool{}
	for _, ck := range cookies {
		names[ck.Name] = true
	}
	assert.True(t, names[accessCookieName])
	assert.True(t, names[refreshCookieName])
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/register", map[string]string{
		"email":    "a@b.c",
		"password": "secret",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body flashBody
	decodeBody(t, rec, &body)
	assert.Equal(t, "all fields are required", body.Flash.Error)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register("a@b.c")

	rec := env.do(http.MethodPost, "/register", map[string]string{
		"email":    "a@b.c",
		"fullname": "Other Name",
		"password": "other",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body flashBody
	decodeBody(t, rec, &body)
	assert.Equal(t, "you already have an account, please login", body.Flash.Error)
}

func TestLogin_SameResponseForUnknownEmailAndWrongPassword(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register("a@b.c")

	unknownRec, _ := env.login("nobody@b.c", "secret")
	wrongRec, _ := env.login("a@b.c", "wrong")

	require.Equal(t, http.StatusUnauthorized, unknownRec.Code)
	require.Equal(t, http.StatusUnauthorized, wrongRec.Code)
	assert.Equal(t, unknownRec.Body.String(), wrongRec.Body.String())
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.register("a@b.c")

	rec, cookies := env.login("a@b.c", "secret")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, cookies)
}

func TestLogout_ClearsCookiesAndRevokesRefresh(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cookies := env.register("a@b.c")

	var refreshValue string
	for _, ck := range cookies {
		if ck.Name == refreshCookieName {
			refreshValue = ck.Value
		}
	}
	require.NotEmpty(t, refreshValue)

	rec := env.do(http.MethodPost, "/logout", nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, ck := range rec.Result().Cookies() {
		assert.Empty(t, ck.Value)
	}

	stored, err := env.Repo.GetRefreshToken(t.Context(), refreshValue)
	require.NoError(t, err)
	assert.True(t, stored.Revoked)
}

func TestCartRoutes_RequireSession(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	for _, target := range []string{"/shop", "/cart", "/addtocart/1", "/increment/1", "/decrement/1", "/remove/1"} {
		rec := env.do(http.MethodGet, target, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}
}

func TestAdminRoutes_RequireAdminRole(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	cookies := env.register("a@b.c")

	rec := env.do(http.MethodPost, "/admin/products", map[string]any{
		"name":  "Lamp",
		"price": 100,
	}, cookies...)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
