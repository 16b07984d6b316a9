package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/scatch/internal/models"
	"github.com/Skotchmaster/scatch/internal/repo"
	"github.com/Skotchmaster/scatch/internal/service"
)

type testEnv struct {
	T    *testing.T
	E    *echo.Echo
	Repo *repo.GormRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// a pooled second connection to :memory: would see its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.RefreshToken{},
	))

	r := repo.New(db)
	jwtSecret := []byte("test-jwt-secret")
	refreshSecret := []byte("test-refresh-secret")

	tokenSvc := &service.TokenService{Repo: r, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}
	authSvc := &service.AuthService{Repo: r, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}
	cartSvc := &service.CartService{Repo: r}
	catalogSvc := &service.CatalogService{Repo: r}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:    &AuthHandler{Svc: authSvc},
		ShopHandler:    &ShopHandler{Svc: catalogSvc},
		CartHandler:    &CartHandler{Svc: cartSvc},
		ProductHandler: &ProductHandler{Svc: catalogSvc, Index: "products"},
		SearchHandler:  &SearchHandler{Index: "products"},
		Auth:           &AuthMiddleware{Tokens: tokenSvc},
	})

	return &testEnv{T: t, E: e, Repo: r}
}

func (env *testEnv) do(method, target string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

// register creates a user through the HTTP flow and returns the session
// cookies from the response.
func (env *testEnv) register(email string) []*http.Cookie {
	env.T.Helper()

	rec := env.do(http.MethodPost, "/register", map[string]string{
		"email":    email,
		"fullname": "Test User",
		"password": "secret",
	})
	require.Equal(env.T, http.StatusCreated, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(env.T, cookies)
	return cookies
}

func (env *testEnv) makeAdmin(email string) {
	env.T.Helper()
	require.NoError(env.T, env.Repo.DB.
		Model(&models.User{}).
		Where("email = ?", email).
		Update("role", "admin").Error)
}

func (env *testEnv) login(email, password string) (*httptest.ResponseRecorder, []*http.Cookie) {
	env.T.Helper()
	rec := env.do(http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
	return rec, rec.Result().Cookies()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
