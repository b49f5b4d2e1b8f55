package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"madajob-backend/shared/config"
	"madajob-backend/shared/database"
	"madajob-backend/shared/database/databasetest"
	"madajob-backend/shared/database/models"
	utils "madajob-backend/shared/utils/auth"
	"madajob-backend/shared/utils/cache"
)

const testPassword = "root"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.SetHashCost(bcrypt.MinCost)
	m.Run()
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  database.Store
	users  map[string]models.User
}

func testConfig(env config.Environment) *config.Config {
	return &config.Config{
		AppName:                  "Mada Job app",
		AppVersion:               "0.1",
		Environment:              env,
		SecretKey:                "test-secret",
		Algorithm:                "HS256",
		AccessTokenExpireMinutes: 30,
		RefreshTokenExpireDays:   7,
		TokenType:                "bearer",
		ClientCacheMaxAge:        60,
		CORSAllowedOrigins:       []string{"http://localhost:3000"},
	}
}

func newTestServer(t *testing.T, env config.Environment) *testServer {
	t.Helper()

	store, _ := databasetest.Open(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	a, err := newApp(testConfig(env), zap.NewNop(), store, cache.NewRevocationCache(client))
	require.NoError(t, err)

	s := &testServer{t: t, router: a.router(), store: store, users: map[string]models.User{}}
	s.seed("user", false)
	s.seed("other", false)
	s.seed("superadmin", true)
	return s
}

func (s *testServer) seed(username string, superuser bool) {
	hash, err := utils.HashPassword(testPassword)
	require.NoError(s.t, err)
	u := &models.User{
		Name:           "Test " + username,
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: hash,
		IsSuperuser:    superuser,
	}
	require.NoError(s.t, s.store.Users().Create(context.Background(), u))
	s.users[username] = *u
}

func (s *testServer) do(method, path, token string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(identifier, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {identifier}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) token(username string) string {
	rec := s.login(username, testPassword)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())
	var body map[string]string
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["access_token"]
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func refreshCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refresh_token" {
			return c
		}
	}
	return nil
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)

	rec := s.login("superadmin", testPassword)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.NotEmpty(t, body["access_token"])
	assert.Equal(t, "bearer", body["token_type"])
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	cookie := refreshCookie(rec)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 7*24*60*60, cookie.MaxAge)
}

func TestLogin_ByEmail(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)

	rec := s.login("user@example.com", testPassword)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)

	rec := s.login("superadmin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Wrong username, email or password.", decode(t, rec)["detail"])
	assert.Nil(t, refreshCookie(rec))
}

func TestLogin_MissingFields(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)

	rec := s.login("", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRefresh(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)
	cookie := refreshCookie(s.login("user", testPassword))
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: cookie.Value})
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	access := decode(t, rec)["access_token"].(string)

	me := s.do(http.MethodGet, "/api/v1/users/me", access, "")
	assert.Equal(t, http.StatusOK, me.Code)

	noCookie := s.do(http.MethodPost, "/api/v1/auth/refresh", "", "")
	assert.Equal(t, http.StatusUnauthorized, noCookie.Code)
}

func TestRefresh_TokenUseIsEnforced(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)
	loginRec := s.login("user", testPassword)
	access := decode(t, loginRec)["access_token"].(string)
	cookie := refreshCookie(loginRec)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: access})
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	me := s.do(http.MethodGet, "/api/v1/users/me", cookie.Value, "")
	assert.Equal(t, http.StatusUnauthorized, me.Code)
}

func TestLogout(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)
	loginRec := s.login("user", testPassword)
	access := decode(t, loginRec)["access_token"].(string)
	cookie := refreshCookie(loginRec)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: cookie.Value})
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cleared := refreshCookie(rec)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/users/me", access, "").Code)
}

func TestMe(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)

	rec := s.do(http.MethodGet, "/api/v1/users/me", s.token("user"), "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "user", body["username"])
	assert.NotContains(t, body, "hashed_password")
	assert.Equal(t, "private, max-age=60", rec.Header().Get("Cache-Control"))
}

func TestMe_Unauthenticated(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)

	for name, token := range map[string]string{"missing": "", "garbage": "garbage"} {
		t.Run(name, func(t *testing.T) {
			rec := s.do(http.MethodGet, "/api/v1/users/me", token, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "User not authenticated.", decode(t, rec)["detail"])
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestCreateUser(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)
	admin := s.token("superadmin")
	payload := `{"name":"New User","username":"newbie","email":"newbie@example.com","password":"secret"}`

	rec := s.do(http.MethodPost, "/api/v1/users", admin, payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "newbie", body["username"])
	assert.Equal(t, false, body["is_superuser"])

	assert.Equal(t, http.StatusOK, s.login("newbie", "secret").Code)

	dup := s.do(http.MethodPost, "/api/v1/users", admin, payload)
	assert.Equal(t, http.StatusUnprocessableEntity, dup.Code)
	assert.Equal(t, "Email is already registered", decode(t, dup)["detail"])

	forbidden := s.do(http.MethodPost, "/api/v1/users", s.token("user"),
		`{"name":"X Y","username":"xy","email":"xy@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusForbidden, forbidden.Code)
}

func TestCreateUser_Validation(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)
	admin := s.token("superadmin")

	for name, payload := range map[string]string{
		"bad username":  `{"name":"Bad","username":"Bad_Name","email":"bad@example.com","password":"secret"}`,
		"bad email":     `{"name":"Bad","username":"bad","email":"not-an-email","password":"secret"}`,
		"short name":    `{"name":"B","username":"bad","email":"bad@example.com","password":"secret"}`,
		"unknown field": `{"name":"Bad","username":"bad","email":"bad@example.com","password":"secret","role":"x"}`,
		"malformed":     `{"name":`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/v1/users", admin, payload)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateUser_PasswordByteLimit(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)
	admin := s.token("superadmin")

	tooLong := strings.Repeat("é", utils.MaxPasswordBytes)
	rec := s.do(http.MethodPost, "/api/v1/users", admin,
		`{"name":"Long Pass","username":"longpass","email":"longpass@example.com","password":"`+tooLong+`"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(t, "password must be at most 72 bytes", decode(t, rec)["detail"])

	atLimit := strings.Repeat("é", utils.MaxPasswordBytes/2)
	rec = s.do(http.MethodPost, "/api/v1/users", admin,
		`{"name":"Long Pass","username":"longpass","email":"longpass@example.com","password":"`+atLimit+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusOK, s.login("longpass", atLimit).Code)
	assert.Equal(t, http.StatusUnauthorized, s.login("longpass", atLimit+"x").Code)
}

func TestGetUsers(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)
	admin := s.token("superadmin")

	rec := s.do(http.MethodGet, "/api/v1/users?page=1&items_per_page=1", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(2), body["total_count"])
	assert.Equal(t, true, body["has_more"])
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(1), body["items_per_page"])
	assert.Len(t, body["data"], 1)

	supers := decode(t, s.do(http.MethodGet, "/api/v1/users?is_superuser=true", admin, ""))
	assert.Equal(t, float64(1), supers["total_count"])

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/v1/users", s.token("user"), "").Code)
}

func TestGetUser(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)
	admin := s.token("superadmin")

	rec := s.do(http.MethodGet, "/api/v1/users/"+idOf(s, "user"), admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user", decode(t, rec)["username"])

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/v1/users/9999", admin, "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, s.do(http.MethodGet, "/api/v1/users/abc", admin, "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/v1/users/"+idOf(s, "other"), s.token("user"), "").Code)
}

func TestPatchUser(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)
	userToken := s.token("user")

	rec := s.do(http.MethodPatch, "/api/v1/users/"+idOf(s, "user"), userToken, `{"name":"Renamed User"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Renamed User", decode(t, rec)["name"])

	taken := s.do(http.MethodPatch, "/api/v1/users/"+idOf(s, "user"), userToken, `{"username":"other"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, taken.Code)
	assert.Equal(t, "Username not available", decode(t, taken)["detail"])

	// a superuser editing someone else's account is still rejected
	forbidden := s.do(http.MethodPatch, "/api/v1/users/"+idOf(s, "user"), s.token("superadmin"), `{"name":"Hijacked"}`)
	assert.Equal(t, http.StatusForbidden, forbidden.Code)

	missing := s.do(http.MethodPatch, "/api/v1/users/9999", userToken, `{"name":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestDeleteUser(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)
	userToken := s.token("user")

	forbidden := s.do(http.MethodDelete, "/api/v1/users/"+idOf(s, "user"), s.token("superadmin"), "")
	assert.Equal(t, http.StatusForbidden, forbidden.Code)

	rec := s.do(http.MethodDelete, "/api/v1/users/"+idOf(s, "user"), userToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted", decode(t, rec)["message"])

	// the token used for the delete is revoked
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/users/me", userToken, "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.login("user", testPassword).Code)
}

func TestEraseUser(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)
	otherToken := s.token("other")

	rec := s.do(http.MethodDelete, "/api/v1/users/db/"+idOf(s, "other"), otherToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted", decode(t, rec)["message"])

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/v1/users/me", otherToken, "").Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, config.EnvironmentLocal)

	rec := s.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDocs_ByEnvironment(t *testing.T) {
	local := newTestServer(t, config.EnvironmentLocal)
	assert.Equal(t, http.StatusOK, local.do(http.MethodGet, "/docs/doc.json", "", "").Code)

	staging := newTestServer(t, config.EnvironmentStaging)
	assert.Equal(t, http.StatusUnauthorized, staging.do(http.MethodGet, "/docs/doc.json", "", "").Code)
	assert.Equal(t, http.StatusForbidden, staging.do(http.MethodGet, "/docs/doc.json", staging.token("user"), "").Code)
	assert.Equal(t, http.StatusOK, staging.do(http.MethodGet, "/docs/doc.json", staging.token("superadmin"), "").Code)

	production := newTestServer(t, config.EnvironmentProduction)
	assert.Equal(t, http.StatusNotFound, production.do(http.MethodGet, "/docs/doc.json", "", "").Code)
}

func idOf(s *testServer, username string) string {
	return strconv.FormatUint(uint64(s.users[username].ID), 10)
}
