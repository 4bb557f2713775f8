package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhle/user-admin-api/internal/api/middleware"
	"github.com/minhle/user-admin-api/internal/domain"
	"github.com/minhle/user-admin-api/internal/testutil"
)

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(data))
	require.NoError(t, err)
	return resp
}

func TestRegisterEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("successful registration", func(t *testing.T) {
		resp := postJSON(t, ts.APIURL("/auth/register"), map[string]string{
			"username": "alice",
			"email":    "alice@example.com",
			"password": "password123",
			"name":     "Alice",
		})
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var result struct {
			Account struct {
				ID       string `json:"id"`
				Username string `json:"username"`
				Email    string `json:"email"`
			} `json:"account"`
			User struct {
				ID   string `json:"id"`
				Name string `json:"name"`
				Role string `json:"role"`
			} `json:"user"`
		}
		testutil.AssertJSONResponse(t, resp, &result)

		assert.Equal(t, "alice", result.Account.Username)
		assert.Equal(t, "Alice", result.User.Name)
		assert.Equal(t, string(domain.RoleUser), result.User.Role)
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := postJSON(t, ts.APIURL("/auth/register"), map[string]string{
			"username": "bob",
		})
		defer resp.Body.Close()

		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "required")
	})

	t.Run("duplicate username", func(t *testing.T) {
		resp := postJSON(t, ts.APIURL("/auth/register"), map[string]string{
			"username": "alice",
			"email":    "alice2@example.com",
			"password": "password123",
			"name":     "Alice Again",
		})
		defer resp.Body.Close()

		testutil.AssertErrorResponse(t, resp, http.StatusConflict, "already in use")
	})

	t.Run("invalid role", func(t *testing.T) {
		resp := postJSON(t, ts.APIURL("/auth/register"), map[string]string{
			"username": "carol",
			"email":    "carol@example.com",
			"password": "password123",
			"name":     "Carol",
			"role":     "OVERLORD",
		})
		defer resp.Body.Close()

		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Invalid role")
	})
}

func TestLoginEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)

	testutil.NewAccountBuilder().
		WithUsername("loginuser").
		WithEmail("loginuser@example.com").
		WithPassword("correctpassword").
		Build(t, ts.DB.DB)

	t.Run("successful login sets cookies", func(t *testing.T) {
		resp := postJSON(t, ts.APIURL("/auth/login"), map[string]string{
			"login":    "loginuser",
			"password": "correctpassword",
		})
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var authResp testutil.AuthResponse
		testutil.AssertJSONResponse(t, resp, &authResp)
		assert.NotEmpty(t, authResp.AccessToken)
		assert.NotEmpty(t, authResp.RefreshToken)

		access := testutil.CookieByName(resp, middleware.AccessTokenCookie)
		require.NotNil(t, access, "access_token cookie not set")
		assert.Equal(t, authResp.AccessToken, access.Value)
		assert.True(t, access.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, access.SameSite)
		assert.False(t, access.Secure, "Secure must be off outside production")

		refresh := testutil.CookieByName(resp, middleware.RefreshTokenCookie)
		require.NotNil(t, refresh, "refresh_token cookie not set")
		assert.Equal(t, authResp.RefreshToken, refresh.Value)
		assert.True(t, refresh.HttpOnly)
	})

	t.Run("wrong password and unknown user look identical", func(t *testing.T) {
		wrongPass := postJSON(t, ts.APIURL("/auth/login"), map[string]string{
			"login":    "loginuser",
			"password": "wrongpassword",
		})
		defer wrongPass.Body.Close()
		testutil.AssertErrorResponse(t, wrongPass, http.StatusUnauthorized, "Invalid credentials")

		unknown := postJSON(t, ts.APIURL("/auth/login"), map[string]string{
			"login":    "does-not-exist",
			"password": "whatever",
		})
		defer unknown.Body.Close()
		testutil.AssertErrorResponse(t, unknown, http.StatusUnauthorized, "Invalid credentials")
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := postJSON(t, ts.APIURL("/auth/login"), map[string]string{
			"login": "loginuser",
		})
		defer resp.Body.Close()

		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "required")
	})
}

func TestMeEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)

	account, authResp := testutil.NewAccountBuilder().
		WithUsername("meuser").
		WithName("Me User").
		BuildAndLogin(t, ts)

	t.Run("bearer token", func(t *testing.T) {
		req := testutil.AuthorizedRequest(t, http.MethodGet, ts.APIURL("/auth/me"), authResp.AccessToken, nil)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var me struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Role string `json:"role"`
		}
		testutil.AssertJSONResponse(t, resp, &me)
		assert.Equal(t, account.User.ID.String(), me.ID)
		assert.Equal(t, "Me User", me.Name)
	})

	t.Run("cookie token", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, ts.APIURL("/auth/me"), nil)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: authResp.AccessToken})

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)
	})

	t.Run("no token", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/auth/me"))
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		req := testutil.AuthorizedRequest(t, http.MethodGet, ts.APIURL("/auth/me"), authResp.RefreshToken, nil)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})
}

func TestRefreshEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, authResp := testutil.NewAccountBuilder().
		WithUsername("refreshuser").
		BuildAndLogin(t, ts)

	refreshWith := func(t *testing.T, refreshToken string) *http.Response {
		t.Helper()
		req := testutil.AuthorizedRequest(t, http.MethodPost, ts.APIURL("/auth/refresh"), refreshToken, nil)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("rotation and replay", func(t *testing.T) {
		resp := refreshWith(t, authResp.RefreshToken)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var rotated struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		}
		testutil.AssertJSONResponse(t, resp, &rotated)
		assert.NotEmpty(t, rotated.AccessToken)
		assert.NotEqual(t, authResp.RefreshToken, rotated.RefreshToken)

		require.NotNil(t, testutil.CookieByName(resp, middleware.AccessTokenCookie))
		require.NotNil(t, testutil.CookieByName(resp, middleware.RefreshTokenCookie))

		// Replaying the pre-rotation token must fail
		replay := refreshWith(t, authResp.RefreshToken)
		defer replay.Body.Close()
		testutil.AssertStatusCode(t, replay, http.StatusUnauthorized)

		// The rotated token works
		next := refreshWith(t, rotated.RefreshToken)
		defer next.Body.Close()
		testutil.AssertStatusCode(t, next, http.StatusOK)
	})

	t.Run("access token rejected on the refresh endpoint", func(t *testing.T) {
		resp := refreshWith(t, authResp.AccessToken)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})

	t.Run("no token", func(t *testing.T) {
		resp, err := http.Post(ts.APIURL("/auth/refresh"), "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, authResp := testutil.NewAccountBuilder().
		WithUsername("logoutuser").
		BuildAndLogin(t, ts)

	req := testutil.AuthorizedRequest(t, http.MethodPost, ts.APIURL("/auth/logout"), authResp.AccessToken, nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)

	access := testutil.CookieByName(resp, middleware.AccessTokenCookie)
	require.NotNil(t, access)
	assert.Empty(t, access.Value)
	assert.Negative(t, access.MaxAge)

	// The access token is still within its signed lifetime but its session is
	// gone, so it stops working immediately
	me := testutil.AuthorizedRequest(t, http.MethodGet, ts.APIURL("/auth/me"), authResp.AccessToken, nil)
	meResp, err := http.DefaultClient.Do(me)
	require.NoError(t, err)
	defer meResp.Body.Close()

	testutil.AssertStatusCode(t, meResp, http.StatusUnauthorized)

	// The refresh token dies with the session too
	refresh := testutil.AuthorizedRequest(t, http.MethodPost, ts.APIURL("/auth/refresh"), authResp.RefreshToken, nil)
	refreshResp, err := http.DefaultClient.Do(refresh)
	require.NoError(t, err)
	defer refreshResp.Body.Close()

	testutil.AssertStatusCode(t, refreshResp, http.StatusUnauthorized)
}

func TestSessionExpiryEndsAccess(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, authResp := testutil.NewAccountBuilder().
		WithUsername("expiryuser").
		BuildAndLogin(t, ts)

	// Jump past the session TTL; the signed tokens themselves are still valid
	ts.Redis.Mini.FastForward(ts.Config.SessionTTL + time.Minute)

	req := testutil.AuthorizedRequest(t, http.MethodGet, ts.APIURL("/auth/me"), authResp.AccessToken, nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
}
