package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/greetingws/internal/common"
	"github.com/dmitrijs2005/greetingws/internal/server/models"
	"github.com/dmitrijs2005/greetingws/internal/server/requestctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

type fakeAccountLookup struct {
	accounts map[string]*models.Account
	err      error
}

func (f *fakeAccountLookup) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.accounts[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func testAccount(t *testing.T, username, password string) *models.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.Account{
		Username: username,
		Password: string(hash),
		Enabled:  true,
		Roles:    []models.Role{{ID: 1, Code: "ROLE_USER", Label: "User"}},
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestBasicAuth(t *testing.T) {
	account := testAccount(t, "user", "password")
	lookup := &fakeAccountLookup{accounts: map[string]*models.Account{"user": account}}
	eh := NewErrorHandler(testLogger())

	var seenUsername string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUsername, _ = requestctx.Username(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := BasicAuth(lookup, eh, testLogger())(inner)

	req := httptest.NewRequest(http.MethodGet, "/greetings", nil)
	req.SetBasicAuth("user", "password")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user", seenUsername, "identity must be established for downstream audit stamping")
}

func TestBasicAuth_Rejections(t *testing.T) {
	account := testAccount(t, "user", "password")

	disabled := testAccount(t, "disabled", "password")
	disabled.Enabled = false

	locked := testAccount(t, "locked", "password")
	locked.Locked = true

	expired := testAccount(t, "expired", "password")
	expired.Expired = true

	stale := testAccount(t, "stale", "password")
	stale.CredentialsExpired = true

	roleless := testAccount(t, "roleless", "password")
	roleless.Roles = nil

	lookup := &fakeAccountLookup{accounts: map[string]*models.Account{
		"user": account, "disabled": disabled, "locked": locked,
		"expired": expired, "stale": stale, "roleless": roleless,
	}}
	handler := BasicAuth(lookup, NewErrorHandler(testLogger()), testLogger())(okHandler())

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "user", "hunter2"},
		{"unknown username", "nobody", "password"},
		{"disabled account", "disabled", "password"},
		{"locked account", "locked", "password"},
		{"expired account", "expired", "password"},
		{"expired credentials", "stale", "password"},
		{"account without roles", "roleless", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/greetings", nil)
			req.SetBasicAuth(tt.username, tt.password)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, `Basic realm="greetingws"`, rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestBasicAuth_MissingCredentials(t *testing.T) {
	lookup := &fakeAccountLookup{accounts: map[string]*models.Account{}}
	handler := BasicAuth(lookup, NewErrorHandler(testLogger()), testLogger())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/greetings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBasicAuth_StoreFailureAnswersLikeBadCredentials(t *testing.T) {
	lookup := &fakeAccountLookup{err: common.ErrorInternal}
	handler := BasicAuth(lookup, NewErrorHandler(testLogger()), testLogger())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/greetings", nil)
	req.SetBasicAuth("user", "password")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestID_Generated(t *testing.T) {
	handler := RequestID(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/greetings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestRequestID_ClientValueEchoed(t *testing.T) {
	handler := RequestID(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/greetings", nil)
	req.Header.Set(requestIDHeader, "client-supplied-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "client-supplied-id", rec.Header().Get(requestIDHeader))
}

func TestCORS_HeadersOnEveryResponse(t *testing.T) {
	handler := CORS("*")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/greetings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	reached := false
	handler := CORS("https://app.example.com")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/greetings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, reached, "preflight must not reach the handler chain")
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	limiter := rate.NewLimiter(rate.Limit(1), 2)
	handler := RateLimit(limiter, NewErrorHandler(testLogger()))(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/greetings", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
