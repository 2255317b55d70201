package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/assohub/assohub-api/internal/api/handler/v1/response"
	"github.com/assohub/assohub-api/internal/config"
	"github.com/assohub/assohub-api/internal/domain"
	"github.com/assohub/assohub-api/internal/repository/dao"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dsn := fmt.Sprintf("file:%v?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(db))

	conf := &config.AppConfig{
		API: &config.APIConfig{
			Environment:   "test",
			BaseURL:       "localhost",
			Port:          "8080",
			JWTSigningKey: "test-signing-key",
		},
		Gin: &config.GinConfig{Mode: gin.TestMode},
	}

	return NewServer(conf, db)
}

func doRequest(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	s.Router.ServeHTTP(recorder, req)

	return recorder
}

func decodeJSON(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), target))
}

func signup(t *testing.T, s *Server, username string) domain.Account {
	t.Helper()

	recorder := doRequest(t, s, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"username":         username,
		"password":         "password1",
		"confirm_password": "password1",
		"email":            username + "@example.com",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var account domain.Account
	decodeJSON(t, recorder, &account)

	return account
}

func login(t *testing.T, s *Server, username, password string) string {
	t.Helper()

	recorder := doRequest(t, s, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var resp response.LoginResponse
	decodeJSON(t, recorder, &resp)
	require.NotEmpty(t, resp.Token)

	return resp.Token
}

func TestServer_Healthcheck(t *testing.T) {
	s := newTestServer(t)

	recorder := doRequest(t, s, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestServer_FirstSignupBootstrapsAdministrator(t *testing.T) {
	s := newTestServer(t)

	first := signup(t, s, "presidente")
	assert.Equal(t, domain.RoleAdministrator, first.Role)

	second := signup(t, s, "segretario")
	assert.Equal(t, domain.RoleAssociate, second.Role)
}

func TestServer_AuthedRoutesRejectMissingToken(t *testing.T) {
	s := newTestServer(t)

	recorder := doRequest(t, s, http.MethodGet, "/api/v1/members", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = doRequest(t, s, http.MethodGet, "/api/v1/members", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestServer_MembershipLifecycle(t *testing.T) {
	s := newTestServer(t)

	signup(t, s, "presidente")
	adminToken := login(t, s, "presidente", "password1")

	// The administrator registers Mario Rossi with a login account.
	recorder := doRequest(t, s, http.MethodPost, "/api/v1/members", adminToken, gin.H{
		"first_name": "Mario",
		"last_name":  "Rossi",
		"email":      "mario@example.com",
		"username":   "mrossi",
		"password":   "password1",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var createResp response.CreateMemberResponse
	decodeJSON(t, recorder, &createResp)
	mario := createResp.Member
	require.NotNil(t, createResp.Account)
	assert.Equal(t, domain.RoleAssociate, createResp.Account.Role)
	require.NotNil(t, createResp.Account.MemberID)
	assert.Equal(t, mario.ID, *createResp.Account.MemberID)

	marioToken := login(t, s, "mrossi", "password1")

	// Associates cannot touch the roster or the ledger.
	recorder = doRequest(t, s, http.MethodGet, "/api/v1/members", marioToken, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	recorder = doRequest(t, s, http.MethodGet, "/api/v1/transactions", marioToken, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	// The administrator schedules the annual assembly.
	recorder = doRequest(t, s, http.MethodPost, "/api/v1/events", adminToken, gin.H{
		"title":    "Assemblea dei soci",
		"date":     time.Now().Add(7 * 24 * time.Hour).Format(time.RFC3339),
		"location": "Sede sociale",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var event domain.Event
	decodeJSON(t, recorder, &event)

	// Mario signs up; doing it twice changes nothing.
	registerPath := fmt.Sprintf("/api/v1/events/%v/participations", event.ID)
	recorder = doRequest(t, s, http.MethodPost, registerPath, marioToken, nil)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var registration response.RegisterParticipationResponse
	decodeJSON(t, recorder, &registration)
	assert.True(t, registration.Created)

	recorder = doRequest(t, s, http.MethodPost, registerPath, marioToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var repeat response.RegisterParticipationResponse
	decodeJSON(t, recorder, &repeat)
	assert.False(t, repeat.Created)
	assert.Equal(t, registration.Participation.ID, repeat.Participation.ID)

	// The listing now flags the event as registered for Mario.
	recorder = doRequest(t, s, http.MethodGet, "/api/v1/events", marioToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var listing domain.EventListing
	decodeJSON(t, recorder, &listing)
	require.Len(t, listing.Future, 1)
	assert.Contains(t, listing.RegisteredEventIDs, event.ID)

	// Anonymous callers get the same listing without registrations.
	recorder = doRequest(t, s, http.MethodGet, "/api/v1/events", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var anonymous domain.EventListing
	decodeJSON(t, recorder, &anonymous)
	assert.Empty(t, anonymous.RegisteredEventIDs)

	// The administrator records Mario's annual fee; the year is unique.
	recorder = doRequest(t, s, http.MethodPost, "/api/v1/fees", adminToken, gin.H{
		"member_id": mario.ID,
		"year":      2026,
		"amount":    "25.00",
		"status":    "paid",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	recorder = doRequest(t, s, http.MethodPost, "/api/v1/fees", adminToken, gin.H{
		"member_id": mario.ID,
		"year":      2026,
		"amount":    "30.00",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Mario sees his own fee but nobody else's roster data.
	recorder = doRequest(t, s, http.MethodGet, "/api/v1/fees", marioToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var fees []domain.MembershipFee
	decodeJSON(t, recorder, &fees)
	require.Len(t, fees, 1)
	assert.Equal(t, 2026, fees[0].Year)

	// Bookkeeping: three membership payments and one expense for the event.
	for i := 0; i < 3; i++ {
		recorder = doRequest(t, s, http.MethodPost, "/api/v1/transactions", adminToken, gin.H{
			"transaction_type": "income",
			"amount":           "10.10",
			"description":      "Quota sociale",
		})
		require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	}
	recorder = doRequest(t, s, http.MethodPost, "/api/v1/transactions", adminToken, gin.H{
		"transaction_type": "expense",
		"amount":           "5.05",
		"description":      "Buffet assemblea",
		"event_id":         event.ID,
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	recorder = doRequest(t, s, http.MethodGet, "/api/v1/transactions", adminToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var ledger response.TransactionListResponse
	decodeJSON(t, recorder, &ledger)
	assert.Len(t, ledger.Transactions, 4)
	assert.True(t, ledger.IncomeTotal.Equal(decimal.RequireFromString("30.30")), "got %v", ledger.IncomeTotal)
	assert.True(t, ledger.ExpenseTotal.Equal(decimal.RequireFromString("5.05")), "got %v", ledger.ExpenseTotal)
	assert.True(t, ledger.Balance.Equal(decimal.RequireFromString("25.25")), "got %v", ledger.Balance)

	// The dashboard rolls it all up for the administrator.
	recorder = doRequest(t, s, http.MethodGet, "/api/v1/dashboard", adminToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var summary domain.DashboardSummary
	decodeJSON(t, recorder, &summary)
	assert.Equal(t, int64(1), summary.ActiveMemberCount)
	assert.Equal(t, int64(1), summary.EventCount)
	assert.Equal(t, int64(1), summary.FeesByStatus[domain.FeeStatusPaid])
	assert.True(t, summary.Balance.Equal(decimal.RequireFromString("25.25")))
}

func TestServer_RoleChangeSyncsBothWays(t *testing.T) {
	s := newTestServer(t)

	signup(t, s, "presidente")
	adminToken := login(t, s, "presidente", "password1")

	recorder := doRequest(t, s, http.MethodPost, "/api/v1/members", adminToken, gin.H{
		"first_name": "Mario",
		"last_name":  "Rossi",
		"email":      "mario@example.com",
		"username":   "mrossi",
		"password":   "password1",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var createResp response.CreateMemberResponse
	decodeJSON(t, recorder, &createResp)
	mario := createResp.Member

	// Promoting the member promotes the linked account.
	recorder = doRequest(t, s, http.MethodPut, fmt.Sprintf("/api/v1/members/%v", mario.ID), adminToken, gin.H{
		"first_name": "Mario",
		"last_name":  "Rossi",
		"email":      "mario@example.com",
		"role":       domain.RoleAdministrator,
		"active":     true,
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	marioToken := login(t, s, "mrossi", "password1")
	recorder = doRequest(t, s, http.MethodGet, "/api/v1/profile", marioToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var account domain.Account
	decodeJSON(t, recorder, &account)
	assert.Equal(t, domain.RoleAdministrator, account.Role)

	// Now an administrator, Mario can read the roster.
	recorder = doRequest(t, s, http.MethodGet, "/api/v1/members", marioToken, nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestServer_DeleteMemberCascades(t *testing.T) {
	s := newTestServer(t)

	signup(t, s, "presidente")
	adminToken := login(t, s, "presidente", "password1")

	recorder := doRequest(t, s, http.MethodPost, "/api/v1/members", adminToken, gin.H{
		"first_name": "Mario",
		"last_name":  "Rossi",
		"email":      "mario@example.com",
		"username":   "mrossi",
		"password":   "password1",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var createResp response.CreateMemberResponse
	decodeJSON(t, recorder, &createResp)

	recorder = doRequest(t, s, http.MethodDelete, fmt.Sprintf("/api/v1/members/%v", createResp.Member.ID), adminToken, nil)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	// The login account went with the member.
	recorder = doRequest(t, s, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "mrossi",
		"password": "password1",
	})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestServer_ProfileEmailCollisionChangesNothing(t *testing.T) {
	s := newTestServer(t)

	signup(t, s, "presidente")
	adminToken := login(t, s, "presidente", "password1")

	recorder := doRequest(t, s, http.MethodPost, "/api/v1/members", adminToken, gin.H{
		"first_name": "Maria",
		"last_name":  "Bianchi",
		"email":      "maria@example.com",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	recorder = doRequest(t, s, http.MethodPost, "/api/v1/members", adminToken, gin.H{
		"first_name": "Mario",
		"last_name":  "Rossi",
		"email":      "mario@example.com",
		"username":   "mrossi",
		"password":   "password1",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	memberToken := login(t, s, "mrossi", "password1")

	recorder = doRequest(t, s, http.MethodPut, "/api/v1/profile", memberToken, gin.H{
		"username":   "mrossi",
		"first_name": "Mario",
		"last_name":  "Rossi",
		"email":      "maria@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code, recorder.Body.String())

	// Account and member both kept the original email.
	recorder = doRequest(t, s, http.MethodGet, "/api/v1/profile", memberToken, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var profile domain.Account
	decodeJSON(t, recorder, &profile)
	assert.Equal(t, "mario@example.com", profile.Email)
	require.NotNil(t, profile.Member)
	assert.Equal(t, "mario@example.com", profile.Member.Email)
}
