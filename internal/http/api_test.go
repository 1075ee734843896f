package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caselaw-kenya/internal/auth"
	"caselaw-kenya/internal/repository/sqlite"
	"caselaw-kenya/internal/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	userRepo := sqlite.NewUserRepository(db)
	caseRepo := sqlite.NewCaseRepository(db)
	historyRepo := sqlite.NewHistoryRepository(db)
	constitutionRepo := sqlite.NewConstitutionRepository(db)
	contactRepo := sqlite.NewContactRepository(db)
	teamRepo := sqlite.NewTeamRepository(db)
	require.NoError(t, userRepo.Init(ctx))
	require.NoError(t, caseRepo.Init(ctx))
	require.NoError(t, historyRepo.Init(ctx))
	require.NoError(t, constitutionRepo.Init(ctx))
	require.NoError(t, contactRepo.Init(ctx))
	require.NoError(t, teamRepo.Init(ctx))

	tokens, err := auth.NewTokenService("api-test-secret", time.Hour)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	handler := NewHandler(
		service.NewUserService(userRepo),
		service.NewCaseService(caseRepo, historyRepo),
		service.NewContentService(constitutionRepo, contactRepo, teamRepo),
		tokens,
		nil,
		"",
		"case-documents",
		logger,
	)

	router := gin.New()
	handler.RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, url, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, router *gin.Engine, name, email, password, role string) string {
	t.Helper()

	w := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"username": name,
		"email":    email,
		"password": password,
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"username": "Jane", "email": "jane@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"username": "Imposter", "email": "jane@example.com", "password": "secret456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestRegisterValidation(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"username": "Jane", "email": "not-an-email", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"username": "Jane", "email": "jane@example.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"username": "Jane", "email": "jane@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"email": "jane@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "token")
}

func TestAdminCaseLifecycle(t *testing.T) {
	router := newTestRouter(t)
	admin := registerAndLogin(t, router, "Admin", "admin@example.com", "secret123", "admin")

	w := doJSON(t, router, http.MethodPost, "/auth/cases", admin, gin.H{
		"case_title":  "Republic v Kamau",
		"case_number": "CR 1/2021",
		"county":      "Nairobi",
		"summary":     "A murder trial arising from events in Kibera.",
		"date_filed":  "2021-05-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		CaseID int64 `json:"caseId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Positive(t, created.CaseID)

	// partial update leaves other fields alone
	w = doJSON(t, router, http.MethodPut, "/auth/cases/"+itoa(created.CaseID), admin, gin.H{
		"county": "Kisumu",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/cases/"+itoa(created.CaseID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got CaseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Kisumu", got.County)
	assert.Equal(t, "Republic v Kamau", got.Title)
	assert.Equal(t, "2021-05-01", got.DateFiled)

	w = doJSON(t, router, http.MethodDelete, "/auth/cases/"+itoa(created.CaseID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/cases/"+itoa(created.CaseID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	router := newTestRouter(t)
	user := registerAndLogin(t, router, "User", "user@example.com", "secret123", "")

	body := gin.H{"case_title": "X", "case_number": "1"}

	w := doJSON(t, router, http.MethodPost, "/auth/cases", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/auth/cases", user, body)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateMissingCaseDoesNotCreate(t *testing.T) {
	router := newTestRouter(t)
	admin := registerAndLogin(t, router, "Admin", "admin@example.com", "secret123", "admin")

	w := doJSON(t, router, http.MethodPut, "/auth/cases/12345", admin, gin.H{
		"case_title": "Phantom",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/cases", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestSearchScenario(t *testing.T) {
	router := newTestRouter(t)
	admin := registerAndLogin(t, router, "Admin", "admin@example.com", "secret123", "admin")

	seed := []gin.H{
		{"case_title": "Republic v Kamau", "case_number": "CR 1/2021", "county": "Nairobi", "summary": "A murder trial."},
		{"case_title": "Republic v Wanjiru", "case_number": "CR 2/2021", "county": "Nairobi", "summary": "A robbery charge."},
	}
	for _, body := range seed {
		w := doJSON(t, router, http.MethodPost, "/auth/cases", admin, body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := doJSON(t, router, http.MethodGet, "/cases/search?query=murder&county=Nairobi", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var results []CaseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Republic v Kamau", results[0].Title)

	// no parameters returns everything
	w = doJSON(t, router, http.MethodGet, "/cases/search", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	assert.Len(t, results, 2)
}

func TestProfileAndHistory(t *testing.T) {
	router := newTestRouter(t)
	admin := registerAndLogin(t, router, "Admin", "admin@example.com", "secret123", "admin")
	user := registerAndLogin(t, router, "Jane", "jane@example.com", "secret123", "")

	w := doJSON(t, router, http.MethodGet, "/profile", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jane@example.com")

	w = doJSON(t, router, http.MethodPost, "/auth/cases", admin, gin.H{
		"case_title": "Republic v Kamau", "case_number": "CR 1/2021", "county": "Nairobi",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		CaseID int64 `json:"caseId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodPost, "/history", user, gin.H{"caseId": created.CaseID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/history", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Republic v Kamau")

	w = doJSON(t, router, http.MethodPut, "/profile", user, gin.H{"username": "Jane W."})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/profile", user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jane W.")
}

func TestCountRequiresCounty(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/cases/count", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/cases/count?county=Nairobi", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)
}

func TestContactForm(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/contact", "", gin.H{
		"name": "Jane", "email": "jane@example.com", "subject": "Hello",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost, "/contact", "", gin.H{
		"name": "Jane", "email": "jane@example.com", "subject": "Hello", "message": "A question about a case.",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "reference")
}

func TestDocumentEndpointsWithoutStorage(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/cases/1/documents", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "storage service not configured")
}

func TestAboutEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, page := range []string{"mission", "vision", "team", "technology"} {
		w := doJSON(t, router, http.MethodGet, "/api/about/"+page, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, page)
		assert.Contains(t, w.Body.String(), "title")
	}

	w := doJSON(t, router, http.MethodGet, "/api/about/team-members", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
