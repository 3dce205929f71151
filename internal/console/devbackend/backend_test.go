package devbackend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gartstein/guardroster/internal/console/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newBackend(t *testing.T) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)
	b := New(Config{Email: "admin@registry.mw", Password: "secret", Secret: "dev"}, zaptest.NewLogger(t))
	require.NoError(t, b.Seed())
	return b
}

func serve(b *Backend, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	b.Router().ServeHTTP(w, req)
	return w
}

func login(t *testing.T, b *Backend) string {
	t.Helper()
	w := serve(b, http.MethodPost, "/login", "", `{"email":"admin@registry.mw","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var res models.LoginResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.True(t, res.Success)
	return res.Token
}

func TestMatch(t *testing.T) {
	b := newBackend(t)

	rt, params, ok := match(b.routes, http.MethodPut, "/companies/update-status/c1")
	require.True(t, ok)
	assert.Equal(t, []string{"companies", "update-status", ":id"}, rt.segments)
	assert.Equal(t, "c1", params["id"])

	_, params, ok = match(b.routes, http.MethodGet, "/guards/company/c2")
	require.True(t, ok)
	assert.Equal(t, "c2", params["id"])

	_, _, ok = match(b.routes, http.MethodPatch, "/companies/c1")
	assert.False(t, ok)
}

func TestAuth(t *testing.T) {
	b := newBackend(t)

	w := serve(b, http.MethodGet, "/companies", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(b, http.MethodPost, "/login", "", `{"email":"admin@registry.mw","password":"nope"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid credentials"}`, w.Body.String())

	token := login(t, b)
	w = serve(b, http.MethodGet, "/verify", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":{"email":"admin@registry.mw","role":"admin"}}`, w.Body.String())

	w = serve(b, http.MethodGet, "/verify", "forged", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListPopulatesReferences(t *testing.T) {
	b := newBackend(t)
	token := login(t, b)

	w := serve(b, http.MethodGet, "/firearms", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var firearms []models.FireArm
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &firearms))
	require.Len(t, firearms, 2)
	assert.Equal(t, models.Ref{ID: "c1", Name: "Alpha Guards"}, firearms[0].SecurityCompany)
	assert.Equal(t, models.Ref{ID: "g1", Name: "Tawonga Phiri"}, firearms[0].SecurityGuard)
	assert.Empty(t, firearms[1].SecurityGuard.ID)
}

func TestGuardsByCompanyAndStatus(t *testing.T) {
	b := newBackend(t)
	token := login(t, b)

	var guards []models.Guard
	w := serve(b, http.MethodGet, "/guards/company/c1", token, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &guards))
	require.Len(t, guards, 1)
	assert.Equal(t, "g1", guards[0].ID)

	w = serve(b, http.MethodGet, "/guards-status/Suspended", token, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &guards))
	require.Len(t, guards, 1)
	assert.Equal(t, "g2", guards[0].ID)
}

func TestMutations(t *testing.T) {
	b := newBackend(t)
	token := login(t, b)

	w := serve(b, http.MethodPost, "/add-company", token, `{"name":"Alpha Guards"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Company already exists"}`, w.Body.String())

	w = serve(b, http.MethodPost, "/add-company", token, `{"name":"Delta Watch","status":"Pending"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Company
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)

	w = serve(b, http.MethodPut, "/companies/update-status/"+created.ID, token, `{"status":"Approved"}`)
	require.Equal(t, http.StatusOK, w.Code)
	call, ok := b.Find(http.MethodPut, "/companies/update-status/"+created.ID)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"status": "Approved"}, call.Body)

	w = serve(b, http.MethodGet, "/companies/"+created.ID, token, "")
	var got models.Company
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.CompanyApproved, got.Status)

	w = serve(b, http.MethodDelete, "/companies/"+created.ID, token, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = serve(b, http.MethodGet, "/companies/"+created.ID, token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Company not found"}`, w.Body.String())

	w = serve(b, http.MethodPut, "/company-information/update-tax-clearance/ci2", token, `{"tax_clearance":"https://docs/tax.pdf"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var info models.CompanyInformation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "https://docs/tax.pdf", info.TaxClearance)
}

func TestInvalidBody(t *testing.T) {
	b := newBackend(t)
	w := serve(b, http.MethodPost, "/login", "", `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
