package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/reelhub/reelhub/internal/handlers/testutil"
	"github.com/reelhub/reelhub/internal/models"
)

func TestHealthHandler(t *testing.T) {
	env := testutil.NewEnv(t)

	for _, path := range []string{"/health", "/api/health"} {
		w := env.Request(http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := testutil.DecodeResponse(t, w)
		require.True(t, resp.Success)
		var payload struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		testutil.DecodeInto(t, resp.Data, &payload)
		require.Equal(t, "ok", payload.Status)
		require.Equal(t, "ok", payload.Checks["database"])
	}
}

func TestHealthHandlerReportsDatabaseOutage(t *testing.T) {
	env := testutil.NewEnv(t)

	sqlDB, err := env.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := env.Request(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := testutil.DecodeResponse(t, w)
	require.Equal(t, "SERVICE_UNAVAILABLE", resp.Error.Code)
}

func TestAuditHandler_ListsFlowEvents(t *testing.T) {
	env := testutil.NewEnv(t)
	env.CreateAdmin("admin@example.com", "admin-pass")
	env.CreateAccount("viewer@example.com", "s3cret!", true)

	// one rejected and one successful flow, plus the admin sign-in
	w := env.Request(http.MethodPost, "/api/auth/new-verification", map[string]string{"token": "missing"}, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	w = env.Request(http.MethodPost, "/api/auth/reset", map[string]string{"email": "viewer@example.com"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	admin := env.Login("admin@example.com", "admin-pass")

	list := env.Request(http.MethodGet, "/api/admin/audit?per_page=10", nil, admin.AccessToken)
	require.Equal(t, http.StatusOK, list.Code, list.Body.String())

	var page struct {
		Items   []models.AuditLog `json:"items"`
		Page    int               `json:"page"`
		PerPage int               `json:"per_page"`
		Total   int64             `json:"total"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, list).Data, &page)
	require.Equal(t, int64(3), page.Total)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 10, page.PerPage)

	events := make(map[string]string, len(page.Items))
	for _, item := range page.Items {
		events[item.Event] = item.Severity
	}
	require.Equal(t, models.SeverityError, events["verification.token_not_found"])
	require.Equal(t, models.SeverityInfo, events["password_reset.email_sent"])
	require.Equal(t, models.SeverityInfo, events["login.succeeded"])

	filtered := env.Request(http.MethodGet, "/api/admin/audit?severity=error", nil, admin.AccessToken)
	require.Equal(t, http.StatusOK, filtered.Code)
	testutil.DecodeInto(t, testutil.DecodeResponse(t, filtered).Data, &page)
	require.Equal(t, int64(1), page.Total)
	require.Equal(t, "verification.token_not_found", page.Items[0].Event)

	future := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	empty := env.Request(http.MethodGet, "/api/admin/audit?since="+future, nil, admin.AccessToken)
	require.Equal(t, http.StatusOK, empty.Code)
	testutil.DecodeInto(t, testutil.DecodeResponse(t, empty).Data, &page)
	require.Equal(t, int64(0), page.Total)
}

func TestAuditHandler_RequiresAdmin(t *testing.T) {
	env := testutil.NewEnv(t)
	env.CreateAccount("viewer@example.com", "s3cret!", true)
	viewer := env.Login("viewer@example.com", "s3cret!")

	w := env.Request(http.MethodGet, "/api/admin/audit", nil, viewer.AccessToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.Request(http.MethodGet, "/api/admin/audit", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/api/catalog", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	resp := testutil.DecodeResponse(t, w)
	require.Equal(t, "NOT_FOUND", resp.Error.Code)
}
