package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"academy-be/internal/pkg/serverutils"
	"academy-be/pkg/billing"
	"academy-be/pkg/subscription"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCronService struct {
	feeCalls, subCalls int
	err                error
}

func (f *fakeCronService) GenerateFees(context.Context) (*billing.Result, error) {
	f.feeCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &billing.Result{Generated: 3, Skipped: 1, Errors: 0, Total: 4, MarkedOverdue: 2}, nil
}

func (f *fakeCronService) CheckSubscriptions(context.Context) (*subscription.Result, error) {
	f.subCalls++
	if f.err != nil {
		return nil, f.err
	}
	return &subscription.Result{
		SubscriptionsExpired:       1,
		AdminsDisabled:             1,
		WarningsSent:               2,
		TotalExpiredSubscriptions:  1,
		TotalExpiringSubscriptions: 2,
	}, nil
}

func newCronApp(svc *fakeCronService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewCronController(svc, "s3cret", "k3y").RegisterRoutes(app.Group("/api"))
	return app
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestCronController_GenerateFees(t *testing.T) {
	svc := &fakeCronService{}
	app := newCronApp(svc)

	tests := []struct {
		name   string
		method string
		auth   string
		status int
	}{
		{"wrong method checked before auth", http.MethodGet, "", fiber.StatusMethodNotAllowed},
		{"missing secret", http.MethodPost, "", fiber.StatusUnauthorized},
		{"secret without bearer prefix", http.MethodPost, "s3cret", fiber.StatusUnauthorized},
		{"wrong secret", http.MethodPost, "Bearer nope", fiber.StatusUnauthorized},
		{"ok", http.MethodPost, "Bearer s3cret", fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/cron/generate-fees", nil)
			if tt.auth != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.auth)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
	assert.Equal(t, 1, svc.feeCalls)

	req := httptest.NewRequest(http.MethodPost, "/api/cron/generate-fees", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer s3cret")
	resp, err := app.Test(req)
	require.NoError(t, err)
	body := decode(t, resp)
	assert.Equal(t, "Fee generation completed", body["message"])
	assert.EqualValues(t, 3, body["generated"])
	assert.EqualValues(t, 4, body["total"])
	assert.EqualValues(t, 2, body["markedOverdue"])
}

func TestCronController_CheckSubscriptions(t *testing.T) {
	svc := &fakeCronService{}
	app := newCronApp(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/cron/check-subscriptions", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, fiber.MethodPost, resp.Header.Get(fiber.HeaderAllow))

	req = httptest.NewRequest(http.MethodPost, "/api/cron/check-subscriptions", nil)
	req.Header.Set("x-api-key", "wrong")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/api/cron/check-subscriptions", nil)
	req.Header.Set("x-api-key", "k3y")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "Subscription check completed", body["message"])
	assert.EqualValues(t, 1, body["subscriptionsExpired"])
	assert.EqualValues(t, 1, body["adminsDisabled"])
	assert.EqualValues(t, 2, body["warningsSent"])
	assert.EqualValues(t, 2, body["totalExpiringSubscriptions"])
	assert.Equal(t, 1, svc.subCalls)
}

func TestCronController_FailureHidesCause(t *testing.T) {
	app := newCronApp(&fakeCronService{err: errors.New("pq: connection refused")})

	req := httptest.NewRequest(http.MethodPost, "/api/cron/generate-fees", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer s3cret")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"message": "Internal server error"}, decode(t, resp))
}
