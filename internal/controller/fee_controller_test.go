package controller

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"academy-be/internal/entity"
	"academy-be/internal/pkg/logger"
	"academy-be/internal/pkg/serverutils"
	"academy-be/internal/repository/memory"
	"academy-be/internal/service"
	"academy-be/pkg/notify"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "jwt-test-secret"

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

func newAPIFixture() *apiFixture {
	store := memory.NewStore()
	notifier := notify.NewRepositoryNotifier(store.Factory())
	log := logger.NewNopLogger()

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	jwt := serverutils.NewJwtMiddleware(testSecret)
	NewFeeController(service.NewFeeService(store.Factory(), notifier, log)).RegisterRoutes(api, jwt)
	NewSubscriptionController(service.NewSubscriptionService(store.Factory(), notifier, log)).RegisterRoutes(api, jwt)

	return &apiFixture{app: app, store: store}
}

func (f *apiFixture) addUser(t *testing.T, role entity.UserRole, adminId *uuid.UUID) *entity.User {
	t.Helper()
	u := &entity.User{
		Id:       uuid.New(),
		Email:    uuid.NewString() + "@academy.test",
		FullName: string(role),
		Role:     role,
		IsActive: true,
		AdminId:  adminId,
	}
	require.NoError(t, f.store.Factory().NewUnitOfWork(context.Background()).UserRepository().Create(context.Background(), u))
	return u
}

func (f *apiFixture) do(t *testing.T, method, path string, as *entity.User, body string) (int, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if as != nil {
		token, err := serverutils.GenerateToken(testSecret, serverutils.Principal{UserId: as.Id, Role: as.Role, AdminId: as.AdminId}, time.Hour)
		require.NoError(t, err)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestFeeController_RouteGuards(t *testing.T) {
	f := newAPIFixture()
	admin := f.addUser(t, entity.UserRoleAdmin, nil)
	parent := f.addUser(t, entity.UserRoleParent, &admin.Id)
	student := f.addUser(t, entity.UserRoleStudent, &admin.Id)

	status, _ := f.do(t, http.MethodGet, "/api/fees", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = f.do(t, http.MethodGet, "/api/fees", student, "")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = f.do(t, http.MethodGet, "/api/fee-definitions", parent, "")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = f.do(t, http.MethodPatch, "/api/fees/not-a-uuid/verify", admin, "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = f.do(t, http.MethodPatch, "/api/fees/"+uuid.NewString()+"/verify", admin, "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestFeeController_CreateDefinition(t *testing.T) {
	f := newAPIFixture()
	admin := f.addUser(t, entity.UserRoleAdmin, nil)
	student := f.addUser(t, entity.UserRoleStudent, &admin.Id)

	status, body := f.do(t, http.MethodPost, "/api/fee-definitions", admin, `{"title":"Tuition"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "StudentId")

	status, _ = f.do(t, http.MethodPost, "/api/fee-definitions", admin, `{not json`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	payload := `{"student_id":"` + student.Id.String() + `","title":"Tuition","amount":"150.00","currency":"usd",` +
		`"cadence":"MONTHLY","generation_day":5,"start_date":"2024-01-01T00:00:00Z"}`
	status, body = f.do(t, http.MethodPost, "/api/fee-definitions", admin, payload)
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Contains(t, body, `"cadence":"MONTHLY"`)
	assert.Contains(t, body, `"currency":"USD"`)

	zero := strings.Replace(payload, `"150.00"`, `"0"`, 1)
	status, body = f.do(t, http.MethodPost, "/api/fee-definitions", admin, zero)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "invalid input")
}

func TestFeeController_PaymentFlow(t *testing.T) {
	f := newAPIFixture()
	admin := f.addUser(t, entity.UserRoleAdmin, nil)
	parent := f.addUser(t, entity.UserRoleParent, &admin.Id)
	student := f.addUser(t, entity.UserRoleStudent, &admin.Id)
	require.NoError(t, f.store.Factory().NewUnitOfWork(context.Background()).UserRepository().LinkParentStudent(
		context.Background(), &entity.ParentStudent{ParentId: parent.Id, StudentId: student.Id}))

	status, body := f.do(t, http.MethodPost, "/api/fees", admin,
		`{"student_id":"`+student.Id.String()+`","title":"Exam fee","amount":"25","currency":"USD","due_date":"2024-04-10T00:00:00Z"}`)
	require.Equal(t, fiber.StatusCreated, status, body)

	fees := f.store.Fees()
	require.Len(t, fees, 1)
	id := fees[0].Id.String()

	status, _ = f.do(t, http.MethodPost, "/api/fees/"+id+"/payment", admin, `{}`)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = f.do(t, http.MethodPost, "/api/fees/"+id+"/payment", parent,
		`{"payment_method":"bank_transfer","payment_proof_url":"https://files.test/receipt.png"}`)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body, `"status":"PROCESSING"`)

	status, body = f.do(t, http.MethodPatch, "/api/fees/"+id+"/verify", admin, "")
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body, `"status":"PAID"`)

	status, _ = f.do(t, http.MethodPatch, "/api/fees/"+id+"/cancel", admin, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, body = f.do(t, http.MethodGet, "/api/fees?status=PAID", parent, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"total":1`)
}
