package controller

import (
	"net/http"
	"testing"

	"academy-be/internal/entity"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionController_Lifecycle(t *testing.T) {
	f := newAPIFixture()
	dev := f.addUser(t, entity.UserRoleDeveloper, nil)
	admin := f.addUser(t, entity.UserRoleAdmin, nil)
	teacher := f.addUser(t, entity.UserRoleTeacher, &admin.Id)

	create := `{"plan":"Standard","amount":"49.00","currency":"USD","start_date":"2024-03-01T00:00:00Z","end_date":"2024-04-01T00:00:00Z"}`

	status, _ := f.do(t, http.MethodPost, "/api/subscriptions", teacher, create)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := f.do(t, http.MethodPost, "/api/subscriptions", admin, create)
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Contains(t, body, `"status":"PENDING"`)

	subs := f.store.Subscriptions()
	require.Len(t, subs, 1)
	id := subs[0].Id.String()

	status, _ = f.do(t, http.MethodPatch, "/api/subscriptions/"+id+"/verify", admin, "")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = f.do(t, http.MethodPatch, "/api/subscriptions/"+id+"/verify", dev, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status, body)

	status, body = f.do(t, http.MethodPost, "/api/subscriptions/"+id+"/payment", admin,
		`{"payment_method":"bank_transfer","payment_proof_url":"https://files.test/sub.png"}`)
	require.Equal(t, fiber.StatusOK, status, body)

	status, body = f.do(t, http.MethodPatch, "/api/subscriptions/"+id+"/verify", dev, "")
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body, `"status":"ACTIVE"`)

	status, body = f.do(t, http.MethodGet, "/api/subscriptions", admin, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"total":1`)
}

func TestSubscriptionController_CreateRejectsBadDates(t *testing.T) {
	f := newAPIFixture()
	admin := f.addUser(t, entity.UserRoleAdmin, nil)

	status, body := f.do(t, http.MethodPost, "/api/subscriptions", admin,
		`{"plan":"Standard","amount":"49","currency":"USD","start_date":"2024-04-01T00:00:00Z","end_date":"2024-03-01T00:00:00Z"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "end date must be after start date")
}
