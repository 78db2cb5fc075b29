package handlers_test

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/escuela-dev/escuela/db"
	"github.com/escuela-dev/escuela/internal/models"
	"github.com/escuela-dev/escuela/internal/testutil"
	"github.com/escuela-dev/escuela/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	server  *testServer
	admin   models.User
	student models.User
	career  models.Career
}

func newPaymentFixture(t *testing.T) paymentFixture {
	s := newTestServer(t)
	return paymentFixture{
		server:  s,
		admin:   testutil.CreateUser(t, "admin", types.RoleAdmin),
		student: testutil.CreateUser(t, "alu", types.RoleStudent),
		career:  testutil.CreateCareer(t, "Enfermería"),
	}
}

func (f paymentFixture) body(amount int, month string) map[string]any {
	return map[string]any{
		"id_career":      f.career.ID,
		"id_user":        f.student.ID,
		"amount":         amount,
		"affected_month": month,
	}
}

func TestCreatePaymentNotifiesStudent(t *testing.T) {
	f := newPaymentFixture(t)
	admin := testutil.Bearer(t, f.admin)

	w := f.server.request(t, http.MethodPost, "/payment/add", admin, f.body(45000, "2025-03-01"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Pago para el alumno Nombrealu Apellidoalu guardado y notificado con éxito.", responseMessage(t, w))

	var payment models.Payment
	require.NoError(t, db.DB.First(&payment).Error)
	assert.Equal(t, 45000, payment.Amount)
	assert.Equal(t, f.student.ID, payment.UserID)

	var notices []models.Message
	require.NoError(t, db.DB.Find(&notices).Error)
	require.Len(t, notices, 1)
	assert.Equal(t, f.admin.ID, notices[0].SenderID)
	assert.Equal(t, f.student.ID, notices[0].RecipientID)
	assert.True(t, strings.HasPrefix(notices[0].Content, "Se ha registrado un pago de $45000 correspondiente al mes de marzo de 2025."), notices[0].Content)

	w = f.server.request(t, http.MethodGet, "/messages", testutil.Bearer(t, f.student), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]types.InboxMessageResponse](t, w), 1)
}

func TestCreatePaymentValidation(t *testing.T) {
	f := newPaymentFixture(t)
	admin := testutil.Bearer(t, f.admin)

	w := f.server.request(t, http.MethodPost, "/payment/add", admin, f.body(0, "2025-03-01"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.server.request(t, http.MethodPost, "/payment/add", admin, f.body(-10, "2025-03-01"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.server.request(t, http.MethodPost, "/payment/add", admin, f.body(100, "03/2025"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := f.body(100, "2025-03-01")
	body["id_user"] = 9999
	w = f.server.request(t, http.MethodPost, "/payment/add", admin, body)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "El alumno con ID 9999 no existe.", responseMessage(t, w))

	body = f.body(100, "2025-03-01")
	body["id_career"] = 9999
	w = f.server.request(t, http.MethodPost, "/payment/add", admin, body)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, db.DB.Model(&models.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.DB.Model(&models.Message{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreatePaymentRequiresAdmin(t *testing.T) {
	f := newPaymentFixture(t)

	w := f.server.request(t, http.MethodPost, "/payment/add", testutil.Bearer(t, f.student), f.body(100, "2025-03-01"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPaymentCRUD(t *testing.T) {
	f := newPaymentFixture(t)
	admin := testutil.Bearer(t, f.admin)

	w := f.server.request(t, http.MethodPost, "/payment/add", admin, f.body(100, "2025-03-01"))
	require.Equal(t, http.StatusCreated, w.Code)
	id := uint(decode[map[string]any](t, w)["id"].(float64))

	w = f.server.request(t, http.MethodGet, fmt.Sprintf("/payment/%d", id), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.PaymentResponse{
		ID:            id,
		UserID:        f.student.ID,
		CareerID:      f.career.ID,
		Amount:        100,
		AffectedMonth: "2025-03-01",
	}, decode[types.PaymentResponse](t, w))

	w = f.server.request(t, http.MethodPut, fmt.Sprintf("/payment/update/%d", id), admin, f.body(250, "2025-04-01"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.server.request(t, http.MethodGet, fmt.Sprintf("/payment/%d", id), admin, nil)
	updated := decode[types.PaymentResponse](t, w)
	assert.Equal(t, 250, updated.Amount)
	assert.Equal(t, "2025-04-01", updated.AffectedMonth)

	w = f.server.request(t, http.MethodPut, fmt.Sprintf("/payment/update/%d", id), admin, f.body(250, "abril"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.server.request(t, http.MethodDelete, fmt.Sprintf("/payment/delete/%d", id), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		path := fmt.Sprintf("/payment/%d", id)
		if method == http.MethodDelete {
			path = fmt.Sprintf("/payment/delete/%d", id)
		}
		w = f.server.request(t, method, path, admin, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, method)
	}

	w = f.server.request(t, http.MethodPut, fmt.Sprintf("/payment/update/%d", id), admin, f.body(1, "2025-04-01"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaymentListings(t *testing.T) {
	f := newPaymentFixture(t)
	admin := testutil.Bearer(t, f.admin)
	student := testutil.Bearer(t, f.student)
	other := testutil.CreateUser(t, "otro", types.RoleStudent)

	for _, month := range []string{"2025-03-01", "2025-04-01"} {
		w := f.server.request(t, http.MethodPost, "/payment/add", admin, f.body(100, month))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := f.server.request(t, http.MethodGet, "/payment/all/detailled", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detailed := decode[[]map[string]any](t, w)
	require.Len(t, detailed, 2)
	assert.Equal(t, "Nombrealu Apellidoalu", detailed[0]["alumno"])
	assert.Equal(t, "Enfermería", detailed[0]["carrera afectada"])
	assert.Equal(t, "2025-03-01", detailed[0]["mes_pagado"])
	assert.Contains(t, detailed[0], "afecha de pago")

	w = f.server.request(t, http.MethodGet, "/payment/all/detailled", student, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.server.request(t, http.MethodGet, "/payment/user", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[[]types.UserPaymentResponse](t, w)
	require.Len(t, mine, 2)
	assert.Equal(t, "Enfermería", mine[0].Career)

	w = f.server.request(t, http.MethodGet, "/payment/user/alu", student, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.server.request(t, http.MethodGet, "/payment/user/alu", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]types.UserPaymentResponse](t, w), 2)

	w = f.server.request(t, http.MethodGet, "/payment/user/alu", testutil.Bearer(t, other), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.server.request(t, http.MethodGet, "/payment/user/nadie", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
