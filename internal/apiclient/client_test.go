package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultafacil/portal-api/internal/model"
	"github.com/consultafacil/portal-api/pkg/errors"
	"github.com/consultafacil/portal-api/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := logger.NewLogger(&logger.Config{Level: logger.FatalLevel, Output: io.Discard})
	return NewClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, log, nil)
}

func TestBearerTokenFromContext(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})

	ctx := WithToken(context.Background(), "tok-123")
	_, err := client.ListForDoctor(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestNoBearerWithoutToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	})

	_, err := client.ListForDoctor(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestListForDoctorEnvelopeShapes(t *testing.T) {
	bodies := map[string]string{
		"bare array":       `[{"id":"a1","status":"agendada"}]`,
		"data array":       `{"data":[{"id":"a1","status":"agendada"}]}`,
		"nested data":      `{"data":{"appointments":[{"id":"a1","status":"agendada"}]}}`,
		"top appointments": `{"appointments":[{"id":"a1","status":"agendada"}]}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/appointments/doctor/doc-1", r.URL.Path)
				w.Write([]byte(body))
			})

			appointments, err := client.ListForDoctor(context.Background(), "doc-1")
			require.NoError(t, err)
			require.Len(t, appointments, 1)
			assert.Equal(t, "a1", appointments[0].ID)
		})
	}
}

func TestListForDoctorUnknownShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"weird":true}`))
	})

	appointments, err := client.ListForDoctor(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Empty(t, appointments)
}

func TestCreateReturnsRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "pat-1", payload["pacient_id"], "patient foreign key keeps the upstream spelling")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"appointment":{"id":"apt-1","status":"agendada"}}}`))
	})

	created, err := client.Create(context.Background(), &model.CreateAppointmentRequest{
		DoctorID:  "doc-1",
		PatientID: "pat-1",
		Status:    model.BackendStatusScheduled,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "apt-1", created.ID)
}

func TestCreateEmptyBodyReturnsNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	created, err := client.Create(context.Background(), &model.CreateAppointmentRequest{})
	require.NoError(t, err)
	assert.Nil(t, created)
}

func TestCreateWriteReadbackFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"erro ao recuperar consulta criada"}`))
	})

	_, err := client.Create(context.Background(), &model.CreateAppointmentRequest{})
	require.Error(t, err)
	assert.True(t, IsWriteReadbackFailure(err))
	assert.True(t, errors.IsCode(err, errors.ErrUpstream))
}

func TestCreatePlainServerErrorIsNotReadback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"database unavailable"}`))
	})

	_, err := client.Create(context.Background(), &model.CreateAppointmentRequest{})
	require.Error(t, err)
	assert.False(t, IsWriteReadbackFailure(err))
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		code   errors.ErrorCode
	}{
		{http.StatusBadRequest, errors.ErrValidation},
		{http.StatusUnauthorized, errors.ErrUnauthorized},
		{http.StatusNotFound, errors.ErrNotFound},
		{http.StatusConflict, errors.ErrDuplicate},
		{http.StatusBadGateway, errors.ErrUpstream},
	}

	for _, tt := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"message":"nope"}`))
		})

		_, err := client.ListForDoctor(context.Background(), "doc-1")
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, tt.code), "status %d should map to %s", tt.status, tt.code)
	}
}

func TestUpdateStatusWritesBackendVocabulary(t *testing.T) {
	var body model.UpdateStatusRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/appointments/apt-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"success":true}`))
	})

	require.NoError(t, client.UpdateStatus(context.Background(), "apt-1", model.BackendStatusConfirmed))
	assert.Equal(t, model.BackendStatusConfirmed, body.Status)
}

func TestSearchDoctorsQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/doctor/search", r.URL.Path)
		assert.Equal(t, "Cardiologista", r.URL.Query().Get("specialty"))
		assert.Equal(t, "ana", r.URL.Query().Get("search"))
		w.Write([]byte(`{"data":{"doctors":[{"id":"doc-1","name":"Dra. Ana"}]}}`))
	})

	doctors, err := client.SearchDoctors(context.Background(), model.DoctorSearchFilters{
		Specialty: "Cardiologista",
		Query:     "ana",
	})
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "doc-1", doctors[0].ID)
}

func TestLoginPatient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/pacient/login", r.URL.Path)
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "joao@example.com", creds["login"])
		w.Write([]byte(`{"data":{"token":"tok-1","pacient":{"id":"pat-1","name":"João"}}}`))
	})

	user, token, err := client.LoginPatient(context.Background(), "joao@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "pat-1", user.ID)
	assert.Equal(t, model.RolePatient, user.Role)
	assert.Equal(t, "tok-1", token)
}

func TestLoginFlatTokenVariant(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":"tok-2","data":{"doctor":{"id":"doc-1"}}}`))
	})

	user, token, err := client.LoginDoctor(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", user.ID)
	assert.Equal(t, model.RoleDoctor, user.Role)
	assert.Equal(t, "tok-2", token)
}

func TestLoginRejectsEmptyUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"token":"tok-3"}}`))
	})

	_, _, err := client.LoginPatient(context.Background(), "x", "y")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUnauthorized))
}
