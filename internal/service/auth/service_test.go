package auth

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultafacil/portal-api/internal/model"
	"github.com/consultafacil/portal-api/internal/session"
	"github.com/consultafacil/portal-api/pkg/errors"
	"github.com/consultafacil/portal-api/pkg/logger"
)

type fakeAuthAPI struct {
	patientUser  *model.User
	patientErr   error
	doctorUser   *model.User
	doctorErr    error
	patientCalls int
	doctorCalls  int

	profileUpdates []string
}

func (f *fakeAuthAPI) LoginPatient(context.Context, string, string) (*model.User, string, error) {
	f.patientCalls++
	return f.patientUser, "patient-upstream-tok", f.patientErr
}

func (f *fakeAuthAPI) LoginDoctor(context.Context, string, string) (*model.User, string, error) {
	f.doctorCalls++
	return f.doctorUser, "doctor-upstream-tok", f.doctorErr
}

func (f *fakeAuthAPI) RegisterPatient(context.Context, *model.RegisterPatientRequest) error {
	return nil
}

func (f *fakeAuthAPI) RegisterDoctor(context.Context, *model.RegisterDoctorRequest) error {
	return nil
}

func (f *fakeAuthAPI) UpdateDoctorProfile(context.Context, *model.UpdateProfileRequest) error {
	f.profileUpdates = append(f.profileUpdates, "doctor")
	return nil
}

func (f *fakeAuthAPI) UpdatePatientProfile(context.Context, *model.UpdateProfileRequest) error {
	f.profileUpdates = append(f.profileUpdates, "patient")
	return nil
}

func quietLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.FatalLevel, Output: io.Discard})
}

func newTestService(api *fakeAuthAPI) (*Service, session.Store) {
	store := session.NewMemoryStore(0, "")
	tokens := session.NewTokenManager("test-secret", 1)
	return NewService(api, store, tokens, quietLogger()), store
}

func TestLoginAsPatient(t *testing.T) {
	api := &fakeAuthAPI{patientUser: &model.User{ID: "pat-1", Role: model.RolePatient}}
	svc, _ := newTestService(api)

	result, err := svc.Login(context.Background(), "joao@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "pat-1", result.User.ID)
	assert.NotEmpty(t, result.SessionToken)
	assert.Equal(t, 1, api.patientCalls)
	assert.Equal(t, 0, api.doctorCalls, "patient success must not touch the doctor endpoint")
}

func TestLoginFallsBackToDoctor(t *testing.T) {
	api := &fakeAuthAPI{
		patientErr: errors.NewUnauthorized("invalid credentials", nil),
		doctorUser: &model.User{ID: "doc-1", Role: model.RoleDoctor},
	}
	svc, _ := newTestService(api)

	result, err := svc.Login(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", result.User.ID)
	assert.Equal(t, 1, api.patientCalls)
	assert.Equal(t, 1, api.doctorCalls)
}

func TestLoginBothRejected(t *testing.T) {
	api := &fakeAuthAPI{
		patientErr: errors.NewUnauthorized("invalid credentials", nil),
		doctorErr:  errors.NewUnauthorized("invalid credentials", nil),
	}
	svc, _ := newTestService(api)

	_, err := svc.Login(context.Background(), "x", "y")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUnauthorized))
}

func TestLoginUpstreamFailureWins(t *testing.T) {
	api := &fakeAuthAPI{
		patientErr: errors.NewUpstream("upstream down", nil),
		doctorErr:  errors.NewUnauthorized("invalid credentials", nil),
	}
	svc, _ := newTestService(api)

	_, err := svc.Login(context.Background(), "x", "y")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUpstream),
		"an unreachable upstream must not be reported as bad credentials")
}

func TestResolveRoundTrip(t *testing.T) {
	api := &fakeAuthAPI{patientUser: &model.User{ID: "pat-1", Role: model.RolePatient}}
	svc, _ := newTestService(api)

	result, err := svc.Login(context.Background(), "joao@example.com", "secret")
	require.NoError(t, err)

	sess, err := svc.Resolve(context.Background(), result.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, "pat-1", sess.User.ID)
	assert.Equal(t, "patient-upstream-tok", sess.UpstreamToken)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	api := &fakeAuthAPI{patientUser: &model.User{ID: "pat-1", Role: model.RolePatient}}
	svc, _ := newTestService(api)

	result, err := svc.Login(context.Background(), "joao@example.com", "secret")
	require.NoError(t, err)

	sess, err := svc.Resolve(context.Background(), result.SessionToken)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(context.Background(), sess.ID))

	_, err = svc.Resolve(context.Background(), result.SessionToken)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUnauthorized))
}

func TestResolveRejectsGarbageToken(t *testing.T) {
	svc, _ := newTestService(&fakeAuthAPI{})
	_, err := svc.Resolve(context.Background(), "garbage")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrUnauthorized))
}

func TestUpdateProfileRoutesByRoleAndSyncsSnapshot(t *testing.T) {
	api := &fakeAuthAPI{doctorUser: &model.User{ID: "doc-1", Role: model.RoleDoctor, Name: "Dra. Ana"}}
	svc, store := newTestService(api)

	sess := &session.Session{
		ID:   "sess-1",
		User: &model.User{ID: "doc-1", Role: model.RoleDoctor, Name: "Dra. Ana"},
	}
	require.NoError(t, store.Save(context.Background(), sess))

	user, err := svc.UpdateProfile(context.Background(), sess, &model.UpdateProfileRequest{
		Name:      "Dra. Ana Souza",
		Specialty: "Cardiologista",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"doctor"}, api.profileUpdates)
	assert.Equal(t, "Dra. Ana Souza", user.Name)
	assert.Equal(t, "Cardiologista", user.Specialty)

	stored, err := store.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Dra. Ana Souza", stored.User.Name)
}
