package board

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultafacil/portal-api/internal/apiclient"
	"github.com/consultafacil/portal-api/internal/model"
	"github.com/consultafacil/portal-api/pkg/errors"
	"github.com/consultafacil/portal-api/pkg/logger"
)

type fakeAppointmentAPI struct {
	appointments []model.Appointment
	listCalls    int
	listTokens   []string
	onList       func()

	statusCalls []statusCall
	statusErr   error
}

type statusCall struct {
	appointmentID string
	status        string
}

func (f *fakeAppointmentAPI) Create(context.Context, *model.CreateAppointmentRequest) (*model.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentAPI) ListForDoctor(ctx context.Context, _ string) ([]model.Appointment, error) {
	f.listCalls++
	f.listTokens = append(f.listTokens, apiclient.TokenFromContext(ctx))
	out := make([]model.Appointment, len(f.appointments))
	copy(out, f.appointments)
	if f.onList != nil {
		f.onList()
	}
	return out, nil
}

func (f *fakeAppointmentAPI) ListForPatient(context.Context, string) ([]model.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentAPI) UpdateStatus(_ context.Context, appointmentID, backendStatus string) error {
	f.statusCalls = append(f.statusCalls, statusCall{appointmentID, backendStatus})
	return f.statusErr
}

func (f *fakeAppointmentAPI) Delete(context.Context, string) error { return nil }

func quietLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.FatalLevel, Output: io.Discard})
}

func sampleAppointments() []model.Appointment {
	return []model.Appointment{
		{ID: "a1", Status: model.BackendStatusScheduled},
		{ID: "a2", Status: model.BackendStatusScheduled},
		{ID: "a3", Status: model.BackendStatusConfirmed},
		{ID: "a4", Status: model.BackendStatusCancelled},
		{ID: "a5", Status: model.BackendStatusCompleted},
	}
}

func TestRefreshBucketsAndCounts(t *testing.T) {
	api := &fakeAppointmentAPI{appointments: sampleAppointments()}
	svc := NewService(api, quietLogger(), nil)

	require.True(t, svc.NeedsRefresh("doc-1"))
	require.NoError(t, svc.Refresh(context.Background(), "doc-1"))
	require.False(t, svc.NeedsRefresh("doc-1"))

	counts := svc.Counts("doc-1")
	assert.Equal(t, Counts{Pending: 2, Accepted: 1, Rejected: 1, Completed: 1}, counts)

	buckets := svc.Buckets("doc-1")
	assert.Equal(t, "a3", buckets.Accepted[0].ID)
	assert.Equal(t, "a4", buckets.Rejected[0].ID)
	assert.Equal(t, "a5", buckets.Completed[0].ID)
}

func TestUnknownStatusLandsInPending(t *testing.T) {
	api := &fakeAppointmentAPI{appointments: []model.Appointment{
		{ID: "a1", Status: model.BackendStatusRescheduled},
		{ID: "a2", Status: "whatever"},
	}}
	svc := NewService(api, quietLogger(), nil)

	require.NoError(t, svc.Refresh(context.Background(), "doc-1"))
	assert.Equal(t, Counts{Pending: 2}, svc.Counts("doc-1"))
}

func TestAcceptUpdatesLocallyWithoutRefetch(t *testing.T) {
	api := &fakeAppointmentAPI{appointments: sampleAppointments()}
	svc := NewService(api, quietLogger(), nil)
	require.NoError(t, svc.Refresh(context.Background(), "doc-1"))

	require.NoError(t, svc.Accept(context.Background(), "doc-1", "a1"))

	require.Len(t, api.statusCalls, 1)
	assert.Equal(t, statusCall{"a1", model.BackendStatusConfirmed}, api.statusCalls[0])
	assert.Equal(t, 1, api.listCalls, "transition must not trigger a re-fetch")
	assert.Equal(t, Counts{Pending: 1, Accepted: 2, Rejected: 1, Completed: 1}, svc.Counts("doc-1"))
}

func TestRejectWritesCancelled(t *testing.T) {
	api := &fakeAppointmentAPI{appointments: sampleAppointments()}
	svc := NewService(api, quietLogger(), nil)
	require.NoError(t, svc.Refresh(context.Background(), "doc-1"))

	require.NoError(t, svc.Reject(context.Background(), "doc-1", "a2"))
	require.Len(t, api.statusCalls, 1)
	assert.Equal(t, statusCall{"a2", model.BackendStatusCancelled}, api.statusCalls[0])
}

func TestCompleteRequiresAccepted(t *testing.T) {
	api := &fakeAppointmentAPI{appointments: sampleAppointments()}
	svc := NewService(api, quietLogger(), nil)
	require.NoError(t, svc.Refresh(context.Background(), "doc-1"))

	err := svc.Complete(context.Background(), "doc-1", "a1")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidation))
	assert.Empty(t, api.statusCalls, "disallowed transitions must not reach the upstream")

	require.NoError(t, svc.Complete(context.Background(), "doc-1", "a3"))
	require.Len(t, api.statusCalls, 1)
	assert.Equal(t, statusCall{"a3", model.BackendStatusCompleted}, api.statusCalls[0])
}

func TestTerminalStatesAreFrozen(t *testing.T) {
	api := &fakeAppointmentAPI{appointments: sampleAppointments()}
	svc := NewService(api, quietLogger(), nil)
	require.NoError(t, svc.Refresh(context.Background(), "doc-1"))

	assert.Error(t, svc.Accept(context.Background(), "doc-1", "a4"))
	assert.Error(t, svc.Accept(context.Background(), "doc-1", "a5"))
	assert.Error(t, svc.Reject(context.Background(), "doc-1", "a3"))
	assert.Empty(t, api.statusCalls)
}

func TestTransitionUnknownAppointment(t *testing.T) {
	api := &fakeAppointmentAPI{appointments: sampleAppointments()}
	svc := NewService(api, quietLogger(), nil)
	require.NoError(t, svc.Refresh(context.Background(), "doc-1"))

	err := svc.Accept(context.Background(), "doc-1", "missing")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))
}

func TestTransitionFailureLeavesRecordUntouched(t *testing.T) {
	api := &fakeAppointmentAPI{
		appointments: sampleAppointments(),
		statusErr:    errors.NewUpstream("boom", nil),
	}
	svc := NewService(api, quietLogger(), nil)
	require.NoError(t, svc.Refresh(context.Background(), "doc-1"))

	err := svc.Accept(context.Background(), "doc-1", "a1")
	require.Error(t, err)
	assert.Equal(t, Counts{Pending: 2, Accepted: 1, Rejected: 1, Completed: 1}, svc.Counts("doc-1"))
}

func TestRefreshAllReusesStoredToken(t *testing.T) {
	api := &fakeAppointmentAPI{appointments: sampleAppointments()}
	svc := NewService(api, quietLogger(), nil)

	ctx := apiclient.WithToken(context.Background(), "upstream-token")
	require.NoError(t, svc.Refresh(ctx, "doc-1"))

	// Background cycle carries no caller token of its own.
	svc.RefreshAll(context.Background())

	require.Len(t, api.listTokens, 2)
	assert.Equal(t, "upstream-token", api.listTokens[0])
	assert.Equal(t, "upstream-token", api.listTokens[1])
}

func TestStaleRefreshIsDiscarded(t *testing.T) {
	api := &fakeAppointmentAPI{appointments: sampleAppointments()}
	svc := NewService(api, quietLogger(), nil)
	require.NoError(t, svc.Refresh(context.Background(), "doc-1"))

	// A transition lands while the second refresh's fetch is in flight; the
	// fetched snapshot predates it and must not clobber the local update.
	api.onList = func() {
		api.onList = nil
		require.NoError(t, svc.Accept(context.Background(), "doc-1", "a1"))
	}
	require.NoError(t, svc.Refresh(context.Background(), "doc-1"))

	assert.Equal(t, Counts{Pending: 1, Accepted: 2, Rejected: 1, Completed: 1}, svc.Counts("doc-1"))
}

func TestForgetStopsTracking(t *testing.T) {
	api := &fakeAppointmentAPI{appointments: sampleAppointments()}
	svc := NewService(api, quietLogger(), nil)
	require.NoError(t, svc.Refresh(context.Background(), "doc-1"))
	require.Equal(t, []string{"doc-1"}, svc.DoctorIDs())

	svc.Forget("doc-1")
	assert.Empty(t, svc.DoctorIDs())

	svc.RefreshAll(context.Background())
	assert.Equal(t, 1, api.listCalls)
}
