package directory

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consultafacil/portal-api/internal/model"
	"github.com/consultafacil/portal-api/pkg/errors"
	"github.com/consultafacil/portal-api/pkg/logger"
)

type fakeDoctorAPI struct {
	doctors        []model.Doctor
	searchErr      error
	searchCalls    int
	doctor         *model.Doctor
	getErr         error
	getCalls       int
	specialties    []string
	specialtiesErr error
}

func (f *fakeDoctorAPI) SearchDoctors(context.Context, model.DoctorSearchFilters) ([]model.Doctor, error) {
	f.searchCalls++
	return f.doctors, f.searchErr
}

func (f *fakeDoctorAPI) GetDoctor(context.Context, string) (*model.Doctor, error) {
	f.getCalls++
	return f.doctor, f.getErr
}

func (f *fakeDoctorAPI) Specialties(context.Context) ([]string, error) {
	return f.specialties, f.specialtiesErr
}

func quietLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.FatalLevel, Output: io.Discard})
}

func TestSearchCachesResults(t *testing.T) {
	api := &fakeDoctorAPI{doctors: []model.Doctor{{ID: "doc-1", Name: "Dra. Ana"}}}
	svc := NewService(api, time.Minute, quietLogger(), nil)

	filters := model.DoctorSearchFilters{Specialty: "Cardiologista"}
	first := svc.Search(context.Background(), filters)
	second := svc.Search(context.Background(), filters)

	assert.False(t, first.Degraded)
	require.Len(t, second.Doctors, 1)
	assert.Equal(t, "doc-1", second.Doctors[0].ID)
	assert.Equal(t, 1, api.searchCalls, "second lookup must come from cache")
}

func TestSearchDegradesOnFailure(t *testing.T) {
	api := &fakeDoctorAPI{searchErr: errors.NewUpstream("down", nil)}
	svc := NewService(api, time.Minute, quietLogger(), nil)

	result := svc.Search(context.Background(), model.DoctorSearchFilters{Query: "ana"})
	assert.True(t, result.Degraded)
	assert.NotNil(t, result.Doctors)
	assert.Empty(t, result.Doctors)
}

func TestSpecialtiesFallback(t *testing.T) {
	api := &fakeDoctorAPI{specialtiesErr: errors.NewUpstream("down", nil)}
	svc := NewService(api, time.Minute, quietLogger(), nil)

	result := svc.Specialties(context.Background())
	assert.True(t, result.FromFallback)
	assert.Len(t, result.Specialties, 12)
	assert.Contains(t, result.Specialties, "Cardiologista")
}

func TestSpecialtiesFallbackOnEmptyList(t *testing.T) {
	api := &fakeDoctorAPI{specialties: []string{}}
	svc := NewService(api, time.Minute, quietLogger(), nil)

	result := svc.Specialties(context.Background())
	assert.True(t, result.FromFallback)
	assert.Len(t, result.Specialties, 12)
}

func TestSpecialtiesFromUpstream(t *testing.T) {
	api := &fakeDoctorAPI{specialties: []string{"Cardiologista", "Pediatra"}}
	svc := NewService(api, time.Minute, quietLogger(), nil)

	result := svc.Specialties(context.Background())
	assert.False(t, result.FromFallback)
	assert.Equal(t, []string{"Cardiologista", "Pediatra"}, result.Specialties)
}

func TestGetDoctorCaches(t *testing.T) {
	api := &fakeDoctorAPI{doctor: &model.Doctor{ID: "doc-1"}}
	svc := NewService(api, time.Minute, quietLogger(), nil)

	first, err := svc.GetDoctor(context.Background(), "doc-1")
	require.NoError(t, err)
	second, err := svc.GetDoctor(context.Background(), "doc-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, api.getCalls)
}

func TestGetDoctorPropagatesErrors(t *testing.T) {
	api := &fakeDoctorAPI{getErr: errors.NewNotFound("doctor", nil)}
	svc := NewService(api, time.Minute, quietLogger(), nil)

	_, err := svc.GetDoctor(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))
}
