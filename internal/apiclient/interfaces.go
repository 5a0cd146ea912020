package apiclient

import (
	"context"

	"github.com/consultafacil/portal-api/internal/model"
)

// AppointmentAPI is the appointment surface of the upstream API.
type AppointmentAPI interface {
	Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	ListForDoctor(ctx context.Context, doctorID string) ([]model.Appointment, error)
	ListForPatient(ctx context.Context, patientID string) ([]model.Appointment, error)
	UpdateStatus(ctx context.Context, appointmentID, backendStatus string) error
	Delete(ctx context.Context, appointmentID string) error
}

// DoctorAPI is the directory surface of the upstream API.
type DoctorAPI interface {
	SearchDoctors(ctx context.Context, filters model.DoctorSearchFilters) ([]model.Doctor, error)
	GetDoctor(ctx context.Context, id string) (*model.Doctor, error)
	Specialties(ctx context.Context) ([]string, error)
}

// AuthAPI is the credential and profile surface of the upstream API.
type AuthAPI interface {
	LoginPatient(ctx context.Context, login, password string) (*model.User, string, error)
	LoginDoctor(ctx context.Context, login, password string) (*model.User, string, error)
	RegisterPatient(ctx context.Context, req *model.RegisterPatientRequest) error
	RegisterDoctor(ctx context.Context, req *model.RegisterDoctorRequest) error
	UpdateDoctorProfile(ctx context.Context, req *model.UpdateProfileRequest) error
	UpdatePatientProfile(ctx context.Context, req *model.UpdateProfileRequest) error
}
