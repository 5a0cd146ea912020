package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/consultafacil/portal-api/internal/apiclient"
	"github.com/consultafacil/portal-api/internal/model"
	"github.com/consultafacil/portal-api/pkg/errors"
	"github.com/consultafacil/portal-api/pkg/logger"
	"github.com/consultafacil/portal-api/pkg/metrics"
)

// Booking window offered by the portal: slots run every half hour from
// 08:00 to 18:00 inclusive, at most 30 days ahead.
const (
	slotStartHour  = 8
	slotEndHour    = 18
	slotCount      = 21
	bookingHorizon = 30 * 24 * time.Hour
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04"
)

// Request is the booking form: a pre-selected doctor snapshot, the patient
// from the session, and the user-entered fields.
type Request struct {
	Doctor   *model.Doctor
	Patient  *model.User
	Date     string
	Time     string
	Symptoms string
	Notes    string
	Type     string
}

// Result is the booking outcome. Synthesized marks the degraded path where
// the upstream confirmed the write but returned no readable record, so the
// appointment was minted locally from the submitted payload.
type Result struct {
	Appointment *model.Appointment `json:"appointment"`
	Synthesized bool               `json:"synthesized"`
}

type Service struct {
	api     apiclient.AppointmentAPI
	logger  *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(api apiclient.AppointmentAPI, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		api:     api,
		logger:  log,
		metrics: m,
		now:     time.Now,
	}
}

// Slots returns the fixed half-hour grid the portal offers for a day.
func Slots() []string {
	slots := make([]string, 0, slotCount)
	for hour := slotStartHour; hour <= slotEndHour; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
		if hour < slotEndHour {
			slots = append(slots, fmt.Sprintf("%02d:30", hour))
		}
	}
	return slots
}

// Book validates the form, submits the creation request and resolves the
// upstream's answer into a canonical or synthesized record. Validation
// failures short-circuit before any network call.
func (s *Service) Book(ctx context.Context, req *Request) (*Result, error) {
	payload, err := s.buildPayload(req)
	if err != nil {
		if s.metrics != nil {
			s.metrics.BookingsRejected.Inc()
		}
		return nil, err
	}

	created, err := s.api.Create(ctx, payload)
	if err != nil {
		if apiclient.IsWriteReadbackFailure(err) {
			// The upstream persisted the appointment but could not read it
			// back. Try to recover the canonical record before falling back
			// to a synthesized one.
			s.logger.Warn("upstream confirmed write without record, reconciling",
				"doctor_id", payload.DoctorID, "patient_id", payload.PatientID)
			if recovered := s.reconcile(ctx, payload); recovered != nil {
				if s.metrics != nil {
					s.metrics.BookingsCreated.Inc()
				}
				return &Result{Appointment: recovered}, nil
			}
			return s.synthesize(payload), nil
		}
		return nil, err
	}

	if created == nil {
		s.logger.Warn("upstream returned success without appointment payload, synthesizing",
			"doctor_id", payload.DoctorID, "patient_id", payload.PatientID)
		return s.synthesize(payload), nil
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	s.logger.Info("appointment booked", "appointment_id", created.ID, "doctor_id", created.DoctorID)
	return &Result{Appointment: created}, nil
}

// buildPayload runs the validation sequence in order, each failure with its
// own message, then assembles the creation payload with the denormalized
// doctor/patient snapshot.
func (s *Service) buildPayload(req *Request) (*model.CreateAppointmentRequest, error) {
	if req.Doctor == nil || strings.TrimSpace(req.Doctor.ID) == "" {
		return nil, errors.NewValidation("doctor is required")
	}
	if req.Patient == nil || strings.TrimSpace(req.Patient.ID) == "" {
		return nil, errors.NewValidation("patient is required")
	}
	if req.Date == "" || req.Time == "" {
		return nil, errors.NewValidation("date and time are required")
	}
	symptoms := strings.TrimSpace(req.Symptoms)
	if symptoms == "" {
		return nil, errors.NewValidation("symptoms description is required")
	}

	when, err := time.ParseInLocation(dateLayout+" "+timeLayout, req.Date+" "+req.Time, time.Local)
	if err != nil {
		return nil, errors.NewValidation("invalid date or time")
	}
	if !validSlot(req.Time) {
		return nil, errors.NewValidation("time must be one of the offered slots")
	}

	now := s.now()
	if !when.After(now) {
		return nil, errors.NewValidation("appointment time must be in the future")
	}
	if when.Sub(now) > bookingHorizon {
		return nil, errors.NewValidation("appointment must be within the next 30 days")
	}

	aptType := strings.TrimSpace(req.Type)
	if aptType == "" {
		aptType = model.DefaultAppointmentType
	}

	return &model.CreateAppointmentRequest{
		DoctorID:     strings.TrimSpace(req.Doctor.ID),
		PatientID:    strings.TrimSpace(req.Patient.ID),
		DateTime:     when,
		Type:         aptType,
		Symptoms:     symptoms,
		Specialty:    strings.TrimSpace(req.Doctor.Specialty),
		DoctorName:   strings.TrimSpace(req.Doctor.Name),
		PatientName:  strings.TrimSpace(req.Patient.Name),
		PatientEmail: strings.TrimSpace(req.Patient.Email),
		PatientPhone: strings.TrimSpace(req.Patient.Phone),
		Notes:        strings.TrimSpace(req.Notes),
		Status:       model.BackendStatusScheduled,
		CreatedAt:    now,
	}, nil
}

func validSlot(t string) bool {
	for _, slot := range Slots() {
		if slot == t {
			return true
		}
	}
	return false
}

// reconcile re-reads the patient's appointments after a write-readback
// failure and looks for the record just written. Best effort: any lookup
// failure or miss returns nil and the caller synthesizes instead.
func (s *Service) reconcile(ctx context.Context, payload *model.CreateAppointmentRequest) *model.Appointment {
	appointments, err := s.api.ListForPatient(ctx, payload.PatientID)
	if err != nil {
		return nil
	}
	for i := range appointments {
		apt := &appointments[i]
		if apt.DoctorID == payload.DoctorID &&
			apt.PatientID == payload.PatientID &&
			apt.DateTime.Equal(payload.DateTime) {
			return apt
		}
	}
	return nil
}

// synthesize mints a local record from the submitted payload. The temp- id
// prefix keeps it distinguishable from server-assigned ids.
func (s *Service) synthesize(payload *model.CreateAppointmentRequest) *Result {
	if s.metrics != nil {
		s.metrics.BookingsSynthesized.Inc()
	}
	return &Result{
		Appointment: &model.Appointment{
			ID:           model.SyntheticIDPrefix + uuid.NewString(),
			DoctorID:     payload.DoctorID,
			PatientID:    payload.PatientID,
			DateTime:     payload.DateTime,
			Type:         payload.Type,
			Symptoms:     payload.Symptoms,
			Status:       model.BackendStatusScheduled,
			Specialty:    payload.Specialty,
			DoctorName:   payload.DoctorName,
			PatientName:  payload.PatientName,
			PatientEmail: payload.PatientEmail,
			PatientPhone: payload.PatientPhone,
			Notes:        payload.Notes,
			CreatedAt:    payload.CreatedAt,
		},
		Synthesized: true,
	}
}
