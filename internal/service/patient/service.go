package patient

import (
	"context"

	"github.com/consultafacil/portal-api/internal/apiclient"
	"github.com/consultafacil/portal-api/internal/model"
	"github.com/consultafacil/portal-api/pkg/logger"
)

// Partition splits a patient's appointments for display. The membership
// tests tolerate both vocabularies because the upstream has been seen
// returning either. Statuses matching neither set are kept in Other rather
// than silently dropped.
type Partition struct {
	Upcoming []model.Appointment `json:"upcoming"`
	Past     []model.Appointment `json:"past"`
	Other    []model.Appointment `json:"other,omitempty"`
}

var upcomingStatuses = map[string]bool{
	"pending":                    true,
	"confirmed":                  true,
	model.BackendStatusScheduled: true,
}

var pastStatuses = map[string]bool{
	"completed":                  true,
	"cancelled":                  true,
	model.BackendStatusCompleted: true,
	model.BackendStatusCancelled: true,
}

// Service is the read-only patient view plus explicit cancellation.
type Service struct {
	api    apiclient.AppointmentAPI
	logger *logger.Logger
}

func NewService(api apiclient.AppointmentAPI, log *logger.Logger) *Service {
	return &Service{api: api, logger: log}
}

// List fetches and partitions the patient's appointments.
func (s *Service) List(ctx context.Context, patientID string) (*Partition, error) {
	appointments, err := s.api.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	p := &Partition{
		Upcoming: []model.Appointment{},
		Past:     []model.Appointment{},
	}
	for _, apt := range appointments {
		switch {
		case upcomingStatuses[apt.Status]:
			p.Upcoming = append(p.Upcoming, apt)
		case pastStatuses[apt.Status]:
			p.Past = append(p.Past, apt)
		default:
			p.Other = append(p.Other, apt)
		}
	}
	return p, nil
}

// Cancel removes an appointment outright. This is a delete, not a status
// transition; the patient view offers no transitions.
func (s *Service) Cancel(ctx context.Context, appointmentID string) error {
	if err := s.api.Delete(ctx, appointmentID); err != nil {
		return err
	}
	s.logger.Info("appointment cancelled", "appointment_id", appointmentID)
	return nil
}
