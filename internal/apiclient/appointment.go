package apiclient

import (
	"context"
	"net/http"

	"github.com/consultafacil/portal-api/internal/model"
)

// Create submits a booking payload. On 2xx it returns the created record if
// the upstream echoed one, or nil when the body was empty or unrecognized;
// the booking flow decides whether to synthesize a local record.
func (c *Client) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/appointments", nil, req)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, c.fail(resp)
	}
	return decodeAppointment(resp.body), nil
}

// ListForDoctor fetches every appointment addressed to one doctor,
// normalizing whatever envelope shape the upstream answers with.
func (c *Client) ListForDoctor(ctx context.Context, doctorID string) ([]model.Appointment, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/appointments/doctor/"+doctorID, nil, nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, c.fail(resp)
	}
	return decodeAppointments(resp.body), nil
}

// ListForPatient fetches a patient's appointments.
func (c *Client) ListForPatient(ctx context.Context, patientID string) ([]model.Appointment, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/appointments/patient/"+patientID, nil, nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, c.fail(resp)
	}
	return decodeAppointments(resp.body), nil
}

// UpdateStatus issues one partial update writing the backend-vocabulary
// status value.
func (c *Client) UpdateStatus(ctx context.Context, appointmentID, backendStatus string) error {
	resp, err := c.do(ctx, http.MethodPut, "/api/appointments/"+appointmentID, nil,
		&model.UpdateStatusRequest{Status: backendStatus})
	if err != nil {
		return err
	}
	if !resp.ok() {
		return c.fail(resp)
	}
	return nil
}

// Delete cancels an appointment outright. Cancellation from the patient side
// is a delete, not a status transition.
func (c *Client) Delete(ctx context.Context, appointmentID string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/appointments/"+appointmentID, nil, nil)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return c.fail(resp)
	}
	return nil
}
