package model

import "time"

// SyntheticIDPrefix marks appointment ids minted locally when the upstream
// confirmed a write but returned no readable record.
const SyntheticIDPrefix = "temp-"

// DefaultAppointmentType is applied when the booking form leaves type empty.
const DefaultAppointmentType = "consulta"

// Appointment is the upstream wire representation of one scheduled visit.
// Status carries the raw upstream value; use InternalStatus for bucketing.
// The upstream spells the patient foreign key "pacient_id".
type Appointment struct {
	ID           string    `json:"id"`
	DoctorID     string    `json:"doctor_id"`
	PatientID    string    `json:"pacient_id"`
	DateTime     time.Time `json:"date_time"`
	Type         string    `json:"type"`
	Symptoms     string    `json:"symptoms"`
	Status       string    `json:"status"`
	Specialty    string    `json:"specialty"`
	DoctorName   string    `json:"doctor_name"`
	PatientName  string    `json:"patient_name,omitempty"`
	PatientEmail string    `json:"patient_email,omitempty"`
	PatientPhone string    `json:"patient_phone,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Diagnosis    string    `json:"diagnosis,omitempty"`
	Prescription string    `json:"prescription,omitempty"`
	DoctorNotes  string    `json:"doctor_notes,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// InternalStatus maps the raw upstream status into the portal vocabulary.
func (a *Appointment) InternalStatus() Status {
	return StatusFromBackend(a.Status)
}

// Synthetic reports whether the record was minted locally rather than
// confirmed by the upstream.
func (a *Appointment) Synthetic() bool {
	return len(a.ID) > len(SyntheticIDPrefix) && a.ID[:len(SyntheticIDPrefix)] == SyntheticIDPrefix
}

// CreateAppointmentRequest is the creation payload sent to the upstream,
// carrying the denormalized doctor/patient snapshot taken at booking time.
type CreateAppointmentRequest struct {
	DoctorID     string    `json:"doctor_id"`
	PatientID    string    `json:"pacient_id"`
	DateTime     time.Time `json:"date_time"`
	Type         string    `json:"type"`
	Symptoms     string    `json:"symptoms"`
	Specialty    string    `json:"specialty"`
	DoctorName   string    `json:"doctor_name"`
	PatientName  string    `json:"patient_name,omitempty"`
	PatientEmail string    `json:"patient_email,omitempty"`
	PatientPhone string    `json:"patient_phone,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// UpdateStatusRequest is the body of a status transition PUT.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
