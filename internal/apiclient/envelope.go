package apiclient

import (
	"encoding/json"

	"github.com/consultafacil/portal-api/internal/model"
)

// The upstream wraps payloads inconsistently: sometimes {data: {...}},
// sometimes {data: {appointments: [...]}}, sometimes a bare array or object.
// The decoders below normalize every shape seen in the wild and default to
// empty rather than failing on an unknown one.

func errorMessage(body []byte) string {
	var env struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	if len(env.Error) > 0 {
		var s string
		if err := json.Unmarshal(env.Error, &s); err == nil {
			return s
		}
		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(env.Error, &obj); err == nil {
			return obj.Message
		}
	}
	return ""
}

func decodeAppointments(body []byte) []model.Appointment {
	var bare []model.Appointment
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare
	}

	var env struct {
		Data         json.RawMessage     `json:"data"`
		Appointments []model.Appointment `json:"appointments"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return []model.Appointment{}
	}
	if len(env.Data) > 0 {
		var list []model.Appointment
		if err := json.Unmarshal(env.Data, &list); err == nil {
			return list
		}
		var nested struct {
			Appointments []model.Appointment `json:"appointments"`
		}
		if err := json.Unmarshal(env.Data, &nested); err == nil && nested.Appointments != nil {
			return nested.Appointments
		}
	}
	if env.Appointments != nil {
		return env.Appointments
	}
	return []model.Appointment{}
}

func decodeAppointment(body []byte) *model.Appointment {
	if len(body) == 0 {
		return nil
	}

	var env struct {
		Data        json.RawMessage    `json:"data"`
		Appointment *model.Appointment `json:"appointment"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		if len(env.Data) > 0 {
			var nested struct {
				Appointment *model.Appointment `json:"appointment"`
			}
			if err := json.Unmarshal(env.Data, &nested); err == nil && recognizable(nested.Appointment) {
				return nested.Appointment
			}
			var apt model.Appointment
			if err := json.Unmarshal(env.Data, &apt); err == nil && recognizable(&apt) {
				return &apt
			}
		}
		if recognizable(env.Appointment) {
			return env.Appointment
		}
	}

	var apt model.Appointment
	if err := json.Unmarshal(body, &apt); err == nil && recognizable(&apt) {
		return &apt
	}
	return nil
}

func recognizable(a *model.Appointment) bool {
	return a != nil && a.ID != ""
}

func decodeDoctors(body []byte) []model.Doctor {
	var bare []model.Doctor
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare
	}

	var env struct {
		Data    json.RawMessage `json:"data"`
		Doctors []model.Doctor  `json:"doctors"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return []model.Doctor{}
	}
	if len(env.Data) > 0 {
		var nested struct {
			Doctors []model.Doctor `json:"doctors"`
		}
		if err := json.Unmarshal(env.Data, &nested); err == nil && nested.Doctors != nil {
			return nested.Doctors
		}
		var list []model.Doctor
		if err := json.Unmarshal(env.Data, &list); err == nil {
			return list
		}
	}
	if env.Doctors != nil {
		return env.Doctors
	}
	return []model.Doctor{}
}

func decodeDoctor(body []byte) *model.Doctor {
	var env struct {
		Data *model.Doctor `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil && env.Data.ID != "" {
		return env.Data
	}
	var doc model.Doctor
	if err := json.Unmarshal(body, &doc); err == nil && doc.ID != "" {
		return &doc
	}
	return nil
}

func decodeSpecialties(body []byte) []string {
	var bare []string
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare
	}

	var env struct {
		Data        []string `json:"data"`
		Specialties []string `json:"specialties"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	if env.Data != nil {
		return env.Data
	}
	return env.Specialties
}
