package model

// Doctor is read-only booking context; the portal never mutates it.
// CRM is the doctor's professional license identifier.
type Doctor struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	CRM             string  `json:"CRM"`
	Specialty       string  `json:"specialty"`
	Phone           string  `json:"phone,omitempty"`
	Address         string  `json:"address,omitempty"`
	Experience      string  `json:"experience,omitempty"`
	Education       string  `json:"education,omitempty"`
	Bio             string  `json:"bio,omitempty"`
	Rating          float64 `json:"rating,omitempty"`
	ConsultationFee float64 `json:"consultationFee,omitempty"`
}

// DoctorSearchFilters narrows a directory search.
type DoctorSearchFilters struct {
	Specialty string `form:"specialty"`
	Query     string `form:"search"`
}
