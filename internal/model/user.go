package model

// Portal roles. The upstream spells the patient role "pacient".
const (
	RolePatient = "pacient"
	RoleDoctor  = "doctor"
)

// User is the authenticated actor cached alongside the session.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Phone      string `json:"phone,omitempty"`
	CPF        string `json:"cpf,omitempty"`
	CRM        string `json:"CRM,omitempty"`
	Specialty  string `json:"specialty,omitempty"`
	Address    string `json:"address,omitempty"`
	Experience string `json:"experience,omitempty"`
	Education  string `json:"education,omitempty"`
	Bio        string `json:"bio,omitempty"`
}
