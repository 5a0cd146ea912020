package model

// LoginRequest carries the credential pair; Login is email or CPF.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterPatientRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	CPF      string `json:"cpf" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type RegisterDoctorRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	CRM       string `json:"crm" binding:"required"`
	Specialty string `json:"specialty" binding:"required"`
	CPF       string `json:"cpf" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone"`
}

// UpdateProfileRequest carries the editable profile fields; zero values are
// left untouched upstream.
type UpdateProfileRequest struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	Specialty  string `json:"specialty,omitempty"`
	Experience string `json:"experience,omitempty"`
	Education  string `json:"education,omitempty"`
	Bio        string `json:"bio,omitempty"`
}

// LoginResult is what the auth service hands back to the login handler.
type LoginResult struct {
	SessionToken string `json:"session_token"`
	User         *User  `json:"user"`
}
