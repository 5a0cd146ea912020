package apiclient

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/consultafacil/portal-api/internal/model"
	"github.com/consultafacil/portal-api/pkg/errors"
)

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// loginEnvelope tolerates both {data:{token, pacient|doctor}} and flatter
// variants with a top-level token.
type loginEnvelope struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Data    struct {
		Token   string      `json:"token"`
		Pacient *model.User `json:"pacient"`
		Doctor  *model.User `json:"doctor"`
	} `json:"data"`
}

// LoginPatient exchanges credentials at the patient endpoint. Login may be
// an email or a CPF.
func (c *Client) LoginPatient(ctx context.Context, login, password string) (*model.User, string, error) {
	return c.login(ctx, "/api/pacient/login", login, password, model.RolePatient)
}

// LoginDoctor exchanges credentials at the doctor endpoint.
func (c *Client) LoginDoctor(ctx context.Context, login, password string) (*model.User, string, error) {
	return c.login(ctx, "/api/doctor/login", login, password, model.RoleDoctor)
}

func (c *Client) login(ctx context.Context, path, login, password, role string) (*model.User, string, error) {
	resp, err := c.do(ctx, http.MethodPost, path, nil, &credentials{Login: login, Password: password})
	if err != nil {
		return nil, "", err
	}
	if !resp.ok() {
		return nil, "", c.fail(resp)
	}

	var env loginEnvelope
	if err := json.Unmarshal(resp.body, &env); err != nil {
		return nil, "", errors.NewUpstream("invalid server response", err)
	}

	user := env.Data.Pacient
	if user == nil {
		user = env.Data.Doctor
	}
	if user == nil || user.ID == "" {
		return nil, "", errors.NewUnauthorized("invalid credentials", nil)
	}
	user.Role = role

	token := env.Data.Token
	if token == "" {
		token = env.Token
	}
	return user, token, nil
}

// registerDoctorPayload matches the upstream wire, which spells the license
// field lowercase on registration only.
type registerDoctorPayload struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	CRM       string `json:"crm"`
	Specialty string `json:"specialty"`
	Password  string `json:"password"`
	CPF       string `json:"cpf"`
	Phone     string `json:"phone"`
}

// RegisterDoctor creates a doctor account. A 409 surfaces as a duplicate
// CRM/CPF/email error.
func (c *Client) RegisterDoctor(ctx context.Context, req *model.RegisterDoctorRequest) error {
	payload := &registerDoctorPayload{
		Name:      req.Name,
		Email:     req.Email,
		CRM:       req.CRM,
		Specialty: req.Specialty,
		Password:  req.Password,
		CPF:       req.CPF,
		Phone:     req.Phone,
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/doctor/register", nil, payload)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return c.fail(resp)
	}
	return nil
}

// RegisterPatient creates a patient account.
func (c *Client) RegisterPatient(ctx context.Context, req *model.RegisterPatientRequest) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/pacient/register", nil, req)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return c.fail(resp)
	}
	return nil
}

// UpdateDoctorProfile writes the authenticated doctor's editable fields.
func (c *Client) UpdateDoctorProfile(ctx context.Context, req *model.UpdateProfileRequest) error {
	return c.updateProfile(ctx, "/api/doctor/profile", req)
}

// UpdatePatientProfile writes the authenticated patient's editable fields.
func (c *Client) UpdatePatientProfile(ctx context.Context, req *model.UpdateProfileRequest) error {
	return c.updateProfile(ctx, "/api/pacient/profile", req)
}

func (c *Client) updateProfile(ctx context.Context, path string, req *model.UpdateProfileRequest) error {
	resp, err := c.do(ctx, http.MethodPut, path, nil, req)
	if err != nil {
		return err
	}
	if !resp.ok() {
		return c.fail(resp)
	}
	return nil
}
