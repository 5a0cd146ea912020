package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/consultafacil/portal-api/internal/apiclient"
	"github.com/consultafacil/portal-api/internal/model"
	"github.com/consultafacil/portal-api/internal/session"
	"github.com/consultafacil/portal-api/pkg/errors"
	"github.com/consultafacil/portal-api/pkg/logger"
)

// Service exchanges credentials with the upstream, owns portal sessions and
// keeps the cached user snapshot in sync with profile updates.
type Service struct {
	api    apiclient.AuthAPI
	store  session.Store
	tokens *session.TokenManager
	logger *logger.Logger
}

func NewService(api apiclient.AuthAPI, store session.Store, tokens *session.TokenManager, log *logger.Logger) *Service {
	return &Service{
		api:    api,
		store:  store,
		tokens: tokens,
		logger: log,
	}
}

// Login tries the patient endpoint first and falls back to the doctor
// endpoint, mirroring the portal's single login form for both roles. On
// success a session is persisted and a portal token minted.
func (s *Service) Login(ctx context.Context, login, password string) (*model.LoginResult, error) {
	user, upstreamToken, patientErr := s.api.LoginPatient(ctx, login, password)
	if patientErr != nil {
		var doctorErr error
		user, upstreamToken, doctorErr = s.api.LoginDoctor(ctx, login, password)
		if doctorErr != nil {
			if errors.IsCode(patientErr, errors.ErrUpstream) {
				return nil, patientErr
			}
			if errors.IsCode(doctorErr, errors.ErrUpstream) {
				return nil, doctorErr
			}
			return nil, errors.NewUnauthorized("invalid credentials", doctorErr)
		}
	}

	sess := &session.Session{
		ID:            uuid.NewString(),
		UpstreamToken: upstreamToken,
		User:          user,
		CreatedAt:     time.Now(),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, errors.NewInternal(err)
	}

	token, err := s.tokens.Issue(sess)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)
	return &model.LoginResult{SessionToken: token, User: user}, nil
}

// Logout deletes the stored session. The portal token becomes useless even
// if it has not expired.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// Resolve validates a portal token and loads the session it references.
func (s *Service) Resolve(ctx context.Context, token string) (*session.Session, error) {
	sessionID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, errors.NewUnauthorized("invalid session", err)
	}
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, errors.NewUnauthorized("session expired", err)
	}
	return sess, nil
}

func (s *Service) RegisterPatient(ctx context.Context, req *model.RegisterPatientRequest) error {
	return s.api.RegisterPatient(ctx, req)
}

func (s *Service) RegisterDoctor(ctx context.Context, req *model.RegisterDoctorRequest) error {
	return s.api.RegisterDoctor(ctx, req)
}

// UpdateProfile writes the profile upstream for the session's role and then
// refreshes the cached user snapshot so the session and upstream agree.
func (s *Service) UpdateProfile(ctx context.Context, sess *session.Session, req *model.UpdateProfileRequest) (*model.User, error) {
	var err error
	switch sess.User.Role {
	case model.RoleDoctor:
		err = s.api.UpdateDoctorProfile(ctx, req)
	default:
		err = s.api.UpdatePatientProfile(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	applyProfile(sess.User, req)
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, errors.NewInternal(err)
	}
	return sess.User, nil
}

func applyProfile(user *model.User, req *model.UpdateProfileRequest) {
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Address != "" {
		user.Address = req.Address
	}
	if req.Specialty != "" {
		user.Specialty = req.Specialty
	}
	if req.Experience != "" {
		user.Experience = req.Experience
	}
	if req.Education != "" {
		user.Education = req.Education
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
}
