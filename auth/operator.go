package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jobfit/backend/config"
	"github.com/jobfit/backend/models"
)

// Operator login errors
var (
	ErrLoginDisabled      = errors.New("operator login is not configured")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotOperator        = errors.New("account is not an operator")
)

// TokenVerifier verifies a Google ID token
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*GoogleUserInfo, error)
}

// OperatorService authenticates the operators who manage the resume corpus
type OperatorService struct {
	email        string
	passwordHash string
	allowed      map[string]bool
	google       TokenVerifier
}

// NewOperatorService creates an operator service from config
func NewOperatorService(cfg *config.Config, google TokenVerifier) *OperatorService {
	allowed := make(map[string]bool, len(cfg.OperatorEmails)+1)
	for _, e := range cfg.OperatorEmails {
		allowed[strings.ToLower(e)] = true
	}
	if cfg.OperatorEmail != "" {
		allowed[strings.ToLower(cfg.OperatorEmail)] = true
	}

	return &OperatorService{
		email:        strings.ToLower(cfg.OperatorEmail),
		passwordHash: cfg.OperatorPasswordHash,
		allowed:      allowed,
		google:       google,
	}
}

// Login checks email and password against the configured operator account
func (s *OperatorService) Login(email, password string) (models.Operator, error) {
	if s.email == "" || s.passwordHash == "" {
		return models.Operator{}, ErrLoginDisabled
	}
	if strings.ToLower(email) != s.email || !CheckPassword(password, s.passwordHash) {
		return models.Operator{}, ErrInvalidCredentials
	}
	return models.Operator{Email: s.email, Provider: "password"}, nil
}

// LoginWithGoogle verifies the ID token and checks the email is an operator
func (s *OperatorService) LoginWithGoogle(ctx context.Context, idToken string) (models.Operator, error) {
	if s.google == nil {
		return models.Operator{}, ErrLoginDisabled
	}

	info, err := s.google.VerifyIDToken(ctx, idToken)
	if err != nil {
		return models.Operator{}, err
	}
	if !s.IsOperator(info.Email) {
		return models.Operator{}, ErrNotOperator
	}

	return models.Operator{Email: info.Email, Name: info.Name, Provider: "google"}, nil
}

// IsOperator reports whether the email belongs to a configured operator
func (s *OperatorService) IsOperator(email string) bool {
	return email != "" && s.allowed[strings.ToLower(email)]
}
