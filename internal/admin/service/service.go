package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"regdesk/internal/audit"
	"regdesk/internal/platform/metrics"
	dErrors "regdesk/pkg/domain-errors"
	"regdesk/pkg/secrets"
)

// TokenIssuer signs session tokens for authenticated admins.
type TokenIssuer interface {
	GenerateSessionToken(subject string) (string, error)
}

// AuditPublisher records login attempts.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Credentials is the configured admin identity. When PasswordHash is set it
// takes precedence over the plaintext Password.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// LoginResult carries the issued session token.
type LoginResult struct {
	Token     string
	Subject   string
	ExpiresIn time.Duration
}

// Service authenticates the static admin credential and issues session
// tokens. Failed attempts are audited with the client device description.
type Service struct {
	credentials    Credentials
	tokens         TokenIssuer
	sessionTTL     time.Duration
	auditPublisher AuditPublisher
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(credentials Credentials, tokens TokenIssuer, sessionTTL time.Duration, opts ...Option) (*Service, error) {
	if credentials.Username == "" {
		return nil, fmt.Errorf("admin username is required")
	}
	if credentials.Password == "" && credentials.PasswordHash == "" {
		return nil, fmt.Errorf("admin password or password hash is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token issuer is required")
	}

	svc := &Service{
		credentials: credentials,
		tokens:      tokens,
		sessionTTL:  sessionTTL,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Login verifies the submitted credential pair. The device string is a
// human-readable client description carried into the audit trail.
func (s *Service) Login(ctx context.Context, username, password, device string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "username and password are required")
	}

	if !s.credentialsMatch(username, password) {
		s.metrics.IncAuthFailure()
		s.logAudit(ctx, audit.Event{
			Actor:  username,
			Action: audit.ActionAdminLoginFailed,
			Device: device,
		})
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.GenerateSessionToken(username)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue session token")
	}

	s.logAudit(ctx, audit.Event{
		Actor:  username,
		Action: audit.ActionAdminLogin,
		Device: device,
	})

	return &LoginResult{
		Token:     token,
		Subject:   username,
		ExpiresIn: s.sessionTTL,
	}, nil
}

func (s *Service) credentialsMatch(username, password string) bool {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.credentials.Username)) == 1

	var passwordOK bool
	if s.credentials.PasswordHash != "" {
		passwordOK = secrets.Verify(password, s.credentials.PasswordHash) == nil
	} else {
		passwordOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.credentials.Password)) == 1
	}

	return usernameOK && passwordOK
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, event.Action,
			"event", event.Action,
			"actor", event.Actor,
			"device", event.Device,
			"log_type", "audit",
		)
	}
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.Warn("failed to emit audit event", "action", event.Action, "error", err)
	}
}
