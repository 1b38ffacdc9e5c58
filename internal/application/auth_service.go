package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultSessionTTL is how long a panel session stays valid without renewal.
const DefaultSessionTTL = 24 * time.Hour

// StaffCredentials pairs a staff member with the stored password hash. The
// hash never leaves the authentication flow.
type StaffCredentials struct {
	Staff        StaffMember
	PasswordHash string
}

// CredentialStore resolves login credentials and session owners.
type CredentialStore interface {
	GetStaffCredentialsByCPF(ctx context.Context, cpf string) (StaffCredentials, error)
	GetStaff(ctx context.Context, id string) (StaffMember, error)
}

// SessionRepository captures the persistence interactions for panel sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)
}

// AuthService handles CPF/password login and opaque session tokens.
type AuthService struct {
	credentials    CredentialStore
	sessions       SessionRepository
	tokenGenerator func() string
	now            func() time.Time
	sessionTTL     time.Duration
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(credentials CredentialStore, sessions SessionRepository, tokenGenerator func() string, now func() time.Time, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	if tokenGenerator == nil {
		tokenGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &AuthService{
		credentials:    credentials,
		sessions:       sessions,
		tokenGenerator: tokenGenerator,
		now:            now,
		sessionTTL:     sessionTTL,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Authenticate checks the CPF/password pair and opens a new session. Lookup
// failures surface as ErrInvalidCredentials so callers cannot probe which
// CPFs exist.
func (s *AuthService) Authenticate(ctx context.Context, params AuthenticateParams) (result AuthenticateResult, err error) {
	if s == nil || s.credentials == nil || s.sessions == nil {
		err = fmt.Errorf("auth service not configured")
		return
	}

	logger := s.loggerWith(ctx, "Authenticate")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to authenticate", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("staff_id", result.Staff.ID).InfoContext(ctx, "session opened")
	}()

	cpf := cpfDigits(params.CPF)
	if cpf == "" || params.Senha == "" {
		err = ErrInvalidCredentials
		return
	}

	creds, lookupErr := s.credentials.GetStaffCredentialsByCPF(ctx, cpf)
	if lookupErr != nil {
		if isNotFound(lookupErr) {
			err = ErrInvalidCredentials
			return
		}
		err = lookupErr
		return
	}
	if !creds.Staff.Ativo || creds.PasswordHash == "" {
		err = ErrAccountDisabled
		return
	}
	if err = VerifyPassword(creds.PasswordHash, params.Senha); err != nil {
		return
	}

	if pruned, pruneErr := s.sessions.DeleteExpiredSessions(ctx); pruneErr == nil && pruned > 0 {
		logger.DebugContext(ctx, "pruned expired sessions", "count", pruned)
	}

	now := s.now()
	session, createErr := s.sessions.CreateSession(ctx, Session{
		Token:     s.tokenGenerator(),
		StaffID:   creds.Staff.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	})
	if createErr != nil {
		err = createErr
		return
	}

	result = AuthenticateResult{Staff: creds.Staff, Session: session}
	return
}

// ValidateSession resolves an opaque token into the acting principal.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (Principal, error) {
	if s == nil || s.sessions == nil || s.credentials == nil {
		return Principal{}, fmt.Errorf("auth service not configured")
	}
	if token == "" {
		return Principal{}, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, err
	}
	if session.RevokedAt != nil {
		return Principal{}, ErrSessionRevoked
	}
	if !s.now().Before(session.ExpiresAt) {
		return Principal{}, ErrSessionExpired
	}

	staff, err := s.credentials.GetStaff(ctx, session.StaffID)
	if err != nil {
		if isNotFound(err) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, err
	}
	if !staff.Ativo {
		return Principal{}, ErrAccountDisabled
	}
	return Principal{StaffID: staff.ID, IsAdmin: staff.Admin}, nil
}

// RevokeSession invalidates a token. Revoking an unknown or already revoked
// token is not an error: logout is idempotent.
func (s *AuthService) RevokeSession(ctx context.Context, token string) error {
	if s == nil || s.sessions == nil {
		return fmt.Errorf("auth service not configured")
	}
	if token == "" {
		return nil
	}

	logger := s.loggerWith(ctx, "RevokeSession")
	if err := s.sessions.RevokeSession(ctx, token); err != nil {
		if isNotFound(err) {
			return nil
		}
		logger.ErrorContext(ctx, "failed to revoke session", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "session revoked")
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
