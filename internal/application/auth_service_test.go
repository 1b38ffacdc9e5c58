package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type credentialStoreStub struct {
	credentials StaffCredentials
	err         error
}

func (s *credentialStoreStub) GetStaffCredentialsByCPF(_ context.Context, cpf string) (StaffCredentials, error) {
	if s.err != nil {
		return StaffCredentials{}, s.err
	}
	if cpf != s.credentials.Staff.CPF {
		return StaffCredentials{}, ErrNotFound
	}
	return s.credentials, nil
}

func (s *credentialStoreStub) GetStaff(_ context.Context, id string) (StaffMember, error) {
	if id != s.credentials.Staff.ID {
		return StaffMember{}, ErrNotFound
	}
	return s.credentials.Staff, nil
}

type sessionRepositoryStub struct {
	sessions   map[string]Session
	createErr  error
	pruneCalls int
}

func newSessionRepositoryStub(seed ...Session) *sessionRepositoryStub {
	stub := &sessionRepositoryStub{sessions: make(map[string]Session)}
	for _, session := range seed {
		stub.sessions[session.Token] = session
	}
	return stub
}

func (s *sessionRepositoryStub) CreateSession(_ context.Context, session Session) (Session, error) {
	if s.createErr != nil {
		return Session{}, s.createErr
	}
	s.sessions[session.Token] = session
	return session, nil
}

func (s *sessionRepositoryStub) GetSession(_ context.Context, token string) (Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return session, nil
}

func (s *sessionRepositoryStub) RevokeSession(_ context.Context, token string) error {
	session, ok := s.sessions[token]
	if !ok || session.RevokedAt != nil {
		return ErrNotFound
	}
	revokedAt := session.CreatedAt
	session.RevokedAt = &revokedAt
	s.sessions[token] = session
	return nil
}

func (s *sessionRepositoryStub) DeleteExpiredSessions(_ context.Context) (int, error) {
	s.pruneCalls++
	return 0, nil
}

func activeStaffCredentials(t *testing.T) StaffCredentials {
	t.Helper()
	hash, err := HashPassword("segredo-forte")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	return StaffCredentials{
		Staff: StaffMember{
			ID:            "staff-1",
			Nome:          "Carla Souza",
			CPF:           "12345678909",
			Admin:         true,
			Ativo:         true,
			HasCredential: true,
		},
		PasswordHash: hash,
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	t.Run("issues a session for valid credentials", func(t *testing.T) {
		t.Parallel()

		creds := &credentialStoreStub{credentials: activeStaffCredentials(t)}
		repo := newSessionRepositoryStub()
		svc := NewAuthService(creds, repo, func() string { return "token-1" }, func() time.Time { return now }, time.Hour, nil)

		result, err := svc.Authenticate(context.Background(), AuthenticateParams{
			CPF:   "123.456.789-09",
			Senha: "segredo-forte",
		})
		if err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
		if result.Session.Token != "token-1" {
			t.Fatalf("expected issued token, got %q", result.Session.Token)
		}
		if !result.Session.ExpiresAt.Equal(now.Add(time.Hour)) {
			t.Fatalf("unexpected expiry: %v", result.Session.ExpiresAt)
		}
		if result.Staff.ID != "staff-1" {
			t.Fatalf("unexpected staff in result: %+v", result.Staff)
		}
		if repo.pruneCalls != 1 {
			t.Fatalf("expected expired sessions to be pruned once, got %d", repo.pruneCalls)
		}
	})

	t.Run("rejects an unknown cpf with the credentials sentinel", func(t *testing.T) {
		t.Parallel()

		creds := &credentialStoreStub{credentials: activeStaffCredentials(t)}
		svc := NewAuthService(creds, newSessionRepositoryStub(), nil, func() time.Time { return now }, time.Hour, nil)

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{CPF: "999.999.999-99", Senha: "segredo-forte"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		t.Parallel()

		creds := &credentialStoreStub{credentials: activeStaffCredentials(t)}
		svc := NewAuthService(creds, newSessionRepositoryStub(), nil, func() time.Time { return now }, time.Hour, nil)

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{CPF: "12345678909", Senha: "errada"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects an empty password without touching the store", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(&credentialStoreStub{}, newSessionRepositoryStub(), nil, func() time.Time { return now }, time.Hour, nil)
		_, err := svc.Authenticate(context.Background(), AuthenticateParams{CPF: "12345678909"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("rejects an inactive account", func(t *testing.T) {
		t.Parallel()

		credentials := activeStaffCredentials(t)
		credentials.Staff.Ativo = false
		svc := NewAuthService(&credentialStoreStub{credentials: credentials}, newSessionRepositoryStub(), nil, func() time.Time { return now }, time.Hour, nil)

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{CPF: "12345678909", Senha: "segredo-forte"})
		if !errors.Is(err, ErrAccountDisabled) {
			t.Fatalf("expected ErrAccountDisabled, got %v", err)
		}
	})

	t.Run("rejects a member without a credential", func(t *testing.T) {
		t.Parallel()

		credentials := activeStaffCredentials(t)
		credentials.PasswordHash = ""
		svc := NewAuthService(&credentialStoreStub{credentials: credentials}, newSessionRepositoryStub(), nil, func() time.Time { return now }, time.Hour, nil)

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{CPF: "12345678909", Senha: "segredo-forte"})
		if !errors.Is(err, ErrAccountDisabled) {
			t.Fatalf("expected ErrAccountDisabled, got %v", err)
		}
	})

	t.Run("propagates session creation failures", func(t *testing.T) {
		t.Parallel()

		expected := errors.New("boom")
		repo := newSessionRepositoryStub()
		repo.createErr = expected
		svc := NewAuthService(&credentialStoreStub{credentials: activeStaffCredentials(t)}, repo, func() string { return "token" }, func() time.Time { return now }, time.Hour, nil)

		_, err := svc.Authenticate(context.Background(), AuthenticateParams{CPF: "12345678909", Senha: "segredo-forte"})
		if !errors.Is(err, expected) {
			t.Fatalf("expected %v, got %v", expected, err)
		}
	})
}

func TestAuthService_ValidateSession(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	staff := StaffMember{ID: "staff-1", CPF: "12345678909", Admin: true, Ativo: true}

	newService := func(sessions *sessionRepositoryStub, member StaffMember) *AuthService {
		return NewAuthService(
			&credentialStoreStub{credentials: StaffCredentials{Staff: member}},
			sessions,
			nil,
			func() time.Time { return now },
			time.Hour,
			nil,
		)
	}

	t.Run("resolves a live token into a principal", func(t *testing.T) {
		t.Parallel()

		repo := newSessionRepositoryStub(Session{
			Token:     "token-1",
			StaffID:   "staff-1",
			CreatedAt: now.Add(-time.Minute),
			ExpiresAt: now.Add(time.Hour),
		})
		svc := newService(repo, staff)

		principal, err := svc.ValidateSession(context.Background(), "token-1")
		if err != nil {
			t.Fatalf("ValidateSession failed: %v", err)
		}
		if principal.StaffID != "staff-1" || !principal.IsAdmin {
			t.Fatalf("unexpected principal: %+v", principal)
		}
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		t.Parallel()

		repo := newSessionRepositoryStub(Session{
			Token:     "token-1",
			StaffID:   "staff-1",
			CreatedAt: now.Add(-2 * time.Hour),
			ExpiresAt: now.Add(-time.Hour),
		})
		svc := newService(repo, staff)

		_, err := svc.ValidateSession(context.Background(), "token-1")
		if !errors.Is(err, ErrSessionExpired) {
			t.Fatalf("expected ErrSessionExpired, got %v", err)
		}
	})

	t.Run("rejects a revoked token", func(t *testing.T) {
		t.Parallel()

		revokedAt := now.Add(-time.Minute)
		repo := newSessionRepositoryStub(Session{
			Token:     "token-1",
			StaffID:   "staff-1",
			ExpiresAt: now.Add(time.Hour),
			RevokedAt: &revokedAt,
		})
		svc := newService(repo, staff)

		_, err := svc.ValidateSession(context.Background(), "token-1")
		if !errors.Is(err, ErrSessionRevoked) {
			t.Fatalf("expected ErrSessionRevoked, got %v", err)
		}
	})

	t.Run("rejects an unknown token", func(t *testing.T) {
		t.Parallel()

		svc := newService(newSessionRepositoryStub(), staff)
		_, err := svc.ValidateSession(context.Background(), "ghost")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects a token whose owner was deactivated", func(t *testing.T) {
		t.Parallel()

		deactivated := staff
		deactivated.Ativo = false
		repo := newSessionRepositoryStub(Session{
			Token:     "token-1",
			StaffID:   "staff-1",
			ExpiresAt: now.Add(time.Hour),
		})
		svc := newService(repo, deactivated)

		_, err := svc.ValidateSession(context.Background(), "token-1")
		if !errors.Is(err, ErrAccountDisabled) {
			t.Fatalf("expected ErrAccountDisabled, got %v", err)
		}
	})
}

func TestAuthService_RevokeSession(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	t.Run("revokes a live token", func(t *testing.T) {
		t.Parallel()

		repo := newSessionRepositoryStub(Session{
			Token:     "token-1",
			StaffID:   "staff-1",
			CreatedAt: now.Add(-time.Minute),
			ExpiresAt: now.Add(time.Hour),
		})
		svc := NewAuthService(&credentialStoreStub{}, repo, nil, func() time.Time { return now }, time.Hour, nil)

		if err := svc.RevokeSession(context.Background(), "token-1"); err != nil {
			t.Fatalf("RevokeSession failed: %v", err)
		}
		if repo.sessions["token-1"].RevokedAt == nil {
			t.Fatal("expected the session to be marked revoked")
		}
	})

	t.Run("revoking an unknown token is a no-op", func(t *testing.T) {
		t.Parallel()

		svc := NewAuthService(&credentialStoreStub{}, newSessionRepositoryStub(), nil, func() time.Time { return now }, time.Hour, nil)
		if err := svc.RevokeSession(context.Background(), "ghost"); err != nil {
			t.Fatalf("expected idempotent revoke, got %v", err)
		}
	})
}
