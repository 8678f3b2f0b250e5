package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/AlibekovAA/job-board/backend/internal/auth/token"
	commoncrypto "github.com/AlibekovAA/job-board/backend/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/job-board/backend/internal/common/errors"
	"github.com/AlibekovAA/job-board/backend/internal/common/logger"
	userdomain "github.com/AlibekovAA/job-board/backend/internal/user/domain"
)

func register(t *testing.T, f *fixture, email string, role userdomain.Role) Session {
	t.Helper()
	s, err := f.svc.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: "password123",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return s
}

func TestRegister_Success(t *testing.T) {
	f := newFixture(Options{})

	s := register(t, f, "  Alice@Example.COM ", userdomain.RoleRecruiter)

	if s.AccessToken == "" || s.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if s.User.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %s", s.User.Email)
	}
	if s.User.Role != userdomain.RoleRecruiter {
		t.Errorf("expected recruiter, got %s", s.User.Role)
	}

	stored := f.store.stored(s.User.ID)
	if stored.PasswordHash == "password123" || stored.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
	if stored.RefreshTokenHash != token.Hash(s.RefreshToken) {
		t.Error("expected refresh token hash stored with the user")
	}
}

func TestRegister_DefaultsToJobSeeker(t *testing.T) {
	f := newFixture(Options{})
	s := register(t, f, "bob@example.com", "")
	if s.User.Role != userdomain.RoleJobSeeker {
		t.Errorf("expected job-seeker, got %s", s.User.Role)
	}
}

func TestRegister_SingleWriteNoRead(t *testing.T) {
	f := newFixture(Options{})
	register(t, f, "bob@example.com", "")
	reads, writes := f.store.counters()
	if reads != 0 || writes != 1 {
		t.Errorf("expected 0 reads and 1 write, got %d and %d", reads, writes)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(Options{})
	register(t, f, "bob@example.com", "")

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Name: "Bob Again", Email: "BOB@example.com", Password: "password456",
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	de, _ := commonerrors.AsDomainError(err)
	if de.HTTPStatus() != 409 {
		t.Errorf("expected 409, got %d", de.HTTPStatus())
	}
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(Options{})

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing name", RegisterInput{Email: "a@b.co", Password: "password123"}},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "password123"}},
		{"short password", RegisterInput{Name: "A", Email: "a@b.co", Password: "short"}},
		{"long password bytes", RegisterInput{Name: "A", Email: "a@b.co", Password: strings.Repeat("é", 40)}},
		{"admin role", RegisterInput{Name: "A", Email: "a@b.co", Password: "password123", Role: userdomain.RoleAdmin}},
		{"unknown role", RegisterInput{Name: "A", Email: "a@b.co", Password: "password123", Role: "owner"}},
		{"long name", RegisterInput{Name: strings.Repeat("n", 101), Email: "a@b.co", Password: "password123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Register(context.Background(), tt.input)
			if !errors.Is(err, commonerrors.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}

	if _, writes := f.store.counters(); writes != 0 {
		t.Errorf("expected no writes on invalid input, got %d", writes)
	}
}

func TestRegister_StorageFailureReturnsNoTokens(t *testing.T) {
	f := newFixture(Options{})
	f.store.createFunc = func(context.Context, userdomain.User) error {
		return errors.New("connection refused")
	}

	s, err := f.svc.Register(context.Background(), RegisterInput{
		Name: "A", Email: "a@b.co", Password: "password123",
	})
	if !errors.Is(err, commonerrors.ErrStorageFailure) {
		t.Fatalf("expected ErrStorageFailure, got %v", err)
	}
	if s.AccessToken != "" || s.RefreshToken != "" {
		t.Error("expected no tokens after storage failure")
	}
}

func TestLogin_AfterRegister(t *testing.T) {
	f := newFixture(Options{})
	reg := register(t, f, "carol@example.com", userdomain.RoleJobSeeker)

	s, err := f.svc.Login(context.Background(), LoginInput{Email: "Carol@Example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if s.User.ID != reg.User.ID {
		t.Errorf("expected user %s, got %s", reg.User.ID, s.User.ID)
	}

	claims, err := f.tokens.VerifyAccess(s.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if claims.UserID != string(reg.User.ID) || claims.Role != string(userdomain.RoleJobSeeker) {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(Options{})
	register(t, f, "carol@example.com", "")

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "carol@example.com", Password: "wrong-password"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmailIsSameError(t *testing.T) {
	f := newFixture(Options{})

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "password123"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), LoginInput{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for empty input, got %v", err)
	}
}

func TestLogin_OneReadOneWrite(t *testing.T) {
	f := newFixture(Options{})
	register(t, f, "carol@example.com", "")
	f.store.resetCounters()

	if _, err := f.svc.Login(context.Background(), LoginInput{Email: "carol@example.com", Password: "password123"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	reads, writes := f.store.counters()
	if reads != 1 || writes != 1 {
		t.Errorf("expected 1 read and 1 write, got %d and %d", reads, writes)
	}
}

func TestLogin_StorageFailures(t *testing.T) {
	f := newFixture(Options{})
	register(t, f, "carol@example.com", "")

	f.store.updateRefreshTokenFunc = func(context.Context, userdomain.ID, string) error {
		return errors.New("disk full")
	}
	s, err := f.svc.Login(context.Background(), LoginInput{Email: "carol@example.com", Password: "password123"})
	if !errors.Is(err, commonerrors.ErrStorageFailure) {
		t.Fatalf("expected ErrStorageFailure, got %v", err)
	}
	if s.AccessToken != "" || s.RefreshToken != "" {
		t.Error("expected no tokens when the refresh token could not be stored")
	}

	f.store.findByEmailFunc = func(context.Context, string) (userdomain.User, error) {
		return userdomain.User{}, errors.New("timeout")
	}
	if _, err := f.svc.Login(context.Background(), LoginInput{Email: "carol@example.com", Password: "password123"}); !errors.Is(err, commonerrors.ErrStorageFailure) {
		t.Errorf("expected ErrStorageFailure on lookup failure, got %v", err)
	}
}

func TestRefreshToken_NamespaceIsolation(t *testing.T) {
	f := newFixture(Options{})
	register(t, f, "dave@example.com", "")

	s, err := f.svc.Login(context.Background(), LoginInput{Email: "dave@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := f.tokens.VerifyRefresh(s.RefreshToken); err != nil {
		t.Errorf("refresh token should verify as refresh: %v", err)
	}
	if _, err := f.tokens.VerifyAccess(s.RefreshToken); !errors.Is(err, token.ErrInvalidToken) {
		t.Errorf("refresh token must not verify as access: %v", err)
	}
}

func TestRefresh_Success(t *testing.T) {
	f := newFixture(Options{})
	reg := register(t, f, "erin@example.com", userdomain.RoleRecruiter)
	f.store.resetCounters()

	f.clock.Advance(20 * time.Minute)
	res, err := f.svc.Refresh(context.Background(), reg.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if res.RefreshToken != "" {
		t.Error("expected no rotation by default")
	}

	claims, err := f.tokens.VerifyAccess(res.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Role != string(userdomain.RoleRecruiter) {
		t.Errorf("expected recruiter role, got %s", claims.Role)
	}

	reads, writes := f.store.counters()
	if reads != 1 || writes != 0 {
		t.Errorf("expected 1 read and no writes, got %d and %d", reads, writes)
	}

	if _, err := f.svc.Refresh(context.Background(), reg.RefreshToken); err != nil {
		t.Errorf("expected token reusable without rotation: %v", err)
	}
}

func TestRefresh_Missing(t *testing.T) {
	f := newFixture(Options{})
	_, err := f.svc.Refresh(context.Background(), "")
	if !errors.Is(err, ErrMissingRefreshToken) {
		t.Fatalf("expected ErrMissingRefreshToken, got %v", err)
	}
	de, _ := commonerrors.AsDomainError(err)
	if de.HTTPStatus() != 401 {
		t.Errorf("expected 401, got %d", de.HTTPStatus())
	}
}

func TestRefresh_InvalidTokenForbidden(t *testing.T) {
	f := newFixture(Options{})
	reg := register(t, f, "erin@example.com", "")

	for name, tok := range map[string]string{
		"garbage":      "garbage",
		"access token": reg.AccessToken,
	} {
		_, err := f.svc.Refresh(context.Background(), tok)
		if !errors.Is(err, ErrRefreshForbidden) {
			t.Errorf("%s: expected ErrRefreshForbidden, got %v", name, err)
		}
	}

	de, _ := commonerrors.AsDomainError(ErrRefreshForbidden)
	if de.HTTPStatus() != 403 {
		t.Errorf("expected 403, got %d", de.HTTPStatus())
	}
}

func TestRefresh_ExpiredForbidden(t *testing.T) {
	f := newFixture(Options{})
	reg := register(t, f, "erin@example.com", "")

	f.clock.Advance(7*24*time.Hour + time.Minute)
	if _, err := f.svc.Refresh(context.Background(), reg.RefreshToken); !errors.Is(err, ErrRefreshForbidden) {
		t.Errorf("expected ErrRefreshForbidden, got %v", err)
	}
}

func TestRefresh_AfterLogoutForbidden(t *testing.T) {
	f := newFixture(Options{})
	reg := register(t, f, "frank@example.com", "")

	f.svc.Logout(context.Background(), reg.RefreshToken)

	if got := f.store.stored(reg.User.ID).RefreshTokenHash; got != "" {
		t.Errorf("expected stored token cleared, got %q", got)
	}
	if _, err := f.svc.Refresh(context.Background(), reg.RefreshToken); !errors.Is(err, ErrRefreshForbidden) {
		t.Errorf("expected ErrRefreshForbidden after logout, got %v", err)
	}
}

func TestRefresh_SecondLoginInvalidatesFirst(t *testing.T) {
	f := newFixture(Options{})
	register(t, f, "grace@example.com", "")

	in := LoginInput{Email: "grace@example.com", Password: "password123"}
	first, err := f.svc.Login(context.Background(), in)
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := f.svc.Login(context.Background(), in)
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if first.RefreshToken == second.RefreshToken {
		t.Fatal("expected distinct refresh tokens")
	}
	if _, err := f.svc.Refresh(context.Background(), first.RefreshToken); !errors.Is(err, ErrRefreshForbidden) {
		t.Errorf("expected first session refused, got %v", err)
	}
	if _, err := f.svc.Refresh(context.Background(), second.RefreshToken); err != nil {
		t.Errorf("expected second session accepted, got %v", err)
	}
}

func TestRefresh_DeletedUserForbidden(t *testing.T) {
	f := newFixture(Options{})
	reg := register(t, f, "heidi@example.com", "")

	f.store.mu.Lock()
	delete(f.store.users, reg.User.ID)
	f.store.mu.Unlock()

	if _, err := f.svc.Refresh(context.Background(), reg.RefreshToken); !errors.Is(err, ErrRefreshForbidden) {
		t.Errorf("expected ErrRefreshForbidden, got %v", err)
	}
}

func TestRefresh_StorageFailure(t *testing.T) {
	f := newFixture(Options{})
	reg := register(t, f, "heidi@example.com", "")
	f.store.findByIDFunc = func(context.Context, userdomain.ID) (userdomain.User, error) {
		return userdomain.User{}, errors.New("timeout")
	}

	if _, err := f.svc.Refresh(context.Background(), reg.RefreshToken); !errors.Is(err, commonerrors.ErrStorageFailure) {
		t.Errorf("expected ErrStorageFailure, got %v", err)
	}
}

func TestRefresh_RotationEnabled(t *testing.T) {
	f := newFixture(Options{RotateRefreshOnUse: true})
	reg := register(t, f, "ivan@example.com", "")

	res, err := f.svc.Refresh(context.Background(), reg.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if res.RefreshToken == "" || res.RefreshToken == reg.RefreshToken {
		t.Fatal("expected a new refresh token")
	}
	if res.RefreshExpiresAt.IsZero() {
		t.Error("expected rotated token expiry")
	}

	if _, err := f.svc.Refresh(context.Background(), reg.RefreshToken); !errors.Is(err, ErrRefreshForbidden) {
		t.Errorf("expected rotated-out token refused, got %v", err)
	}
	if _, err := f.svc.Refresh(context.Background(), res.RefreshToken); err != nil {
		t.Errorf("expected rotated token accepted, got %v", err)
	}
}

func TestRefresh_RotationLosesRace(t *testing.T) {
	f := newFixture(Options{RotateRefreshOnUse: true})
	reg := register(t, f, "ivan@example.com", "")
	f.store.swapRefreshTokenFunc = func(context.Context, userdomain.ID, string, string) (bool, error) {
		return false, nil
	}

	res, err := f.svc.Refresh(context.Background(), reg.RefreshToken)
	if !errors.Is(err, ErrRefreshForbidden) {
		t.Fatalf("expected ErrRefreshForbidden, got %v", err)
	}
	if res.AccessToken != "" {
		t.Error("expected no access token when the swap failed")
	}
}

func TestLogout_Idempotent(t *testing.T) {
	f := newFixture(Options{})
	reg := register(t, f, "judy@example.com", "")

	f.svc.Logout(context.Background(), "")
	f.svc.Logout(context.Background(), reg.RefreshToken)
	f.svc.Logout(context.Background(), reg.RefreshToken)

	if got := f.store.stored(reg.User.ID).RefreshTokenHash; got != "" {
		t.Errorf("expected cleared token, got %q", got)
	}
}

func TestLogout_ExpiredTokenStillClears(t *testing.T) {
	f := newFixture(Options{})
	reg := register(t, f, "judy@example.com", "")

	f.clock.Advance(8 * 24 * time.Hour)
	f.svc.Logout(context.Background(), reg.RefreshToken)

	if got := f.store.stored(reg.User.ID).RefreshTokenHash; got != "" {
		t.Errorf("expected expired but active token to clear the session, got %q", got)
	}
}

func TestLogout_VerifiedOlderTokenEndsCurrentSession(t *testing.T) {
	f := newFixture(Options{})
	register(t, f, "ken@example.com", "")
	in := LoginInput{Email: "ken@example.com", Password: "password123"}
	first, _ := f.svc.Login(context.Background(), in)
	second, _ := f.svc.Login(context.Background(), in)

	f.svc.Logout(context.Background(), first.RefreshToken)

	if got := f.store.stored(first.User.ID).RefreshTokenHash; got != "" {
		t.Errorf("expected stored token cleared, got %q", got)
	}
	if _, err := f.svc.Refresh(context.Background(), second.RefreshToken); !errors.Is(err, ErrRefreshForbidden) {
		t.Errorf("expected ErrRefreshForbidden after logout, got %v", err)
	}
}

func TestLogout_VerifiedTokenForDeletedUser(t *testing.T) {
	f := newFixture(Options{})
	issued, err := f.tokens.MintRefresh("00000000-0000-4000-8000-00000000ffff")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	f.store.resetCounters()
	f.svc.Logout(context.Background(), issued.Token)

	if _, writes := f.store.counters(); writes != 1 {
		t.Errorf("expected a single write, got %d", writes)
	}
}

func TestLogout_ForgedTokenClearsNothing(t *testing.T) {
	f := newFixture(Options{})
	reg := register(t, f, "leo@example.com", "")

	forger := token.NewService(token.Config{
		AccessSecret:  "another-access-secret-0123456789abcdef",
		RefreshSecret: "another-refresh-secret-0123456789abcde",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}, &uuidSequence{}, f.clock)
	forged, _ := forger.MintRefresh(string(reg.User.ID))

	f.svc.Logout(context.Background(), forged.Token)
	f.svc.Logout(context.Background(), "garbage")

	if _, err := f.svc.Refresh(context.Background(), reg.RefreshToken); err != nil {
		t.Errorf("expected session untouched by forged logout, got %v", err)
	}
}

func TestLogout_StorageFailureIsSwallowed(t *testing.T) {
	f := newFixture(Options{})
	reg := register(t, f, "mia@example.com", "")
	f.store.updateRefreshTokenFunc = func(context.Context, userdomain.ID, string) error {
		return errors.New("connection reset")
	}
	f.store.swapRefreshTokenFunc = func(context.Context, userdomain.ID, string, string) (bool, error) {
		return false, errors.New("connection reset")
	}

	f.svc.Logout(context.Background(), reg.RefreshToken)

	f.clock.Advance(8 * 24 * time.Hour)
	f.svc.Logout(context.Background(), reg.RefreshToken)
}

func TestRefresh_RotationIssueFailureIsLogged(t *testing.T) {
	f := newFixture(Options{RotateRefreshOnUse: true})
	reg := register(t, f, "omar@example.com", "")

	var buf bytes.Buffer
	f.svc.log = logger.NewWithWriter(&buf, "auth-test", "ERROR")
	f.svc.tokens = token.NewService(token.Config{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}, &limitedIDs{remaining: 1}, f.clock)

	res, err := f.svc.Refresh(context.Background(), reg.RefreshToken)
	if err == nil {
		t.Fatal("expected error when the rotated token cannot be issued")
	}
	if res.AccessToken != "" || res.RefreshToken != "" {
		t.Error("expected no tokens on failure")
	}
	if !strings.Contains(buf.String(), "action=refresh_token_issue_failed") {
		t.Errorf("expected failure to be logged, got %q", buf.String())
	}
	if got := f.store.stored(reg.User.ID).RefreshTokenHash; got != token.Hash(reg.RefreshToken) {
		t.Error("expected stored token unchanged")
	}
}

func TestLogin_WithBcrypt(t *testing.T) {
	f := newFixture(Options{})
	f.svc.hasher = commoncrypto.NewBcryptHasher(4)

	register(t, f, "nina@example.com", "")
	if _, err := f.svc.Login(context.Background(), LoginInput{Email: "nina@example.com", Password: "password123"}); err != nil {
		t.Errorf("login: %v", err)
	}
	if _, err := f.svc.Login(context.Background(), LoginInput{Email: "nina@example.com", Password: "password124"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
