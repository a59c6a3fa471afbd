package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/campusparty/internal/party/domain"
	"github.com/aussiebroadwan/campusparty/internal/party/store"
	"github.com/aussiebroadwan/campusparty/pkg/cryptox"
	"github.com/aussiebroadwan/campusparty/pkg/idx"
	"github.com/aussiebroadwan/campusparty/pkg/jwtx"
	"github.com/aussiebroadwan/campusparty/pkg/slogx"
)

const MinPasswordLength = 6

var (
	ErrInvalidUsername    = errors.New("username is required")
	ErrNonEduEmail        = errors.New("a .edu email address is required")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// TokenPair is what a successful login returns. There is no refresh token;
// clients log in again when the access token expires.
type TokenPair struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	ExpiresAt   time.Time
	User        domain.User
}

type AccountService struct {
	Store      store.Store
	KeyManager *jwtx.KeyManager
	AccessTTL  time.Duration
}

// Register creates a student account. Only .edu addresses are accepted and
// the university is derived from the email domain.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || strings.ContainsAny(username, " @") {
		return domain.User{}, ErrInvalidUsername
	}
	if !IsEduEmail(email) {
		log.Warn("registration with non-edu email rejected")
		return domain.User{}, ErrNonEduEmail
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, ErrWeakPassword
	}

	// 2. Uniqueness
	if _, err := s.Store.Users().GetUserByUsername(ctx, username); err == nil {
		return domain.User{}, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check username", slog.Any("error", err))
		return domain.User{}, err
	}
	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email", slog.Any("error", err))
		return domain.User{}, err
	}

	// 3. Hash and store
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		University:   UniversityFromEmail(email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent registration. The insert does not
			// say which unique column collided, so look again.
			return domain.User{}, s.takenAfterRace(ctx, email)
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}

	log.Info("account registered",
		slog.String("user_id", u.ID),
		slog.String("university", u.University),
	)
	return u, nil
}

func (s *AccountService) takenAfterRace(ctx context.Context, email string) error {
	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}

// Login checks credentials and issues an access token. The identifier may be
// a username or an email address.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (TokenPair, error) {
	log := slogx.FromContext(ctx)

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return TokenPair{}, ErrInvalidCredentials
	}

	var (
		u   domain.User
		err error
	)
	if strings.Contains(identifier, "@") {
		u, err = s.Store.Users().GetUserByEmail(ctx, strings.ToLower(identifier))
	} else {
		u, err = s.Store.Users().GetUserByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("login for unknown account")
			return TokenPair{}, ErrInvalidCredentials
		}
		log.Error("failed to fetch user for login", slog.Any("error", err))
		return TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Info("login with wrong password", slog.String("user_id", u.ID))
			return TokenPair{}, ErrInvalidCredentials
		}
		log.Error("failed to verify password", slog.String("user_id", u.ID), slog.Any("error", err))
		return TokenPair{}, err
	}

	now := time.Now()
	token, claims, err := s.KeyManager.IssueAccessToken(u.ID, u.Username, u.University, s.AccessTTL, now)
	if err != nil {
		log.Error("failed to issue access token", slog.Any("error", err))
		return TokenPair{}, err
	}

	expiresAt := claims.ExpiresAt.Time
	return TokenPair{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(expiresAt.Sub(now).Seconds()),
		ExpiresAt:   expiresAt,
		User:        u,
	}, nil
}

// Profile returns the caller's account.
func (s *AccountService) Profile(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

// UpdatePaymentHandle sets the peer-to-peer handle other students pay into.
// An empty handle clears it.
func (s *AccountService) UpdatePaymentHandle(ctx context.Context, userID, handle string) error {
	err := s.Store.Users().UpdatePaymentHandle(ctx, userID, strings.TrimSpace(handle))
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
