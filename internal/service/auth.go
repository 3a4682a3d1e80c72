package service

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"time"

	"github.com/socialsphere/socialsphere-app/internal/auth"
	"github.com/socialsphere/socialsphere-app/internal/cache"
	"github.com/socialsphere/socialsphere-app/internal/color"
	"github.com/socialsphere/socialsphere-app/internal/domain"
	domainerrors "github.com/socialsphere/socialsphere-app/internal/errors"
	"github.com/socialsphere/socialsphere-app/internal/id"
	"github.com/socialsphere/socialsphere-app/internal/ratelimit"
	"github.com/socialsphere/socialsphere-app/internal/search"
	"github.com/socialsphere/socialsphere-app/internal/store"
)

// Demo account credentials, seeded on first demo login.
const (
	DemoUsername = "demo_user"
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo123"
)

// AuthService handles registration, login and session restoration.
type AuthService struct {
	store        *store.Store
	cache        *cache.Cache
	tokenService *auth.TokenService
	searchIndex  *search.Index
	loginLimiter *ratelimit.KeyedRateLimiter
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	st *store.Store,
	c *cache.Cache,
	tokenService *auth.TokenService,
	searchIndex *search.Index,
	loginLimiter *ratelimit.KeyedRateLimiter,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:        st,
		cache:        c,
		tokenService: tokenService,
		searchIndex:  searchIndex,
		loginLimiter: loginLimiter,
		logger:       logger,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,max=1024"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	DisplayName     string `json:"display_name" validate:"max=64"`
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`

	// Remember keeps the session across restarts (durable scope)
	// instead of clearing it with the session.
	Remember bool `json:"remember"`
}

// AuthResponse contains the authenticated user and their token.
type AuthResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		DisplayName:  req.DisplayName,
		AvatarColor:  color.ForUser(userID),
		LastActivity: time.Now(),
		Privacy:      domain.DefaultPrivacy(),
	}
	user.ID = userID
	user.InitTimestamps()

	if err := s.store.Users.Create(ctx, userID, user); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("username or email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.searchIndex.IndexDocument(search.UserToDocument(user)); err != nil {
		// The account exists either way; log and move on.
		s.logger.Warn("failed to index new user", "user_id", userID, "error", err)
	}

	s.logger.Info("User registered", "user_id", userID, "username", user.Username)
	return user, nil
}

// Login authenticates a user and stores the session in the cache.
// Attempts are throttled per username.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if !s.loginLimiter.Allow(req.Username) {
		return nil, domainerrors.Conflict("too many login attempts, try again shortly")
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			// Don't leak whether the username exists
			return nil, domainerrors.InvalidCredentials("invalid username or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	valid, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	}

	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	user.PingActivity()
	if err := s.store.Users.Update(ctx, user.ID, user); err != nil {
		return nil, fmt.Errorf("update last activity: %w", err)
	}

	if err := s.storeSession(ctx, user, token, req.Remember); err != nil {
		return nil, err
	}

	s.logger.Info("User logged in",
		"user_id", user.ID,
		"username", user.Username,
		"remember", req.Remember,
	)

	return &AuthResponse{
		User:      user,
		Token:     token,
		ExpiresAt: time.Now().Add(s.tokenService.AccessTokenDuration()),
	}, nil
}

// DemoLogin signs in with the demo account, seeding it and its fixture
// posts on first use.
func (s *AuthService) DemoLogin(ctx context.Context) (*AuthResponse, error) {
	if err := s.seedDemoData(ctx); err != nil {
		return nil, err
	}

	return s.Login(ctx, LoginRequest{
		Username: DemoUsername,
		Password: DemoPassword,
	})
}

// RestoreSession verifies the cached token and returns the logged-in
// user. Returns ErrUnauthorized when no session is stored, and
// ErrTokenExpired when the stored token no longer verifies.
func (s *AuthService) RestoreSession(ctx context.Context) (*domain.User, error) {
	token, err := s.cache.Get(ctx, cache.KeyAuthToken)
	if err != nil {
		if domainerrors.Is(err, cache.ErrNotFound) {
			return nil, domainerrors.Unauthorized("no stored session")
		}
		return nil, fmt.Errorf("read cached token: %w", err)
	}

	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		// Drop the stale session so the next startup doesn't retry it.
		_ = s.cache.Remove(ctx, cache.KeyAuthToken)
		_ = s.cache.Remove(ctx, cache.KeyCurrentUser)
		return nil, domainerrors.TokenExpired("stored session is no longer valid").WithCause(err)
	}

	user, err := s.store.Users.Get(ctx, claims.UserID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("session user no longer exists")
		}
		return nil, fmt.Errorf("load session user: %w", err)
	}

	return user, nil
}

// Logout clears the stored session and every session-scoped cache key.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.cache.Remove(ctx, cache.KeyAuthToken); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if err := s.cache.Remove(ctx, cache.KeyCurrentUser); err != nil {
		return fmt.Errorf("clear current user: %w", err)
	}
	if err := s.cache.ClearSession(ctx); err != nil {
		return fmt.Errorf("clear session scope: %w", err)
	}

	s.logger.Info("User logged out")
	return nil
}

// storeSession persists the token and user snapshot. Remember-me
// sessions survive restarts; others are swept with the session scope.
func (s *AuthService) storeSession(ctx context.Context, user *domain.User, token string, remember bool) error {
	scope := cache.ScopeSession
	if remember {
		scope = cache.ScopeDurable
	}

	if err := s.cache.Set(ctx, cache.KeyAuthToken, token, scope); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	snapshot, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user snapshot: %w", err)
	}
	if err := s.cache.Set(ctx, cache.KeyCurrentUser, string(snapshot), scope); err != nil {
		return fmt.Errorf("store user snapshot: %w", err)
	}
	return nil
}
