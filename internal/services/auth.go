package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/db"
	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

const (
	bcryptCost              = 10
	invalidCredentials      = "Invalid credentials"
	userExistsMessage       = "User already exists"
	LogoutMessage           = "Logged out successfully"
	defaultAvatar           = "default-avatar.png"
	minPasswordLen          = 6
	maxNameLen              = 50
	missingCredentialsLogin = "Please provide both email and password"
)

type JWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string            `json:"token"`
	User  types.UserSummary `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context) (*types.User, error)
	// Authenticate verifies a bearer token and resolves the caller from storage.
	Authenticate(ctx context.Context, tokenString string) (types.Principal, error)
	IssueToken(u *types.User) (string, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
	now          Clock
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, jwtSecretKey string, accessTTL time.Duration) AuthService {
	return &authService{
		db:           db,
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
		now:          systemClock,
	}
}

func (as *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = repos.NormalizeEmail(in.Email)

	var checks fieldChecks
	if checks.required("name", in.Name, "Please add a name") {
		checks.maxLen("name", in.Name, maxNameLen, "Name cannot be more than 50 characters")
	}
	if checks.required("email", in.Email, "Please add an email") {
		checks.email("email", in.Email, "Please add a valid email")
	}
	if checks.required("password", in.Password, "Please add a password") && len(in.Password) < minPasswordLen {
		checks.add("password", "Password must be at least 6 characters")
	}
	role := types.Role(0)
	if checks.required("role", in.Role, "Please specify user role") {
		parsed, err := user.ParseRole(in.Role)
		if err != nil {
			checks.add("role", "Role must be creator or member")
		}
		role = parsed
	}
	if err := checks.err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &types.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hash),
		Role:     role,
		Avatar:   defaultAvatar,
	}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, err := as.userRepo.EmailExists(inner, u.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return apierr.Conflict(userExistsMessage)
		}
		if _, err := as.userRepo.Create(inner, []*types.User{u}); err != nil {
			if db.IsUniqueViolation(err) {
				return apierr.Conflict(userExistsMessage).Wrap(err)
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := as.IssueToken(u)
	if err != nil {
		return nil, err
	}
	as.log.Info("user registered", "user_id", u.ID, "role", u.Role.String())
	return &AuthResult{Token: token, User: u.Summary()}, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = repos.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apierr.BadRequest(missingCredentialsLogin)
	}

	u, err := as.userRepo.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		as.log.Debug("login rejected", "reason", "unknown_email")
		return nil, apierr.Unauthorized(invalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		as.log.Debug("login rejected", "reason", "password_mismatch", "user_id", u.ID)
		return nil, apierr.Unauthorized(invalidCredentials)
	}

	token, err := as.IssueToken(u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: u.Summary()}, nil
}

func (as *authService) Me(ctx context.Context) (*types.User, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	u, err := as.userRepo.GetByID(dbctx.Context{Ctx: ctx}, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, apierr.NotFound("User not found")
	}
	return u, nil
}

func (as *authService) IssueToken(u *types.User) (string, error) {
	now := as.now()
	claims := JWTClaims{
		Role: u.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (as *authService) Authenticate(ctx context.Context, tokenString string) (types.Principal, error) {
	unauthorized := apierr.Unauthorized(notAuthorizedMessage)
	if tokenString == "" {
		return types.Principal{}, unauthorized
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return types.Principal{}, unauthorized.Wrap(err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return types.Principal{}, unauthorized.Wrap(errors.New("invalid or expired token"))
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return types.Principal{}, unauthorized.Wrap(fmt.Errorf("invalid subject: %w", err))
	}
	u, err := as.userRepo.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return types.Principal{}, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return types.Principal{}, unauthorized.Wrap(errors.New("user no longer exists"))
	}
	return types.Principal{UserID: u.ID, Role: u.Role}, nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
