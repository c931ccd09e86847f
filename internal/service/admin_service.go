package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"splitkb-catalog/internal/domain"
	"splitkb-catalog/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing.
	BcryptCost = 10

	// DefaultAccessExpiry applies when the configured expiry is zero.
	DefaultAccessExpiry = 60 * time.Minute
)

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSelfDeletion       = errors.New("cannot delete your own account")
)

// AdminService defines authentication and account management for
// administrators.
type AdminService interface {
	Login(ctx context.Context, username, password string) (accessToken string, err error)
	ValidateToken(tokenString string) (*Claims, error)
	CreateAccount(ctx context.Context, username, password string) (*domain.Admin, error)
	ListAccounts(ctx context.Context) ([]*domain.Admin, error)
	DeleteAccount(ctx context.Context, callerID, targetID int64) error
}

// Claims represents the JWT claims carried by an admin access token.
type Claims struct {
	AdminID int64 `json:"admin_id"`
	jwt.RegisteredClaims
}

type adminService struct {
	adminRepo    repository.AdminRepository
	jwtSecret    string
	accessExpiry time.Duration
}

// NewAdminService creates a new instance of AdminService.
// accessExpiryMinutes of zero falls back to the default.
func NewAdminService(adminRepo repository.AdminRepository, jwtSecret string, accessExpiryMinutes int) AdminService {
	expiry := time.Duration(accessExpiryMinutes) * time.Minute
	if expiry <= 0 {
		expiry = DefaultAccessExpiry
	}
	return &adminService{
		adminRepo:    adminRepo,
		jwtSecret:    jwtSecret,
		accessExpiry: expiry,
	}
}

// Login authenticates an admin and returns a signed access token.
func (s *adminService) Login(ctx context.Context, username, password string) (string, error) {
	admin, err := s.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		if err == repository.ErrAdminNotFound {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to find admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(admin)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}

	return token, nil
}

// ValidateToken validates an access token and returns its claims.
func (s *adminService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// CreateAccount creates a new admin account with a hashed password.
func (s *adminService) CreateAccount(ctx context.Context, username, password string) (*domain.Admin, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &domain.Admin{
		Username:     username,
		PasswordHash: string(hashed),
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if err == repository.ErrAdminAlreadyExists {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return admin, nil
}

// ListAccounts returns all admin accounts.
func (s *adminService) ListAccounts(ctx context.Context) ([]*domain.Admin, error) {
	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

// DeleteAccount removes an admin account. Deleting the caller's own
// account is forbidden; the check happens before touching the store so
// a rejected call leaves the account list unchanged.
func (s *adminService) DeleteAccount(ctx context.Context, callerID, targetID int64) error {
	if callerID == targetID {
		return ErrSelfDeletion
	}

	if err := s.adminRepo.Delete(ctx, targetID); err != nil {
		if err == repository.ErrAdminNotFound {
			return err
		}
		return fmt.Errorf("failed to delete admin: %w", err)
	}

	return nil
}

func (s *adminService) generateAccessToken(admin *domain.Admin) (string, error) {
	now := time.Now()
	claims := &Claims{
		AdminID: admin.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
