package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/segyhp/club-engine/internal/domain"
	"github.com/segyhp/club-engine/internal/logger"
	"github.com/segyhp/club-engine/internal/repository"
	customError "github.com/segyhp/club-engine/pkg/errors"
)

// Claims is the identity carried by an access token.
type Claims struct {
	MemberID       string `json:"id"`
	Username       string `json:"username"`
	IsAdmin        bool   `json:"is_admin"`
	IsStaff        bool   `json:"is_staff"`
	HasStaffAccess bool   `json:"has_staff_access"`
	jwt.RegisteredClaims
}

// MemberUUID parses the member id claim.
func (c *Claims) MemberUUID() (uuid.UUID, error) {
	return uuid.Parse(c.MemberID)
}

type AuthService struct {
	MemberRepo repository.MemberRepository
	members    *MemberService
	secret     []byte
	expiration time.Duration
	clock      func() time.Time
}

func NewAuthService(memberRepo repository.MemberRepository, members *MemberService, secret string, expiration time.Duration) *AuthService {
	return &AuthService{
		MemberRepo: memberRepo,
		members:    members,
		secret:     []byte(secret),
		expiration: expiration,
		clock:      time.Now,
	}
}

func (s *AuthService) Expiration() time.Duration {
	return s.expiration
}

// Login checks credentials and issues a signed token for an active member.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (string, *domain.Member, error) {
	member, err := s.MemberRepo.GetByUsername(ctx, req.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, customError.WrapUnauthorized("invalid username or password")
	}
	if err != nil {
		return "", nil, customError.WrapDatabaseError(err)
	}

	if len(member.PasswordHash) == 0 || member.CheckPassword(req.Password) != nil {
		return "", nil, customError.WrapUnauthorized("invalid username or password")
	}
	if !member.IsActive() {
		return "", nil, customError.WrapUnauthorized(fmt.Sprintf("account is %s", member.Status))
	}

	token, err := s.IssueToken(member)
	if err != nil {
		return "", nil, err
	}

	logger.Info("auth", "Member %s logged in", member.ID)
	return token, member, nil
}

// Register creates an active member holding only the member role.
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.Member, error) {
	if req.Password != req.Confirmation {
		return nil, customError.WrapValidation("passwords do not match",
			customError.FieldError{Field: "confirmation", Error: "must match password"})
	}

	return s.members.Create(ctx, &domain.CreateMemberRequest{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		DNI:       req.DNI,
		Phone:     req.Phone,
		Status:    domain.MemberStatusActive,
		Roles:     []domain.Role{domain.RoleMember},
		Password:  req.Password,
	})
}

func (s *AuthService) IssueToken(member *domain.Member) (string, error) {
	now := s.clock()
	claims := &Claims{
		MemberID:       member.ID.String(),
		Username:       member.Username,
		IsAdmin:        member.IsAdmin(),
		IsStaff:        member.IsStaff(),
		HasStaffAccess: member.HasStaffAccess(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   member.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies an HS256 token and returns its claims.
func (s *AuthService) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, customError.WrapUnauthorized("invalid token")
	}
	return claims, nil
}

// Me resolves the member behind claims.
func (s *AuthService) Me(ctx context.Context, claims *Claims) (*domain.Member, error) {
	id, err := claims.MemberUUID()
	if err != nil {
		return nil, customError.WrapUnauthorized("invalid token subject")
	}
	return s.members.Get(ctx, id)
}
