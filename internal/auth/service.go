package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/geodateam/team-presence/internal/user"
)

// ServiceAPI is what the HTTP layer needs from the auth service.
type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) (*user.User, Tokens, error)
	Authenticate(ctx context.Context, dto LoginDTO) (*user.User, Tokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUser(ctx context.Context, userID string) (*user.User, error)
}

type Service struct {
	users      user.Repository
	tokens     TokenGenerator
	bcryptCost int
	log        *slog.Logger
}

func NewService(users user.Repository, tokens TokenGenerator, bcryptCost int, log *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		log:        log,
	}
}

// Register creates an account with the employee role and logs it in. The
// email uniqueness check lives in the repository, so two concurrent
// registrations of the same address cannot both succeed.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*user.User, Tokens, error) {
	if err := dto.Validate(); err != nil {
		return nil, Tokens{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, Tokens{}, err
	}

	u := &user.User{
		ID:           uuid.NewString(),
		Email:        dto.Email,
		PasswordHash: string(hash),
		Name:         dto.Name,
		Role:         user.RoleEmployee,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, Tokens{}, err
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, Tokens{}, err
	}

	s.log.Info("user registered", "user_id", u.ID, "email", u.Email)
	return u, tokens, nil
}

// Authenticate validates credentials and returns the user plus a token
// pair. Unknown email and wrong password collapse into the same error so
// the response does not leak which half failed.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*user.User, Tokens, error) {
	if err := dto.Validate(); err != nil {
		return nil, Tokens{}, err
	}

	u, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, Tokens{}, ErrInvalidCredentials
		}
		return nil, Tokens{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, Tokens{}, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, Tokens{}, err
	}
	return u, tokens, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateToken(tokenString)
}

func (s *Service) GetUser(ctx context.Context, userID string) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) issueTokens(u *user.User) (Tokens, error) {
	access, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: access, RefreshToken: refresh}, nil
}
