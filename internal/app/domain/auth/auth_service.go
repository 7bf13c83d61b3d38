package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/tripforge/tripforge/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

// Service handles account registration, login and profile reads.
type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateUser(ctx context.Context, userID uuid.UUID, params models.UpdateUserRequest) (*models.User, error)
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
	jwt    *JWTService
}

func NewServiceImpl(repo Repository, jwt *JWTService, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		jwt:    jwt,
	}
}

func (s *ServiceImpl) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Register")
	defer span.End()
	span.SetAttributes(attribute.String("user.email", req.Email))

	l := s.logger.With(zap.String("method", "Register"), zap.String("email", req.Email))

	hash, err := HashPassword(req.Password)
	if err != nil {
		l.Error("Failed to hash password", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, req.Email, req.Name, hash)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "User creation failed")
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.Name)
	if err != nil {
		l.Error("Failed to generate token", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token generation failed")
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	l.Info("User registered", zap.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "User registered")
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *ServiceImpl) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "Login")
	defer span.End()
	span.SetAttributes(attribute.String("user.email", req.Email))

	l := s.logger.With(zap.String("method", "Login"), zap.String("email", req.Email))

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		// Do not leak whether the account exists.
		l.Warn("Login attempt for unknown account")
		span.SetStatus(codes.Error, "Unknown account")
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	if err := CheckPassword(user.PasswordHash, req.Password); err != nil {
		l.Warn("Login attempt with wrong password", zap.String("userID", user.ID.String()))
		span.SetStatus(codes.Error, "Wrong password")
		return nil, fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, user.Name)
	if err != nil {
		l.Error("Failed to generate token", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Token generation failed")
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	l.Info("User logged in", zap.String("userID", user.ID.String()))
	span.SetStatus(codes.Ok, "User logged in")
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *ServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "GetUser")
	defer span.End()

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "User fetched")
	return user, nil
}

func (s *ServiceImpl) UpdateUser(ctx context.Context, userID uuid.UUID, params models.UpdateUserRequest) (*models.User, error) {
	ctx, span := otel.Tracer("AuthService").Start(ctx, "UpdateUser")
	defer span.End()

	user, err := s.repo.UpdateUser(ctx, userID, params)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "User updated")
	return user, nil
}
