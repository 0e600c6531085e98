package operator

import (
	"context"
	"errors"
	"fmt"

	"cellular-usage-report/internal/config"
	domainOperator "cellular-usage-report/internal/domain/operator"
	"cellular-usage-report/internal/logger"
	appErrors "cellular-usage-report/pkg/errors"
	"cellular-usage-report/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements operator use cases
type Service struct {
	repo domainOperator.Repository
	jwt  config.JWTConfig
}

func NewService(repo domainOperator.Repository, jwtCfg config.JWTConfig) *Service {
	return &Service{
		repo: repo,
		jwt:  jwtCfg,
	}
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	username := utils.SanitizeUsername(req.Username)

	op, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domainOperator.ErrOperatorNotFound) {
			logger.Warn("Login attempt with unknown username",
				zap.String("username", username),
				zap.String("event", "operator_not_found"),
			)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !op.IsActive {
		logger.Warn("Login attempt for inactive operator",
			zap.String("operator_id", op.ID.String()),
			zap.String("event", "login_failed_inactive_operator"),
		)
		return nil, appErrors.ErrOperatorInactive
	}

	if !utils.CheckPassword(op.PasswordHashed, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("operator_id", op.ID.String()),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	token, expiresAt, err := utils.GenerateAccessToken(op.ID, op.Username, string(op.Role), s.jwt.Secret, s.jwt.ExpiryHours)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info("Operator logged in successfully",
		zap.String("operator_id", op.ID.String()),
		zap.String("username", op.Username),
		zap.String("role", string(op.Role)),
		zap.String("event", "login_success"),
	)

	return &AuthResponse{
		Operator:    ToOperatorResponse(op),
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *Service) GetProfile(ctx context.Context, operatorID uuid.UUID) (*OperatorResponse, error) {
	op, err := s.repo.GetByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	return ToOperatorResponse(op), nil
}

func (s *Service) ListOperators(ctx context.Context) ([]*OperatorResponse, error) {
	operators, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*OperatorResponse, len(operators))
	for i, op := range operators {
		responses[i] = ToOperatorResponse(op)
	}
	return responses, nil
}

func (s *Service) CreateOperator(ctx context.Context, req *CreateOperatorRequest, createdBy string) (*OperatorResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.NewAppError("WEAK_PASSWORD", err.Error(), appErrors.ErrWeakPassword)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	op := &domainOperator.Operator{
		Username:       utils.SanitizeUsername(req.Username),
		DisplayName:    utils.SanitizeString(req.DisplayName),
		PasswordHashed: hashedPassword,
		Role:           domainOperator.Role(req.Role),
		IsActive:       true,
	}

	if err := s.repo.Create(ctx, op); err != nil {
		return nil, err
	}

	logger.Info("Operator created",
		zap.String("operator_id", op.ID.String()),
		zap.String("username", op.Username),
		zap.String("role", string(op.Role)),
		zap.String("created_by", createdBy),
		zap.String("event", "operator_created"),
	)

	return ToOperatorResponse(op), nil
}

// Seed inserts operators that are not stored yet. Existing usernames are
// left untouched.
func (s *Service) Seed(ctx context.Context, operators []*domainOperator.Operator) (int, error) {
	created := 0
	for _, op := range operators {
		err := s.repo.Create(ctx, op)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domainOperator.ErrOperatorAlreadyExists):
		default:
			return created, fmt.Errorf("failed to seed operator %s: %w", op.Username, err)
		}
	}
	return created, nil
}
