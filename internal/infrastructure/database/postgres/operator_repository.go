package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainOperator "cellular-usage-report/internal/domain/operator"
	"cellular-usage-report/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OperatorRepository implements domainOperator.Repository on Postgres
type OperatorRepository struct {
	db *DB
}

func NewOperatorRepository(db *DB) domainOperator.Repository {
	return &OperatorRepository{db: db}
}

func (r *OperatorRepository) Create(ctx context.Context, op *domainOperator.Operator) error {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	op.CreatedAt = time.Now()
	op.UpdatedAt = op.CreatedAt

	dbModel := toOperatorModel(op)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key value") {
			return domainOperator.ErrOperatorAlreadyExists
		}
		return fmt.Errorf("failed to create operator: %w", err)
	}

	op.ID = dbModel.ID
	return nil
}

func (r *OperatorRepository) GetByUsername(ctx context.Context, username string) (*domainOperator.Operator, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *OperatorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domainOperator.Operator, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *OperatorRepository) List(ctx context.Context) ([]*domainOperator.Operator, error) {
	var dbModels []models.OperatorModel
	if err := r.db.DB.WithContext(ctx).Order("username ASC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list operators: %w", err)
	}

	operators := make([]*domainOperator.Operator, len(dbModels))
	for i := range dbModels {
		operators[i] = toOperatorEntity(&dbModels[i])
	}
	return operators, nil
}

func (r *OperatorRepository) first(ctx context.Context, query string, arg interface{}) (*domainOperator.Operator, error) {
	var dbModel models.OperatorModel
	err := r.db.DB.WithContext(ctx).Where(query, arg).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainOperator.ErrOperatorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get operator: %w", err)
	}

	return toOperatorEntity(&dbModel), nil
}

func toOperatorModel(op *domainOperator.Operator) *models.OperatorModel {
	return &models.OperatorModel{
		ID:             op.ID,
		Username:       op.Username,
		DisplayName:    op.DisplayName,
		PasswordHashed: op.PasswordHashed,
		Role:           string(op.Role),
		IsActive:       op.IsActive,
		CreatedAt:      op.CreatedAt,
		UpdatedAt:      op.UpdatedAt,
	}
}

func toOperatorEntity(m *models.OperatorModel) *domainOperator.Operator {
	return &domainOperator.Operator{
		ID:             m.ID,
		Username:       m.Username,
		DisplayName:    m.DisplayName,
		PasswordHashed: m.PasswordHashed,
		Role:           domainOperator.Role(m.Role),
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
