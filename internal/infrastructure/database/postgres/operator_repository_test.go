package postgres

import (
	"testing"
	"time"

	domainOperator "cellular-usage-report/internal/domain/operator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOperatorModelRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	op := &domainOperator.Operator{
		ID:             uuid.New(),
		Username:       "alice",
		DisplayName:    "Alice Ng",
		PasswordHashed: "$2a$10$hash",
		Role:           domainOperator.RoleManager,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	model := toOperatorModel(op)
	assert.Equal(t, "manager", model.Role)
	assert.Equal(t, "operators", model.TableName())
	assert.Equal(t, op, toOperatorEntity(model))
}
