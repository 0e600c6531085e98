package operator

import (
	"time"

	domainOperator "cellular-usage-report/internal/domain/operator"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

type CreateOperatorRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=100,alphanum"`
	DisplayName string `json:"display_name" validate:"required,min=2,max=255"`
	Password    string `json:"password" validate:"required,min=10"`
	Role        string `json:"role" validate:"required,operator_role"`
}

type OperatorResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role"`
	Capabilities []string  `json:"capabilities"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type AuthResponse struct {
	Operator    *OperatorResponse `json:"operator"`
	AccessToken string            `json:"access_token"`
	ExpiresAt   int64             `json:"expires_at"`
}

func ToOperatorResponse(op *domainOperator.Operator) *OperatorResponse {
	if op == nil {
		return nil
	}

	capabilities := make([]string, 0, 3)
	for _, c := range op.Role.Capabilities() {
		capabilities = append(capabilities, string(c))
	}

	return &OperatorResponse{
		ID:           op.ID,
		Username:     op.Username,
		DisplayName:  op.DisplayName,
		Role:         string(op.Role),
		Capabilities: capabilities,
		IsActive:     op.IsActive,
		CreatedAt:    op.CreatedAt,
	}
}
