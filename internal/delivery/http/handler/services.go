package handler

import (
	"context"

	"cellular-usage-report/internal/usecase/operator"
	"cellular-usage-report/internal/usecase/report"

	"github.com/google/uuid"
)

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

// ReportService runs usage reports on behalf of HTTP callers.
type ReportService interface {
	Run(ctx context.Context, req *report.RunRequest) (*report.Report, error)
	Metrics() report.RunMetrics
	LocationsAvailable() bool
}

type OperatorService interface {
	Login(ctx context.Context, req *operator.LoginRequest) (*operator.AuthResponse, error)
	GetProfile(ctx context.Context, operatorID uuid.UUID) (*operator.OperatorResponse, error)
	ListOperators(ctx context.Context) ([]*operator.OperatorResponse, error)
	CreateOperator(ctx context.Context, req *operator.CreateOperatorRequest, createdBy string) (*operator.OperatorResponse, error)
}
