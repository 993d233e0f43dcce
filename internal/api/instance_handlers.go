package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerInstanceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getInstance",
		Method:      http.MethodGet,
		Path:        "/api/v1/instance",
		Summary:     "Instance info",
		Description: "Returns public server instance information. Reachable anonymously.",
		Tags:        []string{"Instance"},
	}, s.handleGetInstance)
}

// InstanceResponse contains public server information.
type InstanceResponse struct {
	Name        string    `json:"name" doc:"Server name"`
	Version     string    `json:"version" doc:"Server version"`
	Environment string    `json:"environment" doc:"Deployment environment"`
	StartedAt   time.Time `json:"started_at" doc:"Process start time"`
}

// InstanceOutput wraps the instance response for Huma.
type InstanceOutput struct {
	Body InstanceResponse
}

func (s *Server) handleGetInstance(_ context.Context, _ *struct{}) (*InstanceOutput, error) {
	return &InstanceOutput{
		Body: InstanceResponse{
			Name:        s.name,
			Version:     s.version,
			Environment: s.environment,
			StartedAt:   s.startedAt,
		},
	}, nil
}
