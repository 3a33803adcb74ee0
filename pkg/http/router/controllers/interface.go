package controllers

import (
	"context"

	da "github.com/raviteja-g/optiroute/pkg/datastructure"
	"github.com/raviteja-g/optiroute/pkg/http/usecases"
)

type RoutingService interface {
	ComputeRoutes(ctx context.Context, req usecases.RouteRequest) ([]*da.RouteSummary, error)
}
