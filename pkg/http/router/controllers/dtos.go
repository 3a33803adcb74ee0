package controllers

import (
	da "github.com/raviteja-g/optiroute/pkg/datastructure"
)

// computeRoutesRequest: either both coordinate pairs or both addresses must be
// present; the handler enforces the either/or before validation.
type computeRoutesRequest struct {
	OriginLat      float64 `json:"origin_lat" validate:"omitempty,min=-90,max=90"`
	OriginLon      float64 `json:"origin_lon" validate:"omitempty,min=-180,max=180"`
	DestinationLat float64 `json:"destination_lat" validate:"omitempty,min=-90,max=90"`
	DestinationLon float64 `json:"destination_lon" validate:"omitempty,min=-180,max=180"`

	OriginAddress      string `json:"origin_address" validate:"omitempty,max=256"`
	DestinationAddress string `json:"destination_address" validate:"omitempty,max=256"`
	Area               string `json:"area" validate:"omitempty,max=128"`

	TrafficMode string `json:"traffic_mode" validate:"omitempty,oneof=simulated live"`
}

type computeRoutesResponse struct {
	// fixed order: Balanced, Time-Optimized, Traffic-Avoiding,
	// Distance-Optimized; null where a strategy found no path
	Routes []*da.RouteSummary `json:"routes"`
}

func NewComputeRoutesResponse(routes []*da.RouteSummary) computeRoutesResponse {
	return computeRoutesResponse{Routes: routes}
}
