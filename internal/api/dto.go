package api

import "github.com/starford/sonar/internal/host"

// InvokeResponse is what one invocation asked the host to do.
type InvokeResponse = host.Response

// RoutesResponse lists the invocation paths.
type RoutesResponse struct {
	Routes []string `json:"routes" validate:"required"`
}
