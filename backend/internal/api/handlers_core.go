package api

import (
	"net/http"
	"runtime"

	apitypes "garden-hub/backend/internal/api/types"
	apicommon "garden-hub/backend/internal/shared/api"
	sharedtypes "garden-hub/backend/internal/shared/types"
	"garden-hub/backend/pkg/router"
	"garden-hub/backend/pkg/utils"
)

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) error {
	apicommon.RespondJSON(w, r, http.StatusOK, sharedtypes.PingResponse{
		Message: "Pong", Status: sharedtypes.PingStatusOK,
	})

	return nil
}

func (h *Handler) RegisterPing(path string, rb *router.RouteBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "ping",
		Summary:     "Ping the server",
		Description: "Check if the server is alive",
		Group:       CoreGroup,
		RequestType: nil,
		Handler:     apicommon.ErrorHandler(h.Ping),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			200: {
				Description: "Successful ping response",
				Type:        sharedtypes.PingResponse{},
				Examples: map[string]any{
					"Success": sharedtypes.PingResponse{Message: "Pong", Status: sharedtypes.PingStatusOK},
				},
			},
		}),
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) error {
	status := h.svc.Health(r.Context())
	resp := apitypes.HealthResponse{
		Database: status.Database,
		MQTT:     status.MQTT,
	}

	code := http.StatusOK
	if !status.Database || !status.MQTT {
		code = http.StatusServiceUnavailable
	}

	apicommon.RespondJSON(w, r, code, resp)

	return nil
}

func (h *Handler) RegisterHealth(path string, rb *router.RouteBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "health",
		Summary:     "Check server health",
		Description: "Check if the server is healthy",
		Group:       CoreGroup,
		RequestType: nil,
		Handler:     apicommon.ErrorHandler(h.Health),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			200: {
				Description: "Successful health response",
				Type:        apitypes.HealthResponse{},
				Examples: map[string]any{
					"Success": apitypes.HealthResponse{Database: true, MQTT: true},
				},
			},
			503: {
				Description: "Server unavailable",
				Type:        apitypes.HealthResponse{},
				Examples: map[string]any{
					"Database Unavailable": apitypes.HealthResponse{Database: false, MQTT: true},
					"MQTT Unavailable":     apitypes.HealthResponse{Database: true, MQTT: false},
					"Both Unavailable":     apitypes.HealthResponse{Database: false, MQTT: false},
				},
			},
		}),
	})
}

func (h *Handler) Version(w http.ResponseWriter, r *http.Request) error {
	info := utils.GetBuildInfo()

	apicommon.RespondJSON(w, r, http.StatusOK, apitypes.VersionResponse{
		Version:   utils.GetVersionShort(),
		Commit:    info["commit"],
		BuildTime: info["build_time"],
		GoVersion: runtime.Version(),
	})

	return nil
}

func (h *Handler) RegisterVersion(path string, rb *router.RouteBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "version",
		Summary:     "Get build version",
		Description: "Returns version and build metadata of the running server",
		Group:       CoreGroup,
		RequestType: nil,
		Handler:     apicommon.ErrorHandler(h.Version),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			200: {
				Description: "Build information",
				Type:        apitypes.VersionResponse{},
				Examples: map[string]any{
					"Success": apitypes.VersionResponse{Version: "0.1.0", Commit: "abcdef0", GoVersion: "go1.25"},
				},
			},
		}),
	})
}
