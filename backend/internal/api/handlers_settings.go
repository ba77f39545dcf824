package api

import (
	"net/http"

	apicommon "garden-hub/backend/internal/shared/api"
	sharedtypes "garden-hub/backend/internal/shared/types"
	"garden-hub/backend/internal/settings"
	"garden-hub/backend/pkg/router"
)

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) error {
	apicommon.RespondJSON(w, r, http.StatusOK, h.svc.Settings())

	return nil
}

func (h *Handler) RegisterGetSettings(path string, rb *router.RouteBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "getSettings",
		Summary:     "Get dashboard settings",
		Description: "Returns the currently active settings",
		Group:       SettingsGroup,
		RequestType: nil,
		Handler:     apicommon.ErrorHandler(h.GetSettings),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			200: {
				Description: "Active settings",
				Type:        settings.Defaults(),
			},
		}),
	})
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) error {
	req, err := apicommon.DecodeJSON[settings.Settings](r)
	if err != nil {
		return err
	}

	fieldErrs, err := h.svc.UpdateSettings(r.Context(), req)
	if fieldErrs != nil {
		return apicommon.NewValidationError(fieldErrs)
	}

	if err != nil {
		return err
	}

	apicommon.RespondJSON(w, r, http.StatusOK, h.svc.Settings())

	return nil
}

func (h *Handler) ResetSettings(w http.ResponseWriter, r *http.Request) error {
	restored, err := h.svc.ResetSettings(r.Context())
	if err != nil {
		return err
	}

	apicommon.RespondJSON(w, r, http.StatusOK, restored)

	return nil
}

func (h *Handler) RegisterResetSettings(path string, rb *router.RouteBuilder) {
	rb.MustPost(path, router.RouteSpec{
		OperationID: "resetSettings",
		Summary:     "Reset settings to defaults",
		Description: "Restores the default settings, persists them, and activates them",
		Group:       SettingsGroup,
		RequestType: nil,
		Handler:     apicommon.ErrorHandler(h.ResetSettings),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			200: {
				Description: "Default settings restored",
				Type:        settings.Defaults(),
			},
		}),
	})
}

func (h *Handler) RegisterUpdateSettings(path string, rb *router.RouteBuilder) {
	rb.MustPut(path, router.RouteSpec{
		OperationID: "updateSettings",
		Summary:     "Update dashboard settings",
		Description: "Validates and persists the full settings document. Invalid settings are rejected without changing the active ones.",
		Group:       SettingsGroup,
		RequestType: &router.RequestBodySpec{
			Type: settings.Defaults(),
		},
		Handler: apicommon.ErrorHandler(h.UpdateSettings),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			200: {
				Description: "Settings saved and activated",
				Type:        settings.Defaults(),
			},
			400: {
				Description: "Validation failed",
				Type:        sharedtypes.ErrorResponse{},
			},
		}),
	})
}
