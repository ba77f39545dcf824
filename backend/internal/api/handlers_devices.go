package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	apitypes "garden-hub/backend/internal/api/types"
	"garden-hub/backend/internal/hub"
	apicommon "garden-hub/backend/internal/shared/api"
	sharedtypes "garden-hub/backend/internal/shared/types"
	"garden-hub/backend/pkg/router"
)

func (h *Handler) DeviceState(w http.ResponseWriter, r *http.Request) error {
	apicommon.RespondJSON(w, r, http.StatusOK, apitypes.DeviceStateResponse{
		Sample: h.svc.CurrentSample(),
		Flags:  h.svc.DeviceFlags(),
	})

	return nil
}

func (h *Handler) RegisterDeviceState(path string, rb *router.RouteBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "getDeviceState",
		Summary:     "Get device state",
		Description: "Returns the latest sensor sample and the on/off flag of every device",
		Group:       DevicesGroup,
		RequestType: nil,
		Handler:     apicommon.ErrorHandler(h.DeviceState),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			200: {
				Description: "Current sample and device flags",
				Type:        apitypes.DeviceStateResponse{},
			},
		}),
	})
}

func (h *Handler) ToggleDevice(w http.ResponseWriter, r *http.Request) error {
	deviceID := chi.URLParam(r, "deviceID")

	req, err := apicommon.DecodeJSON[apitypes.ToggleDeviceRequest](r)
	if err != nil {
		return err
	}

	err = h.svc.SetDeviceFlag(r.Context(), deviceID, req.On)

	switch {
	case errors.Is(err, hub.ErrUnknownDevice):
		return apicommon.NewError(http.StatusNotFound, "Unknown device")
	case errors.Is(err, hub.ErrDeviceNotToggleable):
		return apicommon.NewError(http.StatusBadRequest, "Device is not directly toggleable")
	case err != nil:
		return err
	}

	apicommon.RespondJSON(w, r, http.StatusOK, apitypes.DeviceStateResponse{
		Sample: h.svc.CurrentSample(),
		Flags:  h.svc.DeviceFlags(),
	})

	return nil
}

func (h *Handler) RegisterToggleDevice(path string, rb *router.RouteBuilder) {
	rb.MustPost(path, router.RouteSpec{
		OperationID: "toggleDevice",
		Summary:     "Toggle a device",
		Description: "Turns a device on or off and publishes the command to the device topic. The door is controlled through the door endpoints, not here.",
		Group:       DevicesGroup,
		Parameters: map[string]router.ParameterSpec{
			"deviceID": {
				In:          router.ParameterInPath,
				Description: "Device identifier: light, fan, or pump",
				Required:    true,
				Type:        new(string),
			},
		},
		RequestType: &router.RequestBodySpec{
			Type: apitypes.ToggleDeviceRequest{On: true},
		},
		Handler: apicommon.ErrorHandler(h.ToggleDevice),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			200: {
				Description: "Updated sample and device flags",
				Type:        apitypes.DeviceStateResponse{},
			},
			400: {
				Description: "Device is not directly toggleable",
				Type:        sharedtypes.ErrorResponse{},
			},
			404: {
				Description: "Unknown device",
				Type:        sharedtypes.ErrorResponse{},
			},
		}),
	})
}
