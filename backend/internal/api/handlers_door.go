package api

import (
	"errors"
	"net/http"
	"time"

	apitypes "garden-hub/backend/internal/api/types"
	"garden-hub/backend/internal/doorlock"
	apicommon "garden-hub/backend/internal/shared/api"
	sharedtypes "garden-hub/backend/internal/shared/types"
	"garden-hub/backend/pkg/router"
	"garden-hub/backend/pkg/utils"
)

const defaultSessionLimit = 20

func (h *Handler) Unlock(w http.ResponseWriter, r *http.Request) error {
	req, err := apicommon.DecodeJSON[apitypes.UnlockRequest](r)
	if err != nil {
		return err
	}

	if req.DelaySeconds < 0 {
		return apicommon.NewValidationError(map[string]string{"delaySeconds": "must not be negative"})
	}

	delay := h.svc.Settings().AutoLockDelay()
	if req.DelaySeconds > 0 {
		delay = time.Duration(req.DelaySeconds) * time.Second
	}

	session, err := h.svc.Door.Unlock(r.Context(), req.Secret, delay)

	switch {
	case errors.Is(err, doorlock.ErrInvalidCredential):
		return apicommon.NewError(http.StatusUnauthorized, "Invalid credential")
	case errors.Is(err, doorlock.ErrInvalidDelay):
		return apicommon.NewValidationError(map[string]string{"delaySeconds": "must be at least 1"})
	case err != nil:
		return err
	}

	apicommon.RespondJSON(w, r, http.StatusOK, apitypes.DoorStatusResponse{
		State:   string(doorlock.StateUnlocked),
		Session: &session,
	})

	return nil
}

func (h *Handler) RegisterUnlock(path string, rb *router.RouteBuilder) {
	rb.MustPost(path, router.RouteSpec{
		OperationID: "unlockDoor",
		Summary:     "Unlock the door",
		Description: "Checks the secret, unlocks the door, opens a lock session, and arms the auto-lock countdown. Unlocking while already unlocked resets the countdown.",
		Group:       DoorGroup,
		RequestType: &router.RequestBodySpec{
			Type: apitypes.UnlockRequest{Secret: "1234"},
			Examples: map[string]any{
				"Default delay": apitypes.UnlockRequest{Secret: "1234"},
				"Longer delay":  apitypes.UnlockRequest{Secret: "1234", DelaySeconds: 30},
			},
		},
		Handler: apicommon.ErrorHandler(h.Unlock),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			200: {
				Description: "Door unlocked",
				Type:        apitypes.DoorStatusResponse{},
			},
			400: {
				Description: "Invalid request",
				Type:        sharedtypes.ErrorResponse{},
			},
			401: {
				Description: "Invalid credential",
				Type:        sharedtypes.ErrorResponse{},
				Examples: map[string]any{
					"Wrong secret": sharedtypes.ErrorResponse{Message: "Invalid credential"},
				},
			},
		}),
	})
}

func (h *Handler) Lock(w http.ResponseWriter, r *http.Request) error {
	if err := h.svc.Door.Lock(r.Context()); err != nil {
		return err
	}

	apicommon.RespondJSON(w, r, http.StatusOK, apitypes.DoorStatusResponse{
		State: string(doorlock.StateLocked),
	})

	return nil
}

func (h *Handler) RegisterLock(path string, rb *router.RouteBuilder) {
	rb.MustPost(path, router.RouteSpec{
		OperationID: "lockDoor",
		Summary:     "Lock the door",
		Description: "Cancels any pending auto-lock countdown and closes the open lock session. Locking an already-locked door is a no-op.",
		Group:       DoorGroup,
		RequestType: nil,
		Handler:     apicommon.ErrorHandler(h.Lock),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			200: {
				Description: "Door locked",
				Type:        apitypes.DoorStatusResponse{},
			},
		}),
	})
}

func (h *Handler) DoorStatus(w http.ResponseWriter, r *http.Request) error {
	resp := apitypes.DoorStatusResponse{State: string(h.svc.Door.State())}

	if session, open := h.svc.Door.CurrentSession(); open {
		resp.Session = &session
	}

	apicommon.RespondJSON(w, r, http.StatusOK, resp)

	return nil
}

func (h *Handler) RegisterDoorStatus(path string, rb *router.RouteBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "doorStatus",
		Summary:     "Get door status",
		Description: "Returns the current lock state and the open session, if any",
		Group:       DoorGroup,
		RequestType: nil,
		Handler:     apicommon.ErrorHandler(h.DoorStatus),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			200: {
				Description: "Current door status",
				Type:        apitypes.DoorStatusResponse{},
			},
		}),
	})
}

func (h *Handler) ChangeSecret(w http.ResponseWriter, r *http.Request) error {
	req, err := apicommon.DecodeJSON[apitypes.ChangeSecretRequest](r)
	if err != nil {
		return err
	}

	err = h.svc.Door.ChangeSecret(r.Context(), req.OldSecret, req.NewSecret)

	switch {
	case errors.Is(err, doorlock.ErrInvalidCredential):
		return apicommon.NewError(http.StatusUnauthorized, "Invalid credential")
	case errors.Is(err, doorlock.ErrEmptySecret):
		return apicommon.NewValidationError(map[string]string{"newSecret": "must not be empty"})
	case err != nil:
		return err
	}

	apicommon.RespondJSON(w, r, http.StatusNoContent, nil)

	return nil
}

func (h *Handler) RegisterChangeSecret(path string, rb *router.RouteBuilder) {
	rb.MustPut(path, router.RouteSpec{
		OperationID: "changeDoorSecret",
		Summary:     "Change the door secret",
		Description: "Replaces the stored secret after verifying the old one. Lock state is unaffected.",
		Group:       DoorGroup,
		RequestType: &router.RequestBodySpec{
			Type: apitypes.ChangeSecretRequest{OldSecret: "1234", NewSecret: "9999"},
		},
		Handler: apicommon.ErrorHandler(h.ChangeSecret),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			204: {
				Description: "Secret changed",
			},
			401: {
				Description: "Invalid credential",
				Type:        sharedtypes.ErrorResponse{},
			},
		}),
	})
}

func (h *Handler) DoorSessions(w http.ResponseWriter, r *http.Request) error {
	sessions, err := h.svc.Door.RecentSessions(r.Context(), defaultSessionLimit)
	if err != nil {
		h.l.Warn("failed to list lock sessions", utils.ErrAttr(err))

		return apicommon.NewError(http.StatusServiceUnavailable, "History store unavailable")
	}

	apicommon.RespondJSON(w, r, http.StatusOK, sessions)

	return nil
}

func (h *Handler) RegisterDoorSessions(path string, rb *router.RouteBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "listDoorSessions",
		Summary:     "List recent lock sessions",
		Description: "Returns the most recent door sessions, newest first",
		Group:       DoorGroup,
		RequestType: nil,
		Handler:     apicommon.ErrorHandler(h.DoorSessions),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			200: {
				Description: "Recent lock sessions",
				Type:        []doorlock.Session{},
			},
			503: {
				Description: "History store unavailable",
				Type:        sharedtypes.ErrorResponse{},
			},
		}),
	})
}
