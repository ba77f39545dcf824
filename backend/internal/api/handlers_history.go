package api

import (
	"net/http"
	"strconv"

	"garden-hub/backend/internal/history"
	apicommon "garden-hub/backend/internal/shared/api"
	sharedtypes "garden-hub/backend/internal/shared/types"
	"garden-hub/backend/pkg/router"
	"garden-hub/backend/pkg/utils"
)

const (
	defaultSnapshotLimit = 50
	maxSnapshotLimit     = 500
)

func (h *Handler) Snapshots(w http.ResponseWriter, r *http.Request) error {
	limit := defaultSnapshotLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxSnapshotLimit {
			return apicommon.NewValidationError(map[string]string{
				"limit": "must be an integer between 1 and " + strconv.Itoa(maxSnapshotLimit),
			})
		}

		limit = parsed
	}

	snapshots, err := h.svc.RecentSnapshots(r.Context(), limit)
	if err != nil {
		h.l.Warn("failed to list snapshots", utils.ErrAttr(err))

		return apicommon.NewError(http.StatusServiceUnavailable, "History store unavailable")
	}

	apicommon.RespondJSON(w, r, http.StatusOK, snapshots)

	return nil
}

func (h *Handler) RegisterSnapshots(path string, rb *router.RouteBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "listSensorSnapshots",
		Summary:     "List recent sensor snapshots",
		Description: "Returns periodically recorded sensor snapshots, newest first",
		Group:       HistoryGroup,
		Parameters: map[string]router.ParameterSpec{
			"limit": {
				In:          router.ParameterInQuery,
				Description: "Maximum number of snapshots to return (default 50, max 500)",
				Required:    false,
				Type:        new(int),
			},
		},
		RequestType: nil,
		Handler:     apicommon.ErrorHandler(h.Snapshots),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			200: {
				Description: "Recent sensor snapshots",
				Type:        []history.Snapshot{},
			},
			400: {
				Description: "Invalid limit",
				Type:        sharedtypes.ErrorResponse{},
			},
			503: {
				Description: "History store unavailable",
				Type:        sharedtypes.ErrorResponse{},
			},
		}),
	})
}
