package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"garden-hub/backend/internal/narrative"
	apicommon "garden-hub/backend/internal/shared/api"
	sharedtypes "garden-hub/backend/internal/shared/types"
	"garden-hub/backend/pkg/router"
)

func (h *Handler) Narrative(w http.ResponseWriter, r *http.Request) error {
	kind := narrative.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		return apicommon.NewError(http.StatusNotFound, "Unknown narrative kind")
	}

	apicommon.RespondJSON(w, r, http.StatusOK, h.svc.Narrative(r.Context(), kind))

	return nil
}

func (h *Handler) RegisterNarrative(path string, rb *router.RouteBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "getNarrative",
		Summary:     "Get a garden narrative",
		Description: "Returns a short written analysis of the current readings. Served from the analysis endpoint when reachable, from cache when not, and from built-in heuristics as a last resort.",
		Group:       NarrativeGroup,
		Parameters: map[string]router.ParameterSpec{
			"kind": {
				In:          router.ParameterInPath,
				Description: "Narrative kind: fire-risk, irrigation, or rainfall",
				Required:    true,
				Type:        new(string),
			},
		},
		RequestType: nil,
		Handler:     apicommon.ErrorHandler(h.Narrative),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			200: {
				Description: "Narrative text with its source",
				Type:        narrative.Narrative{},
			},
			404: {
				Description: "Unknown narrative kind",
				Type:        sharedtypes.ErrorResponse{},
			},
		}),
	})
}
