package api

import (
	"net/http"

	"github.com/oasdiff/yaml"

	apicommon "garden-hub/backend/internal/shared/api"
	mqttpkg "garden-hub/backend/pkg/mqtt"
	"garden-hub/backend/pkg/router"
	"garden-hub/backend/pkg/utils"
)

// RegisterOpenAPIJSON serves the assembled OpenAPI document. The handler
// closes over the builder because the document is only complete once every
// route has been registered, so this must be wired last.
func (h *Handler) RegisterOpenAPIJSON(path string, rb *router.RouteBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "getOpenAPIJSON",
		Summary:     "Get the OpenAPI document",
		Description: "Returns the OpenAPI 3 document for this API as JSON",
		Group:       CoreGroup,
		RequestType: nil,
		Handler: apicommon.ErrorHandler(func(w http.ResponseWriter, r *http.Request) error {
			doc, err := rb.OpenAPIDoc()
			if err != nil {
				return err
			}

			apicommon.RespondJSON(w, r, http.StatusOK, doc)

			return nil
		}),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			200: {
				Description: "OpenAPI 3 document",
			},
		}),
	})
}

// RegisterOpenAPIYAML is the YAML rendition of the same document.
func (h *Handler) RegisterOpenAPIYAML(path string, rb *router.RouteBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "getOpenAPIYAML",
		Summary:     "Get the OpenAPI document as YAML",
		Description: "Returns the OpenAPI 3 document for this API as YAML",
		Group:       CoreGroup,
		RequestType: nil,
		Handler: apicommon.ErrorHandler(func(w http.ResponseWriter, r *http.Request) error {
			doc, err := rb.OpenAPIDoc()
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(doc)
			if err != nil {
				return err
			}

			w.Header().Set("Content-Type", "application/yaml")
			w.WriteHeader(http.StatusOK)

			if _, err := w.Write(data); err != nil {
				h.l.Warn("failed to write YAML response", utils.ErrAttr(err))
			}

			return nil
		}),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			200: {
				Description: "OpenAPI 3 document as YAML",
			},
		}),
	})
}

// RegisterMQTTOperations exposes the registered MQTT operation inventory so
// clients can discover topics the same way they discover HTTP routes.
func (h *Handler) RegisterMQTTOperations(path string, rb *router.RouteBuilder, mb *mqttpkg.MQTTBuilder) {
	rb.MustGet(path, router.RouteSpec{
		OperationID: "listMQTTOperations",
		Summary:     "List MQTT operations",
		Description: "Returns every registered MQTT publication and subscription with its topic pattern",
		Group:       CoreGroup,
		RequestType: nil,
		Handler: apicommon.ErrorHandler(func(w http.ResponseWriter, r *http.Request) error {
			apicommon.RespondJSON(w, r, http.StatusOK, mb.Operations())

			return nil
		}),
		Responses: apicommon.GenerateResponses(map[int]router.ResponseSpec{
			200: {
				Description: "Registered MQTT operations",
				Type:        []mqttpkg.OperationInfo{},
			},
		}),
	})
}
