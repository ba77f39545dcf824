package router

import (
	"fmt"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// OpenAPIDoc assembles an OpenAPI 3 document from the registered routes.
// Schemas are generated by reflection over the example values in the specs.
func (rb *RouteBuilder) OpenAPIDoc() (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   rb.title,
			Version: rb.version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}

	gen := openapi3gen.NewGenerator(openapi3gen.UseAllExportedFields())

	for _, route := range rb.routes {
		op, err := rb.buildOperation(gen, doc.Components.Schemas, route)
		if err != nil {
			return nil, fmt.Errorf("failed to build operation %s: %w", route.OperationID, err)
		}

		pathItem := doc.Paths.Value(route.fullPath)
		if pathItem == nil {
			pathItem = &openapi3.PathItem{}
			doc.Paths.Set(route.fullPath, pathItem)
		}

		pathItem.SetOperation(route.method, op)
	}

	return doc, nil
}

func (rb *RouteBuilder) buildOperation(gen *openapi3gen.Generator, schemas openapi3.Schemas, route *RouteSpec) (*openapi3.Operation, error) {
	op := openapi3.NewOperation()
	op.OperationID = route.OperationID
	op.Summary = route.Summary
	op.Description = route.Description
	op.Tags = []string{route.Group}
	op.Deprecated = route.Deprecated != ""

	for name, paramSpec := range route.Parameters {
		schemaRef, err := gen.NewSchemaRefForValue(paramSpec.Type, schemas)
		if err != nil {
			return nil, fmt.Errorf("failed to generate schema for parameter %s: %w", name, err)
		}

		param := &openapi3.Parameter{
			Name:        name,
			In:          string(paramSpec.In),
			Description: paramSpec.Description,
			Required:    paramSpec.Required,
			Schema:      schemaRef,
		}
		op.AddParameter(param)
	}

	if route.RequestType != nil {
		schemaRef, err := gen.NewSchemaRefForValue(route.RequestType.Type, schemas)
		if err != nil {
			return nil, fmt.Errorf("failed to generate request body schema: %w", err)
		}

		body := openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.Content{
				"application/json": &openapi3.MediaType{
					Schema:   schemaRef,
					Examples: buildExamples(route.RequestType.Examples),
				},
			})
		op.RequestBody = &openapi3.RequestBodyRef{Value: body}
	}

	op.Responses = openapi3.NewResponses()

	for status, respSpec := range route.Responses {
		resp := openapi3.NewResponse().WithDescription(respSpec.Description)

		if respSpec.Type != nil {
			schemaRef, err := gen.NewSchemaRefForValue(respSpec.Type, schemas)
			if err != nil {
				return nil, fmt.Errorf("failed to generate schema for response %d: %w", status, err)
			}

			resp.Content = openapi3.Content{
				"application/json": &openapi3.MediaType{
					Schema:   schemaRef,
					Examples: buildExamples(respSpec.Examples),
				},
			}
		}

		op.Responses.Set(strconv.Itoa(status), &openapi3.ResponseRef{Value: resp})
	}

	return op, nil
}

func buildExamples(examples map[string]any) openapi3.Examples {
	if len(examples) == 0 {
		return nil
	}

	result := make(openapi3.Examples, len(examples))
	for name, value := range examples {
		result[name] = &openapi3.ExampleRef{Value: openapi3.NewExample(value)}
	}

	return result
}
