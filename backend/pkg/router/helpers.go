package router

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// validateRouteSpec validates a RouteSpec.
func validateRouteSpec(spec RouteSpec) error {
	if spec.OperationID == "" {
		return errors.New("field OperationID required")
	}

	if spec.Summary == "" {
		return errors.New("field Summary required")
	}

	if spec.Description == "" {
		return errors.New("field Description required")
	}

	if spec.Group == "" {
		return errors.New("field Group required")
	}

	if spec.Handler == nil {
		return errors.New("field Handler required")
	}

	return nil
}

// isValidParameterName reports whether name starts with a letter and contains
// only alphanumerics and underscores.
func isValidParameterName(name string) bool {
	if name == "" {
		return false
	}

	for i, c := range name {
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'

		if i == 0 && !isLetter {
			return false
		}

		if !isLetter && !isDigit && c != '_' {
			return false
		}
	}

	return true
}

// pathParams extracts the {param} names from a chi route pattern.
func pathParams(path string) ([]string, error) {
	var params []string

	for segment := range strings.SplitSeq(path, "/") {
		if !strings.HasPrefix(segment, "{") {
			if strings.Contains(segment, "{") || strings.Contains(segment, "}") {
				return nil, fmt.Errorf("invalid parameter syntax in segment %q", segment)
			}

			continue
		}

		if !strings.HasSuffix(segment, "}") {
			return nil, fmt.Errorf("invalid parameter syntax in segment %q", segment)
		}

		name := segment[1 : len(segment)-1]
		if !isValidParameterName(name) {
			return nil, fmt.Errorf("invalid parameter name %q", name)
		}

		params = append(params, name)
	}

	return params, nil
}

// validateParameters checks that the documented parameters are complete and
// consistent with the path pattern.
func validateParameters(spec RouteSpec) error {
	inPath, err := pathParams(spec.fullPath)
	if err != nil {
		return fmt.Errorf("invalid path %s: %w", spec.fullPath, err)
	}

	documentedPathParams := map[string]struct{}{}

	for name, paramSpec := range spec.Parameters {
		if name == "" {
			return fmt.Errorf("parameter name required for %s %s", spec.method, spec.fullPath)
		}

		if paramSpec.Description == "" {
			return fmt.Errorf("parameter Description required for %s %s", spec.method, spec.fullPath)
		}

		if paramSpec.Type == nil {
			return fmt.Errorf("parameter Type required for %s %s", spec.method, spec.fullPath)
		}

		validInValues := []ParameterIn{ParameterInPath, ParameterInQuery, ParameterInHeader}
		if !slices.Contains(validInValues, paramSpec.In) {
			return fmt.Errorf("parameter In must be one of %v for %s %s", validInValues, spec.method, spec.fullPath)
		}

		if paramSpec.In == ParameterInPath {
			if !slices.Contains(inPath, name) {
				return fmt.Errorf("documented path parameter %s not found in path", name)
			}

			if !paramSpec.Required {
				return fmt.Errorf("path parameter %s must be required", name)
			}

			documentedPathParams[name] = struct{}{}
		}
	}

	// Now go over all discovered path parameters and validate that they are documented
	for _, name := range inPath {
		if _, exists := documentedPathParams[name]; !exists {
			return fmt.Errorf("path parameter %s not documented", name)
		}
	}

	return nil
}
