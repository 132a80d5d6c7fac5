package swagger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	httpSwagger "github.com/swaggo/http-swagger"
)

func Handler() http.Handler {
	// Serve the OpenAPI spec published at the root path
	return httpSwagger.Handler(
		httpSwagger.URL("/openapi.yml"),
	)
}

// ValidateSpec loads and validates the OpenAPI document so a malformed spec
// fails at startup instead of being served broken to the Swagger UI.
func ValidateSpec(ctx context.Context, path string) error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("load openapi spec %s: %w", path, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("invalid openapi spec %s: %w", path, err)
	}
	return nil
}
