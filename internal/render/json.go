// Package render turns finished generation results into downloadable
// artifact formats. Renderers read the result's cases and nothing else.
package render

import (
	"encoding/json"

	"github.com/masseyis/tdg/pkg/models"
)

// JSON renders the result's cases as an indented JSON array.
func JSON(result *models.GenerationResult) ([]byte, error) {
	return json.MarshalIndent(result.Cases, "", "  ")
}
