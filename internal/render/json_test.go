package render_test

import (
	"encoding/json"
	"testing"

	"github.com/masseyis/tdg/internal/render"
	"github.com/masseyis/tdg/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_DumpsCases(t *testing.T) {
	result := sampleResult()

	raw, err := render.JSON(result)
	require.NoError(t, err)

	var cases []models.TestCase
	require.NoError(t, json.Unmarshal(raw, &cases))
	require.Len(t, cases, len(result.Cases))

	for i, c := range cases {
		assert.Equal(t, result.Cases[i].Name, c.Name)
		assert.Equal(t, result.Cases[i].Method, c.Method)
		assert.Equal(t, result.Cases[i].Path, c.Path)
		assert.Equal(t, result.Cases[i].ExpectedStatus, c.ExpectedStatus)
	}

	// The artifact is indented for humans.
	assert.True(t, len(raw) > 2 && raw[0] == '[' && raw[1] == '\n')
}
