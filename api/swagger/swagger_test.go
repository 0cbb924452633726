package swagger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestRegisteredDocumentListsRoutes(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	for path, method := range map[string]string{
		"/requests":                           "post",
		"/requests/user/{userId}":             "get",
		"/requests/{requestId}":               "get",
		"/requests/update/{requestId}":        "patch",
		"/requests/update/status/{requestId}": "patch",
		"/settlement":                         "get",
		"/settlement/user/{userId}":           "get",
		"/settlement/{requestId}":             "patch",
	} {
		require.Contains(t, doc.Paths, path)
		assert.Contains(t, doc.Paths[path], method, path)
	}
}
