package dwapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docutrack-io/dwapi-client/pkg/dwapi"
)

func TestEndpoints(t *testing.T) {
	t.Parallel()

	endpoints := dwapi.NewEndpoints([]dwapi.Link{
		{Rel: "organizations", Href: "/DocuWare/Platform/Organizations"},
		{Rel: "fileCabinets", Href: "/DocuWare/Platform/FileCabinets"},
	})

	url, err := endpoints.URL("organizations")
	require.NoError(t, err)
	assert.Equal(t, "/DocuWare/Platform/Organizations", url)

	// Link relations resolve case-insensitively.
	url, err = endpoints.URL("FILECABINETS")
	require.NoError(t, err)
	assert.Equal(t, "/DocuWare/Platform/FileCabinets", url)

	_, err = endpoints.URL("documents")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "documents")

	var internalErr *dwapi.InternalError

	require.ErrorAs(t, err, &internalErr)

	assert.Equal(t, "/fallback", endpoints.URLOr("documents", "/fallback"))
	assert.True(t, endpoints.Contains("organizations"))
	assert.False(t, endpoints.Contains("documents"))
	assert.Equal(t, []string{"organizations", "fileCabinets"}, endpoints.Rels())
	assert.Equal(t, 2, endpoints.Len())
}

func TestResourcePattern_Fields(t *testing.T) {
	t.Parallel()

	pattern := dwapi.NewResourcePattern(dwapi.ResourceEntry{
		Name:       "documentData",
		UriPattern: "/FileCabinets/{cabinetId}/Documents/{id}/Data",
	})

	assert.Equal(t, []string{"cabinetId", "id"}, pattern.Fields())
	// Memoized: a second call returns the same answer.
	assert.Equal(t, []string{"cabinetId", "id"}, pattern.Fields())
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestResourcePattern_Apply(t *testing.T) {
	t.Parallel()

	pattern := dwapi.NewResourcePattern(dwapi.ResourceEntry{
		Name:       "documentData",
		UriPattern: "/FileCabinets/{cabinetId}/Documents/{id}/Data",
	})

	t.Run("substitutes all placeholders", func(t *testing.T) {
		t.Parallel()

		url, err := pattern.Apply(map[string]string{"cabinetId": "abc", "id": "42"}, true)
		require.NoError(t, err)
		assert.Equal(t, "/FileCabinets/abc/Documents/42/Data", url)
	})

	t.Run("placeholder names are case-insensitive", func(t *testing.T) {
		t.Parallel()

		url, err := pattern.Apply(map[string]string{"CabinetID": "abc", "ID": "42"}, true)
		require.NoError(t, err)
		assert.Equal(t, "/FileCabinets/abc/Documents/42/Data", url)
	})

	t.Run("strict rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		_, err := pattern.Apply(map[string]string{"cabinetId": "abc", "id": "42", "bogus": "x"}, true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bogus")
	})

	t.Run("strict rejects unresolved placeholders", func(t *testing.T) {
		t.Parallel()

		_, err := pattern.Apply(map[string]string{"cabinetId": "abc"}, true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "id")
	})

	t.Run("lenient keeps unresolved placeholders", func(t *testing.T) {
		t.Parallel()

		url, err := pattern.Apply(map[string]string{"cabinetId": "abc"}, false)
		require.NoError(t, err)
		assert.Equal(t, "/FileCabinets/abc/Documents/{id}/Data", url)
	})
}

func TestResources(t *testing.T) {
	t.Parallel()

	resources := dwapi.NewResources([]dwapi.ResourceEntry{
		{Name: "documentData", UriPattern: "/FileCabinets/{cabinetId}/Documents/{id}/Data"},
	})

	pattern, err := resources.Pattern("DOCUMENTDATA")
	require.NoError(t, err)
	assert.Equal(t, "documentData", pattern.Name)

	_, err = resources.Pattern("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")

	assert.True(t, resources.Contains("documentData"))
	assert.Equal(t, []string{"documentData"}, resources.Names())
}
