package dwapi_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docutrack-io/dwapi-client/pkg/dwapi"
)

func testResolver() *dwapi.ConditionResolver {
	return dwapi.NewConditionResolver([]dwapi.SearchField{
		{ID: "FIELD1", Name: "TestField.1", Type: "Text"},
		{ID: "FIELD2", Name: "TestField.2", Type: "Numeric"},
	})
}

func TestConditionResolver_Field(t *testing.T) {
	t.Parallel()

	resolver := testResolver()

	// Database names and display labels both resolve, case-insensitively.
	field, err := resolver.Field("field1")
	require.NoError(t, err)
	assert.Equal(t, "FIELD1", field.ID)

	field, err = resolver.Field("testfield.2")
	require.NoError(t, err)
	assert.Equal(t, "FIELD2", field.ID)

	_, err = resolver.Field("FIELD9")
	require.Error(t, err)
	assert.True(t, dwapi.IsSearchConditionError(err))
	assert.Contains(t, err.Error(), "FIELD9")
}

func TestConditionResolver_Resolve(t *testing.T) {
	t.Parallel()

	resolver := testResolver()

	conditions, err := resolver.Resolve([]string{"FIELD1=123"})
	require.NoError(t, err)
	assert.Equal(t, []dwapi.Condition{{DBName: "FIELD1", Value: []string{"123"}}}, conditions)

	conditions, err = resolver.Resolve([]string{`FIELD1="123","345"`})
	require.NoError(t, err)
	assert.Equal(t, []dwapi.Condition{{DBName: "FIELD1", Value: []string{"123", "345"}}}, conditions)

	conditions, err = resolver.Resolve([]string{"FIELD1=123", "FIELD2=345"})
	require.NoError(t, err)
	assert.Equal(t, []dwapi.Condition{
		{DBName: "FIELD1", Value: []string{"123"}},
		{DBName: "FIELD2", Value: []string{"345"}},
	}, conditions)

	// A display label maps to its database name.
	conditions, err = resolver.Resolve([]string{"TestField.1=abc"})
	require.NoError(t, err)
	assert.Equal(t, "FIELD1", conditions[0].DBName)

	_, err = resolver.Resolve([]string{"FIELD9=123"})
	require.Error(t, err)
	assert.True(t, dwapi.IsSearchConditionError(err))
}

func TestConditionResolver_ResolveMap(t *testing.T) {
	t.Parallel()

	resolver := testResolver()

	conditions, err := resolver.ResolveMap(map[string][]string{
		"FIELD2": {"456"},
		"FIELD1": {"123", "234"},
	})
	require.NoError(t, err)
	// Sorted by field name, so the query is deterministic.
	assert.Equal(t, []dwapi.Condition{
		{DBName: "FIELD1", Value: []string{"123", "234"}},
		{DBName: "FIELD2", Value: []string{"456"}},
	}, conditions)

	_, err = resolver.ResolveMap(map[string][]string{"FIELD9": {"1"}})
	require.Error(t, err)
	assert.True(t, dwapi.IsSearchConditionError(err))
}

func TestConvertFieldValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "*", dwapi.ConvertFieldValue(nil))
	assert.Equal(t, "abc", dwapi.ConvertFieldValue("abc"))
	assert.Equal(t, "42", dwapi.ConvertFieldValue(42))

	moment := time.UnixMilli(1646483844000)
	assert.Equal(t, "/Date(1646483844000)/", dwapi.ConvertFieldValue(moment))
}
