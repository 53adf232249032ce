package dwapi_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docutrack-io/dwapi-client/pkg/dwapi"
)

func parseField(t *testing.T, elementName string, item string) (*dwapi.FieldValue, error) {
	t.Helper()

	data := dwapi.FieldData{
		FieldLabel:      "Label",
		FieldName:       "DBNAME",
		ItemElementName: elementName,
	}
	if item != "" {
		data.Item = json.RawMessage(item)
	}

	return dwapi.NewFieldRegistry().Parse(data)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestFieldRegistry_Parse(t *testing.T) {
	t.Parallel()

	t.Run("string", func(t *testing.T) {
		t.Parallel()

		field, err := parseField(t, "String", `"Invoice 17"`)
		require.NoError(t, err)
		assert.Equal(t, "Invoice 17", field.Value)
		assert.Equal(t, "Label", field.Name)
		assert.Equal(t, "DBNAME", field.ID)
		assert.Equal(t, "String", field.ContentType)
	})

	t.Run("int", func(t *testing.T) {
		t.Parallel()

		field, err := parseField(t, "Int", `42`)
		require.NoError(t, err)
		assert.Equal(t, int64(42), field.Value)
	})

	t.Run("decimal", func(t *testing.T) {
		t.Parallel()

		field, err := parseField(t, "Decimal", `13.37`)
		require.NoError(t, err)
		assert.InDelta(t, 13.37, field.Value, 0.0001)
	})

	t.Run("content type matches case-insensitively", func(t *testing.T) {
		t.Parallel()

		field, err := parseField(t, "INT", `7`)
		require.NoError(t, err)
		assert.Equal(t, int64(7), field.Value)
	})

	t.Run("date", func(t *testing.T) {
		t.Parallel()

		field, err := parseField(t, "Date", `"/Date(1646483844000)/"`)
		require.NoError(t, err)

		moment, ok := field.Value.(time.Time)
		require.True(t, ok)
		assert.True(t, moment.Equal(time.UnixMilli(1646483844000)))
	})

	t.Run("corrupted date becomes nil", func(t *testing.T) {
		t.Parallel()

		field, err := parseField(t, "DateTime", `"/Date(0)/"`)
		require.NoError(t, err)
		assert.Nil(t, field.Value)
	})

	t.Run("keywords", func(t *testing.T) {
		t.Parallel()

		field, err := parseField(t, "Keywords", `{"Keyword":["alpha","beta"]}`)
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "beta"}, field.Value)
	})

	t.Run("empty item is nil", func(t *testing.T) {
		t.Parallel()

		for _, elementName := range []string{"String", "Int", "Decimal", "Date", "Keywords"} {
			field, err := parseField(t, elementName, "")
			require.NoError(t, err, elementName)
			assert.Nil(t, field.Value, elementName)
		}
	})

	t.Run("unknown content type keeps raw string", func(t *testing.T) {
		t.Parallel()

		field, err := parseField(t, "Table", `"opaque"`)
		require.NoError(t, err)
		assert.Equal(t, "opaque", field.Value)
	})

	t.Run("non-numeric int is a data error", func(t *testing.T) {
		t.Parallel()

		_, err := parseField(t, "Int", `"abc"`)
		require.Error(t, err)
		assert.True(t, dwapi.IsDataError(err))
		assert.Contains(t, err.Error(), "DBNAME")
	})

	t.Run("malformed date names the field", func(t *testing.T) {
		t.Parallel()

		_, err := parseField(t, "Date", `"2022-03-05"`)
		require.Error(t, err)
		assert.True(t, dwapi.IsDataError(err))
		assert.Contains(t, err.Error(), "DBNAME")
	})
}
