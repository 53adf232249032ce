package dwapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docutrack-io/dwapi-client/pkg/dwapi"
)

func TestCharReader(t *testing.T) {
	t.Parallel()

	reader := dwapi.NewCharReader("ABC")

	ch, ok := reader.Get()
	require.True(t, ok)
	assert.Equal(t, 'A', ch)

	ch, ok = reader.Get()
	require.True(t, ok)
	assert.Equal(t, 'B', ch)

	reader.Unget('X')

	ch, ok = reader.Get()
	require.True(t, ok)
	assert.Equal(t, 'X', ch)

	ch, ok = reader.Get()
	require.True(t, ok)
	assert.Equal(t, 'C', ch)

	_, ok = reader.Get()
	assert.False(t, ok)
}

func TestCharReader_PushbackOrder(t *testing.T) {
	t.Parallel()

	reader := dwapi.NewCharReader("")
	reader.Unget('Ä')
	reader.Unget('Ö')

	// Pushed-back runes come out most-recently-pushed first.
	ch, ok := reader.Get()
	require.True(t, ok)
	assert.Equal(t, 'Ö', ch)

	ch, ok = reader.Get()
	require.True(t, ok)
	assert.Equal(t, 'Ä', ch)

	_, ok = reader.Get()
	assert.False(t, ok)
}

func TestCharReader_Peek(t *testing.T) {
	t.Parallel()

	reader := dwapi.NewCharReader("Z")

	ch, ok := reader.Peek()
	require.True(t, ok)
	assert.Equal(t, 'Z', ch)

	// Peek does not consume.
	ch, ok = reader.Get()
	require.True(t, ok)
	assert.Equal(t, 'Z', ch)

	_, ok = reader.Peek()
	assert.False(t, ok)
}
