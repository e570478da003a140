package aggregate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeID_roundTrip(t *testing.T) {
	composite := EncodeID(HandlerID(3), "list_indices")
	assert.Equal(t, "list_indices_3", composite)

	h, local, err := DecodeID(composite)
	require.NoError(t, err)
	assert.Equal(t, HandlerID(3), h)
	assert.Equal(t, "list_indices", local)
}

func TestDecodeID_rejectsMissingSeparator(t *testing.T) {
	_, _, err := DecodeID("nounderscore")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResourceNotFound))
}

func TestDecodeID_rejectsNonNumericSuffix(t *testing.T) {
	_, _, err := DecodeID("tool_name_abc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResourceNotFound))
}

func TestDecodeID_collisionCaveat(t *testing.T) {
	// A local name that itself looks like "<name>_<digits>" still decodes
	// back to the pair it was encoded for: only the rightmost suffix is taken
	// as the handler ID, and the inner "_3" stays part of the local name.
	encoded := EncodeID(HandlerID(7), "search_3")
	h, local, err := DecodeID(encoded)
	require.NoError(t, err)
	assert.Equal(t, HandlerID(7), h)
	assert.Equal(t, "search_3", local)

	// The caveat: on the wire, handler 7's local name "search_3" is the same
	// string as handler 7 re-encoding handler 3's composite id for "search",
	// so nothing but position tells a namespaced id from a local name ending
	// in "_<digits>".
	other := EncodeID(HandlerID(7), EncodeID(HandlerID(3), "search"))
	assert.Equal(t, encoded, other)
}

func TestDecodeID_emptyString(t *testing.T) {
	_, _, err := DecodeID("")
	require.Error(t, err)
}
