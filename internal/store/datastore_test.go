package store

import (
	"testing"

	"cloud.google.com/go/datastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlipEntityRoundTrip(t *testing.T) {
	boatID := int64(5629499534213120)
	in := slipEntity{Number: 4, CurrentBoat: &boatID}

	props, err := in.Save()
	require.NoError(t, err)

	var out slipEntity
	require.NoError(t, out.Load(props))
	assert.Equal(t, int64(4), out.Number)
	require.NotNil(t, out.CurrentBoat)
	assert.Equal(t, boatID, *out.CurrentBoat)

	empty, err := (&slipEntity{Number: 2}).Save()
	require.NoError(t, err)
	assert.Nil(t, empty[1].Value)
}

func TestSlipEntityLegacyValues(t *testing.T) {
	var e slipEntity
	err := e.Load([]datastore.Property{
		{Name: "number", Value: float64(12)},
		{Name: "current_boat", Value: "5644004762845184"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), e.Number)
	require.NotNil(t, e.CurrentBoat)
	assert.Equal(t, int64(5644004762845184), *e.CurrentBoat)

	err = e.Load([]datastore.Property{{Name: "current_boat", Value: nil}})
	require.NoError(t, err)
	assert.Nil(t, e.CurrentBoat)

	err = e.Load([]datastore.Property{{Name: "current_boat", Value: "dinghy"}})
	assert.Error(t, err)
}

func TestBoatEntityIntegerLength(t *testing.T) {
	var e boatEntity
	err := e.Load([]datastore.Property{
		{Name: "name", Value: "Orca"},
		{Name: "type", Value: "Sailboat"},
		{Name: "length", Value: int64(30)},
	})
	require.NoError(t, err)

	b := e.boat(datastore.IDKey(boatKind, 7, nil))
	assert.Equal(t, int64(7), b.ID)
	assert.Equal(t, "Orca", b.Name)
	assert.Equal(t, "Sailboat", b.Type)
	assert.Equal(t, 30.0, b.Length)
}
