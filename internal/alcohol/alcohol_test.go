package alcohol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/promille/internal/alcohol"
)

func TestEveryTypeHasBottles(t *testing.T) {
	for _, typ := range alcohol.Types() {
		bottles := alcohol.Bottles(typ)
		require.NotEmpty(t, bottles, "type %s", typ)
		assert.Equal(t, bottles[0], alcohol.DefaultBottle(typ))
		for _, b := range bottles {
			assert.True(t, alcohol.Allows(typ, b), "%s should allow %s", typ, b)
		}
	}
}

func TestEveryBottleHasSizes(t *testing.T) {
	for _, b := range alcohol.BottleTypes() {
		sizes := alcohol.Sizes(b)
		require.NotEmpty(t, sizes, "bottle %s", b)
		assert.Equal(t, sizes[0], alcohol.DefaultSize(b))
	}
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, alcohol.BottlePint, alcohol.DefaultBottle(alcohol.Beer))
	assert.Equal(t, 330.0, alcohol.DefaultSize(alcohol.BottlePint))
	assert.Equal(t, 5.0, alcohol.DefaultStrength(alcohol.Beer))
	assert.Equal(t, 40.0, alcohol.DefaultStrength(alcohol.Vodka))
	assert.Equal(t, 50.0, alcohol.DefaultStrength(alcohol.Absent))
	assert.Equal(t, alcohol.BottleOther, alcohol.DefaultBottle(alcohol.Other))
	assert.False(t, alcohol.Allows(alcohol.Wine, alcohol.BottleShot))
}

func TestTablesAreImmutable(t *testing.T) {
	sizes := alcohol.Sizes(alcohol.BottleShot)
	sizes[0] = 9999
	assert.Equal(t, 25.0, alcohol.DefaultSize(alcohol.BottleShot))

	types := alcohol.Types()
	types[0] = "Mead"
	assert.Equal(t, alcohol.Absent, alcohol.Types()[0])
}

func TestParse(t *testing.T) {
	typ, err := alcohol.ParseType(" whiskey ")
	require.NoError(t, err)
	assert.Equal(t, alcohol.Whiskey, typ)

	b, err := alcohol.ParseBottle("PINT")
	require.NoError(t, err)
	assert.Equal(t, alcohol.BottlePint, b)

	_, err = alcohol.ParseType("mead")
	assert.Error(t, err)
	_, err = alcohol.ParseBottle("keg")
	assert.Error(t, err)
}
