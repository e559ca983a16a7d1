package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeListSet(t *testing.T) {
	var sizes sizeList
	require.NoError(t, sizes.Set("10, 20,30"))
	assert.Equal(t, sizeList{10, 20, 30}, sizes)
	assert.Equal(t, "10,20,30", sizes.String())
}

func TestSizeListSetInvalid(t *testing.T) {
	var sizes sizeList
	assert.Error(t, sizes.Set("10,x"))
	assert.Error(t, sizes.Set("0"))
	assert.Nil(t, sizes)
}

func TestCreateRandomSliceWithIDs(t *testing.T) {
	ids := createRandomSliceWithIDs(5, 4)
	assert.ElementsMatch(t, []int64{5, 6, 7, 8}, ids)
}
