package helper_test

import (
	"testing"

	"github.com/reiterhq/reiter/shared/helper"

	"github.com/stretchr/testify/assert"
)

func TestGetTypedValueOf2(t *testing.T) {
	v, ok := helper.GetTypedValueOf2[int](func() (any, bool) { return 7, true })
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = helper.GetTypedValueOf2[string](func() (any, bool) { return 7, true })
	assert.False(t, ok)

	_, ok = helper.GetTypedValueOf2[int](func() (any, bool) { return nil, false })
	assert.False(t, ok)
}

func TestMustGetTypedValue2(t *testing.T) {
	v, ok := helper.MustGetTypedValue2[string](func() (any, bool) { return "x", true })
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = helper.MustGetTypedValue2[string](func() (any, bool) { return nil, false })
	assert.False(t, ok)

	assert.Panics(t, func() {
		helper.MustGetTypedValue2[string](func() (any, bool) { return 1, true })
	})
}
