// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoxIntRoundTrip(t *testing.T) {
	b := NewBoxI64(KindI32, -7)
	assert.Equal(t, int64(-7), b.AsI64())
	assert.Equal(t, KindI32, b.Kind())

	u := NewBoxU64(KindU8, 250)
	assert.Equal(t, uint64(250), u.AsU64())
}

func TestBoxFloatRoundTrip(t *testing.T) {
	f := NewBoxF64(3.5)
	assert.Equal(t, 3.5, f.AsF64())

	f32 := NewBoxF32(1.5)
	assert.Equal(t, float32(1.5), f32.AsF32())
}

func TestBoxZeroOneAllSet(t *testing.T) {
	assert.True(t, NewBoxI64(KindI32, 0).IsZero())
	assert.True(t, NewBoxI64(KindI32, 1).IsOne())
	assert.True(t, NewBoxU64(KindU8, 0xff).IsAllSet())
	assert.False(t, NewBoxU64(KindU16, 0xff).IsAllSet())
}

func TestBoxSignExtension(t *testing.T) {
	b := NewBoxI64(KindI8, -1)
	assert.Equal(t, int64(-1), b.AsI64())
	assert.Equal(t, uint64(0xff), b.Bits())
}

func TestBoxStringFormat(t *testing.T) {
	assert.Equal(t, "true", NewBoxBool(true).String())
	assert.Contains(t, NewBoxI64(KindI32, 5).String(), "i32")
	assert.Contains(t, NewBoxU64(KindU8, 5).String(), "u8")
}
