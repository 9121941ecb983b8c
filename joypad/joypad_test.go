package joypad

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadOrderMatchesButtonConst(t *testing.T) {
	var j Joypad
	j.SetButton(A, true)
	j.SetButton(Right, true)
	j.Write(1)
	j.Write(0)

	want := []uint8{1, 0, 0, 0, 0, 0, 0, 1}
	for i, w := range want {
		assert.Equal(t, w, j.Read(), "bit %d", i)
	}
}

func TestReadPastEighthBitReturnsOne(t *testing.T) {
	var j Joypad
	j.Write(1)
	j.Write(0)
	for i := 0; i < 8; i++ {
		j.Read()
	}
	assert.Equal(t, uint8(1), j.Read())
	assert.Equal(t, uint8(1), j.Read())
}

func TestStrobeHighAlwaysReportsA(t *testing.T) {
	var j Joypad
	j.SetButton(A, true)
	j.Write(1)

	assert.Equal(t, uint8(1), j.Read())
	assert.Equal(t, uint8(1), j.Read())

	j.SetButton(A, false)
	assert.Equal(t, uint8(0), j.Read())
}

func TestClearingButtonUnsetsBit(t *testing.T) {
	var j Joypad
	j.SetButton(B, true)
	j.SetButton(B, false)
	j.Write(1)
	j.Write(0)
	assert.Equal(t, uint8(0), j.Read())
}
