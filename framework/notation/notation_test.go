package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandel59/mahjong/framework/engines/mahjong"
)

func codes(tiles []mahjong.Tile) []string {
	out := make([]string, len(tiles))
	for i, t := range tiles {
		out[i] = t.String()
	}
	return out
}

func TestParseTiles(t *testing.T) {
	tiles, err := ParseTiles("19m0p55z3h")
	require.NoError(t, err)
	assert.Equal(t, []string{"1m", "9m", "0p", "5z", "5z", "3h"}, codes(tiles))

	tiles, err = ParseTiles("東南西北白發中")
	require.NoError(t, err)
	assert.Equal(t, []string{"1z", "2z", "3z", "4z", "5z", "6z", "7z"}, codes(tiles))

	tiles, err = ParseTiles("5r5m")
	require.NoError(t, err)
	assert.Equal(t, []string{"0m", "5m"}, codes(tiles))
}

func TestParseTilesInvalid(t *testing.T) {
	for _, s := range []string{"123", "8z", "0z", "9h", "12x", "m12"} {
		_, err := ParseTiles(s)
		assert.ErrorIs(t, err, ErrInvalidCode, s)
	}
}

func TestParseCall(t *testing.T) {
	c, err := ParseCall("<123m")
	require.NoError(t, err)
	assert.Equal(t, mahjong.CallChow, c.Type)
	assert.Equal(t, mahjong.DiscarderTop, c.Discarder)
	require.NotNil(t, c.Discarded)
	assert.Equal(t, "1m", c.Discarded.String())

	c, err = ParseCall("5^55z")
	require.NoError(t, err)
	assert.Equal(t, mahjong.CallPong, c.Type)
	assert.Equal(t, mahjong.DiscarderOpponent, c.Discarder)
	assert.Equal(t, mahjong.White, *c.Discarded)

	c, err = ParseCall("1111p")
	require.NoError(t, err)
	assert.Equal(t, mahjong.CallKong, c.Type)
	assert.Equal(t, mahjong.DiscarderSelf, c.Discarder)
	assert.Nil(t, c.Discarded)
	assert.False(t, c.IsOpen())

	c, err = ParseCall("^+5555s")
	require.NoError(t, err)
	assert.Equal(t, mahjong.CallKong, c.Type)
	assert.True(t, c.Added)
	assert.True(t, c.IsOpen())

	c, err = ParseCall("4z")
	require.NoError(t, err)
	assert.Equal(t, mahjong.CallBonus, c.Type)

	c, err = ParseCall("<406m")
	require.NoError(t, err)
	assert.Equal(t, mahjong.CallChow, c.Type)
}

func TestParseCallInvalid(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"<1<23m", ErrInvalidCallCode},
		{"abc", ErrInvalidCallCode},
		{"<12m3p", mahjong.ErrInvalidCall},
		{">234p", mahjong.ErrChowDiscarder},
		{"123m", mahjong.ErrChowDiscarder},
		{"111m", mahjong.ErrCallDiscarder},
		{"<11m", mahjong.ErrInvalidCall},
	}
	for _, tt := range tests {
		_, err := ParseCall(tt.code)
		assert.ErrorIs(t, err, tt.want, tt.code)
	}
}

func TestParseHand(t *testing.T) {
	h, err := ParseHand("123m456p789s46m99p5m")
	require.NoError(t, err)
	assert.Len(t, h.Tiles, 13)
	require.NotNil(t, h.Picked)
	assert.Equal(t, "5m", h.Picked.String())
	assert.Equal(t, "12346m45699p789s5m", FormatHand(h))

	h, err = ParseHand("456p[<123m][^555s][7^77z]2m")
	require.NoError(t, err)
	assert.Nil(t, h.Picked)
	assert.Len(t, h.Calls, 3)
	assert.Equal(t, "2m456p[<123m][^555s][^777z]", FormatHand(h))

	h, err = ParseHand("234m567p678s23s55p[4z]4s")
	require.NoError(t, err)
	assert.Equal(t, 14, h.CountTiles())
	assert.Equal(t, "4s", h.Picked.String())
}

func TestParseHandInvalid(t *testing.T) {
	_, err := ParseHand("123m[")
	assert.ErrorIs(t, err, ErrInvalidCode)

	_, err = ParseHand("123m456p789s1z[abc]")
	assert.ErrorIs(t, err, ErrInvalidCallCode)

	_, err = ParseHand("123m")
	assert.ErrorIs(t, err, mahjong.ErrTileCount)

	_, err = ParseHand("11111m456p789s99p")
	assert.ErrorIs(t, err, mahjong.ErrTooManyCopies)

	_, err = ParseHand("123m456p789s999p1h")
	assert.ErrorIs(t, err, mahjong.ErrBonusInHand)
}

func TestFormatRoundTrip(t *testing.T) {
	for _, code := range []string{
		"2224z[3^33z][7^77z][9^99m]4z",
		"1113m[<123m][^999p][>888s]",
		"234m567p678s23s0p5p4s",
		"19m19p19s1234567z",
		"34m456p789s[1111z][<+2222m]",
	} {
		h, err := ParseHand(code)
		require.NoError(t, err, code)
		formatted := FormatHand(h)
		again, err := ParseHand(formatted)
		require.NoError(t, err, formatted)
		assert.Equal(t, formatted, FormatHand(again))
		assert.Equal(t, h.CountTiles(), again.CountTiles())
	}
}

func TestFormatTilesBonus(t *testing.T) {
	tiles, err := ParseTiles("2h1z1m")
	require.NoError(t, err)
	assert.Equal(t, "1m1z2h", FormatTiles(tiles))
}
