// Package notation 牌码的解析与输出.
//
// 牌码: 数字后接花色, 如 "123m0p55z"; 0 为赤五, 1-7z 为字牌, 1-8h 为花牌.
// 副露写在方括号内, "<" "^" ">" 分别标记上家, 对家, 下家打出的牌, "+" 表示加杠.
package notation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mandel59/mahjong/framework/engines/mahjong"
)

var (
	ErrInvalidCode     = errors.New("非法的牌码")
	ErrInvalidCallCode = errors.New("非法的副露码")
)

var (
	shortCodeRe = regexp.MustCompile(`^(?:[0-9]+[mps]|[1-7]+z|[1-8]+h)`)
	callCodeRe  = regexp.MustCompile(`^(?:(?:[<^>]\+?)?[0-9][mpszh]?)*(?:(?:[<^>]\+?)?[0-9])[mpszh]$`)
	markerRe    = regexp.MustCompile(`([<^>])(\+?)([0-9])`)
	handPartRe  = regexp.MustCompile(`^(?:[^\[\]]+|\[[^\[\]]+\])`)

	honorReplacer = strings.NewReplacer(
		"東", "1z", "南", "2z", "西", "3z", "北", "4z",
		"白", "5z", "發", "6z", "中", "7z",
		"5r", "0",
	)
)

// Preprocess 汉字字牌转为 z 码, "5r" 转为赤五 "0"
func Preprocess(s string) string {
	return honorReplacer.Replace(s)
}

// ParseTiles 解析简写牌码, 保持书写顺序
func ParseTiles(s string) ([]mahjong.Tile, error) {
	s = Preprocess(s)
	var tiles []mahjong.Tile
	for rest := s; rest != ""; {
		m := shortCodeRe.FindString(rest)
		if m == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCode, s)
		}
		suit := m[len(m)-1]
		for i := 0; i < len(m)-1; i++ {
			t, err := mahjong.ParseTile(string([]byte{m[i], suit}))
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidCode, err)
			}
			tiles = append(tiles, t)
		}
		rest = rest[len(m):]
	}
	return tiles, nil
}

// ParseCall 解析不带方括号的副露码, 如 "<123m" "5^55z" "^+1111p"
func ParseCall(s string) (mahjong.Call, error) {
	if !callCodeRe.MatchString(s) {
		return mahjong.Call{}, fmt.Errorf("%w: %q", ErrInvalidCallCode, s)
	}
	tiles, err := ParseTiles(strings.NewReplacer("<", "", "^", "", ">", "", "+", "").Replace(s))
	if err != nil {
		return mahjong.Call{}, err
	}

	var typ mahjong.CallType
	switch {
	case len(tiles) == 1:
		typ = mahjong.CallBonus
	case len(tiles) == 4:
		typ = mahjong.CallKong
	case tiles[0].Plain() == tiles[1].Plain():
		typ = mahjong.CallPong
	default:
		typ = mahjong.CallChow
	}

	markers := markerRe.FindAllStringSubmatch(s, -1)
	if len(markers) > 1 {
		return mahjong.Call{}, fmt.Errorf("%w: 只能有一张打出的牌 %q", ErrInvalidCallCode, s)
	}
	discarder := mahjong.DiscarderSelf
	var discarded *mahjong.Tile
	added := false
	if len(markers) == 1 {
		switch markers[0][1] {
		case "<":
			discarder = mahjong.DiscarderTop
		case ">":
			discarder = mahjong.DiscarderBottom
		default:
			discarder = mahjong.DiscarderOpponent
		}
		added = markers[0][2] == "+"
		t, err := mahjong.ParseTile(markers[0][3] + s[len(s)-1:])
		if err != nil {
			return mahjong.Call{}, fmt.Errorf("%w: %v", ErrInvalidCallCode, err)
		}
		discarded = &t
	}
	return mahjong.NewCall(typ, tiles, discarded, discarder, added)
}

// ParseHand 解析完整手牌码; 合计14张时最后一张暗手牌为和了牌
func ParseHand(s string) (mahjong.Hand, error) {
	s = Preprocess(s)
	var (
		tiles []mahjong.Tile
		calls []mahjong.Call
	)
	for rest := s; rest != ""; {
		m := handPartRe.FindString(rest)
		if m == "" {
			return mahjong.Hand{}, fmt.Errorf("%w: %q", ErrInvalidCode, s)
		}
		if m[0] == '[' {
			c, err := ParseCall(m[1 : len(m)-1])
			if err != nil {
				return mahjong.Hand{}, err
			}
			calls = append(calls, c)
		} else {
			ts, err := ParseTiles(m)
			if err != nil {
				return mahjong.Hand{}, err
			}
			tiles = append(tiles, ts...)
		}
		rest = rest[len(m):]
	}

	var picked *mahjong.Tile
	if countTiles(tiles, calls) == 14 && len(tiles) > 0 {
		p := tiles[len(tiles)-1]
		picked = &p
		tiles = tiles[:len(tiles)-1]
	}
	return mahjong.NewHand(tiles, calls, picked)
}

func countTiles(tiles []mahjong.Tile, calls []mahjong.Call) int {
	n := len(tiles)
	for _, c := range calls {
		if c.Type != mahjong.CallBonus {
			n += 3
		}
	}
	return n
}

// FormatTiles 排序后输出简写牌码
func FormatTiles(tiles []mahjong.Tile) string {
	sorted := append([]mahjong.Tile(nil), tiles...)
	mahjong.SortTiles(sorted)
	var groups [4]strings.Builder
	for _, t := range sorted {
		if t.IsBonus() {
			continue
		}
		code := t.String()
		groups[suitGroup(code[1])].WriteByte(code[0])
	}
	var b strings.Builder
	for i, suit := range []byte{'m', 'p', 's', 'z'} {
		if groups[i].Len() > 0 {
			b.WriteString(groups[i].String())
			b.WriteByte(suit)
		}
	}
	return b.String() + formatBonus(sorted)
}

func suitGroup(suit byte) int {
	switch suit {
	case 'm':
		return 0
	case 'p':
		return 1
	case 's':
		return 2
	}
	return 3
}

func formatBonus(sorted []mahjong.Tile) string {
	var b strings.Builder
	for _, t := range sorted {
		if t.IsBonus() {
			b.WriteByte(t.String()[0])
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return b.String() + "h"
}

// FormatCall 输出带方括号的副露码
func FormatCall(c mahjong.Call) string {
	var b strings.Builder
	b.WriteByte('[')
	marked := false
	for _, t := range c.Tiles {
		code := t.String()
		if !marked && c.Discarded != nil && t == *c.Discarded {
			marked = true
			switch c.Discarder {
			case mahjong.DiscarderTop:
				b.WriteByte('<')
			case mahjong.DiscarderOpponent:
				b.WriteByte('^')
			case mahjong.DiscarderBottom:
				b.WriteByte('>')
			}
			if c.Added {
				b.WriteByte('+')
			}
		}
		b.WriteByte(code[0])
	}
	if len(c.Tiles) > 0 {
		b.WriteByte(c.Tiles[0].String()[1])
	}
	b.WriteByte(']')
	return b.String()
}

// FormatHand 暗手 + 副露 + 和了牌
func FormatHand(h mahjong.Hand) string {
	var b strings.Builder
	b.WriteString(FormatTiles(h.Tiles))
	for _, c := range h.Calls {
		b.WriteString(FormatCall(c))
	}
	if h.Picked != nil {
		b.WriteString(h.Picked.String())
	}
	return b.String()
}
