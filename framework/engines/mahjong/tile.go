package mahjong

import (
	"fmt"
	"sort"
)

type Suit uint8

const (
	SuitMan    Suit = iota // 万子
	SuitPin                // 筒子
	SuitSou                // 索子
	SuitWind               // 风牌
	SuitDragon             // 三元牌
	SuitBonus              // 花牌
)

var suitCodes = [...]byte{'m', 'p', 's', 'z', 'z', 'h'}

func (s Suit) IsNumbered() bool {
	return s <= SuitSou
}

func (s Suit) maxRank() uint8 {
	switch s {
	case SuitWind:
		return 4
	case SuitDragon:
		return 3
	case SuitBonus:
		return 8
	default:
		return 9
	}
}

type Wind int

const (
	WindEast  Wind = iota // 东风
	WindSouth             // 南风
	WindWest              // 西风
	WindNorth             // 北风
)

func (w Wind) String() string {
	switch w {
	case WindEast:
		return "东"
	case WindSouth:
		return "南"
	case WindWest:
		return "西"
	case WindNorth:
		return "北"
	default:
		return "?"
	}
}

func (w Wind) Next() Wind {
	return (w + 1) % 4
}

// Tile 为不可变值, 可直接作为 map key 比较
type Tile struct {
	Suit Suit
	Rank uint8
	Red  bool // 赤五
}

var (
	White = Tile{Suit: SuitDragon, Rank: 1} // 白
	Green = Tile{Suit: SuitDragon, Rank: 2} // 发
	Chun  = Tile{Suit: SuitDragon, Rank: 3} // 中
)

// NewTile 校验花色与点数后构造牌
func NewTile(suit Suit, rank uint8, red bool) (Tile, error) {
	if suit > SuitBonus || rank < 1 || rank > suit.maxRank() {
		return Tile{}, fmt.Errorf("%w: suit=%d rank=%d", ErrInvalidTile, suit, rank)
	}
	if red && (!suit.IsNumbered() || rank != 5) {
		return Tile{}, fmt.Errorf("%w: 只有数牌五可以是赤牌", ErrInvalidTile)
	}
	return Tile{Suit: suit, Rank: rank, Red: red}, nil
}

// ParseTile 解析单张牌码, 如 "1m" "0p" "7z" "3h"
func ParseTile(code string) (Tile, error) {
	if len(code) != 2 || code[0] < '0' || code[0] > '9' {
		return Tile{}, fmt.Errorf("%w: %q", ErrInvalidTile, code)
	}
	n := code[0] - '0'
	switch code[1] {
	case 'm', 'p', 's':
		suit := SuitMan
		if code[1] == 'p' {
			suit = SuitPin
		} else if code[1] == 's' {
			suit = SuitSou
		}
		if n == 0 {
			return NewTile(suit, 5, true)
		}
		return NewTile(suit, n, false)
	case 'z':
		if n >= 5 {
			return NewTile(SuitDragon, n-4, false)
		}
		return NewTile(SuitWind, n, false)
	case 'h':
		return NewTile(SuitBonus, n, false)
	}
	return Tile{}, fmt.Errorf("%w: %q", ErrInvalidTile, code)
}

func (t Tile) String() string {
	n := t.Rank
	if t.Red {
		n = 0
	}
	if t.Suit == SuitDragon {
		n += 4
	}
	return string([]byte{'0' + n, suitCodes[t.Suit]})
}

// Plain 去掉赤牌标记
func (t Tile) Plain() Tile {
	t.Red = false
	return t
}

func (t Tile) IsNumbered() bool { return t.Suit.IsNumbered() }
func (t Tile) IsHonor() bool    { return t.Suit == SuitWind || t.Suit == SuitDragon }
func (t Tile) IsBonus() bool    { return t.Suit == SuitBonus }
func (t Tile) IsWind() bool     { return t.Suit == SuitWind }
func (t Tile) IsDragon() bool   { return t.Suit == SuitDragon }

// IsTerminal 老头牌
func (t Tile) IsTerminal() bool {
	return t.IsNumbered() && (t.Rank == 1 || t.Rank == 9)
}

// IsYaochu 幺九牌, 花牌不算
func (t Tile) IsYaochu() bool {
	return t.IsTerminal() || t.IsHonor()
}

// Offset 同花色偏移 k 的牌, 越界返回 false
func (t Tile) Offset(k int) (Tile, bool) {
	if !t.IsNumbered() {
		return Tile{}, false
	}
	r := int(t.Rank) + k
	if r < 1 || r > 9 {
		return Tile{}, false
	}
	return Tile{Suit: t.Suit, Rank: uint8(r)}, true
}

func WindTile(w Wind) Tile {
	return Tile{Suit: SuitWind, Rank: uint8(w) + 1}
}

// DoraFromIndicator 指示牌的下一张为宝牌
func DoraFromIndicator(indicator Tile) Tile {
	t := indicator.Plain()
	switch t.Suit {
	case SuitWind:
		t.Rank = t.Rank%4 + 1
	case SuitDragon:
		t.Rank = t.Rank%3 + 1
	case SuitBonus:
	default:
		t.Rank = t.Rank%9 + 1
	}
	return t
}

// order 全序键: 花色, 点数, 赤五排在普通五之前
func (t Tile) order() byte {
	o := byte(t.Suit)*20 + t.Rank*2
	if !t.Red {
		o++
	}
	return o
}

// Compare 返回 -1, 0, 1
func Compare(a, b Tile) int {
	oa, ob := a.order(), b.order()
	switch {
	case oa < ob:
		return -1
	case oa > ob:
		return 1
	}
	return 0
}

func SortTiles(tiles []Tile) {
	sort.Slice(tiles, func(i, j int) bool { return tiles[i].order() < tiles[j].order() })
}

func sortedCopy(tiles []Tile) []Tile {
	out := make([]Tile, len(tiles))
	copy(out, tiles)
	SortTiles(out)
	return out
}

func plainAll(tiles []Tile) []Tile {
	out := make([]Tile, len(tiles))
	for i, t := range tiles {
		out[i] = t.Plain()
	}
	return out
}

// OrphanKinds 十三种幺九牌, 按全序排列
var OrphanKinds = []Tile{
	{Suit: SuitMan, Rank: 1}, {Suit: SuitMan, Rank: 9},
	{Suit: SuitPin, Rank: 1}, {Suit: SuitPin, Rank: 9},
	{Suit: SuitSou, Rank: 1}, {Suit: SuitSou, Rank: 9},
	{Suit: SuitWind, Rank: 1}, {Suit: SuitWind, Rank: 2}, {Suit: SuitWind, Rank: 3}, {Suit: SuitWind, Rank: 4},
	White, Green, Chun,
}

// countKinds 统计去赤后的牌种数量
func countKinds(tiles []Tile) map[Tile]int {
	counts := make(map[Tile]int, len(tiles))
	for _, t := range tiles {
		counts[t.Plain()]++
	}
	return counts
}

// uniqueOrphans 不同幺九牌种数
func uniqueOrphans(tiles []Tile) int {
	seen := make(map[Tile]struct{}, 13)
	for _, t := range tiles {
		if t.IsYaochu() {
			seen[t.Plain()] = struct{}{}
		}
	}
	return len(seen)
}

func (t Tile) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tile) UnmarshalText(b []byte) error {
	parsed, err := ParseTile(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
