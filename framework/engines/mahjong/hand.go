package mahjong

import "fmt"

type CallType uint8

const (
	CallChow  CallType = iota // 吃
	CallPong                  // 碰
	CallKong                  // 杠
	CallBonus                 // 拔北/花牌
)

func (c CallType) String() string {
	switch c {
	case CallChow:
		return "chow"
	case CallPong:
		return "pong"
	case CallKong:
		return "kong"
	case CallBonus:
		return "bonus"
	}
	return "unknown"
}

// Discarder 打出被鸣牌的玩家(相对位置)
type Discarder uint8

const (
	DiscarderSelf     Discarder = iota // 自家: 暗杠, 拔北
	DiscarderTop                       // 上家
	DiscarderOpponent                  // 对家
	DiscarderBottom                    // 下家
)

func (d Discarder) String() string {
	switch d {
	case DiscarderSelf:
		return "self"
	case DiscarderTop:
		return "top"
	case DiscarderOpponent:
		return "opponent"
	case DiscarderBottom:
		return "bottom"
	}
	return "unknown"
}

// Call 副露, 通过 NewCall 构造后只读
type Call struct {
	Type      CallType
	Tiles     []Tile
	Discarder Discarder
	Discarded *Tile // 自家时为 nil
	Added     bool  // 加杠
}

// NewCall 校验副露形状与来源
func NewCall(typ CallType, tiles []Tile, discarded *Tile, discarder Discarder, added bool) (Call, error) {
	if (discarder == DiscarderSelf) != (discarded == nil) {
		return Call{}, ErrCallDiscarder
	}
	if discarded != nil && !containsExact(tiles, *discarded) {
		return Call{}, fmt.Errorf("%w: 打出的牌 %s 不在副露中", ErrInvalidCall, discarded)
	}
	if added && typ != CallKong {
		return Call{}, fmt.Errorf("%w: 只有杠可以加杠", ErrInvalidCall)
	}

	sorted := sortedCopy(tiles)
	switch typ {
	case CallBonus:
		if len(sorted) != 1 {
			return Call{}, fmt.Errorf("%w: 拔北只能是一张牌", ErrInvalidCall)
		}
		t := sorted[0]
		if !t.IsBonus() && t != WindTile(WindNorth) {
			return Call{}, fmt.Errorf("%w: %s 不能拔", ErrInvalidCall, t)
		}
		if discarder != DiscarderSelf {
			return Call{}, ErrCallDiscarder
		}
	case CallChow:
		if len(sorted) != 3 || !isRun(sorted) {
			return Call{}, fmt.Errorf("%w: 吃必须是同花色顺子", ErrInvalidCall)
		}
		if discarder != DiscarderTop {
			return Call{}, ErrChowDiscarder
		}
	case CallPong:
		if len(sorted) != 3 || !allSame(sorted) {
			return Call{}, fmt.Errorf("%w: 碰必须是三张相同的牌", ErrInvalidCall)
		}
		if discarder == DiscarderSelf {
			return Call{}, ErrCallDiscarder
		}
	case CallKong:
		if len(sorted) != 4 || !allSame(sorted) {
			return Call{}, fmt.Errorf("%w: 杠必须是四张相同的牌", ErrInvalidCall)
		}
	default:
		return Call{}, fmt.Errorf("%w: 未知类型 %d", ErrInvalidCall, typ)
	}

	var d *Tile
	if discarded != nil {
		t := *discarded
		d = &t
	}
	return Call{Type: typ, Tiles: sorted, Discarder: discarder, Discarded: d, Added: added}, nil
}

// IsOpen 明副露, 暗杠与拔北不破门清
func (c Call) IsOpen() bool {
	return c.Type != CallBonus && c.Discarder != DiscarderSelf
}

// Tile 副露的代表牌(最小牌, 去赤)
func (c Call) Tile() Tile {
	if len(c.Tiles) == 0 {
		return Tile{}
	}
	return c.Tiles[0].Plain()
}

func isRun(sorted []Tile) bool {
	for i, t := range sorted {
		if !t.IsNumbered() || t.Suit != sorted[0].Suit || int(t.Rank) != int(sorted[0].Rank)+i {
			return false
		}
	}
	return true
}

func allSame(tiles []Tile) bool {
	for _, t := range tiles {
		if t.Plain() != tiles[0].Plain() {
			return false
		}
	}
	return true
}

func containsExact(tiles []Tile, t Tile) bool {
	for _, x := range tiles {
		if x == t {
			return true
		}
	}
	return false
}

// Hand 手牌: 暗手 + 副露 + 和了牌
type Hand struct {
	Tiles  []Tile
	Calls  []Call
	Picked *Tile // 14张时为摸到或荣和的牌
}

func NewHand(tiles []Tile, calls []Call, picked *Tile) (Hand, error) {
	h := Hand{Tiles: append([]Tile(nil), tiles...), Calls: append([]Call(nil), calls...)}
	if picked != nil {
		t := *picked
		h.Picked = &t
	}
	if err := h.Validate(); err != nil {
		return Hand{}, err
	}
	return h, nil
}

// CountTiles 暗手 + 每个非拔北副露计3张 + 和了牌
func (h Hand) CountTiles() int {
	n := len(h.Tiles)
	for _, c := range h.Calls {
		if c.Type != CallBonus {
			n += 3
		}
	}
	if h.Picked != nil {
		n++
	}
	return n
}

func (h Hand) Validate() error {
	n := h.CountTiles()
	if n != 13 && n != 14 {
		return fmt.Errorf("%w: 当前 %d 张", ErrTileCount, n)
	}
	if (n == 14) != (h.Picked != nil) {
		return ErrPickedTile
	}
	for _, t := range h.Concealed() {
		if t.IsBonus() {
			return ErrBonusInHand
		}
	}
	for t, c := range countKinds(h.tilesWithBonus()) {
		if c > 4 {
			return fmt.Errorf("%w: %s", ErrTooManyCopies, t)
		}
	}
	return nil
}

// IsClosed 门清: 没有吃, 碰, 明杠
func (h Hand) IsClosed() bool {
	for _, c := range h.Calls {
		if c.IsOpen() {
			return false
		}
	}
	return true
}

// Concealed 暗手加和了牌
func (h Hand) Concealed() []Tile {
	out := make([]Tile, 0, len(h.Tiles)+1)
	out = append(out, h.Tiles...)
	if h.Picked != nil {
		out = append(out, *h.Picked)
	}
	return out
}

// AllTiles 暗手, 非拔北副露和和了牌, 保留赤牌
func (h Hand) AllTiles() []Tile {
	out := h.Concealed()
	for _, c := range h.Calls {
		if c.Type != CallBonus {
			out = append(out, c.Tiles...)
		}
	}
	return out
}

func (h Hand) tilesWithBonus() []Tile {
	out := h.Concealed()
	for _, c := range h.Calls {
		out = append(out, c.Tiles...)
	}
	return out
}

// exhausted 四张全部可见的牌, 拔北也计入
func (h Hand) exhausted() map[Tile]bool {
	out := make(map[Tile]bool)
	for t, c := range countKinds(h.tilesWithBonus()) {
		if c >= 4 {
			out[t] = true
		}
	}
	return out
}

// calledTriads 副露面子数, 暗杠也计入
func (h Hand) calledTriads() int {
	n := 0
	for _, c := range h.Calls {
		if c.Type != CallBonus {
			n++
		}
	}
	return n
}
