package mahjong

import (
	"fmt"
	"sort"
)

// Wait 听牌: 打出 Discard (13张时为 nil) 后等待 Need
type Wait struct {
	Discard     *Tile `json:"discard"`
	Need        Tile  `json:"need"`
	BasicPoints int   `json:"basicPoints"` // 以 Need 和了时的基本点, 无役为 0
}

// Apply 打出 Discard 并以 Need 为和了牌, 得到14张的手牌
func (w Wait) Apply(h Hand) (Hand, error) {
	tiles := h.Concealed()
	if w.Discard != nil {
		i := indexOfDiscard(tiles, *w.Discard)
		if i < 0 {
			return Hand{}, fmt.Errorf("%w: 手牌中没有 %s", ErrInvalidWait, w.Discard)
		}
		tiles = append(tiles[:i:i], tiles[i+1:]...)
	}
	need := w.Need
	return NewHand(tiles, h.Calls, &need)
}

// indexOfDiscard 优先打出非赤牌
func indexOfDiscard(tiles []Tile, d Tile) int {
	if i := indexOf(tiles, d.Plain()); i >= 0 {
		return i
	}
	for i, t := range tiles {
		if t.Plain() == d.Plain() {
			return i
		}
	}
	return -1
}

// WaitPoints 按 w 和了后的基本点, 场况沿用 s
func WaitPoints(h Hand, s Situation, w Wait) (int, error) {
	next, err := w.Apply(h)
	if err != nil {
		return 0, err
	}
	ev, err := Evaluate(next, s, Options{Hu: true})
	if err != nil {
		return 0, err
	}
	if ev.Hu == nil {
		return 0, nil
	}
	return ev.Hu.BasicPoints, nil
}

// Waits 单个听牌拆解的待牌, 已见四张的牌不计
func Waits(h Hand, d Decomposition) []Wait {
	exhausted := h.exhausted()
	var out []Wait
	emit := func(discard *Tile, need Tile) {
		if exhausted[need] || (discard != nil && *discard == need) {
			return
		}
		out = append(out, Wait{Discard: discard, Need: need})
	}

	if d.Kind == KindThirteenOrphans {
		orphanWaits(h, emit)
		return out
	}

	var s *Tile
	if len(d.Singles) == 1 {
		t := d.Singles[0]
		s = &t
	}
	switch {
	case len(d.Pairs) == 2:
		// 双碰
		if d.Pairs[0] == d.Pairs[1] {
			return nil
		}
		for _, t := range d.Pairs {
			emit(s, t)
		}
	case len(d.Qiandazi) == 1:
		mid, _ := d.Qiandazi[0].Offset(1)
		emit(s, mid)
	case len(d.Dazi) == 1:
		t := d.Dazi[0]
		switch t.Rank {
		case 1:
			n, _ := t.Offset(2)
			emit(s, n)
		case 8:
			n, _ := t.Offset(-1)
			emit(s, n)
		default:
			lo, _ := t.Offset(-1)
			hi, _ := t.Offset(2)
			emit(s, lo)
			emit(s, hi)
		}
	case len(d.Singles) == 2:
		a, b := d.Singles[0], d.Singles[1]
		if a == b {
			return nil
		}
		// 七对子不能等已成对的牌
		sevenPairs := len(d.Pairs) == 6
		if !sevenPairs || indexOf(d.Pairs, b) < 0 {
			emit(&a, b)
		}
		if !sevenPairs || indexOf(d.Pairs, a) < 0 {
			emit(&b, a)
		}
	case len(d.Singles) == 1:
		emit(nil, d.Singles[0])
	}
	return out
}

func orphanWaits(h Hand, emit func(*Tile, Tile)) {
	tiles := plainAll(h.Concealed())
	counts := countKinds(tiles)

	var discards []*Tile
	if len(tiles) == 13 {
		discards = []*Tile{nil}
	} else {
		for _, t := range tiles {
			if !t.IsYaochu() {
				t := t
				discards = []*Tile{&t}
				break
			}
		}
		if discards == nil {
			for _, k := range OrphanKinds {
				if counts[k] >= 2 {
					k := k
					discards = append(discards, &k)
				}
			}
		}
	}

	full := uniqueOrphans(tiles) == 13
	for _, discard := range discards {
		for _, k := range OrphanKinds {
			if full || counts[k] == 0 {
				emit(discard, k)
			}
		}
	}
}

// ResolveWaits 汇总所有听牌拆解的待牌, 去重后按待牌, 打出牌排序
func ResolveWaits(h Hand, candidates []Candidate) []Wait {
	seen := make(map[[2]byte]struct{})
	var out []Wait
	for _, c := range candidates {
		if c.Shape != ShapeTingpai {
			continue
		}
		for _, w := range Waits(h, c.Decomposition) {
			k := w.key()
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := out[i].key(), out[j].key()
		if ki[1] != kj[1] {
			return ki[1] < kj[1]
		}
		return ki[0] < kj[0]
	})
	return out
}

// key 打出牌为 nil 时排最前
func (w Wait) key() [2]byte {
	var d byte
	if w.Discard != nil {
		d = w.Discard.order()
	}
	return [2]byte{d, w.Need.order()}
}
