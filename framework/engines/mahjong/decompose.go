package mahjong

// DecompositionKind 拆解形状
type DecompositionKind uint8

const (
	KindRegular         DecompositionKind = iota // 一般形与七对子
	KindThirteenOrphans                          // 国士无双, 不参与面子拆解
)

// Decomposition 一种面子拆解, 每组用最小牌(去赤)表示
type Decomposition struct {
	Kind     DecompositionKind `json:"kind"`
	Runs     []Tile            `json:"runs,omitempty"`     // 顺子
	Triplets []Tile            `json:"triplets,omitempty"` // 刻子
	Pairs    []Tile            `json:"pairs,omitempty"`    // 对子
	Dazi     []Tile            `json:"dazi,omitempty"`     // 两面/边张搭子, 如 45
	Qiandazi []Tile            `json:"qiandazi,omitempty"` // 嵌张搭子, 如 46
	Singles  []Tile            `json:"singles,omitempty"`  // 孤张
}

// Decompose 枚举所有结构不同的拆解, 结果去重且与输入顺序无关
func Decompose(tiles []Tile) []Decomposition {
	sorted := sortedCopy(plainAll(tiles))
	return generate(sorted)
}

func generate(tiles []Tile) []Decomposition {
	switch len(tiles) {
	case 0:
		return []Decomposition{{}}
	case 1:
		return []Decomposition{{Singles: []Tile{tiles[0]}}}
	}
	var out []Decomposition
	seen := make(map[string]struct{})
	for _, d := range generate(tiles[1:]) {
		for _, next := range d.withTile(tiles[0]) {
			k := next.key()
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, next)
		}
	}
	return out
}

// withTile 把一张牌加入当前拆解的所有方式
func (d Decomposition) withTile(t Tile) []Decomposition {
	out := []Decomposition{d.move(bucketSingles, -1, bucketSingles, t)}
	if t.IsBonus() {
		return out
	}
	if i := indexOf(d.Singles, t); i >= 0 {
		out = append(out, d.move(bucketSingles, i, bucketPairs, t))
	}
	if i := indexOf(d.Pairs, t); i >= 0 {
		out = append(out, d.move(bucketPairs, i, bucketTriplets, t))
	}
	if !t.IsNumbered() {
		return out
	}
	if lo, ok := t.Offset(-2); ok {
		if i := indexOf(d.Singles, lo); i >= 0 {
			out = append(out, d.move(bucketSingles, i, bucketQiandazi, lo))
		}
		if i := indexOf(d.Dazi, lo); i >= 0 {
			out = append(out, d.move(bucketDazi, i, bucketRuns, lo))
		}
	}
	if lo, ok := t.Offset(-1); ok {
		if i := indexOf(d.Singles, lo); i >= 0 {
			out = append(out, d.move(bucketSingles, i, bucketDazi, lo))
		}
		if i := indexOf(d.Qiandazi, lo); i >= 0 {
			out = append(out, d.move(bucketQiandazi, i, bucketRuns, lo))
		}
	}
	if hi, ok := t.Offset(1); ok {
		if i := indexOf(d.Singles, hi); i >= 0 {
			out = append(out, d.move(bucketSingles, i, bucketDazi, t))
		}
		if i := indexOf(d.Dazi, hi); i >= 0 {
			out = append(out, d.move(bucketDazi, i, bucketRuns, t))
		}
	}
	if hi, ok := t.Offset(2); ok {
		if i := indexOf(d.Singles, hi); i >= 0 {
			out = append(out, d.move(bucketSingles, i, bucketQiandazi, t))
		}
	}
	return out
}

type bucket int

const (
	bucketSingles bucket = iota
	bucketPairs
	bucketTriplets
	bucketRuns
	bucketDazi
	bucketQiandazi
)

func (d *Decomposition) field(b bucket) *[]Tile {
	switch b {
	case bucketPairs:
		return &d.Pairs
	case bucketTriplets:
		return &d.Triplets
	case bucketRuns:
		return &d.Runs
	case bucketDazi:
		return &d.Dazi
	case bucketQiandazi:
		return &d.Qiandazi
	}
	return &d.Singles
}

// move 返回新拆解: 移除 from 中下标 i 的组(i < 0 不移除), 再把 t 加入 to.
// 只生成新切片, 不写共享的底层数组.
func (d Decomposition) move(from bucket, i int, to bucket, t Tile) Decomposition {
	next := d
	if i >= 0 {
		p := next.field(from)
		*p = without(*p, i)
	}
	p := next.field(to)
	*p = with(*p, t)
	return next
}

func with(s []Tile, t Tile) []Tile {
	out := make([]Tile, len(s)+1)
	copy(out, s)
	out[len(s)] = t
	return out
}

func without(s []Tile, i int) []Tile {
	out := make([]Tile, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

func indexOf(s []Tile, t Tile) int {
	for i, x := range s {
		if x == t {
			return i
		}
	}
	return -1
}

// key 规范键: 各组排序后的全序字节, 组间以 0xff 分隔
func (d Decomposition) key() string {
	buckets := [][]Tile{d.Runs, d.Triplets, d.Pairs, d.Dazi, d.Qiandazi, d.Singles}
	n := 1
	for _, b := range buckets {
		n += len(b) + 1
	}
	buf := make([]byte, 0, n)
	buf = append(buf, byte(d.Kind))
	for _, b := range buckets {
		for _, t := range sortedCopy(b) {
			buf = append(buf, t.order())
		}
		buf = append(buf, 0xff)
	}
	return string(buf)
}

// Equal 各组规范牌的多重集相同
func (d Decomposition) Equal(o Decomposition) bool {
	return d.key() == o.key()
}

// Expand 还原为牌的多重集(已排序)
func (d Decomposition) Expand() []Tile {
	var out []Tile
	for _, t := range d.Runs {
		for k := 0; k < 3; k++ {
			n, _ := t.Offset(k)
			out = append(out, n)
		}
	}
	for _, t := range d.Triplets {
		out = append(out, t, t, t)
	}
	for _, t := range d.Pairs {
		out = append(out, t, t)
	}
	for _, t := range d.Dazi {
		n, _ := t.Offset(1)
		out = append(out, t, n)
	}
	for _, t := range d.Qiandazi {
		n, _ := t.Offset(2)
		out = append(out, t, n)
	}
	out = append(out, d.Singles...)
	SortTiles(out)
	return out
}

func (d Decomposition) closedTriads() int {
	return len(d.Runs) + len(d.Triplets)
}

func (d Decomposition) daziCount() int {
	return len(d.Dazi) + len(d.Qiandazi)
}
