package mahjong

// Shape 拆解的完成度
type Shape uint8

const (
	ShapeNone    Shape = iota
	ShapeTingpai       // 听牌
	ShapeHu            // 和了
)

func (s Shape) String() string {
	switch s {
	case ShapeTingpai:
		return "tingpai"
	case ShapeHu:
		return "hu"
	}
	return "none"
}

// Candidate 和了或听牌的拆解
type Candidate struct {
	Shape         Shape
	Decomposition Decomposition
}

// Classify 判断拆解是和了, 听牌还是都不是
func Classify(h Hand, d Decomposition) Shape {
	if d.Kind == KindThirteenOrphans {
		return classifyOrphans(h.Concealed())
	}

	triads := d.closedTriads() + h.calledTriads()
	pair := len(d.Pairs)
	dazi := d.daziCount()
	switch {
	case triads == 4 && pair == 1 && dazi == 0:
		return ShapeHu
	case triads == 4 && pair == 0 && dazi == 0:
		return ShapeTingpai
	case triads == 3 && pair+dazi == 2 && pair >= 1:
		return ShapeTingpai
	}

	// 七对子: 对子必须互不相同, 四张不能当两对
	if triads == 0 && dazi == 0 && distinct(d.Pairs) {
		switch pair {
		case 7:
			return ShapeHu
		case 6:
			for _, t := range d.Singles {
				if indexOf(d.Pairs, t) < 0 {
					return ShapeTingpai
				}
			}
		}
	}
	return ShapeNone
}

func classifyOrphans(tiles []Tile) Shape {
	n := 0
	for _, t := range tiles {
		if t.IsYaochu() {
			n++
		}
	}
	if n < 13 {
		return ShapeNone
	}
	switch uniqueOrphans(tiles) {
	case 13:
		if len(tiles) == 14 && n == 14 {
			return ShapeHu
		}
		return ShapeTingpai
	case 12:
		return ShapeTingpai
	}
	return ShapeNone
}

// Search 枚举手牌所有和了或听牌的拆解, 国士无双在前
func Search(h Hand) []Candidate {
	var out []Candidate
	concealed := h.Concealed()
	if shape := classifyOrphans(concealed); shape != ShapeNone {
		d := Decomposition{Kind: KindThirteenOrphans, Singles: sortedCopy(plainAll(concealed))}
		if shape == ShapeHu {
			out = append(out, Candidate{Shape: ShapeHu, Decomposition: d})
		}
		// 国士完成形打出重复的一张仍是听牌
		out = append(out, Candidate{Shape: ShapeTingpai, Decomposition: d})
	}
	for _, d := range Decompose(concealed) {
		if shape := Classify(h, d); shape != ShapeNone {
			out = append(out, Candidate{Shape: shape, Decomposition: d})
		}
	}
	return out
}

func distinct(tiles []Tile) bool {
	seen := make(map[Tile]struct{}, len(tiles))
	for _, t := range tiles {
		if _, ok := seen[t]; ok {
			return false
		}
		seen[t] = struct{}{}
	}
	return true
}
