package mahjong

// Situation 场况, 判定时只读
type Situation struct {
	RoundWind Wind   `json:"roundWind"`
	SeatWind  Wind   `json:"seatWind"`
	Riichi    bool   `json:"riichi"`
	Tsumo     bool   `json:"tsumo"`
	Dora      []Tile `json:"dora"`    // 宝牌本身, 不是指示牌
	UraDora   []Tile `json:"uraDora"` // 仅立直时计入
}

// WinningHand 一种拆解的和了结果
type WinningHand struct {
	Decomposition Decomposition  `json:"decomposition"`
	Yakuman       []YakumanEntry `json:"yakuman,omitempty"`
	Multiplier    int            `json:"multiplier,omitempty"`
	Yaku          []YakuEntry    `json:"yaku,omitempty"`
	YakuFan       int            `json:"yakuFan"`
	Dora          int            `json:"dora"`
	AkaDora       int            `json:"akaDora"`
	NukiDora      int            `json:"nukiDora"`
	UraDora       int            `json:"uraDora"`
	Fu            int            `json:"fu"`
	Fan           int            `json:"fan"` // 役 + 宝牌
	BasicPoints   int            `json:"basicPoints"`
	Limit         Limit          `json:"limit"`
}

func (w *WinningHand) IsYakuman() bool {
	return w.Multiplier > 0
}

// Valid 无役和了不能计分
func (w *WinningHand) Valid() bool {
	return w.BasicPoints > 0
}

func (w *WinningHand) DoraFan() int {
	return w.Dora + w.AkaDora + w.NukiDora + w.UraDora
}

// EvaluateWin 判定一种和了拆解的役与点数
func EvaluateWin(h Hand, d Decomposition, s Situation) WinningHand {
	ctx := newYakuContext(h, d, s)
	w := WinningHand{Decomposition: d}
	countDora(&w, h, s)

	for _, checker := range RiichiYakumanRegistry {
		if m := checker.Check(ctx); m > 0 {
			w.Yakuman = append(w.Yakuman, YakumanEntry{Yaku: checker.ID(), Multiplier: m})
			w.Multiplier += m
		}
	}
	if w.Multiplier > 0 {
		w.BasicPoints = YakumanPoints(w.Multiplier)
		w.Limit = YakumanLimit(w.Multiplier)
		return w
	}

	for _, checker := range RiichiYakuRegistry {
		closed, open := checker.Check(ctx)
		f := open
		if ctx.Closed {
			f = closed
		}
		if f > 0 {
			w.Yaku = append(w.Yaku, YakuEntry{Yaku: checker.ID(), Fan: f})
			w.YakuFan += f
		}
	}
	w.Fu = calculateFu(ctx)
	w.Fan = w.YakuFan + w.DoraFan()
	w.BasicPoints = BasicPoints(w.Fu, w.YakuFan, w.DoraFan())
	if w.BasicPoints > 0 {
		w.Limit = LimitFor(w.Fu, w.Fan)
	}
	return w
}

func countDora(w *WinningHand, h Hand, s Situation) {
	w.Dora = matchDora(h.tilesWithBonus(), s.Dora)
	if s.Riichi {
		w.UraDora = matchDora(h.tilesWithBonus(), s.UraDora)
	}
	for _, t := range h.AllTiles() {
		if t.Red {
			w.AkaDora++
		}
	}
	for _, c := range h.Calls {
		if c.Type == CallBonus {
			w.NukiDora++
		}
	}
}

func matchDora(tiles, dora []Tile) int {
	n := 0
	for _, t := range tiles {
		for _, d := range dora {
			if t.Plain() == d.Plain() {
				n++
			}
		}
	}
	return n
}

// SelectBest 取基本点最高者, 同点取番数高者, 再同取先出现者
func SelectBest(hands []WinningHand) *WinningHand {
	var best *WinningHand
	for i := range hands {
		w := &hands[i]
		if best == nil ||
			w.BasicPoints > best.BasicPoints ||
			(w.BasicPoints == best.BasicPoints && w.Fan > best.Fan) {
			best = w
		}
	}
	return best
}

// Options 选择计算和了结果, 听牌列表或两者
type Options struct {
	Hu      bool
	Tingpai bool
}

var DefaultOptions = Options{Hu: true, Tingpai: true}

// Evaluation 判定结果; 未请求的部分为 nil
type Evaluation struct {
	TileCount int          `json:"tileCount"`
	Hu        *WinningHand `json:"hu"`
	Tingpai   []Wait       `json:"tingpai"`
}

// Evaluate 判定入口: 手牌数量必须是13或14, 和了牌与数量一致
func Evaluate(h Hand, s Situation, opts Options) (*Evaluation, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	candidates := Search(h)
	ev := &Evaluation{TileCount: h.CountTiles()}
	if opts.Hu && ev.TileCount == 14 {
		ev.Hu = SelectBest(EvaluateWins(h, s, candidates))
	}
	if opts.Tingpai {
		ev.Tingpai = ResolveWaits(h, candidates)
		if ev.Tingpai == nil {
			ev.Tingpai = []Wait{}
		}
		for i := range ev.Tingpai {
			p, err := WaitPoints(h, s, ev.Tingpai[i])
			if err != nil {
				return nil, err
			}
			ev.Tingpai[i].BasicPoints = p
		}
	}
	return ev, nil
}

// EvaluateWins 所有和了拆解的结果, 用于诊断
func EvaluateWins(h Hand, s Situation, candidates []Candidate) []WinningHand {
	var wins []WinningHand
	for _, c := range candidates {
		if c.Shape == ShapeHu {
			wins = append(wins, EvaluateWin(h, c.Decomposition, s))
		}
	}
	return wins
}
