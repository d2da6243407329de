package mahjong

import "fmt"

// Yaku 役种
type Yaku int

const (
	// 一般役
	YakuRiichi         Yaku = iota // 立直
	YakuTsumo                      // 门前清自摸和
	YakuPinfu                      // 平和: 4顺子+非役牌雀头, 两面听
	YakuChiitoi                    // 七对子
	YakuHaku                       // 役牌 白
	YakuHatsu                      // 役牌 发
	YakuChun                       // 役牌 中
	YakuRoundWind                  // 场风
	YakuSeatWind                   // 自风
	YakuTanyao                     // 断幺九
	YakuHonroto                    // 混老头
	YakuHonitsu                    // 混一色
	YakuChinitsu                   // 清一色
	YakuSanshoku                   // 三色同顺
	YakuIttsu                      // 一气通贯
	YakuSanshokuDoukou             // 三色同刻
	YakuToitoi                     // 对对和
	YakuIppeiko                    // 一杯口
	YakuRyanpeiko                  // 二杯口
	YakuChanta                     // 混全带幺九
	YakuJunchan                    // 纯全带幺九
	YakuSananko                    // 三暗刻
	YakuShousangen                 // 小三元
	YakuSankantsu                  // 三杠子

	// 役满
	YakuSuuankou      // 四暗刻
	YakuSuuankouTanki // 四暗刻单骑(双倍)
	YakuSuukantsu     // 四杠子
	YakuDaisangen     // 大三元
	YakuDaisushi      // 大四喜(双倍)
	YakuShousushi     // 小四喜
	YakuKokushi       // 国士无双
	YakuKokushi13     // 国士十三面(双倍)
	YakuRyuuiisou     // 绿一色
	YakuChinroto      // 清老头
	YakuTsuuiisou     // 字一色
	YakuChuuren       // 九莲宝灯
	YakuJunseiChuuren // 纯正九莲宝灯(双倍)
)

var yakuNames = map[Yaku][2]string{
	YakuRiichi:         {"riichi", "立直"},
	YakuTsumo:          {"menzen_tsumo", "門前清自摸和"},
	YakuPinfu:          {"pinfu", "平和"},
	YakuChiitoi:        {"chiitoitsu", "七対子"},
	YakuHaku:           {"haku", "役牌 白"},
	YakuHatsu:          {"hatsu", "役牌 發"},
	YakuChun:           {"chun", "役牌 中"},
	YakuRoundWind:      {"bakaze", "場風"},
	YakuSeatWind:       {"jikaze", "自風"},
	YakuTanyao:         {"tanyao", "断幺九"},
	YakuHonroto:        {"honroutou", "混老頭"},
	YakuHonitsu:        {"honitsu", "混一色"},
	YakuChinitsu:       {"chinitsu", "清一色"},
	YakuSanshoku:       {"sanshoku_doujun", "三色同順"},
	YakuIttsu:          {"ittsu", "一気通貫"},
	YakuSanshokuDoukou: {"sanshoku_doukou", "三色同刻"},
	YakuToitoi:         {"toitoi", "対々和"},
	YakuIppeiko:        {"iipeikou", "一盃口"},
	YakuRyanpeiko:      {"ryanpeikou", "二盃口"},
	YakuChanta:         {"chanta", "混全帯幺九"},
	YakuJunchan:        {"junchan", "純全帯幺九"},
	YakuSananko:        {"sanankou", "三暗刻"},
	YakuShousangen:     {"shousangen", "小三元"},
	YakuSankantsu:      {"sankantsu", "三槓子"},
	YakuSuuankou:       {"suuankou", "四暗刻"},
	YakuSuuankouTanki:  {"suuankou_tanki", "四暗刻単騎"},
	YakuSuukantsu:      {"suukantsu", "四槓子"},
	YakuDaisangen:      {"daisangen", "大三元"},
	YakuDaisushi:       {"daisuushii", "大四喜"},
	YakuShousushi:      {"shousuushii", "小四喜"},
	YakuKokushi:        {"kokushi", "国士無双"},
	YakuKokushi13:      {"kokushi_13", "国士無双十三面"},
	YakuRyuuiisou:      {"ryuuiisou", "緑一色"},
	YakuChinroto:       {"chinroutou", "清老頭"},
	YakuTsuuiisou:      {"tsuuiisou", "字一色"},
	YakuChuuren:        {"chuuren", "九蓮宝燈"},
	YakuJunseiChuuren:  {"junsei_chuuren", "純正九蓮宝燈"},
}

func (y Yaku) String() string {
	if n, ok := yakuNames[y]; ok {
		return n[1]
	}
	return "unknown"
}

// Code 稳定的英文标识, 用于接口与存储
func (y Yaku) Code() string {
	if n, ok := yakuNames[y]; ok {
		return n[0]
	}
	return "unknown"
}

func (y Yaku) MarshalText() ([]byte, error) {
	return []byte(y.Code()), nil
}

var yakuByCode = func() map[string]Yaku {
	m := make(map[string]Yaku, len(yakuNames))
	for y, n := range yakuNames {
		m[n[0]] = y
	}
	return m
}()

func (y *Yaku) UnmarshalText(b []byte) error {
	v, ok := yakuByCode[string(b)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownYaku, b)
	}
	*y = v
	return nil
}

type YakuEntry struct {
	Yaku Yaku `json:"yaku"`
	Fan  int  `json:"fan"`
}

type YakumanEntry struct {
	Yaku       Yaku `json:"yaku"`
	Multiplier int  `json:"multiplier"`
}

// YakuContext 一次判定的预计算事实, 只在 EvaluateWin 内使用
type YakuContext struct {
	Hand      Hand
	Melds     Decomposition
	Situation Situation
	Closed    bool
	Picked    Tile // 去赤

	Tiles     []Tile // 全部非花牌, 去赤
	Concealed []Tile // 暗手(不含和了牌), 去赤

	Chows       []Tile // 暗顺 + 吃
	Pongs       []Tile // 暗刻 + 碰 + 所有杠
	ClosedPongs []Tile // 拆解中的暗刻
	ClosedKongs []Tile
	Kongs       int
	Eyes        *Tile // 唯一的雀头

	fanpai map[Tile]bool
}

func newYakuContext(h Hand, d Decomposition, s Situation) *YakuContext {
	ctx := &YakuContext{
		Hand:        h,
		Melds:       d,
		Situation:   s,
		Closed:      h.IsClosed(),
		Tiles:       plainAll(h.AllTiles()),
		Concealed:   plainAll(h.Tiles),
		Chows:       append([]Tile(nil), d.Runs...),
		Pongs:       append([]Tile(nil), d.Triplets...),
		ClosedPongs: d.Triplets,
		fanpai: map[Tile]bool{
			White:                 true,
			Green:                 true,
			Chun:                  true,
			WindTile(s.RoundWind): true,
			WindTile(s.SeatWind):  true,
		},
	}
	if h.Picked != nil {
		ctx.Picked = h.Picked.Plain()
	}
	for _, c := range h.Calls {
		switch c.Type {
		case CallChow:
			ctx.Chows = append(ctx.Chows, c.Tile())
		case CallPong:
			ctx.Pongs = append(ctx.Pongs, c.Tile())
		case CallKong:
			ctx.Pongs = append(ctx.Pongs, c.Tile())
			ctx.Kongs++
			if !c.IsOpen() {
				ctx.ClosedKongs = append(ctx.ClosedKongs, c.Tile())
			}
		}
	}
	SortTiles(ctx.Chows)
	SortTiles(ctx.Pongs)
	if len(d.Pairs) == 1 {
		e := d.Pairs[0]
		ctx.Eyes = &e
	}
	return ctx
}

// concealedTriplets 暗刻数: 荣和时与和了牌相同的刻子不算暗刻
func (ctx *YakuContext) concealedTriplets() int {
	n := len(ctx.ClosedKongs)
	for _, t := range ctx.ClosedPongs {
		if ctx.Situation.Tsumo || t != ctx.Picked {
			n++
		}
	}
	return n
}

func (ctx *YakuContext) eyesIs(pred func(Tile) bool) bool {
	return ctx.Eyes != nil && pred(*ctx.Eyes)
}

func (ctx *YakuContext) countPongs(pred func(Tile) bool) int {
	n := 0
	for _, t := range ctx.Pongs {
		if pred(t) {
			n++
		}
	}
	return n
}

func (ctx *YakuContext) hasPong(t Tile) bool {
	return indexOf(ctx.Pongs, t) >= 0
}

func (ctx *YakuContext) someHonor() bool {
	for _, t := range ctx.Tiles {
		if t.IsHonor() {
			return true
		}
	}
	return false
}

func (ctx *YakuContext) every(pred func(Tile) bool) bool {
	for _, t := range ctx.Tiles {
		if !pred(t) {
			return false
		}
	}
	return true
}

// suitCardinality 出现的数牌花色数
func (ctx *YakuContext) suitCardinality() int {
	var seen [3]bool
	n := 0
	for _, t := range ctx.Tiles {
		if t.IsNumbered() && !seen[t.Suit] {
			seen[t.Suit] = true
			n++
		}
	}
	return n
}

// isRyanmen 该顺子能否解释为两面听 picked
func isRyanmen(run, picked Tile) bool {
	if run.Suit != picked.Suit || !picked.IsNumbered() {
		return false
	}
	r, p := run.Rank, picked.Rank
	return (r <= 6 && r == p) || (r >= 2 && r+2 == p)
}

// pinfuForm 平和形: 4顺子, 非役牌雀头, 两面听
func (ctx *YakuContext) pinfuForm() bool {
	if len(ctx.Chows) != 4 || ctx.Eyes == nil || ctx.fanpai[*ctx.Eyes] {
		return false
	}
	for _, r := range ctx.Melds.Runs {
		if isRyanmen(r, ctx.Picked) {
			return true
		}
	}
	return false
}

func (ctx *YakuContext) sameAcrossSuits(list []Tile) bool {
	for r := uint8(1); r <= 9; r++ {
		if indexOf(list, Tile{Suit: SuitMan, Rank: r}) >= 0 &&
			indexOf(list, Tile{Suit: SuitPin, Rank: r}) >= 0 &&
			indexOf(list, Tile{Suit: SuitSou, Rank: r}) >= 0 {
			return true
		}
	}
	return false
}

func (ctx *YakuContext) ittsu() bool {
	for _, s := range []Suit{SuitMan, SuitPin, SuitSou} {
		if indexOf(ctx.Chows, Tile{Suit: s, Rank: 1}) >= 0 &&
			indexOf(ctx.Chows, Tile{Suit: s, Rank: 4}) >= 0 &&
			indexOf(ctx.Chows, Tile{Suit: s, Rank: 7}) >= 0 {
			return true
		}
	}
	return false
}

func (ctx *YakuContext) ryanpeiko() bool {
	c := ctx.Chows
	return len(c) == 4 && c[0] == c[1] && c[2] == c[3]
}

// chantaBase 每组都带幺九
func (ctx *YakuContext) chantaBase() bool {
	if ctx.Eyes == nil || !ctx.Eyes.IsYaochu() {
		return false
	}
	for _, c := range ctx.Chows {
		if c.Rank != 1 && c.Rank != 7 {
			return false
		}
	}
	for _, p := range ctx.Pongs {
		if !p.IsYaochu() {
			return false
		}
	}
	return true
}

// YakuChecker 返回门清番数与副露番数, 不成立时都为 0
type YakuChecker interface {
	ID() Yaku
	Check(ctx *YakuContext) (int, int)
}

type yakuCheckerFunc struct {
	id    Yaku
	check func(ctx *YakuContext) (int, int)
}

func (f yakuCheckerFunc) ID() Yaku { return f.id }

func (f yakuCheckerFunc) Check(ctx *YakuContext) (int, int) { return f.check(ctx) }

func fan(ok bool, closed, open int) (int, int) {
	if ok {
		return closed, open
	}
	return 0, 0
}

func isDragon(t Tile) bool { return t.IsDragon() }
func isWind(t Tile) bool   { return t.IsWind() }

// RiichiYakuRegistry 一般役判定表, 顺序即输出顺序
var RiichiYakuRegistry = []YakuChecker{
	yakuCheckerFunc{id: YakuRiichi, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.Situation.Riichi, 1, 0)
	}},
	yakuCheckerFunc{id: YakuTsumo, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.Situation.Tsumo, 1, 0)
	}},
	yakuCheckerFunc{id: YakuPinfu, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.pinfuForm(), 1, 0)
	}},
	yakuCheckerFunc{id: YakuChiitoi, check: func(ctx *YakuContext) (int, int) {
		return fan(len(ctx.Melds.Pairs) == 7, 2, 0)
	}},
	yakuCheckerFunc{id: YakuHaku, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.hasPong(White), 1, 1)
	}},
	yakuCheckerFunc{id: YakuHatsu, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.hasPong(Green), 1, 1)
	}},
	yakuCheckerFunc{id: YakuChun, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.hasPong(Chun), 1, 1)
	}},
	yakuCheckerFunc{id: YakuRoundWind, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.hasPong(WindTile(ctx.Situation.RoundWind)), 1, 1)
	}},
	yakuCheckerFunc{id: YakuSeatWind, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.hasPong(WindTile(ctx.Situation.SeatWind)), 1, 1)
	}},
	yakuCheckerFunc{id: YakuTanyao, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.every(func(t Tile) bool { return !t.IsYaochu() }), 1, 1)
	}},
	yakuCheckerFunc{id: YakuHonroto, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.every(Tile.IsYaochu), 2, 2)
	}},
	yakuCheckerFunc{id: YakuHonitsu, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.someHonor() && ctx.suitCardinality() == 1, 3, 2)
	}},
	yakuCheckerFunc{id: YakuChinitsu, check: func(ctx *YakuContext) (int, int) {
		return fan(!ctx.someHonor() && ctx.suitCardinality() == 1, 6, 5)
	}},
	yakuCheckerFunc{id: YakuSanshoku, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.sameAcrossSuits(ctx.Chows), 2, 1)
	}},
	yakuCheckerFunc{id: YakuIttsu, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.ittsu(), 2, 1)
	}},
	yakuCheckerFunc{id: YakuSanshokuDoukou, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.sameAcrossSuits(ctx.Pongs), 2, 2)
	}},
	yakuCheckerFunc{id: YakuToitoi, check: func(ctx *YakuContext) (int, int) {
		return fan(len(ctx.Pongs) == 4, 2, 2)
	}},
	yakuCheckerFunc{id: YakuIppeiko, check: func(ctx *YakuContext) (int, int) {
		return fan(!ctx.ryanpeiko() && !distinct(ctx.Chows), 1, 0)
	}},
	yakuCheckerFunc{id: YakuRyanpeiko, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.ryanpeiko(), 3, 0)
	}},
	yakuCheckerFunc{id: YakuChanta, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.chantaBase() && ctx.someHonor() && !ctx.every(Tile.IsYaochu), 2, 1)
	}},
	yakuCheckerFunc{id: YakuJunchan, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.chantaBase() && !ctx.someHonor() && !ctx.every(Tile.IsYaochu), 3, 2)
	}},
	yakuCheckerFunc{id: YakuSananko, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.concealedTriplets() == 3, 2, 2)
	}},
	yakuCheckerFunc{id: YakuShousangen, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.eyesIs(isDragon) && ctx.countPongs(isDragon) == 2, 2, 2)
	}},
	yakuCheckerFunc{id: YakuSankantsu, check: func(ctx *YakuContext) (int, int) {
		return fan(ctx.Kongs == 3, 2, 2)
	}},
}

// YakumanChecker 返回役满倍数, 不成立时为 0
type YakumanChecker interface {
	ID() Yaku
	Check(ctx *YakuContext) int
}

type yakumanCheckerFunc struct {
	id    Yaku
	check func(ctx *YakuContext) int
}

func (f yakumanCheckerFunc) ID() Yaku { return f.id }

func (f yakumanCheckerFunc) Check(ctx *YakuContext) int { return f.check(ctx) }

func times(ok bool, n int) int {
	if ok {
		return n
	}
	return 0
}

var greenTiles = map[Tile]bool{
	{Suit: SuitSou, Rank: 2}: true,
	{Suit: SuitSou, Rank: 3}: true,
	{Suit: SuitSou, Rank: 4}: true,
	{Suit: SuitSou, Rank: 6}: true,
	{Suit: SuitSou, Rank: 8}: true,
	Green:                    true,
}

// chuurenLoose 九莲宝灯的数量条件
func (ctx *YakuContext) chuurenLoose() bool {
	if !ctx.Closed || ctx.someHonor() || ctx.suitCardinality() != 1 {
		return false
	}
	counts := countKinds(ctx.Tiles)
	return len(counts) == 9 &&
		counts[Tile{Suit: ctx.Tiles[0].Suit, Rank: 1}] >= 3 &&
		counts[Tile{Suit: ctx.Tiles[0].Suit, Rank: 9}] >= 3
}

// chuurenPure 暗手恰好是 1112345678999
func (ctx *YakuContext) chuurenPure() bool {
	if len(ctx.Concealed) != 13 {
		return false
	}
	sorted := sortedCopy(ctx.Concealed)
	want := [13]uint8{1, 1, 1, 2, 3, 4, 5, 6, 7, 8, 9, 9, 9}
	for i, t := range sorted {
		if !t.IsNumbered() || t.Suit != sorted[0].Suit || t.Rank != want[i] {
			return false
		}
	}
	return true
}

func (ctx *YakuContext) kokushi() bool {
	return ctx.Closed && ctx.every(Tile.IsYaochu) && uniqueOrphans(ctx.Tiles) == 13
}

// RiichiYakumanRegistry 役满判定表, 互斥的双倍与单倍在同一项内处理
var RiichiYakumanRegistry = []YakumanChecker{
	yakumanCheckerFunc{id: YakuSuuankouTanki, check: func(ctx *YakuContext) int {
		return times(ctx.concealedTriplets() == 4 && ctx.eyesIs(func(t Tile) bool { return t == ctx.Picked }), 2)
	}},
	yakumanCheckerFunc{id: YakuSuuankou, check: func(ctx *YakuContext) int {
		return times(ctx.concealedTriplets() == 4 && !ctx.eyesIs(func(t Tile) bool { return t == ctx.Picked }), 1)
	}},
	yakumanCheckerFunc{id: YakuSuukantsu, check: func(ctx *YakuContext) int {
		return times(ctx.Kongs == 4, 1)
	}},
	yakumanCheckerFunc{id: YakuDaisangen, check: func(ctx *YakuContext) int {
		return times(ctx.countPongs(isDragon) == 3, 1)
	}},
	yakumanCheckerFunc{id: YakuDaisushi, check: func(ctx *YakuContext) int {
		return times(ctx.countPongs(isWind) == 4, 2)
	}},
	yakumanCheckerFunc{id: YakuShousushi, check: func(ctx *YakuContext) int {
		return times(ctx.eyesIs(isWind) && ctx.countPongs(isWind) == 3, 1)
	}},
	yakumanCheckerFunc{id: YakuKokushi13, check: func(ctx *YakuContext) int {
		return times(ctx.kokushi() && uniqueOrphans(ctx.Concealed) == 13, 2)
	}},
	yakumanCheckerFunc{id: YakuKokushi, check: func(ctx *YakuContext) int {
		return times(ctx.kokushi() && uniqueOrphans(ctx.Concealed) != 13, 1)
	}},
	yakumanCheckerFunc{id: YakuRyuuiisou, check: func(ctx *YakuContext) int {
		return times(ctx.every(func(t Tile) bool { return greenTiles[t] }), 1)
	}},
	yakumanCheckerFunc{id: YakuChinroto, check: func(ctx *YakuContext) int {
		return times(ctx.every(Tile.IsTerminal), 1)
	}},
	yakumanCheckerFunc{id: YakuTsuuiisou, check: func(ctx *YakuContext) int {
		return times(ctx.someHonor() && ctx.suitCardinality() == 0, 1)
	}},
	yakumanCheckerFunc{id: YakuJunseiChuuren, check: func(ctx *YakuContext) int {
		return times(ctx.chuurenLoose() && ctx.chuurenPure(), 2)
	}},
	yakumanCheckerFunc{id: YakuChuuren, check: func(ctx *YakuContext) int {
		return times(ctx.chuurenLoose() && !ctx.chuurenPure(), 1)
	}},
}
