package mahjong

// Limit 满贯以上的称呼
type Limit string

const (
	LimitNone         Limit = ""
	LimitMangan       Limit = "満貫"
	LimitHaneman      Limit = "跳満"
	LimitBaiman       Limit = "倍満"
	LimitSanbaiman    Limit = "三倍満"
	LimitKazoeYakuman Limit = "数え役満"
)

var yakumanLimits = [...]Limit{"役満", "二倍役満", "三倍役満", "四倍役満", "五倍役満", "六倍役満", "七倍役満"}

// BasicPoints 基本点. 没有役时为 0
func BasicPoints(fu, yakuFan, doraFan int) int {
	if yakuFan == 0 {
		return 0
	}
	total := yakuFan + doraFan
	switch {
	case total >= 13:
		return 8000
	case total >= 11:
		return 6000
	case total >= 8:
		return 4000
	case total >= 6:
		return 3000
	}
	return min(rawPoints(fu, total), 2000)
}

// rawPoints 符 × 2^(2+番)
func rawPoints(fu, han int) int {
	return fu * (1 << (2 + han))
}

// LimitFor 根据总番数与符数给出称呼
func LimitFor(fu, total int) Limit {
	switch {
	case total >= 13:
		return LimitKazoeYakuman
	case total >= 11:
		return LimitSanbaiman
	case total >= 8:
		return LimitBaiman
	case total >= 6:
		return LimitHaneman
	case rawPoints(fu, total) >= 2000:
		return LimitMangan
	}
	return LimitNone
}

// YakumanLimit 超过七倍时按七倍称呼
func YakumanLimit(multiplier int) Limit {
	if multiplier < 1 {
		return LimitNone
	}
	if multiplier > len(yakumanLimits) {
		multiplier = len(yakumanLimits)
	}
	return yakumanLimits[multiplier-1]
}

func YakumanPoints(multiplier int) int {
	return 8000 * multiplier
}

// Payment 实际支付点数, 已向上取整到100
type Payment struct {
	Ron         int `json:"ron,omitempty"`         // 放铳者支付
	TsumoDealer int `json:"tsumoDealer,omitempty"` // 自摸时庄家支付
	TsumoOthers int `json:"tsumoOthers,omitempty"` // 自摸时每个闲家支付
	Total       int `json:"total"`
}

// Payments 按庄闲与和了方式分配基本点
func Payments(basic int, dealer, tsumo bool) Payment {
	if basic <= 0 {
		return Payment{}
	}
	if !tsumo {
		mult := 4
		if dealer {
			mult = 6
		}
		ron := roundUpTo100(basic * mult)
		return Payment{Ron: ron, Total: ron}
	}
	if dealer {
		each := roundUpTo100(basic * 2)
		return Payment{TsumoOthers: each, Total: each * 3}
	}
	fromDealer := roundUpTo100(basic * 2)
	each := roundUpTo100(basic)
	return Payment{TsumoDealer: fromDealer, TsumoOthers: each, Total: fromDealer + each*2}
}

func roundUpTo100(points int) int {
	return ((points + 99) / 100) * 100
}
