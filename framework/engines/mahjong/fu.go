package mahjong

// calculateFu 计算符数
func calculateFu(ctx *YakuContext) int {
	d := ctx.Melds
	if len(d.Pairs) == 7 {
		return 25 // 七对子固定25符
	}

	tsumo := ctx.Situation.Tsumo
	if ctx.pinfuForm() {
		switch {
		case ctx.Closed && !tsumo:
			return 30
		case ctx.Closed && tsumo:
			return 20
		case !ctx.Closed && !tsumo:
			return 30 // 副露平和形
		}
	}

	fu := 20 // 副底
	if ctx.Closed && !tsumo {
		fu += 10 // 门前荣和
	}
	if tsumo {
		fu += 2
	}

	for _, t := range d.Triplets {
		// 荣和完成的刻子按明刻计
		if !tsumo && t == ctx.Picked {
			fu += tripletFu(t, 2)
		} else {
			fu += tripletFu(t, 4)
		}
	}
	for _, c := range ctx.Hand.Calls {
		switch c.Type {
		case CallPong:
			fu += tripletFu(c.Tile(), 2)
		case CallKong:
			if c.IsOpen() {
				fu += tripletFu(c.Tile(), 8)
			} else {
				fu += tripletFu(c.Tile(), 16)
			}
		}
	}

	if ctx.Eyes != nil {
		eyes := *ctx.Eyes
		s := ctx.Situation
		if s.RoundWind == s.SeatWind && eyes == WindTile(s.RoundWind) {
			fu += 4 // 连风牌
		} else if ctx.fanpai[eyes] {
			fu += 2
		}
	}

	fu += waitFu(d, ctx.Picked)

	// 向上取整到10的倍数
	return ((fu + 9) / 10) * 10
}

// tripletFu 幺九刻子翻倍
func tripletFu(t Tile, simple int) int {
	if t.IsYaochu() {
		return simple * 2
	}
	return simple
}

// waitFu 取和了牌所有可能听牌形式中符数最高的一种
func waitFu(d Decomposition, picked Tile) int {
	best := 0
	for _, r := range d.Runs {
		if r.Suit != picked.Suit || !picked.IsNumbered() {
			continue
		}
		p := picked.Rank
		if (r.Rank == 7 && p == 7) || (r.Rank == 1 && p == 3) {
			best = max(best, 2) // 边张
		}
		if p == r.Rank+1 {
			best = max(best, 2) // 嵌张
		}
	}
	for _, t := range d.Pairs {
		if t == picked {
			best = max(best, 2) // 单骑
		}
	}
	// 两面与双碰不加符
	return best
}
