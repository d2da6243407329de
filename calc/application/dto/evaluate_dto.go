package dto

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mandel59/mahjong/framework/engines/mahjong"
	"github.com/mandel59/mahjong/framework/notation"
)

var ErrInvalidWind = errors.New("风位必须是 0-3")

// EvaluateRequest 判定请求, HTTP 与 NATS 共用
type EvaluateRequest struct {
	Hand           string   `json:"hand"`
	RoundWind      int      `json:"roundWind"` // 0 东 1 南 2 西 3 北
	SeatWind       int      `json:"seatWind"`
	Riichi         bool     `json:"riichi"`
	Tsumo          bool     `json:"tsumo"`
	Dora           []string `json:"dora,omitempty"`           // 宝牌本身
	DoraIndicators []string `json:"doraIndicators,omitempty"` // 指示牌, 换算后并入 Dora
	UraDora        []string `json:"uraDora,omitempty"`
	UraIndicators  []string `json:"uraIndicators,omitempty"`
	Hu             *bool    `json:"hu,omitempty"` // 缺省为 true
	Tingpai        *bool    `json:"tingpai,omitempty"`
}

// Situation 转为引擎场况
func (r *EvaluateRequest) Situation() (mahjong.Situation, error) {
	s := mahjong.Situation{Riichi: r.Riichi, Tsumo: r.Tsumo}
	var err error
	if s.RoundWind, err = parseWind(r.RoundWind); err != nil {
		return s, err
	}
	if s.SeatWind, err = parseWind(r.SeatWind); err != nil {
		return s, err
	}
	if s.Dora, err = parseDora(r.Dora, r.DoraIndicators); err != nil {
		return s, err
	}
	if s.UraDora, err = parseDora(r.UraDora, r.UraIndicators); err != nil {
		return s, err
	}
	return s, nil
}

func (r *EvaluateRequest) Options() mahjong.Options {
	opts := mahjong.DefaultOptions
	if r.Hu != nil {
		opts.Hu = *r.Hu
	}
	if r.Tingpai != nil {
		opts.Tingpai = *r.Tingpai
	}
	return opts
}

func parseWind(w int) (mahjong.Wind, error) {
	if w < 0 || w > 3 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidWind, w)
	}
	return mahjong.Wind(w), nil
}

func parseDora(dora, indicators []string) ([]mahjong.Tile, error) {
	var out []mahjong.Tile
	for _, code := range dora {
		ts, err := notation.ParseTiles(code)
		if err != nil {
			return nil, err
		}
		out = append(out, ts...)
	}
	for _, code := range indicators {
		ts, err := notation.ParseTiles(code)
		if err != nil {
			return nil, err
		}
		for _, t := range ts {
			out = append(out, mahjong.DoraFromIndicator(t))
		}
	}
	return out, nil
}

// CacheKey 规范化手牌码 + 场况 + 选项, 同一手牌不同书写共享缓存
func CacheKey(hand string, s mahjong.Situation, opts mahjong.Options) string {
	var b strings.Builder
	b.WriteString(hand)
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(int(s.RoundWind)))
	b.WriteString(strconv.Itoa(int(s.SeatWind)))
	for _, f := range []bool{s.Riichi, s.Tsumo, opts.Hu, opts.Tingpai} {
		if f {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	b.WriteByte('|')
	b.WriteString(notation.FormatTiles(s.Dora))
	b.WriteByte('|')
	if s.Riichi {
		b.WriteString(notation.FormatTiles(s.UraDora))
	}
	return b.String()
}

// EvaluateResponse 判定结果的对外视图
type EvaluateResponse struct {
	Hand      string       `json:"hand"` // 规范化后的手牌码
	TileCount int          `json:"tileCount"`
	Hu        *HuResult    `json:"hu,omitempty"`
	Tingpai   []WaitResult `json:"tingpai,omitempty"`
	Cached    bool         `json:"cached"`
}

type YakuResult struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Fan        int    `json:"fan,omitempty"`
	Multiplier int    `json:"multiplier,omitempty"`
}

type HuResult struct {
	Valid         bool            `json:"valid"` // false 表示无役
	Decomposition string          `json:"decomposition"`
	Yakuman       []YakuResult    `json:"yakuman,omitempty"`
	Yaku          []YakuResult    `json:"yaku,omitempty"`
	YakuFan       int             `json:"yakuFan"`
	Dora          int             `json:"dora"`
	AkaDora       int             `json:"akaDora"`
	NukiDora      int             `json:"nukiDora"`
	UraDora       int             `json:"uraDora"`
	Fu            int             `json:"fu"`
	Fan           int             `json:"fan"`
	BasicPoints   int             `json:"basicPoints"`
	Limit         string          `json:"limit,omitempty"`
	Payment       mahjong.Payment `json:"payment"`
}

type WaitResult struct {
	Discard     string `json:"discard,omitempty"` // 13张时为空
	Need        string `json:"need"`
	BasicPoints int    `json:"basicPoints"`
}

// NewEvaluateResponse dealer 由自风是否为东决定
func NewEvaluateResponse(hand string, s mahjong.Situation, ev *mahjong.Evaluation) *EvaluateResponse {
	resp := &EvaluateResponse{Hand: hand, TileCount: ev.TileCount}
	if hu := ev.Hu; hu != nil {
		r := &HuResult{
			Valid:         hu.Valid(),
			Decomposition: FormatDecomposition(hu.Decomposition),
			YakuFan:       hu.YakuFan,
			Dora:          hu.Dora,
			AkaDora:       hu.AkaDora,
			NukiDora:      hu.NukiDora,
			UraDora:       hu.UraDora,
			Fu:            hu.Fu,
			Fan:           hu.Fan,
			BasicPoints:   hu.BasicPoints,
			Limit:         string(hu.Limit),
			Payment:       mahjong.Payments(hu.BasicPoints, s.SeatWind == mahjong.WindEast, s.Tsumo),
		}
		for _, y := range hu.Yakuman {
			r.Yakuman = append(r.Yakuman, YakuResult{Code: y.Yaku.Code(), Name: y.Yaku.String(), Multiplier: y.Multiplier})
		}
		for _, y := range hu.Yaku {
			r.Yaku = append(r.Yaku, YakuResult{Code: y.Yaku.Code(), Name: y.Yaku.String(), Fan: y.Fan})
		}
		resp.Hu = r
	}
	if ev.Tingpai != nil {
		resp.Tingpai = make([]WaitResult, 0, len(ev.Tingpai))
		for _, w := range ev.Tingpai {
			wr := WaitResult{Need: w.Need.String(), BasicPoints: w.BasicPoints}
			if w.Discard != nil {
				wr.Discard = w.Discard.String()
			}
			resp.Tingpai = append(resp.Tingpai, wr)
		}
	}
	return resp
}

// FormatDecomposition 按面子输出, 如 "123m 555z 11p"
func FormatDecomposition(d mahjong.Decomposition) string {
	if d.Kind == mahjong.KindThirteenOrphans {
		return notation.FormatTiles(d.Expand())
	}
	var parts []string
	group := func(t mahjong.Tile, offsets ...int) {
		var tiles []mahjong.Tile
		for _, k := range offsets {
			if k == 0 {
				tiles = append(tiles, t)
				continue
			}
			n, _ := t.Offset(k)
			tiles = append(tiles, n)
		}
		parts = append(parts, notation.FormatTiles(tiles))
	}
	for _, t := range d.Runs {
		group(t, 0, 1, 2)
	}
	for _, t := range d.Triplets {
		group(t, 0, 0, 0)
	}
	for _, t := range d.Pairs {
		group(t, 0, 0)
	}
	for _, t := range d.Dazi {
		group(t, 0, 1)
	}
	for _, t := range d.Qiandazi {
		group(t, 0, 2)
	}
	for _, t := range d.Singles {
		group(t, 0)
	}
	return strings.Join(parts, " ")
}

// BatchRequest 批量判定
type BatchRequest struct {
	Items []EvaluateRequest `json:"items"`
}

// BatchItem 单项失败不影响其他项
type BatchItem struct {
	Index  int               `json:"index"`
	Result *EvaluateResponse `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

type BatchResponse struct {
	Items []BatchItem `json:"items"`
}

// ParseResponse 牌码解析结果
type ParseResponse struct {
	Hand      string   `json:"hand"`
	Tiles     []string `json:"tiles"`
	Calls     []string `json:"calls,omitempty"`
	Picked    string   `json:"picked,omitempty"`
	TileCount int      `json:"tileCount"`
	Closed    bool     `json:"closed"`
}

func NewParseResponse(h mahjong.Hand) *ParseResponse {
	resp := &ParseResponse{
		Hand:      notation.FormatHand(h),
		Tiles:     make([]string, 0, len(h.Tiles)),
		TileCount: h.CountTiles(),
		Closed:    h.IsClosed(),
	}
	for _, t := range h.Tiles {
		resp.Tiles = append(resp.Tiles, t.String())
	}
	for _, c := range h.Calls {
		resp.Calls = append(resp.Calls, notation.FormatCall(c))
	}
	if h.Picked != nil {
		resp.Picked = h.Picked.String()
	}
	return resp
}

// HistoryQuery 分页参数
type HistoryQuery struct {
	Page int `form:"page"`
	Size int `form:"size"`
}

func (q *HistoryQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 || q.Size > 100 {
		q.Size = 20
	}
}
