package entity

import (
	"time"

	"github.com/mandel59/mahjong/framework/engines/mahjong"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EvaluationRecord 一次判定的历史记录
type EvaluationRecord struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	UserID      string             `bson:"user_id" json:"userID"`
	Hand        string             `bson:"hand" json:"hand"` // 规范化后的手牌码
	RoundWind   int                `bson:"round_wind" json:"roundWind"`
	SeatWind    int                `bson:"seat_wind" json:"seatWind"`
	Riichi      bool               `bson:"riichi" json:"riichi"`
	Tsumo       bool               `bson:"tsumo" json:"tsumo"`
	TileCount   int                `bson:"tile_count" json:"tileCount"`
	Hu          bool               `bson:"hu" json:"hu"`
	Yaku        []string           `bson:"yaku,omitempty" json:"yaku,omitempty"` // 役或役满的代码
	Fu          int                `bson:"fu" json:"fu"`
	Fan         int                `bson:"fan" json:"fan"`
	BasicPoints int                `bson:"basic_points" json:"basicPoints"`
	Limit       string             `bson:"limit,omitempty" json:"limit,omitempty"`
	Waits       []string           `bson:"waits,omitempty" json:"waits,omitempty"` // 如 "3z>1z", 13张时只有待牌
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// NewEvaluationRecord 从判定结果生成记录
func NewEvaluationRecord(userID, hand string, s mahjong.Situation, ev *mahjong.Evaluation) *EvaluationRecord {
	rec := &EvaluationRecord{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Hand:      hand,
		RoundWind: int(s.RoundWind),
		SeatWind:  int(s.SeatWind),
		Riichi:    s.Riichi,
		Tsumo:     s.Tsumo,
		TileCount: ev.TileCount,
		CreatedAt: time.Now(),
	}
	if hu := ev.Hu; hu != nil {
		rec.Hu = true
		for _, y := range hu.Yakuman {
			rec.Yaku = append(rec.Yaku, y.Yaku.Code())
		}
		for _, y := range hu.Yaku {
			rec.Yaku = append(rec.Yaku, y.Yaku.Code())
		}
		rec.Fu = hu.Fu
		rec.Fan = hu.Fan
		rec.BasicPoints = hu.BasicPoints
		rec.Limit = string(hu.Limit)
	}
	for _, w := range ev.Tingpai {
		code := w.Need.String()
		if w.Discard != nil {
			code = w.Discard.String() + ">" + code
		}
		rec.Waits = append(rec.Waits, code)
	}
	return rec
}
