package mahjong

import "errors"

var (
	ErrInvalidTile   = errors.New("非法的牌")
	ErrInvalidCall   = errors.New("非法的副露")
	ErrChowDiscarder = errors.New("吃只能来自上家")
	ErrCallDiscarder = errors.New("副露来源与打出的牌不一致")
	ErrTileCount     = errors.New("手牌数量必须为13或14")
	ErrPickedTile    = errors.New("和了牌与手牌数量不一致")
	ErrTooManyCopies = errors.New("同种牌超过4张")
	ErrBonusInHand   = errors.New("花牌只能以拔北形式副露")
	ErrUnknownYaku   = errors.New("未知的役")
	ErrInvalidWait   = errors.New("听牌与手牌不符")
)
