package api

import (
	"errors"

	"github.com/mandel59/mahjong/calc/application/dto"
	"github.com/mandel59/mahjong/calc/application/service"
	"github.com/mandel59/mahjong/common/http"
	"github.com/mandel59/mahjong/common/log"
)

// Handler 判定相关接口
type Handler struct {
	svc      *service.EvaluateService
	nodeID   string
	backends map[string]bool
}

func NewHandler(svc *service.EvaluateService, nodeID string, backends map[string]bool) *Handler {
	return &Handler{svc: svc, nodeID: nodeID, backends: backends}
}

// EvaluateHandler 判定一手牌, 带 token 时记录历史
func (h *Handler) EvaluateHandler(c *http.Context) error {
	var req dto.EvaluateRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("请求参数错误")
		return nil
	}
	resp, err := h.svc.Evaluate(c.RequestContext(), c.GetString(http.KeyUserID), &req)
	if err != nil {
		c.BadRequest(err.Error())
		return nil
	}
	c.Success(resp)
	return nil
}

// EvaluateBatchHandler 批量判定, 单项错误写在对应结果里
func (h *Handler) EvaluateBatchHandler(c *http.Context) error {
	var req dto.BatchRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("请求参数错误")
		return nil
	}
	resp, err := h.svc.EvaluateBatch(c.RequestContext(), c.GetString(http.KeyUserID), &req)
	if err != nil {
		c.BadRequest(err.Error())
		return nil
	}
	c.Success(resp)
	return nil
}

// ParseHandler 解析牌码 ?code=
func (h *Handler) ParseHandler(c *http.Context) error {
	code := c.GetQuery("code")
	if code == "" {
		c.BadRequest("缺少牌码")
		return nil
	}
	resp, err := h.svc.Parse(code)
	if err != nil {
		c.BadRequest(err.Error())
		return nil
	}
	c.Success(resp)
	return nil
}

// HistoryHandler 当前用户的判定历史
func (h *Handler) HistoryHandler(c *http.Context) error {
	userID := c.GetString(http.KeyUserID)
	if userID == "" {
		c.Unauthorized("用户未认证")
		return nil
	}
	var q dto.HistoryQuery
	if err := c.BindQuery(&q); err != nil {
		c.BadRequest("请求参数错误")
		return nil
	}
	q.Normalize()
	list, total, err := h.svc.History(c.RequestContext(), userID, q)
	if errors.Is(err, service.ErrHistoryDisabled) {
		c.ServiceUnavailable("未启用历史记录")
		return nil
	}
	if err != nil {
		log.Error("查询判定历史失败 user=%s: %v", userID, err)
		c.InternalServerError("查询历史失败")
		return nil
	}
	c.SuccessWithPage(list, total, q.Page, q.Size)
	return nil
}
