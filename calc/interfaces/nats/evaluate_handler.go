package nats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mandel59/mahjong/calc/application/dto"
	"github.com/mandel59/mahjong/calc/application/service"
	"github.com/mandel59/mahjong/framework/node"
)

const (
	RouteEvaluate = "evaluate"
	RouteBatch    = "batch"
	RouteParse    = "parse"
)

const requestTimeout = 10 * time.Second

// EvaluateProvider 把判定服务暴露为 NATS 路由, 与 HTTP 使用相同的 DTO
type EvaluateProvider struct {
	svc *service.EvaluateService
}

func NewEvaluateProvider(svc *service.EvaluateService) *EvaluateProvider {
	return &EvaluateProvider{svc: svc}
}

func (p *EvaluateProvider) Handlers() node.LogicHandler {
	return node.LogicHandler{
		RouteEvaluate: p.evaluate,
		RouteBatch:    p.batch,
		RouteParse:    p.parse,
	}
}

// evaluateMessage NATS 调用方自带 userID
type evaluateMessage struct {
	UserID string `json:"userID"`
	dto.EvaluateRequest
}

type batchMessage struct {
	UserID string `json:"userID"`
	dto.BatchRequest
}

func (p *EvaluateProvider) evaluate(data []byte) any {
	var msg evaluateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return node.ErrInvalidMessage
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	resp, err := p.svc.Evaluate(ctx, msg.UserID, &msg.EvaluateRequest)
	if err != nil {
		return err
	}
	return resp
}

func (p *EvaluateProvider) batch(data []byte) any {
	var msg batchMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return node.ErrInvalidMessage
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	resp, err := p.svc.EvaluateBatch(ctx, msg.UserID, &msg.BatchRequest)
	if err != nil {
		return err
	}
	return resp
}

func (p *EvaluateProvider) parse(data []byte) any {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return node.ErrInvalidMessage
	}
	resp, err := p.svc.Parse(code)
	if err != nil {
		return err
	}
	return resp
}
