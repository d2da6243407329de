package node

import "encoding/json"

// LogicFunc 处理一条请求, 返回值序列化为 JSON 作为回复
type LogicFunc func(data []byte) any

type LogicHandler map[string]LogicFunc

// Message 请求信封, Route 选择处理器
type Message struct {
	Route string          `json:"route"`
	Data  json.RawMessage `json:"data"`
}

// Reply 回复信封
type Reply struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}
