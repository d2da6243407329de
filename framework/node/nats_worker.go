package node

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mandel59/mahjong/common/log"
)

// NatsWorker 从 readChan 取请求, 按 route 分发并回复
type NatsWorker struct {
	NatsCli  Client
	readChan chan *Request
	handlers LogicHandler
	sem      chan struct{}
	wg       sync.WaitGroup
	closeCh  chan struct{}
	once     sync.Once
}

func NewWorker(concurrency int) *NatsWorker {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &NatsWorker{
		readChan: make(chan *Request, 1024),
		handlers: make(LogicHandler),
		sem:      make(chan struct{}, concurrency),
		closeCh:  make(chan struct{}),
	}
}

func (worker *NatsWorker) Run(url, subject, queue string) error {
	cli := NewNatsClient(subject, queue, worker.readChan)
	if err := cli.Run(url); err != nil {
		return err
	}
	worker.NatsCli = cli
	worker.start()
	return nil
}

// start 读循环本身计入 wg, 保证 Close 等待期间计数不为零
func (worker *NatsWorker) start() {
	worker.wg.Add(1)
	go worker.readChanMessage()
}

func (worker *NatsWorker) readChanMessage() {
	defer worker.wg.Done()
	for {
		select {
		case req := <-worker.readChan:
			select {
			case worker.sem <- struct{}{}:
			case <-worker.closeCh:
				return
			}
			worker.wg.Add(1)
			go func() {
				defer func() {
					<-worker.sem
					worker.wg.Done()
				}()
				resp := worker.Dispatch(req.Data)
				if req.Respond == nil {
					return
				}
				if err := req.Respond(resp); err != nil {
					log.Error("nats 回复失败: %v", err)
				}
			}()
		case <-worker.closeCh:
			return
		}
	}
}

// Dispatch 解析信封并调用处理器, 总是返回可发送的回复
func (worker *NatsWorker) Dispatch(raw []byte) []byte {
	var message Message
	if err := json.Unmarshal(raw, &message); err != nil || message.Route == "" {
		return encodeReply(Reply{Code: -1, Msg: ErrInvalidMessage.Error()})
	}
	handler := worker.handlers[message.Route]
	if handler == nil {
		return encodeReply(Reply{Code: -1, Msg: fmt.Sprintf("%v: %s", ErrHandlerNotFound, message.Route)})
	}
	return encodeReply(worker.call(handler, message.Data))
}

func (worker *NatsWorker) call(handler LogicFunc, data []byte) (reply Reply) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("处理器 panic: %v", r)
			reply = Reply{Code: -1, Msg: fmt.Sprint(r)}
		}
	}()
	switch result := handler(data).(type) {
	case Reply:
		return result
	case error:
		return Reply{Code: -1, Msg: result.Error()}
	default:
		return Reply{Data: result}
	}
}

func encodeReply(reply Reply) []byte {
	data, err := json.Marshal(reply)
	if err != nil {
		data, _ = json.Marshal(Reply{Code: -1, Msg: err.Error()})
	}
	return data
}

func (worker *NatsWorker) RegisterHandlers(handlers LogicHandler) {
	for route, fn := range handlers {
		worker.handlers[route] = fn
	}
}

// Close 停止接收并等待处理中的请求
func (worker *NatsWorker) Close() {
	worker.once.Do(func() {
		if worker.NatsCli != nil {
			worker.NatsCli.Close()
		}
		close(worker.closeCh)
		worker.wg.Wait()
	})
}
