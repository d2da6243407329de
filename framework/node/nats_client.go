package node

import (
	"time"

	"github.com/mandel59/mahjong/common/log"
	"github.com/nats-io/nats.go"
)

type Client interface {
	Run(url string) error
	Close() error
}

// Request 收到的请求, Respond 为空表示不需要回复
type Request struct {
	Data    []byte
	Respond func([]byte) error
}

// NatsClient 订阅一个主题, 请求放入 readChan
type NatsClient struct {
	subject  string
	queue    string
	conn     *nats.Conn
	sub      *nats.Subscription
	readChan chan *Request
}

func NewNatsClient(subject, queue string, readChan chan *Request) *NatsClient {
	return &NatsClient{
		subject:  subject,
		queue:    queue,
		readChan: readChan,
	}
}

func (nc *NatsClient) IsConnected() bool {
	return nc.conn != nil && nc.conn.IsConnected()
}

func (nc *NatsClient) Run(url string) error {
	log.Info("nats 服务正在启动, url:%s", url)
	var err error
	nc.conn, err = nats.Connect(url,
		nats.Name(nc.queue),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats 连接断开: %v", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats 重新连接成功, url:%s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		log.Error("nats 连接错误,err:%v", err)
		return err
	}
	// 同一队列组内的节点分摊请求
	nc.sub, err = nc.conn.QueueSubscribe(nc.subject, nc.queue, func(msg *nats.Msg) {
		req := &Request{Data: msg.Data}
		if msg.Reply != "" {
			req.Respond = msg.Respond
		}
		nc.readChan <- req
	})
	if err != nil {
		log.Error("nats sub err:%v", err)
		nc.conn.Close()
		return err
	}
	log.Info("nats 服务启动成功, subject:%s", nc.subject)
	return nil
}

func (nc *NatsClient) Close() error {
	if nc.conn == nil {
		return nil
	}
	if nc.sub != nil {
		if err := nc.sub.Unsubscribe(); err != nil {
			log.Warn("nats 取消订阅失败: %v", err)
		}
	}
	if err := nc.conn.Drain(); err != nil {
		nc.conn.Close()
	}
	log.Info("NATS 连接已关闭")
	return nil
}
