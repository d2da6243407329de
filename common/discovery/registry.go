package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mandel59/mahjong/common/config"
	"github.com/mandel59/mahjong/common/log"
	clientv3 "go.etcd.io/etcd/client/v3"
)

/*
etcd 注册器
	1.calc 节点注册到 etcd, 网关按负载选择节点
	2.租约断开后自动重新注册
*/

type Registry struct {
	etcdCli     *clientv3.Client
	leaseID     clientv3.LeaseID
	DialTimeout int
	keepAliveCh <-chan *clientv3.LeaseKeepAliveResponse
	info        Server
	closeCh     chan struct{}
	doneCh      chan struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		DialTimeout: 3,
	}
}

func newServer(conf config.EtcdConf, nodeID string) (Server, error) {
	if nodeID == "" {
		return Server{}, fmt.Errorf("nodeID 不能为空")
	}
	if conf.Register.Addr == "" {
		return Server{}, fmt.Errorf("注册地址不能为空")
	}
	ttl := conf.Register.Ttl
	if ttl < 2 {
		ttl = 2
	}
	return Server{
		Name:    conf.Register.Name,
		Addr:    conf.Register.Addr,
		Weight:  conf.Register.Weight,
		Version: conf.Register.Version,
		Ttl:     ttl,
		NodeID:  nodeID,
	}, nil
}

func (r *Registry) Register(conf config.EtcdConf, nodeID string) error {
	info, err := newServer(conf, nodeID)
	if err != nil {
		return err
	}
	r.info = info
	if conf.DialTimeout > 0 {
		r.DialTimeout = conf.DialTimeout
	}

	r.etcdCli, err = clientv3.New(clientv3.Config{
		Endpoints:   conf.Addrs,
		DialTimeout: time.Duration(r.DialTimeout) * time.Second,
	})
	if err != nil {
		return err
	}

	if err = r.doRegister(); err != nil {
		_ = r.etcdCli.Close()
		return err
	}

	r.closeCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	go r.watch()
	return nil
}

func (r *Registry) doRegister() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.DialTimeout)*time.Second)
	defer cancel()

	lease, err := r.etcdCli.Grant(ctx, int64(r.info.Ttl))
	if err != nil {
		return err
	}
	r.leaseID = lease.ID

	data, _ := json.Marshal(r.info)
	if _, err = r.etcdCli.Put(ctx, r.info.buildKey(), string(data), clientv3.WithLease(r.leaseID)); err != nil {
		log.Error("租约绑定失败: %v", err)
		return err
	}
	log.Info("etcd 注册信息: %s", r.info.buildKey())

	// keepAlive 需要长期运行, 不使用带超时的 ctx
	r.keepAliveCh, err = r.etcdCli.KeepAlive(context.Background(), r.leaseID)
	if err != nil {
		log.Error("租约续期失败: %v", err)
		return err
	}
	return nil
}

func (r *Registry) watch() {
	defer close(r.doneCh)
	// 定时器作为兜底检查
	ticker := time.NewTicker(time.Duration(r.info.Ttl/2) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case res, ok := <-r.keepAliveCh:
			if !ok || res == nil {
				log.Warn("keepAlive 连接断开，重新注册服务")
				r.keepAliveCh = nil
				if err := r.doRegister(); err != nil {
					log.Error("重新注册失败: %v", err)
				} else {
					log.Info("重新注册成功")
				}
			}
		case <-ticker.C:
			if r.keepAliveCh == nil {
				log.Warn("定时器检测到 keepAlive 连接断开，重新注册服务")
				if err := r.doRegister(); err != nil {
					log.Error("定时器重新注册失败: %v", err)
				}
			}
		case <-r.closeCh:
			r.unregister()
			log.Info("关闭租约续期")
			return
		}
	}
}

func (r *Registry) unregister() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.DialTimeout)*time.Second)
	defer cancel()

	if _, err := r.etcdCli.Delete(ctx, r.info.buildKey()); err != nil {
		log.Error("注销服务失败: %v", err)
	}
	if _, err := r.etcdCli.Revoke(ctx, r.leaseID); err != nil {
		log.Error("撤销租约失败: %v", err)
	}
}

// UpdateLoad 更新负载评分, 沿用现有租约
func (r *Registry) UpdateLoad(load float64) error {
	r.info.Load = load
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.DialTimeout)*time.Second)
	defer cancel()

	data, err := json.Marshal(r.info)
	if err != nil {
		return err
	}
	if _, err = r.etcdCli.Put(ctx, r.info.buildKey(), string(data), clientv3.WithLease(r.leaseID)); err != nil {
		log.Error("更新负载信息失败: %v", err)
		return err
	}
	return nil
}

func (r *Registry) Close() {
	if r.closeCh == nil {
		return
	}
	close(r.closeCh)
	<-r.doneCh
	_ = r.etcdCli.Close()
}
