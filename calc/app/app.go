package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mandel59/mahjong/calc/api"
	"github.com/mandel59/mahjong/calc/application/service"
	natsapi "github.com/mandel59/mahjong/calc/interfaces/nats"
	"github.com/mandel59/mahjong/common/config"
	"github.com/mandel59/mahjong/common/discovery"
	"github.com/mandel59/mahjong/common/http"
	"github.com/mandel59/mahjong/common/log"
	"github.com/mandel59/mahjong/core/container"
	"github.com/mandel59/mahjong/framework/node"
)

const loadReportInterval = 10 * time.Second

// NewService 按容器中启用的后端组装判定服务
func NewService(conf *config.Config, c *container.CalcContainer) *service.EvaluateService {
	opts := []service.Option{
		service.WithBatch(conf.EvaluateConf.Workers, conf.EvaluateConf.MaxBatch),
		service.WithRecords(c.GetRecordRepository()),
		service.WithSharedCache(c.GetResultCache()),
	}
	if local := c.GetLocalCache(); local != nil {
		opts = append(opts, service.WithLocalCache(local))
	}
	return service.NewEvaluateService(opts...)
}

func Run(ctx context.Context) error {
	conf := config.Conf
	nodeID := fmt.Sprintf("%s-%s", conf.AppName, uuid.NewString()[:8])

	calcContainer, err := container.NewCalcContainer(conf)
	if err != nil {
		return fmt.Errorf("calc 容器初始化失败: %w", err)
	}
	defer calcContainer.Close()

	svc := NewService(conf, calcContainer)

	// 使用 common 封装的 gin 库 http-server
	server := http.NewHttpServer(
		http.WithPort(conf.HttpPort),
		http.WithMode(ginMode(conf.Log.Level)),
	)
	api.RegisterRoutes(server, api.NewHandler(svc, nodeID, calcContainer.Backends()), conf.JwtConf.Secret)

	go func() {
		log.Info("启动 HTTP 服务器, 端口: %d", conf.HttpPort)
		if err := server.Start(); err != nil {
			log.Fatal("HTTP 服务器启动失败: %v", err)
		}
	}()

	var worker *node.NatsWorker
	if conf.NatsEnabled() {
		worker = node.NewWorker(conf.EvaluateConf.Workers)
		worker.RegisterHandlers(natsapi.NewEvaluateProvider(svc).Handlers())
		if err := worker.Run(conf.NatsConf.URL, conf.NatsConf.Subject, conf.AppName); err != nil {
			log.Error("nats worker 启动失败: %v", err)
			worker = nil
		} else {
			log.Info("nats worker 已启动, subject: %s", conf.NatsConf.Subject)
		}
	}

	var registry *discovery.Registry
	reportCtx, stopReport := context.WithCancel(context.Background())
	if conf.EtcdEnabled() {
		registry = discovery.NewRegistry()
		if err := registry.Register(conf.EtcdConf, nodeID); err != nil {
			log.Error("etcd 注册失败: %v", err)
			registry = nil
		} else {
			go reportLoad(reportCtx, registry, svc.Monitor())
		}
	}

	config.OnChange(func(next *config.Config) {
		log.SetLevel(next.Log.Level)
		log.Info("配置已更新, 日志级别: %s", next.Log.Level)
	})

	stop := func() {
		log.Info("正在关闭 calc 服务...")
		stopReport()
		if registry != nil {
			registry.Close()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP 服务器关闭失败: %v", err)
		} else {
			log.Info("HTTP 服务器已优雅关闭")
		}
		if worker != nil {
			worker.Close()
		}
		log.Info("calc 服务已关闭")
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGHUP)
	for {
		select {
		case <-ctx.Done():
			stop()
			return nil
		case s := <-c:
			switch s {
			case syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT:
				stop()
				log.Info("收到中断信号, 服务停止")
				return nil
			case syscall.SIGHUP:
				stop()
				log.Info("收到挂起信号, 服务停止")
				return nil
			default:
				return nil
			}
		}
	}
}

// ginMode debug 日志级别时打开 gin 的调试输出
func ginMode(level string) string {
	if level == "debug" {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

// reportLoad 定期把负载评分写回 etcd
func reportLoad(ctx context.Context, registry *discovery.Registry, monitor *node.LoadMonitor) {
	ticker := time.NewTicker(loadReportInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info := monitor.Collect(ctx)
			if err := registry.UpdateLoad(info.CalculateLoad()); err != nil {
				log.Warn("上报负载失败: %v", err)
			}
		}
	}
}
