package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mandel59/mahjong/calc/application/dto"
	"github.com/mandel59/mahjong/common/cache"
	"github.com/mandel59/mahjong/common/log"
	"github.com/mandel59/mahjong/core/domain/entity"
	"github.com/mandel59/mahjong/core/domain/repository"
	"github.com/mandel59/mahjong/framework/engines/mahjong"
	"github.com/mandel59/mahjong/framework/node"
	"github.com/mandel59/mahjong/framework/notation"
)

var (
	ErrEmptyBatch      = errors.New("批量请求为空")
	ErrBatchTooLarge   = errors.New("批量请求超过上限")
	ErrHistoryDisabled = errors.New("未启用历史记录")
)

const persistTimeout = 3 * time.Second

// EvaluateService 牌码解析 -> 缓存 -> 判定 -> 缓存 -> 记录
// local, shared, records 均可为 nil
type EvaluateService struct {
	local    *cache.GeneralCache
	shared   repository.ResultCache
	records  repository.EvaluationRecordRepository
	monitor  *node.LoadMonitor
	workers  int
	maxBatch int
}

type Option func(*EvaluateService)

func WithLocalCache(c *cache.GeneralCache) Option {
	return func(s *EvaluateService) { s.local = c }
}

func WithSharedCache(c repository.ResultCache) Option {
	return func(s *EvaluateService) { s.shared = c }
}

func WithRecords(r repository.EvaluationRecordRepository) Option {
	return func(s *EvaluateService) { s.records = r }
}

func WithMonitor(m *node.LoadMonitor) Option {
	return func(s *EvaluateService) { s.monitor = m }
}

// WithBatch 批量判定的并发数与单次上限
func WithBatch(workers, maxBatch int) Option {
	return func(s *EvaluateService) {
		if workers > 0 {
			s.workers = workers
		}
		if maxBatch > 0 {
			s.maxBatch = maxBatch
		}
	}
}

func NewEvaluateService(opts ...Option) *EvaluateService {
	s := &EvaluateService{
		monitor:  &node.LoadMonitor{},
		workers:  4,
		maxBatch: 64,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *EvaluateService) Monitor() *node.LoadMonitor {
	return s.monitor
}

// Evaluate 判定一手牌; userID 非空时写入历史
// 返回的错误均为输入错误, 缓存与存储的失败只记录日志
func (s *EvaluateService) Evaluate(ctx context.Context, userID string, req *dto.EvaluateRequest) (*dto.EvaluateResponse, error) {
	s.monitor.Begin()
	defer s.monitor.End()

	h, err := notation.ParseHand(req.Hand)
	if err != nil {
		return nil, err
	}
	situation, err := req.Situation()
	if err != nil {
		return nil, err
	}
	opts := req.Options()
	hand := notation.FormatHand(h)
	key := dto.CacheKey(hand, situation, opts)

	ev, cached := s.lookup(ctx, key)
	if ev == nil {
		if ev, err = mahjong.Evaluate(h, situation, opts); err != nil {
			return nil, err
		}
		s.store(ctx, key, ev)
	}

	resp := dto.NewEvaluateResponse(hand, situation, ev)
	resp.Cached = cached
	if userID != "" {
		s.persist(userID, hand, situation, ev)
	}
	return resp, nil
}

func (s *EvaluateService) lookup(ctx context.Context, key string) (*mahjong.Evaluation, bool) {
	if s.local != nil {
		if v, ok := s.local.Get(key); ok {
			if ev, ok := v.(*mahjong.Evaluation); ok {
				return ev, true
			}
		}
	}
	if s.shared == nil {
		return nil, false
	}
	data, err := s.shared.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			log.Debug("共享缓存不可用: %v", err)
		}
		return nil, false
	}
	var ev mahjong.Evaluation
	if err := json.Unmarshal(data, &ev); err != nil {
		log.Warn("共享缓存数据损坏 key=%s: %v", key, err)
		return nil, false
	}
	if s.local != nil {
		s.local.Set(key, &ev)
	}
	return &ev, true
}

func (s *EvaluateService) store(ctx context.Context, key string, ev *mahjong.Evaluation) {
	if s.local != nil {
		s.local.Set(key, ev)
	}
	if s.shared == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Warn("序列化判定结果失败: %v", err)
		return
	}
	_ = s.shared.Set(ctx, key, data)
}

// persist 不阻塞请求, 使用独立的超时上下文
func (s *EvaluateService) persist(userID, hand string, situation mahjong.Situation, ev *mahjong.Evaluation) {
	if s.records == nil {
		return
	}
	rec := entity.NewEvaluationRecord(userID, hand, situation, ev)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.records.Save(ctx, rec); err != nil {
			log.Error("保存判定记录失败 user=%s: %v", userID, err)
		}
	}()
}

// EvaluateBatch 以有限并发判定多手牌, 结果顺序与请求一致
func (s *EvaluateService) EvaluateBatch(ctx context.Context, userID string, req *dto.BatchRequest) (*dto.BatchResponse, error) {
	n := len(req.Items)
	if n == 0 {
		return nil, ErrEmptyBatch
	}
	if n > s.maxBatch {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, n, s.maxBatch)
	}

	items := make([]dto.BatchItem, n)
	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := min(s.workers, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				item := dto.BatchItem{Index: i}
				if err := ctx.Err(); err != nil {
					item.Error = err.Error()
				} else if resp, err := s.Evaluate(ctx, userID, &req.Items[i]); err != nil {
					item.Error = err.Error()
				} else {
					item.Result = resp
				}
				items[i] = item
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	log.Debug("批量判定完成, 数量: %d", n)
	return &dto.BatchResponse{Items: items}, nil
}

// Parse 只解析牌码, 不做判定
func (s *EvaluateService) Parse(code string) (*dto.ParseResponse, error) {
	h, err := notation.ParseHand(code)
	if err != nil {
		return nil, err
	}
	return dto.NewParseResponse(h), nil
}

// History 按页查询用户的判定记录, page 从 1 开始
func (s *EvaluateService) History(ctx context.Context, userID string, q dto.HistoryQuery) ([]*entity.EvaluationRecord, int64, error) {
	if s.records == nil {
		return nil, 0, ErrHistoryDisabled
	}
	q.Normalize()
	return s.records.FindByUser(ctx, userID, q.Size, (q.Page-1)*q.Size)
}
