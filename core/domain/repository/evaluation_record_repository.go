package repository

import (
	"context"

	"github.com/mandel59/mahjong/core/domain/entity"
)

// EvaluationRecordRepository 判定历史仓储接口
type EvaluationRecordRepository interface {
	// Save 保存一条判定记录
	Save(ctx context.Context, record *entity.EvaluationRecord) error

	// FindByUser 按时间倒序分页查询用户记录, 同时返回总数
	FindByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.EvaluationRecord, int64, error)
}

// ResultCache 跨节点共享的判定结果缓存, 值为序列化后的结果
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
