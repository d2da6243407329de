package persistence

import (
	"context"
	"fmt"

	"github.com/mandel59/mahjong/common/database"
	"github.com/mandel59/mahjong/common/log"
	"github.com/mandel59/mahjong/core/domain/entity"
	"github.com/mandel59/mahjong/core/domain/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const evaluationCollection = "evaluation_records"

type EvaluationRecordRepository struct {
	mongo *database.MongoManager
}

func NewEvaluationRecordRepository(mongo *database.MongoManager) repository.EvaluationRecordRepository {
	return &EvaluationRecordRepository{mongo: mongo}
}

func (r *EvaluationRecordRepository) collection() *mongo.Collection {
	return r.mongo.Db.Collection(evaluationCollection)
}

// EnsureIndexes 按用户与时间查询的索引
func (r *EvaluationRecordRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		log.Error("创建索引失败: %v", err)
		return fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	return nil
}

// Save 保存判定记录
func (r *EvaluationRecordRepository) Save(ctx context.Context, record *entity.EvaluationRecord) error {
	if _, err := r.collection().InsertOne(ctx, record); err != nil {
		log.Error("保存判定记录失败: %v", err)
		return fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	return nil
}

// FindByUser 查找用户的判定记录（分页）
func (r *EvaluationRecordRepository) FindByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.EvaluationRecord, int64, error) {
	filter := bson.M{"user_id": userID}
	total, err := r.collection().CountDocuments(ctx, filter)
	if err != nil {
		log.Error("统计判定记录失败: %v", err)
		return nil, 0, fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		log.Error("查询判定记录失败: %v", err)
		return nil, 0, fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	defer cursor.Close(ctx)

	records := make([]*entity.EvaluationRecord, 0, limit)
	if err := cursor.All(ctx, &records); err != nil {
		log.Error("解析判定记录失败: %v", err)
		return nil, 0, fmt.Errorf("%w: %v", repository.ErrMongodb, err)
	}
	return records, total, nil
}
