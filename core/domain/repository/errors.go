package repository

import "errors"

var (
	ErrCacheMiss      = errors.New("cache miss")
	ErrRecordNotFound = errors.New("evaluation record not found")
	ErrMongodb        = errors.New("mongodb error")
	ErrRedis          = errors.New("redis error")
)
