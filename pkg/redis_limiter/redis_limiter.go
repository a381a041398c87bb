package redis_limiter

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// ErrLimitReached 用户的上传槽位已用完
var ErrLimitReached = errors.New("upload slots exhausted")

// 计数未达上限时加一并刷新过期时间，否则返回上限+1表示失败
var acquireScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[1]) then
	return current + 1
end
local count = redis.call('INCR', KEYS[1])
redis.call('EXPIRE', KEYS[1], tonumber(ARGV[2]))
return count`)

// 计数减一，归零后删除key
var releaseScript = redis.NewScript(`
local count = redis.call('DECR', KEYS[1])
if tonumber(count) <= 0 then
	redis.call('DEL', KEYS[1])
	return 0
end
redis.call('EXPIRE', KEYS[1], tonumber(ARGV[1]))
return count`)

// RedisLimiter 基于Redis的按用户并发上传限制器，多个实例共享计数
type RedisLimiter struct {
	client     *redis.Client
	maxPerUser int
	keyPrefix  string
	ttl        time.Duration
	logger     *logrus.Logger
}

// NewRedisLimiter 创建上传限制器，ttl 防止进程崩溃后槽位永久占用
func NewRedisLimiter(client *redis.Client, maxPerUser int, keyPrefix string, ttl time.Duration, logger *logrus.Logger) *RedisLimiter {
	if logger == nil {
		logger = logrus.New()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisLimiter{
		client:     client,
		maxPerUser: maxPerUser,
		keyPrefix:  keyPrefix,
		ttl:        ttl,
		logger:     logger,
	}
}

func (rl *RedisLimiter) key(userID uint) string {
	return rl.keyPrefix + strconv.FormatUint(uint64(userID), 10)
}

// Acquire 为用户占用一个上传槽位
func (rl *RedisLimiter) Acquire(ctx context.Context, userID uint) error {
	result, err := acquireScript.Run(ctx, rl.client, []string{rl.key(userID)}, rl.maxPerUser, int(rl.ttl.Seconds())).Int()
	if err != nil {
		return fmt.Errorf("执行Lua脚本失败: %w", err)
	}

	if result > rl.maxPerUser {
		rl.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"max":     rl.maxPerUser,
		}).Warn("上传槽位已满")
		return ErrLimitReached
	}

	rl.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"in_use":  result,
	}).Debug("获取上传槽位")
	return nil
}

// Release 释放用户的上传槽位
func (rl *RedisLimiter) Release(ctx context.Context, userID uint) {
	remaining, err := releaseScript.Run(ctx, rl.client, []string{rl.key(userID)}, int(rl.ttl.Seconds())).Int()
	if err != nil {
		rl.logger.WithError(err).WithField("user_id", userID).Error("释放上传槽位失败")
		return
	}
	rl.logger.WithFields(logrus.Fields{
		"user_id":   userID,
		"remaining": remaining,
	}).Debug("释放上传槽位")
}

// InUse 获取用户当前占用的槽位数
func (rl *RedisLimiter) InUse(ctx context.Context, userID uint) (int, error) {
	current, err := rl.client.Get(ctx, rl.key(userID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("获取当前上传数失败: %w", err)
	}
	return current, nil
}

// MaxPerUser 获取每个用户的槽位上限
func (rl *RedisLimiter) MaxPerUser() int {
	return rl.maxPerUser
}
