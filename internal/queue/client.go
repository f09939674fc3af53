package queue

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/smarteats-next/internal/config"
	"github.com/smarteats-next/internal/constants"
	"github.com/smarteats-next/internal/logger"
)

// Client asynq 客户端封装。
// 队列未启用时所有入队调用都是空操作，业务流程不受影响。
type Client struct {
	inner   *asynq.Client
	enabled bool
}

// NewClient 创建队列客户端
func NewClient(cfg config.QueueConfig) *Client {
	if !cfg.Enabled {
		return &Client{}
	}
	return &Client{
		inner:   asynq.NewClient(BuildRedisOpt(cfg)),
		enabled: true,
	}
}

// Enabled 队列是否启用
func (c *Client) Enabled() bool {
	return c.enabled
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c.inner == nil {
		return nil
	}
	return c.inner.Close()
}

// EnqueueOrderStatusEmail 入队订单状态邮件任务
func (c *Client) EnqueueOrderStatusEmail(orderID uint, status string) error {
	if !c.enabled {
		return nil
	}
	task, err := NewOrderStatusEmailTask(orderID, status)
	if err != nil {
		return err
	}
	info, err := c.inner.Enqueue(task, asynq.Queue(constants.QueueDefault))
	if err != nil {
		return err
	}
	logger.Debugw("task_enqueued",
		"task", task.Type(),
		"task_id", info.ID,
		"order_id", orderID,
		"status", status,
	)
	return nil
}

// BuildServerConfig 构建 asynq 服务端配置
func BuildServerConfig(cfg config.QueueConfig) asynq.Config {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 10
	}
	queues := cfg.Queues
	if len(queues) == 0 {
		queues = map[string]int{constants.QueueDefault: 10}
	}
	return asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
		Logger:      asynqLogger{},
	}
}

// BuildRedisOpt 构建 asynq Redis 连接配置
func BuildRedisOpt(cfg config.QueueConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// asynqLogger 将 asynq 日志桥接到 zap
type asynqLogger struct{}

func (asynqLogger) Debug(args ...interface{}) { logger.S().Debug(args...) }
func (asynqLogger) Info(args ...interface{})  { logger.S().Info(args...) }
func (asynqLogger) Warn(args ...interface{})  { logger.S().Warn(args...) }
func (asynqLogger) Error(args ...interface{}) { logger.S().Error(args...) }
func (asynqLogger) Fatal(args ...interface{}) { logger.S().Fatal(args...) }
