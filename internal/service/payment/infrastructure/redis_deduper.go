package infrastructure

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const webhookDedupeKeyPrefix = "payment:webhook:"

// RedisWebhookDeduper 用带 TTL 的标记键给 webhook 投递去重，
// 实现了 port.DeliveryDeduper 接口。
// 网关按 at-least-once 投递，同一事件可能到达多次。
// 检查与标记是分开的两步：钩子全部成功后才落标记，
// 钩子失败时事件保持未处理，网关重投仍会触发钩子。
type RedisWebhookDeduper struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisWebhookDeduper 创建去重器。ttl 覆盖网关的最长重投窗口即可。
func NewRedisWebhookDeduper(rdb *redis.Client, ttl time.Duration) *RedisWebhookDeduper {
	return &RedisWebhookDeduper{rdb: rdb, ttl: ttl}
}

// Seen 返回该事件是否已经处理完成。
func (d *RedisWebhookDeduper) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := d.rdb.Exists(ctx, webhookDedupeKeyPrefix+eventID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MarkProcessed 在钩子成功后记录事件已处理。
func (d *RedisWebhookDeduper) MarkProcessed(ctx context.Context, eventID string) error {
	return d.rdb.Set(ctx, webhookDedupeKeyPrefix+eventID, 1, d.ttl).Err()
}
