// Package holiday 提供日本节假日数据的获取与缓存
//
// 数据源为 holidays-jp 公共API，返回 {"YYYY-MM-DD": "节假日名称"} 形式的
// 单个JSON对象。数据按进程缓存，首次访问时拉取一次。
package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jianzhi/jianzhi/internal/metrics"
	"github.com/jianzhi/jianzhi/pkg/logger"
	"github.com/jianzhi/jianzhi/pkg/model"
)

// DefaultURL 默认节假日API地址
const DefaultURL = "https://holidays-jp.github.io/api/v1/date.json"

// Client 节假日查询客户端
type Client struct {
	url    string
	client *http.Client

	mu    sync.RWMutex
	cache map[string]string // 日期 → 节假日名称
	once  sync.Once
}

// NewClient 创建节假日查询客户端
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
		cache:  make(map[string]string),
	}
}

// Refresh 拉取节假日数据并更新缓存
func (c *Client) Refresh(ctx context.Context) (err error) {
	defer func() { metrics.RecordHolidayFetch(err == nil) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("构造节假日请求失败: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("获取节假日数据失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("节假日API返回异常状态码: %d", resp.StatusCode)
	}

	var holidays map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&holidays); err != nil {
		return fmt.Errorf("解析节假日数据失败: %w", err)
	}

	c.mu.Lock()
	for date, name := range holidays {
		c.cache[date] = name
	}
	c.mu.Unlock()

	logger.Info().Int("count", len(holidays)).Msg("节假日数据缓存完成")
	return nil
}

// ensure 确保缓存至少初始化过一次，拉取失败只记录日志
func (c *Client) ensure(ctx context.Context) {
	c.once.Do(func() {
		if err := c.Refresh(ctx); err != nil {
			logger.Warn().Err(err).Msg("节假日数据初始化失败，按无节假日处理")
		}
	})
}

// Name 返回某日期的节假日名称
func (c *Client) Name(ctx context.Context, date string) (string, bool) {
	c.ensure(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.cache[date]
	return name, ok
}

// IsHoliday 检查某日期是否为节假日
func (c *Client) IsHoliday(ctx context.Context, date time.Time) bool {
	_, ok := c.Name(ctx, date.Format(model.DateLayout))
	return ok
}

// Year 返回某年份的全部节假日（日期 → 名称）
func (c *Client) Year(ctx context.Context, year int) map[string]string {
	c.ensure(ctx)
	prefix := fmt.Sprintf("%04d-", year)
	out := make(map[string]string)

	c.mu.RLock()
	defer c.mu.RUnlock()
	for date, name := range c.cache {
		if len(date) >= 5 && date[:5] == prefix {
			out[date] = name
		}
	}
	return out
}
