package queue

import (
	"context"
	"sync"
	"sync/atomic"

	"ingredient-analyzer/internal/infrastructure/config"
	"ingredient-analyzer/internal/pkg/common"

	"go.uber.org/zap"
)

// Status 工作池狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Pool 批次分析用的有限工作池
type Pool struct {
	workers   int
	maxSize   int
	pending   int64
	processed int64
}

// NewPool 創建工作池
func NewPool(cfg config.QueueConfig) *Pool {
	return &Pool{
		workers: max(cfg.Workers, 1),
		maxSize: cfg.MaxSize,
	}
}

// Run 以最多 workers 個 goroutine 執行 fn(ctx, 0..n-1)，全部完成後返回
// ctx 取消後尚未開始的工作會被略過並回傳 ctx.Err()
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	if n <= 0 {
		return nil
	}
	if p.maxSize > 0 && n > p.maxSize {
		return common.ErrBatchTooLarge
	}

	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	atomic.AddInt64(&p.pending, int64(n))

	common.LogDebug("Batch enqueued",
		zap.Int("jobs", n),
		zap.Int64("queue_length", atomic.LoadInt64(&p.pending)),
	)

	var wg sync.WaitGroup
	for w := 0; w < min(p.workers, n); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() == nil {
					fn(ctx, i)
					atomic.AddInt64(&p.processed, 1)
				}
				atomic.AddInt64(&p.pending, -1)
			}
		}()
	}
	wg.Wait()

	return ctx.Err()
}

// GetQueueStatus 獲取工作池狀態
func (p *Pool) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    int(atomic.LoadInt64(&p.pending)),
		ProcessedCount: atomic.LoadInt64(&p.processed),
		MaxQueueSize:   p.maxSize,
		Workers:        p.workers,
	}
}
