// recorder.go

package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
	"golang.org/x/sync/errgroup"
)

// ScoreRecorder 保存对局结果
type ScoreRecorder interface {
	RecordScore(ctx context.Context, rec models.ScoreRecord) error
}

// recordTimeout 单次上报的超时
const recordTimeout = 5 * time.Second

// ResultRecorder 异步把对局结果写入所有存储
type ResultRecorder struct {
	stores []ScoreRecorder
	logger *log.Logger
	wg     sync.WaitGroup
}

// NewResultRecorder 创建上报器，未启用的存储会被静默跳过
func NewResultRecorder(logger *log.Logger, stores ...ScoreRecorder) *ResultRecorder {
	return &ResultRecorder{stores: stores, logger: logger.WithPrefix("recorder")}
}

// Record 同时写入所有存储，返回第一个错误；某个存储失败不会取消其余写入
func (rr *ResultRecorder) Record(ctx context.Context, rec models.ScoreRecord) error {
	var g errgroup.Group
	for _, store := range rr.stores {
		g.Go(func() error {
			err := store.RecordScore(ctx, rec)
			if errors.Is(err, models.ErrStoreDisabled) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

// RecordAsync 后台写入，失败只记录日志
func (rr *ResultRecorder) RecordAsync(rec models.ScoreRecord) {
	rr.wg.Add(1)
	go func() {
		defer rr.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := rr.Record(ctx, rec); err != nil {
			rr.logger.Error("保存对局结果失败", "player", rec.PlayerName, "score", rec.Score, "err", err)
			return
		}
		rr.logger.Debug("对局结果已保存", "player", rec.PlayerName, "score", rec.Score)
	}()
}

// Wait 等待所有后台写入完成
func (rr *ResultRecorder) Wait() {
	rr.wg.Wait()
}
