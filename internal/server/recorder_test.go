package server

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jacl-coder/MonsterHunter-Server/internal/models"
)

// stubScoreStore 可配置延迟和错误的存储
type stubScoreStore struct {
	delay time.Duration
	err   error

	mu      sync.Mutex
	records []models.ScoreRecord
	ctxErr  error
}

func (s *stubScoreStore) RecordScore(ctx context.Context, rec models.ScoreRecord) error {
	time.Sleep(s.delay)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctxErr = ctx.Err()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *stubScoreStore) saved() ([]models.ScoreRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records, s.ctxErr
}

func TestRecordFailureDoesNotCancelOtherStores(t *testing.T) {
	failing := &stubScoreStore{err: errors.New("连接断开")}
	slow := &stubScoreStore{delay: 50 * time.Millisecond}
	rr := NewResultRecorder(log.New(io.Discard), failing, slow)

	rec := models.ScoreRecord{PlayerName: "alice", Score: 300}
	if err := rr.Record(context.Background(), rec); err == nil || err.Error() != "连接断开" {
		t.Fatalf("err = %v", err)
	}

	records, ctxErr := slow.saved()
	if ctxErr != nil {
		t.Fatalf("慢存储的 context 被取消: %v", ctxErr)
	}
	if len(records) != 1 || records[0] != rec {
		t.Fatalf("慢存储记录 = %+v", records)
	}
}

func TestRecordSkipsDisabledStores(t *testing.T) {
	disabled := &stubScoreStore{err: models.ErrStoreDisabled}
	ok := &stubScoreStore{}
	rr := NewResultRecorder(log.New(io.Discard), disabled, ok)

	rr.RecordAsync(models.ScoreRecord{PlayerName: "bob", Score: 100})
	rr.Wait()

	if records, _ := ok.saved(); len(records) != 1 {
		t.Fatalf("记录数 = %d", len(records))
	}
	if err := rr.Record(context.Background(), models.ScoreRecord{}); err != nil {
		t.Fatalf("未启用的存储不应报错: %v", err)
	}
}
