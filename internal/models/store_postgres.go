// store_postgres.go

package models

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PostgresStore 用户、反馈与得分记录的持久化
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore 创建存储，db 为 nil 时所有操作返回 ErrStoreDisabled
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Enabled 是否连接了数据库
func (s *PostgresStore) Enabled() bool {
	return s != nil && s.db != nil
}

// SaveUser 保存登录用户，已存在时刷新最近登录时间
func (s *PostgresStore) SaveUser(ctx context.Context, name, game string) (*User, error) {
	if !s.Enabled() {
		return nil, ErrStoreDisabled
	}

	u := &User{Name: name, Game: game}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, game) VALUES ($1, $2)
		ON CONFLICT (name, game) DO UPDATE SET last_seen = NOW()
		RETURNING id, created_at, last_seen`,
		name, game,
	).Scan(&u.ID, &u.CreatedAt, &u.LastSeen)
	if err != nil {
		return nil, fmt.Errorf("保存用户失败: %w", err)
	}
	return u, nil
}

// SaveFeedback 保存反馈问卷
func (s *PostgresStore) SaveFeedback(ctx context.Context, fb *Feedback) error {
	if !s.Enabled() {
		return ErrStoreDisabled
	}
	if fb.ID == "" {
		fb.ID = uuid.NewString()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO feedback_submissions
			(id, hero, villain, gameplay, setting, math_topic, contact_info, user_name, game, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		fb.ID, fb.Hero, fb.Villain, fb.Gameplay, fb.Setting, fb.MathTopic,
		fb.ContactInfo, fb.User, fb.Game, fb.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("保存反馈失败: %w", err)
	}
	return nil
}

// LatestFeedback 最近的 limit 条反馈，按时间倒序
func (s *PostgresStore) LatestFeedback(ctx context.Context, game string, limit int) ([]Feedback, error) {
	if !s.Enabled() {
		return nil, ErrStoreDisabled
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hero, villain, gameplay, setting, math_topic, contact_info, user_name, game, created_at
		FROM feedback_submissions
		WHERE game = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		game, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("查询反馈失败: %w", err)
	}
	defer rows.Close()

	list := []Feedback{}
	for rows.Next() {
		var fb Feedback
		if err := rows.Scan(&fb.ID, &fb.Hero, &fb.Villain, &fb.Gameplay, &fb.Setting,
			&fb.MathTopic, &fb.ContactInfo, &fb.User, &fb.Game, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("读取反馈失败: %w", err)
		}
		list = append(list, fb)
	}
	return list, rows.Err()
}

// RecordScore 保存一局得分
func (s *PostgresStore) RecordScore(ctx context.Context, rec ScoreRecord) error {
	if !s.Enabled() {
		return ErrStoreDisabled
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO score_records
			(id, session_id, player_name, level, outcome, score, wave, kills, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.SessionID, rec.PlayerName, rec.Level, string(rec.Outcome),
		rec.Score, rec.Wave, rec.Kills, rec.Duration, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("保存得分记录失败: %w", err)
	}
	return nil
}

// PlayerScores 玩家最近的 limit 条得分记录
func (s *PostgresStore) PlayerScores(ctx context.Context, name string, limit int) ([]ScoreRecord, error) {
	if !s.Enabled() {
		return nil, ErrStoreDisabled
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, player_name, level, outcome, score, wave, kills, duration_ms, created_at
		FROM score_records
		WHERE player_name = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		name, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("查询得分记录失败: %w", err)
	}
	defer rows.Close()

	records := []ScoreRecord{}
	for rows.Next() {
		var rec ScoreRecord
		var outcome string
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.PlayerName, &rec.Level, &outcome,
			&rec.Score, &rec.Wave, &rec.Kills, &rec.Duration, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("读取得分记录失败: %w", err)
		}
		rec.Outcome = Outcome(outcome)
		records = append(records, rec)
	}
	return records, rows.Err()
}
