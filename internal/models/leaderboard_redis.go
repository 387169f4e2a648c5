package models

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// 排行榜Redis键名
const (
	LeaderboardScoreKey = "leaderboard:score"
	LeaderboardKillsKey = "leaderboard:kills"
	LeaderboardWavesKey = "leaderboard:waves"

	// 玩家详细信息键前缀
	PlayerInfoPrefix = "player:info:"
)

// RedisLeaderboard Redis排行榜管理器
type RedisLeaderboard struct {
	client *redis.Client
}

// NewRedisLeaderboard 创建Redis排行榜管理器，client 为 nil 时所有操作返回 ErrStoreDisabled
func NewRedisLeaderboard(client *redis.Client) *RedisLeaderboard {
	return &RedisLeaderboard{client: client}
}

// Enabled 是否连接了Redis
func (rl *RedisLeaderboard) Enabled() bool {
	return rl != nil && rl.client != nil
}

// RecordScore 记录一局得分：最高分和最远波次只升不降，击杀累加
func (rl *RedisLeaderboard) RecordScore(ctx context.Context, rec ScoreRecord) error {
	if !rl.Enabled() {
		return ErrStoreDisabled
	}
	if rec.PlayerName == "" {
		return fmt.Errorf("排行榜记录缺少玩家名")
	}

	infoKey := PlayerInfoPrefix + rec.PlayerName
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAddArgs(ctx, LeaderboardScoreKey, redis.ZAddArgs{
			GT:      true,
			Members: []redis.Z{{Score: float64(rec.Score), Member: rec.PlayerName}},
		})
		pipe.ZAddArgs(ctx, LeaderboardWavesKey, redis.ZAddArgs{
			GT:      true,
			Members: []redis.Z{{Score: float64(rec.Wave), Member: rec.PlayerName}},
		})
		pipe.ZIncrBy(ctx, LeaderboardKillsKey, float64(rec.Kills), rec.PlayerName)
		if rec.Outcome == OutcomeVictory {
			pipe.HIncrBy(ctx, infoKey, "victories", 1)
		}
		pipe.HSet(ctx, infoKey, "last_score", rec.Score, "last_played", rec.CreatedAt.Unix())
		return nil
	})
	if err != nil {
		return fmt.Errorf("写入排行榜失败: %w", err)
	}
	return nil
}

// GetLeaderboard 获取排行榜前 limit 名
func (rl *RedisLeaderboard) GetLeaderboard(ctx context.Context, scoreType LeaderboardType, limit int) ([]LeaderboardEntry, error) {
	if !rl.Enabled() {
		return nil, ErrStoreDisabled
	}
	if limit <= 0 {
		return []LeaderboardEntry{}, nil
	}

	members, err := rl.client.ZRevRangeWithScores(ctx, leaderboardKey(scoreType), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("读取排行榜失败: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(members))
	for i, member := range members {
		name, ok := member.Member.(string)
		if !ok {
			continue
		}
		entry, err := rl.playerEntry(ctx, name)
		if err != nil {
			return nil, err
		}
		entry.Rank = i + 1
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetPlayerRank 获取玩家排名，不在榜上返回 -1
func (rl *RedisLeaderboard) GetPlayerRank(ctx context.Context, name string, scoreType LeaderboardType) (int, error) {
	if !rl.Enabled() {
		return -1, ErrStoreDisabled
	}

	rank, err := rl.client.ZRevRank(ctx, leaderboardKey(scoreType), name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil // 玩家不在排行榜中
		}
		return -1, fmt.Errorf("查询排名失败: %w", err)
	}

	return int(rank) + 1, nil // Redis排名从0开始，转换为从1开始
}

// SetLeaderboardTTL 设置排行榜过期时间，用于赛季重置
func (rl *RedisLeaderboard) SetLeaderboardTTL(ctx context.Context, ttl time.Duration) error {
	if !rl.Enabled() {
		return ErrStoreDisabled
	}
	for _, key := range []string{LeaderboardScoreKey, LeaderboardKillsKey, LeaderboardWavesKey} {
		if err := rl.client.Expire(ctx, key, ttl).Err(); err != nil {
			return err
		}
	}
	return nil
}

// playerEntry 汇总玩家在各榜单上的数据
func (rl *RedisLeaderboard) playerEntry(ctx context.Context, name string) (LeaderboardEntry, error) {
	var (
		score, waves, kills *redis.FloatCmd
		victories           *redis.StringCmd
	)
	_, err := rl.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		score = pipe.ZScore(ctx, LeaderboardScoreKey, name)
		waves = pipe.ZScore(ctx, LeaderboardWavesKey, name)
		kills = pipe.ZScore(ctx, LeaderboardKillsKey, name)
		victories = pipe.HGet(ctx, PlayerInfoPrefix+name, "victories")
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return LeaderboardEntry{}, fmt.Errorf("读取玩家 %s 的排行数据失败: %w", name, err)
	}

	v, _ := strconv.Atoi(victories.Val())
	return LeaderboardEntry{
		PlayerName: name,
		Score:      score.Val(),
		BestWave:   int(waves.Val()),
		TotalKills: int(kills.Val()),
		Victories:  v,
	}, nil
}

// leaderboardKey 获取排行榜键名
func leaderboardKey(scoreType LeaderboardType) string {
	switch scoreType {
	case LeaderboardKills:
		return LeaderboardKillsKey
	case LeaderboardWaves:
		return LeaderboardWavesKey
	default:
		return LeaderboardScoreKey
	}
}
