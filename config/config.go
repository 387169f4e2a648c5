// config.go

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jacl-coder/MonsterHunter-Server/internal/game"
	"github.com/jacl-coder/MonsterHunter-Server/internal/protocol"
	"github.com/spf13/viper"
)

// Config 服务器配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Game     GameConfig     `mapstructure:"game"`
}

// ServerConfig 服务器基本配置
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	GamePort       int           `mapstructure:"game_port"`
	GatewayPort    int           `mapstructure:"gateway_port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RateLimit      int           `mapstructure:"rate_limit"` // 每分钟请求数
	MaxRooms       int           `mapstructure:"max_rooms"`
}

// DatabaseConfig 数据库配置，host 为空时不启用
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig Redis配置，host 为空时不启用
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig 登录票据配置
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
	Issuer    string        `mapstructure:"issuer"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text 或 json
}

// GameConfig 对局配置
type GameConfig struct {
	TickInterval      time.Duration `mapstructure:"tick_interval"`
	PausePolicy       string        `mapstructure:"pause_policy"`
	LevelFile         string        `mapstructure:"level_file"`
	Codec             string        `mapstructure:"codec"`
	RoomIdleTimeout   time.Duration `mapstructure:"room_idle_timeout"`
	RoomEndedLifetime time.Duration `mapstructure:"room_ended_lifetime"`
	Tuning            game.Tuning   `mapstructure:"tuning"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig Config

	// ErrInvalidConfig 配置非法
	ErrInvalidConfig = errors.New("invalid config")
)

// Default 默认配置
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			GamePort:       8080,
			GatewayPort:    8000,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			AllowedOrigins: []string{"*"},
			RateLimit:      60,
			MaxRooms:       500,
		},
		Database: DatabaseConfig{Port: 5432, SSLMode: "disable"},
		Redis:    RedisConfig{Port: 6379},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
			Issuer:   "monster-hunter",
		},
		Log: LogConfig{Level: "info", Format: "text"},
		Game: GameConfig{
			TickInterval:      16 * time.Millisecond,
			PausePolicy:       string(game.PauseFreeze),
			Codec:             "json",
			RoomIdleTimeout:   5 * time.Minute,
			RoomEndedLifetime: 2 * time.Minute,
			Tuning:            game.DefaultTuning(),
		},
	}
}

// LoadConfig 从文件加载配置，环境变量可覆盖同名键(例如 SERVER_GAME_PORT)
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Default()
	setDefaults(v, &cfg)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("无法读取配置文件: %w", err)
	}

	// 列表整体替换而不是逐项覆盖
	for _, key := range []string{"game.tuning.arena.spawn_points", "game.tuning.arena.ammo_points", "game.tuning.arena.colliders"} {
		if v.IsSet(key) {
			resetList(&cfg, key)
		}
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = nil
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法解析配置文件: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	GlobalConfig = cfg
	return &cfg, nil
}

func resetList(cfg *Config, key string) {
	arena := &cfg.Game.Tuning.Arena
	switch key {
	case "game.tuning.arena.spawn_points":
		arena.SpawnPoints = nil
	case "game.tuning.arena.ammo_points":
		arena.AmmoPoints = nil
	case "game.tuning.arena.colliders":
		arena.Colliders = nil
	}
}

// setDefaults 注册标量默认值，使环境变量覆盖生效
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.game_port", cfg.Server.GamePort)
	v.SetDefault("server.gateway_port", cfg.Server.GatewayPort)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.rate_limit", cfg.Server.RateLimit)
	v.SetDefault("server.max_rooms", cfg.Server.MaxRooms)
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", cfg.Database.Port)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "")
	v.SetDefault("database.sslmode", cfg.Database.SSLMode)
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", cfg.Redis.Port)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", cfg.Auth.TokenTTL)
	v.SetDefault("auth.issuer", cfg.Auth.Issuer)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("game.tick_interval", cfg.Game.TickInterval)
	v.SetDefault("game.pause_policy", cfg.Game.PausePolicy)
	v.SetDefault("game.level_file", "")
	v.SetDefault("game.codec", cfg.Game.Codec)
	v.SetDefault("game.tuning.combat.hit_requires_visual", false)
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch {
	case c.Server.GamePort <= 0 || c.Server.GatewayPort <= 0:
		return fmt.Errorf("%w: 端口必须大于0", ErrInvalidConfig)
	case c.Auth.JWTSecret == "":
		return fmt.Errorf("%w: auth.jwt_secret 不能为空", ErrInvalidConfig)
	case c.Auth.TokenTTL <= 0:
		return fmt.Errorf("%w: auth.token_ttl 必须大于0", ErrInvalidConfig)
	case c.Game.TickInterval <= 0:
		return fmt.Errorf("%w: game.tick_interval 必须大于0", ErrInvalidConfig)
	}
	if _, err := game.ParsePausePolicy(c.Game.PausePolicy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := protocol.NewCodec(c.Game.Codec); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return c.Game.Tuning.Validate()
}

// Enabled 是否配置了数据库
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// GetDSN 获取PostgreSQL连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Enabled 是否配置了Redis
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// GetRedisAddr 获取Redis连接地址
func (c *RedisConfig) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GameAddr 游戏服务监听地址
func (c *ServerConfig) GameAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.GamePort)
}

// GatewayAddr 网关监听地址
func (c *ServerConfig) GatewayAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.GatewayPort)
}
