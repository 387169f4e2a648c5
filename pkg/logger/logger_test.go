package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jacl-coder/MonsterHunter-Server/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LogConfig
		wantErr bool
	}{
		{"默认", config.LogConfig{}, false},
		{"调试文本", config.LogConfig{Level: "debug", Format: "text"}, false},
		{"json", config.LogConfig{Level: "warn", Format: "json"}, false},
		{"logfmt", config.LogConfig{Format: "logfmt"}, false},
		{"未知级别", config.LogConfig{Level: "loud"}, true},
		{"未知格式", config.LogConfig{Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&bytes.Buffer{}, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestJSONOutputAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, config.LogConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("不应输出")
	logger.Warn("房间结束", "room", "r1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("输出 %d 行: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("非JSON输出: %v", err)
	}
	if entry["msg"] != "房间结束" || entry["room"] != "r1" {
		t.Fatalf("entry = %v", entry)
	}
}
