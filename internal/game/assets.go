// assets.go

package game

import (
	"context"
	"sync"
)

// AssetState 贴图加载状态
type AssetState int

const (
	// AssetPending 加载中
	AssetPending AssetState = iota
	// AssetReady 已就绪
	AssetReady
	// AssetFailed 加载失败
	AssetFailed
)

func (s AssetState) String() string {
	switch s {
	case AssetReady:
		return "ready"
	case AssetFailed:
		return "failed"
	default:
		return "pending"
	}
}

// AssetFuture 单个资源的加载结果
type AssetFuture struct {
	name  string
	done  chan struct{}
	once  sync.Once
	state AssetState
}

// Name 资源名
func (f *AssetFuture) Name() string {
	return f.name
}

// Done 加载结束时关闭
func (f *AssetFuture) Done() <-chan struct{} {
	return f.done
}

// State 非阻塞读取状态
func (f *AssetFuture) State() AssetState {
	select {
	case <-f.done:
		return f.state
	default:
		return AssetPending
	}
}

// Wait 等待加载结束
func (f *AssetFuture) Wait(ctx context.Context) (AssetState, error) {
	select {
	case <-f.done:
		return f.state, nil
	case <-ctx.Done():
		return AssetPending, ctx.Err()
	}
}

func (f *AssetFuture) resolve(state AssetState) {
	f.once.Do(func() {
		f.state = state
		close(f.done)
	})
}

// Assets 资源注册表，渲染端回报加载结果
type Assets struct {
	mu      sync.Mutex
	futures map[string]*AssetFuture
}

// NewAssets 创建注册表
func NewAssets() *Assets {
	return &Assets{futures: make(map[string]*AssetFuture)}
}

// Expect 获取(或创建)资源的加载结果
func (a *Assets) Expect(name string) *AssetFuture {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, ok := a.futures[name]
	if !ok {
		f = &AssetFuture{name: name, done: make(chan struct{})}
		a.futures[name] = f
	}
	return f
}

// MarkLoaded 标记加载成功
func (a *Assets) MarkLoaded(name string) {
	a.Expect(name).resolve(AssetReady)
}

// MarkFailed 标记加载失败
func (a *Assets) MarkFailed(name string) {
	a.Expect(name).resolve(AssetFailed)
}

// Ready 资源是否就绪，空名称视为就绪
func (a *Assets) Ready(name string) bool {
	if a == nil || name == "" {
		return true
	}
	return a.Expect(name).State() == AssetReady
}
