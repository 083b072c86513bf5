package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/decker502/halabi/internal/frame"
	"github.com/decker502/halabi/internal/host"
	"github.com/decker502/halabi/internal/pointer"
)

// 构造后立即销毁 100 组调度器与追踪器，宿主上不应残留任何注册
func TestTeardown_NoOutstandingRegistrations(t *testing.T) {
	reg := host.NewRegistry()
	box := func() host.Rect { return host.Rect{W: 320, H: 200} }

	for i := 0; i < 100; i++ {
		s := frame.New(reg)
		s.Start(func(float64) {})

		tr := pointer.New(reg, box, host.DeviceFinePointer)
		tr.OnSample(func(pointer.Sample) {})
		tr.OnLeave(func() {})

		s.Stop()
		tr.Close()
	}

	assert.Equal(t, 0, reg.ListenerCount())
	assert.Equal(t, 0, reg.PendingFrames())
}

func TestTeardown_CloseIsIdempotent(t *testing.T) {
	reg := host.NewRegistry()
	tr := pointer.New(reg, func() host.Rect { return host.Rect{W: 1, H: 1} }, host.DeviceFinePointer)
	tr.Close()
	tr.Close()
	assert.Equal(t, 0, reg.ListenerCount())

	// 未注册任何监听的追踪器同样可以安全关闭
	pointer.New(nil, nil, nil).Close()
}
