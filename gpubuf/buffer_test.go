//go:build !nogpu

package gpubuf

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func TestBufferGrowsOnlyWhenNeeded(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	b := New(device, queue, gputypes.BufferUsageVertex, "test")

	if err := b.UpdateWithF32Data(make([]float32, 10)); err != nil {
		t.Fatalf("first update: %v", err)
	}
	firstCap := b.Capacity()
	if firstCap < 40 {
		t.Fatalf("capacity %d too small for 10 floats", firstCap)
	}
	if b.Used() != 40 {
		t.Fatalf("used = %d, want 40", b.Used())
	}

	if err := b.UpdateWithF32Data(make([]float32, 100)); err != nil {
		t.Fatalf("second update: %v", err)
	}
	if b.Capacity() == firstCap {
		t.Error("expected capacity to grow for 100 floats")
	}
	if b.Used() != 400 {
		t.Fatalf("used = %d, want 400", b.Used())
	}

	grownCap := b.Capacity()
	if err := b.UpdateWithF32Data(make([]float32, 10)); err != nil {
		t.Fatalf("third update: %v", err)
	}
	if b.Capacity() != grownCap {
		t.Error("capacity must not shrink or reallocate when new data is smaller")
	}
	if b.Used() != 40 {
		t.Fatalf("used = %d, want 40 after shrinking update", b.Used())
	}
}

func TestBufferU32Data(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	b := New(device, queue, gputypes.BufferUsageIndex, "idx")
	if err := b.UpdateWithU32Data([]uint32{0, 1, 2, 0, 2, 3}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if b.Used() != 24 {
		t.Fatalf("used = %d, want 24", b.Used())
	}
	if b.Handle() == nil {
		t.Error("expected non-nil handle after upload")
	}
}
