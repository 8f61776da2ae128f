package cx

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/cx/exec"
)

func newTestCx(t *testing.T) (*Cx, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open: %v", err)
	}
	cx := NewCx(DefaultConfig(), openDev.Device, openDev.Queue)
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return cx, cleanup
}

func mockColorView(t *testing.T, device hal.Device, w, h uint32) hal.TextureView {
	t.Helper()
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "mock_frame",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.Fatalf("create mock frame texture: %v", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: "mock_frame_view"})
	if err != nil {
		t.Fatalf("create mock frame view: %v", err)
	}
	return view
}

func TestSingleQuadScenario(t *testing.T) {
	cx, cleanup := newTestCx(t)
	defer cleanup()

	shaderID := cx.CompileShader(QuadShader())
	compiled := cx.Compiled[shaderID-1]
	if !compiled.Valid {
		t.Fatal("expected quad shader to compile")
	}

	a := cx.DrawQuad(0, shaderID, Rect{X: 10, Y: 20, W: 30, H: 40}, Color{R: 0, G: 1, B: 0, A: 1})

	if got := a.GetRect(cx); got != (Rect{X: 10, Y: 20, W: 30, H: 40}) {
		t.Errorf("GetRect = %+v", got)
	}
	if got := a.ReadVec4(cx, "color"); got != (Vec4{X: 0, Y: 1, Z: 0, W: 1}) {
		t.Errorf("ReadVec4(color) = %+v", got)
	}
}

func TestRectPatchMarksPaintDirty(t *testing.T) {
	cx, cleanup := newTestCx(t)
	defer cleanup()

	shaderID := cx.CompileShader(QuadShader())
	a := cx.DrawQuad(0, shaderID, Rect{X: 10, Y: 20, W: 30, H: 40}, Color{A: 1})
	cx.paintDirty = false

	a.SetRect(cx, Rect{X: 1, Y: 2, W: 3, H: 4})

	if !cx.PaintDirty() {
		t.Error("expected SetRect to mark the context paint-dirty")
	}
	if got := a.GetRect(cx); got != (Rect{X: 1, Y: 2, W: 3, H: 4}) {
		t.Errorf("GetRect after SetRect = %+v", got)
	}
}

func TestMoveXYTranslatesQuad(t *testing.T) {
	cx, cleanup := newTestCx(t)
	defer cleanup()

	shaderID := cx.CompileShader(QuadShader())
	a := cx.DrawQuad(0, shaderID, Rect{X: 10, Y: 20, W: 30, H: 40}, Color{A: 1})

	a.MoveXY(cx, 2, 3)

	want := Rect{X: 12, Y: 23, W: 30, H: 40}
	if got := a.GetRect(cx); got != want {
		t.Errorf("GetRect after MoveXY = %+v, want %+v", got, want)
	}
}

func TestTwoInstanceMoveShiftsBoth(t *testing.T) {
	cx, cleanup := newTestCx(t)
	defer cleanup()

	shaderID := cx.CompileShader(QuadShader())
	a := cx.AppendQuadCall(0, shaderID)
	a.AppendData(cx, []float32{10, 20, 30, 40, 0, 1, 0, 1})
	a.AppendData(cx, []float32{100, 200, 5, 5, 1, 0, 0, 1})

	full := a
	full.InstanceCount = 2
	full.MoveXY(cx, 1, 1)

	inst := cx.InstanceSlice(0, 0)
	if inst[0] != 11 || inst[1] != 21 {
		t.Errorf("first instance not moved: %v", inst[:4])
	}
	if inst[8] != 101 || inst[9] != 201 {
		t.Errorf("second instance not moved: %v", inst[8:12])
	}
}

func TestRepaintClearsPaintDirty(t *testing.T) {
	cx, cleanup := newTestCx(t)
	defer cleanup()

	shaderID := cx.CompileShader(QuadShader())
	cx.DrawQuad(0, shaderID, Rect{X: 0, Y: 0, W: 10, H: 10}, Color{A: 1})

	view := mockColorView(t, cx.device, 32, 32)
	target := exec.RepaintTarget{ColorView: view, Width: 32, Height: 32}

	if err := cx.RepaintTo(target); err != nil {
		t.Fatalf("RepaintTo: %v", err)
	}
	if cx.PaintDirty() {
		t.Error("expected PaintDirty cleared after a successful repaint")
	}
}

func TestOutOfBoundsDrawListPanics(t *testing.T) {
	cx, cleanup := newTestCx(t)
	defer cleanup()

	defer func() {
		if recover() == nil {
			t.Error("expected an out-of-range draw-list id to panic")
		}
	}()
	cx.InstanceSlice(99, 0)
}
