// Command cxdemo exercises the cx draw-list runtime end to end: it
// compiles the built-in quad shader, lays out a grid of colored
// rectangles through Area handles, and repaints them into an offscreen
// render target using the noop HAL backend (there is no OS window here
// — binding to a real platform surface is an external collaborator's
// concern, per the runtime's own scope).
package main

import (
	"flag"
	"log"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/cx"
	"github.com/gogpu/cx/exec"
)

func main() {
	var (
		width  = flag.Uint("width", 640, "target width in pixels")
		height = flag.Uint("height", 480, "target height in pixels")
		cols   = flag.Int("cols", 4, "quad grid columns")
		rows   = flag.Int("rows", 3, "quad grid rows")
	)
	flag.Parse()

	device, queue, cleanup, err := openDevice()
	if err != nil {
		log.Fatalf("open device: %v", err)
	}
	defer cleanup()

	cfg := cx.DefaultConfig()
	cfg.Width, cfg.Height = uint32(*width), uint32(*height)
	cfg.ClearColor = cx.Color{R: 0.05, G: 0.05, B: 0.08, A: 1}
	ctx := cx.NewCx(cfg, device, queue)

	shaderID := ctx.CompileShader(cx.QuadShader())
	if !ctx.Compiled[shaderID-1].Valid {
		log.Fatal("quad shader failed to compile")
	}

	drawGrid(ctx, shaderID, uint32(*width), uint32(*height), *cols, *rows)

	target, err := renderTarget(device, uint32(*width), uint32(*height))
	if err != nil {
		log.Fatalf("create render target: %v", err)
	}
	ctx.SetRepaintTarget(target)

	if err := ctx.Repaint(); err != nil {
		log.Fatalf("repaint: %v", err)
	}
	log.Printf("cxdemo: repainted a %dx%d grid of %d quads into a %dx%d target",
		*cols, *rows, *cols**rows, *width, *height)
}

func drawGrid(ctx *cx.Cx, shaderID uint64, width, height uint32, cols, rows int) {
	cellW, cellH := float32(width)/float32(cols), float32(height)/float32(rows)
	pad := float32(4)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			rect := cx.Rect{
				X: float32(c)*cellW + pad, Y: float32(r)*cellH + pad,
				W: cellW - 2*pad, H: cellH - 2*pad,
			}
			color := cx.Color{
				R: float32(c+1) / float32(cols),
				G: float32(r+1) / float32(rows),
				B: 0.5, A: 1,
			}
			ctx.DrawQuad(0, shaderID, rect, color)
		}
	}
}

func openDevice() (hal.Device, hal.Queue, func(), error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, nil, nil, err
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, nil, nil, err
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup, nil
}

func renderTarget(device hal.Device, width, height uint32) (exec.RepaintTarget, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "cxdemo_target",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return exec.RepaintTarget{}, err
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{Label: "cxdemo_target_view"})
	if err != nil {
		return exec.RepaintTarget{}, err
	}
	return exec.RepaintTarget{ColorView: view, Width: width, Height: height}, nil
}
