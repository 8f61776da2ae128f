package cx

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Texture is one GPU texture Cx owns, addressed by the uint64 id an Area
// pushes onto a draw-call's texture list via UniformTexture. Pixel
// uploads use the same format as internal/gpu/text_pipeline.go's own
// atlas texture: BGRA8-unorm, managed storage, row stride width*4 bytes.
type Texture struct {
	ID      uint64
	Width   uint32
	Height  uint32
	View    hal.TextureView
	Sampler hal.Sampler

	texture hal.Texture
	pixels  []byte
	dirty   bool
}

// CreateTexture allocates a BGRA8-unorm texture of the given size and
// registers it under a new id. Pixel data is uploaded lazily: UploadPixels
// stages it, and the next RepaintTo uploads every staged texture (via
// Cx.uploadDirtyTextures), whether or not a draw-call references it.
func (cx *Cx) CreateTexture(width, height uint32) (*Texture, error) {
	tex, err := cx.device.CreateTexture(&hal.TextureDescriptor{
		Label:         fmt.Sprintf("cx_texture_%d", len(cx.Textures)+1),
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("cx: create texture: %w", err)
	}
	view, err := cx.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:     fmt.Sprintf("cx_texture_%d_view", len(cx.Textures)+1),
		Format:    gputypes.TextureFormatBGRA8Unorm,
		Dimension: gputypes.TextureViewDimension2D,
		Aspect:    gputypes.TextureAspectAll,
	})
	if err != nil {
		return nil, fmt.Errorf("cx: create texture view: %w", err)
	}
	sampler, err := cx.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "cx_texture_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return nil, fmt.Errorf("cx: create sampler: %w", err)
	}

	t := &Texture{
		ID:      uint64(len(cx.Textures) + 1),
		Width:   width,
		Height:  height,
		View:    view,
		Sampler: sampler,
		texture: tex,
	}
	cx.Textures = append(cx.Textures, t)
	return t, nil
}

// UploadPixels stages BGRA8-unorm pixel data (width*height*4 bytes,
// row stride width*4) for upload on the next RepaintTo. The copy happens
// lazily so a texture replaced several times in one frame only uploads
// once.
func (t *Texture) UploadPixels(pixels []byte) {
	t.pixels = pixels
	t.dirty = true
}

// UploadImage scales img to the texture's size with a bilinear filter
// (golang.org/x/image/draw, since the standard library's image/draw has
// no scaling Transformer of its own) and stages it as BGRA8-unorm pixel
// data for the next frame's upload.
func (t *Texture) UploadImage(img image.Image) {
	dst := image.NewRGBA(image.Rect(0, 0, int(t.Width), int(t.Height)))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	pixels := make([]byte, len(dst.Pix))
	for i := 0; i+4 <= len(dst.Pix); i += 4 {
		r, g, b, a := dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3]
		pixels[i], pixels[i+1], pixels[i+2], pixels[i+3] = b, g, r, a
	}
	t.UploadPixels(pixels)
}

func (cx *Cx) uploadDirtyTextures() error {
	for _, t := range cx.Textures {
		if !t.dirty || t.pixels == nil {
			continue
		}
		if err := cx.queue.WriteTexture(
			&hal.ImageCopyTexture{Texture: t.texture, MipLevel: 0},
			t.pixels,
			&hal.ImageDataLayout{Offset: 0, BytesPerRow: t.Width * 4, RowsPerImage: t.Height},
			&hal.Extent3D{Width: t.Width, Height: t.Height, DepthOrArrayLayers: 1},
		); err != nil {
			return fmt.Errorf("cx: upload texture %d: %w", t.ID, err)
		}
		t.dirty = false
	}
	return nil
}

func (cx *Cx) textureByID(id uint64) (*Texture, bool) {
	for _, t := range cx.Textures {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}
