package cx

// Config holds the caller-supplied construction parameters for a Cx: the
// initial target size, DPI scale, and clear color. It is a plain struct
// deliberately, matching gpucore.PipelineConfig's shape — no cobra/
// viper-style loader appears anywhere in the stack for library
// configuration, only for cmd/ CLI entry points, so cx.Config stays a
// plain struct built by the caller.
type Config struct {
	// Width and Height are the initial target size in physical pixels.
	Width, Height uint32
	// DPIFactor is the ratio of physical to logical pixels.
	DPIFactor float32
	// ClearColor is the color the render pass clears to each frame.
	ClearColor Color
}

// DefaultConfig returns a Config with a 1x DPI factor and an opaque
// white clear color.
func DefaultConfig() Config {
	return Config{DPIFactor: 1, ClearColor: Color{R: 1, G: 1, B: 1, A: 1}}
}
