package cx

import "fmt"

// indexOrPanic is the single place out-of-bounds draw-list/draw-call/
// shader indices are checked: these are programming errors, not a
// runtime-recoverable condition, so a panic is the correct response —
// gpucore/render_pass code never defensively guards internal slice
// indices either.
func indexOrPanic(ok bool, format string, args ...any) {
	if !ok {
		panic(fmt.Sprintf("cx: "+format, args...))
	}
}
