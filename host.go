package cx

import (
	"github.com/gogpu/cx/area"
	"github.com/gogpu/cx/exec"
)

// SetRepaintTarget sets the swap-chain view Repaint renders into. Hosts
// driving Cx through event.Run must call this each time they acquire a
// new swap-chain view, before the loop's next Repaint call.
func (cx *Cx) SetRepaintTarget(target exec.RepaintTarget) {
	cx.repaintTarget = target
}

// Stop implements the other half of Running: it clears the run flag so
// the next event.Run iteration exits the loop.
func (cx *Cx) Stop() { cx.running = false }

// event.Host implementation. cx.go's RepaintTo and store.go's
// MarkPaintDirty/PushUniform/etc. are the state this surface wraps.

// Running implements event.Host.
func (cx *Cx) Running() bool { return cx.running }

// HasPendingWork implements event.Host: true while any animation is
// active or a repaint is already owed, so the loop should poll
// non-blocking instead of waiting for the next platform event.
func (cx *Cx) HasPendingWork() bool {
	return len(cx.Animations) > 0 || cx.paintDirty
}

// ForceFullRedraw implements event.Host: sets RedrawArea to All for a
// resize — the whole context is treated as dirty rather than routed
// through DirtyArea/ConsumeDirtyArea.
func (cx *Cx) ForceFullRedraw() {
	cx.RedrawArea = area.All()
	cx.paintDirty = true
}

// DirtyAreaPending implements event.Host.
func (cx *Cx) DirtyAreaPending() bool {
	return cx.DirtyArea.Kind != area.KindEmpty
}

// ConsumeDirtyArea implements event.Host. REDESIGN FLAG 2: RedrawArea
// receives the value DirtyArea held BEFORE it is cleared — captured into
// a local first, so the swap cannot observe DirtyArea already reset to
// Empty.
func (cx *Cx) ConsumeDirtyArea() {
	prior := cx.DirtyArea
	cx.DirtyArea = area.Empty()
	cx.RedrawArea = prior
	cx.FrameID++
}

// PaintDirty implements event.Host.
func (cx *Cx) PaintDirty() bool { return cx.paintDirty }

// Repaint implements event.Host's zero-argument contract by replaying
// the most recently set SetRepaintTarget.
func (cx *Cx) Repaint() error {
	return cx.RepaintTo(cx.repaintTarget)
}
