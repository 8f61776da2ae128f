// Package event defines the runtime's event types and the redraw-loop
// contract. The loop's shape is grounded on backend/gogpu/backend.go's
// sequential acquire-then-poll style, generalized from a one-shot device
// handshake to a per-iteration poll.
//
// Window/event-loop plumbing itself — actually blocking on OS events —
// stays an external collaborator; Source below is the seam a host binds
// to whatever platform event source it has.
package event

// Event is the sealed set of events the loop delivers to the host's
// handler.
type Event interface{ isEvent() }

// AppInit is delivered once, before the first iteration of the loop.
type AppInit struct{}

// Resized is delivered when the host's backing surface changes size.
type Resized struct{ Width, Height uint32 }

// Redraw is delivered whenever the dirty area is processed, before the
// frame repaints.
type Redraw struct{}

// Animate carries the current time for one animation tick.
type Animate struct{ Time float64 }

// AnimationEnded is delivered the tick an animation's end time is
// reached.
type AnimationEnded struct{ Time float64 }

// Input wraps a platform input event mapped by the host; the mapping
// itself is out of scope here.
type Input struct{ Payload any }

func (AppInit) isEvent()        {}
func (Resized) isEvent()        {}
func (Redraw) isEvent()         {}
func (Animate) isEvent()        {}
func (AnimationEnded) isEvent() {}
func (Input) isEvent()          {}

// Source is the host's non-blocking/blocking event source. Poll returns
// ok=false if blocking is false and nothing is pending.
type Source interface {
	Poll(blocking bool) (Input, bool)
}

// Host is the surface the loop drives. cx.Cx implements it.
type Host interface {
	Running() bool
	// HasPendingWork reports whether animations are active or a repaint
	// is already pending, so the loop should poll non-blocking instead
	// of waiting for the next event.
	HasPendingWork() bool
	// ForceFullRedraw sets RedrawArea = All, for a resize.
	ForceFullRedraw()
	// TickAnimations advances active animations by one frame and reports
	// whether any are still running and whether any just ended.
	TickAnimations() (active, justEnded bool, now float64)
	// DirtyAreaPending reports whether DirtyArea is non-Empty.
	DirtyAreaPending() bool
	// ConsumeDirtyArea clears DirtyArea to Empty and assigns its prior
	// value to RedrawArea (captured before the clear, so a naive
	// clear-then-assign ordering bug can't reintroduce itself), then
	// bumps the frame id.
	ConsumeDirtyArea()
	// PaintDirty reports the repaint flag.
	PaintDirty() bool
	// Repaint executes one frame (transpile-compiled pipelines, frame
	// executor, present) and clears PaintDirty.
	Repaint() error
}

// Run drives host through the redraw-loop contract until Running()
// returns false. handle receives every delivered Event; a nil handle is
// valid if the caller only cares about repaint side effects.
func Run(host Host, source Source, handle func(Event)) error {
	if handle == nil {
		handle = func(Event) {}
	}
	handle(AppInit{})
	for host.Running() {
		_, hasInput := source.Poll(!host.HasPendingWork())
		if hasInput {
			host.ForceFullRedraw()
			handle(Redraw{})
			if err := host.Repaint(); err != nil {
				return err
			}
		}

		if active, justEnded, now := host.TickAnimations(); active || justEnded {
			handle(Animate{Time: now})
			if justEnded {
				handle(AnimationEnded{Time: now})
			}
		}

		if host.DirtyAreaPending() {
			host.ConsumeDirtyArea()
			handle(Redraw{})
		}

		if host.PaintDirty() {
			if err := host.Repaint(); err != nil {
				return err
			}
		}
	}
	return nil
}
