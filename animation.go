package cx

import "time"

// Animation is one active interpolation, tracked only by its end time:
// the interpolation itself (easing, value tracks) is an external
// collaborator's concern. Cx only knows when an animation ends, so it
// can deliver event.AnimationEnded at the right tick.
type Animation struct {
	// EndTime is the animation's end time, in seconds since Cx.timeOrigin.
	EndTime float64
	ended   bool
}

// now returns the float64 "seconds" clock event.Animate and
// Animation.EndTime are expressed in: time elapsed since cx.timeOrigin,
// which NewCx sets once to the construction time so successive frames
// produce monotonically
// increasing values without re-reading the wall clock's absolute epoch
// into shader-facing state.
func (cx *Cx) now() float64 {
	return time.Since(cx.timeOrigin).Seconds()
}

// AddAnimation registers a new animation ending at now()+duration and
// returns its index for later inspection.
func (cx *Cx) AddAnimation(duration time.Duration) int {
	cx.Animations = append(cx.Animations, Animation{EndTime: cx.now() + duration.Seconds()})
	return len(cx.Animations) - 1
}

// TickAnimations advances the animation set by one tick: active reports
// whether any animation has not yet reached its end time, justEnded
// reports whether any animation crossed its end time on this specific
// call (delivered as event.AnimationEnded before Redraw for the same
// frame). Ended animations are compacted out after being reported once.
func (cx *Cx) TickAnimations() (active, justEnded bool, now float64) {
	now = cx.now()
	live := cx.Animations[:0]
	for _, a := range cx.Animations {
		if !a.ended && now >= a.EndTime {
			a.ended = true
			justEnded = true
		}
		if !a.ended {
			active = true
			live = append(live, a)
		}
	}
	cx.Animations = live
	return active, justEnded, now
}
