package drawlist

import "testing"

func TestNextCallReusesSlotsAcrossFrames(t *testing.T) {
	dl := New()

	idx0 := dl.NextCall(1, 1)
	idx1 := dl.NextCall(2, 1)
	if idx0 != 0 || idx1 != 1 {
		t.Fatalf("first frame indices = %d, %d, want 0, 1", idx0, idx1)
	}
	dl.DrawCalls[0].Instance = append(dl.DrawCalls[0].Instance, 1, 2, 3)
	if cap(dl.DrawCalls[0].Instance) == 0 {
		t.Fatal("expected capacity after append")
	}
	backingCap := cap(dl.DrawCalls[0].Instance)

	dl.BeginFrame()
	if dl.DrawCallsLen != 0 {
		t.Fatalf("DrawCallsLen after BeginFrame = %d, want 0", dl.DrawCallsLen)
	}
	if len(dl.DrawCalls) != 2 {
		t.Fatalf("DrawCalls capacity should survive BeginFrame, got len %d", len(dl.DrawCalls))
	}

	idx0b := dl.NextCall(1, 2)
	if idx0b != 0 {
		t.Fatalf("second frame first index = %d, want 0 (reused)", idx0b)
	}
	if len(dl.DrawCalls[0].Instance) != 0 {
		t.Error("expected instance vector truncated to empty on reuse")
	}
	if cap(dl.DrawCalls[0].Instance) != backingCap {
		t.Error("expected reused slot to keep its backing array capacity")
	}
	if !dl.DrawCalls[0].NeedUniformsNow {
		t.Error("expected NeedUniformsNow set on reuse")
	}
}

func TestNextCallGrowsBeyondCapacity(t *testing.T) {
	dl := New()
	dl.NextCall(1, 1)
	dl.BeginFrame()
	dl.NextCall(1, 2) // reuse slot 0
	idx := dl.NextCall(2, 2)
	if idx != 1 {
		t.Fatalf("expected new slot at index 1, got %d", idx)
	}
	if len(dl.DrawCalls) != 2 {
		t.Fatalf("len(DrawCalls) = %d, want 2", len(dl.DrawCalls))
	}
}

func TestLiveReturnsOnlyWatermarkPrefix(t *testing.T) {
	dl := New()
	dl.NextCall(1, 1)
	dl.NextCall(2, 1)
	dl.NextCall(3, 1)
	dl.BeginFrame()
	dl.NextCall(9, 2) // only one call this frame

	if got := len(dl.Live()); got != 1 {
		t.Fatalf("len(Live()) = %d, want 1", got)
	}
	if dl.Live()[0].ShaderID != 9 {
		t.Errorf("Live()[0].ShaderID = %d, want 9", dl.Live()[0].ShaderID)
	}
	if len(dl.DrawCalls) != 3 {
		t.Errorf("underlying capacity should remain 3, got %d", len(dl.DrawCalls))
	}
}

func TestDrawCallInstanceCount(t *testing.T) {
	d := DrawCall{Instance: []float32{1, 2, 3, 4, 5, 6, 7, 8}}
	if got := d.InstanceCount(4); got != 2 {
		t.Errorf("InstanceCount(4) = %d, want 2", got)
	}
	if got := d.InstanceCount(0); got != 0 {
		t.Errorf("InstanceCount(0) = %d, want 0", got)
	}
}

func TestNextSubList(t *testing.T) {
	dl := New()
	idx := dl.NextSubList(5)
	if idx != 0 {
		t.Fatalf("index = %d, want 0", idx)
	}
	if dl.DrawCalls[0].SubListID != 5 {
		t.Errorf("SubListID = %d, want 5", dl.DrawCalls[0].SubListID)
	}
}
