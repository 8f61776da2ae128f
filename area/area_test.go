package area

import (
	"testing"

	"github.com/gogpu/cx/cxmath"
	"github.com/gogpu/cx/shadervar"
)

// fakeStore is a minimal in-memory Store for testing Area's read/write
// contract without any GPU or draw-list machinery.
type fakeStore struct {
	slots      int
	rect       shadervar.RectProps
	named      []shadervar.NamedProp
	instances  map[uint32][]float32
	uniforms   map[uint32][]float32
	textures   map[uint32][]uint64
	paintDirty bool
	needNow    bool
	listRect   cxmath.Rect
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		slots: 8,
		rect:  shadervar.RectProps{X: 0, Y: 1, W: 2, H: 3, Present: true},
		named: []shadervar.NamedProp{
			{Name: "x", Offset: 0}, {Name: "y", Offset: 1},
			{Name: "w", Offset: 2}, {Name: "h", Offset: 3},
			{Name: "color", Offset: 4},
		},
		instances: map[uint32][]float32{},
		uniforms:  map[uint32][]float32{},
		textures:  map[uint32][]uint64{},
	}
}

func (f *fakeStore) InstanceSlice(listID, callID uint32) []float32 { return f.instances[callID] }
func (f *fakeStore) ShaderMeta(listID, callID uint32) (int, shadervar.RectProps, []shadervar.NamedProp, bool) {
	return f.slots, f.rect, f.named, true
}
func (f *fakeStore) DrawListRect(listID uint32) cxmath.Rect { return f.listRect }
func (f *fakeStore) MarkPaintDirty()                        { f.paintDirty = true }
func (f *fakeStore) AppendInstance(listID, callID uint32, data []float32) {
	f.instances[callID] = append(f.instances[callID], data...)
}
func (f *fakeStore) PushUniform(listID, callID uint32, vals ...float32) {
	f.uniforms[callID] = append(f.uniforms[callID], vals...)
}
func (f *fakeStore) PushTexture(listID, callID uint32, texID uint64) {
	f.textures[callID] = append(f.textures[callID], texID)
}
func (f *fakeStore) NeedUniformsNow(listID, callID uint32) bool { return f.needNow }

func quadInstance(x, y, w, h, r, g, b, a float32) []float32 {
	return []float32{x, y, w, h, r, g, b, a}
}

func TestSingleQuadScenario(t *testing.T) {
	s := newFakeStore()
	s.AppendInstance(0, 0, quadInstance(10, 20, 30, 40, 0, 1, 0, 1))
	a := ForInstance(0, 0, 0, 1)

	if got := a.GetRect(s); got != (cxmath.Rect{X: 10, Y: 20, W: 30, H: 40}) {
		t.Errorf("GetRect = %+v", got)
	}
	if got := a.ReadVec4(s, "color"); got != (cxmath.Vec4{X: 0, Y: 1, Z: 0, W: 1}) {
		t.Errorf("ReadVec4(color) = %+v", got)
	}
}

func TestSetRectMarksPaintDirty(t *testing.T) {
	s := newFakeStore()
	s.AppendInstance(0, 0, quadInstance(10, 20, 30, 40, 0, 1, 0, 1))
	a := ForInstance(0, 0, 0, 1)

	a.SetRect(s, cxmath.Rect{X: 5, Y: 5, W: 5, H: 5})
	if got := a.GetRect(s); got != (cxmath.Rect{X: 5, Y: 5, W: 5, H: 5}) {
		t.Errorf("GetRect after SetRect = %+v", got)
	}
	if !s.paintDirty {
		t.Error("expected SetRect to mark paint dirty")
	}
}

func TestMoveXY(t *testing.T) {
	s := newFakeStore()
	s.AppendInstance(0, 0, quadInstance(10, 20, 30, 40, 0, 1, 0, 1))
	a := ForInstance(0, 0, 0, 1)

	a.MoveXY(s, 2, 3)
	want := cxmath.Rect{X: 12, Y: 23, W: 30, H: 40}
	if got := a.GetRect(s); got != want {
		t.Errorf("GetRect after MoveXY = %+v, want %+v", got, want)
	}

	a.MoveXY(s, -2, -3)
	want = cxmath.Rect{X: 10, Y: 20, W: 30, H: 40}
	if got := a.GetRect(s); got != want {
		t.Errorf("MoveXY inverse did not round-trip: got %+v, want %+v", got, want)
	}
}

func TestTwoInstancesMoveAll(t *testing.T) {
	s := newFakeStore()
	s.AppendInstance(0, 0, quadInstance(10, 20, 30, 40, 0, 1, 0, 1))
	a := ForInstance(0, 0, 0, 1)
	a.AppendData(s, quadInstance(100, 200, 5, 5, 1, 0, 0, 1))
	a = ForInstance(0, 0, 0, 2)

	a.MoveXY(s, 1, 1)

	inst := s.InstanceSlice(0, 0)
	if inst[0] != 11 || inst[1] != 21 {
		t.Errorf("first instance not moved: %v", inst[:4])
	}
	if inst[8] != 101 || inst[9] != 201 {
		t.Errorf("second instance not moved: %v", inst[8:12])
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := newFakeStore()
	s.AppendInstance(0, 0, quadInstance(0, 0, 0, 0, 0, 0, 0, 0))
	a := ForInstance(0, 0, 0, 1)

	a.WriteFloat(s, "x", 7)
	if got := a.ReadFloat(s, "x"); got != 7 {
		t.Errorf("ReadFloat(write(x,7)) = %v, want 7", got)
	}

	v2 := cxmath.Vec2{X: 1, Y: 2}
	a.WriteVec2(s, "x", v2) // x/y are adjacent named props; write as a pair via x
	if got := a.ReadVec2(s, "x"); got != v2 {
		t.Errorf("ReadVec2(write(x,v2)) = %+v, want %+v", got, v2)
	}

	v4 := cxmath.Vec4{X: 0.1, Y: 0.2, Z: 0.3, W: 0.4}
	a.WriteVec4(s, "color", v4)
	if got := a.ReadVec4(s, "color"); got != v4 {
		t.Errorf("ReadVec4(write(color,v4)) = %+v, want %+v", got, v4)
	}
}

func TestWriteUnknownNameIsNoOp(t *testing.T) {
	s := newFakeStore()
	s.AppendInstance(0, 0, quadInstance(10, 20, 30, 40, 0, 1, 0, 1))
	before := append([]float32(nil), s.InstanceSlice(0, 0)...)

	a := ForInstance(0, 0, 0, 1)
	a.WriteFloat(s, "nonexistent", 999)

	after := s.InstanceSlice(0, 0)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("buffer changed at %d: %v != %v", i, before, after)
		}
	}
	if s.paintDirty {
		t.Error("write to unknown name must not mark paint dirty")
	}
}

func TestZeroInstanceCountYieldsZeroRect(t *testing.T) {
	s := newFakeStore()
	a := ForInstance(0, 0, 0, 0)
	if got := a.GetRect(s); got != cxmath.Zero() {
		t.Errorf("GetRect with instance_count=0 = %+v, want zero", got)
	}
	a.MoveXY(s, 5, 5) // must be a no-op
	if s.paintDirty {
		t.Error("MoveXY on an empty Area must not mark paint dirty")
	}
}

func TestContains(t *testing.T) {
	s := newFakeStore()
	s.AppendInstance(0, 0, quadInstance(10, 20, 30, 40, 0, 1, 0, 1))
	a := ForInstance(0, 0, 0, 1)

	if !a.Contains(s, 15, 25) {
		t.Error("expected point inside rect to be contained")
	}
	if a.Contains(s, 0, 0) {
		t.Error("expected point outside rect to not be contained")
	}
}
