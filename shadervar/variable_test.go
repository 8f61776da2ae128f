package shadervar

import "testing"

func TestSlotSize(t *testing.T) {
	cases := []struct {
		typ  Type
		want int
	}{
		{Float, 1},
		{Vec2, 2},
		{Vec3, 3},
		{Vec4, 4},
		{Mat2, 4},
		{Mat3, 9},
		{Mat4, 16},
		{Texture2D, 0},
	}
	for _, c := range cases {
		if got := c.typ.SlotSize(); got != c.want {
			t.Errorf("%v.SlotSize() = %d, want %d", c.typ, got, c.want)
		}
	}
}

func quadVars() []Variable {
	return []Variable{
		{Name: "x", Type: Float, Store: Instance},
		{Name: "y", Type: Float, Store: Instance},
		{Name: "w", Type: Float, Store: Instance},
		{Name: "h", Type: Float, Store: Instance},
		{Name: "color", Type: Vec4, Store: Instance},
	}
}

func TestInstanceSlots(t *testing.T) {
	if got := InstanceSlots(quadVars()); got != 8 {
		t.Errorf("InstanceSlots() = %d, want 8", got)
	}
}

func TestComputeInstancePropsRect(t *testing.T) {
	named, rect := ComputeInstanceProps(quadVars())
	if !rect.Present {
		t.Fatal("expected rect props to be present")
	}
	if rect.X != 0 || rect.Y != 1 || rect.W != 2 || rect.H != 3 {
		t.Errorf("rect offsets = %+v, want {0,1,2,3}", rect)
	}
	want := []NamedProp{
		{Name: "x", Offset: 0},
		{Name: "y", Offset: 1},
		{Name: "w", Offset: 2},
		{Name: "h", Offset: 3},
		{Name: "color", Offset: 4},
	}
	if len(named) != len(want) {
		t.Fatalf("len(named) = %d, want %d", len(named), len(want))
	}
	for i := range want {
		if named[i] != want[i] {
			t.Errorf("named[%d] = %+v, want %+v", i, named[i], want[i])
		}
	}
	// Offsets must all be strictly less than the instance slot count.
	slots := InstanceSlots(quadVars())
	if rect.X >= slots || rect.Y >= slots || rect.W >= slots || rect.H >= slots {
		t.Errorf("rect offsets not all < instance slots %d: %+v", slots, rect)
	}
}

func TestComputeInstancePropsMissingRect(t *testing.T) {
	vars := []Variable{
		{Name: "uv", Type: Vec2, Store: Instance},
	}
	_, rect := ComputeInstanceProps(vars)
	if rect.Present {
		t.Error("expected rect props absent when x/y/w/h are not all declared")
	}
}

func TestVariableStoresIgnoredForNonInstance(t *testing.T) {
	vars := []Variable{
		{Name: "mvp", Type: Mat4, Store: UniformCx},
		{Name: "x", Type: Float, Store: Instance},
	}
	named, _ := ComputeInstanceProps(vars)
	if len(named) != 1 || named[0].Name != "x" {
		t.Errorf("expected only instance-store variables in the named table, got %+v", named)
	}
	if slots := InstanceSlots(vars); slots != 1 {
		t.Errorf("InstanceSlots should ignore non-Instance stores, got %d", slots)
	}
}
