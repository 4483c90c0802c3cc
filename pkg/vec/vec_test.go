package vec

import (
	"math"
	"testing"
)

func TestNormalizeUnitLength(t *testing.T) {
	cases := []Vector3{
		{1, 0, 0},
		{3, 4, 0},
		{-2.5, 1.5, 7},
		{0.001, -0.001, 0},
	}

	for _, v := range cases {
		n := v.Normalize()
		if math.Abs(n.Length()-1.0) > 1e-12 {
			t.Errorf("Normalize(%v) has length %v, expected 1", v, n.Length())
		}
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	n := Vector3{}.Normalize()
	if n != (Vector3{}) {
		t.Errorf("Normalize of zero vector = %v, expected zero vector", n)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	v := Vector3{3, -4, 12}
	once := v.Normalize()
	twice := once.Normalize()

	if math.Abs(once.X-twice.X) > 1e-12 ||
		math.Abs(once.Y-twice.Y) > 1e-12 ||
		math.Abs(once.Z-twice.Z) > 1e-12 {
		t.Errorf("Normalize not idempotent: %v vs %v", once, twice)
	}
}

func TestArithmetic(t *testing.T) {
	a := Vector3{1, 2, 3}
	b := Vector3{4, -5, 6}

	if got := a.Add(b); got != (Vector3{5, -3, 9}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (Vector3{-3, 7, -3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != (Vector3{2, 4, 6}) {
		t.Errorf("Scale = %v", got)
	}
}

func TestDistanceTo(t *testing.T) {
	a := Vector3{0, 0, 0}
	b := Vector3{3, 4, 0}
	if d := a.DistanceTo(b); math.Abs(d-5) > 1e-12 {
		t.Errorf("DistanceTo = %v, expected 5", d)
	}
}
