package ggview

import (
	"math"
	"testing"

	"github.com/gogpu/gg"
)

func TestVec2Arithmetic(t *testing.T) {
	a, b := V2(3, 4), V2(1, -2)

	tests := []struct {
		name string
		got  Vec2
		want Vec2
	}{
		{"add", a.Add(b), V2(4, 2)},
		{"sub", a.Sub(b), V2(2, 6)},
		{"mul", a.Mul(2), V2(6, 8)},
		{"div", a.Div(2), V2(1.5, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if got := a.Length(); got != 5 {
		t.Errorf("Length() = %v, want 5", got)
	}
}

func TestVec2Predicates(t *testing.T) {
	if !(Vec2{}).IsZero() {
		t.Error("zero vector IsZero() = false")
	}
	if V2(0, 1e-300).IsZero() {
		t.Error("non-zero vector IsZero() = true")
	}
	if !V2(1, 2).IsFinite() {
		t.Error("V2(1, 2).IsFinite() = false")
	}
	for _, v := range []Vec2{V2(math.NaN(), 0), V2(0, math.Inf(1)), V2(math.Inf(-1), 0)} {
		if v.IsFinite() {
			t.Errorf("%v.IsFinite() = true, want false", v)
		}
	}
	if !V2(1, 1).Approx(V2(1+1e-12, 1-1e-12), 1e-9) {
		t.Error("Approx within epsilon = false")
	}
	if V2(1, 1).Approx(V2(1.1, 1), 1e-9) {
		t.Error("Approx outside epsilon = true")
	}
}

func TestVec2PointConversion(t *testing.T) {
	v := V2(7, -3)
	p := v.Point()
	if p != gg.Pt(7, -3) {
		t.Errorf("Point() = %v, want (7, -3)", p)
	}
	if FromPoint(p) != v {
		t.Errorf("FromPoint(%v) = %v, want %v", p, FromPoint(p), v)
	}
}
