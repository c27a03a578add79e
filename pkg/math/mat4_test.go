package math

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestMulOrder(t *testing.T) {
	// Scale then translate: T * S applied to (1,1,1) -> (2+5, 2, 2)
	m := Translate(5, 0, 0).Mul(Scale(2, 2, 2))
	got := m.TransformPoint(Vec3{1, 1, 1})
	want := Vec3{7, 2, 2}
	if got != want {
		t.Errorf("T*S point: got %v, want %v", got, want)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestPerspectiveKnownValues(t *testing.T) {
	m, err := Perspective(math.Pi/2, 1.0, 0.1, 100.0)
	if err != nil {
		t.Fatalf("Perspective: %v", err)
	}

	if d := m.At(1, 1) - 1; abs(d) > eps {
		t.Errorf("[1][1] = %f, want 1 (tan 45 = 1)", m.At(1, 1))
	}
	if m.At(2, 3) != -1 {
		t.Errorf("[2][3] = %f, want -1", m.At(2, 3))
	}
	if m[15] != 0 {
		t.Errorf("[3][3] = %f, want 0", m[15])
	}
	wantZ := float32(-(100.0 + 0.1) / (100.0 - 0.1))
	if abs(m.At(2, 2)-wantZ) > eps {
		t.Errorf("[2][2] = %f, want %f", m.At(2, 2), wantZ)
	}
	wantW := float32(-(2 * 100.0 * 0.1) / (100.0 - 0.1))
	if abs(m.At(3, 2)-wantW) > eps {
		t.Errorf("[3][2] = %f, want %f", m.At(3, 2), wantW)
	}
}

func TestPerspectiveMatchesReference(t *testing.T) {
	tests := []struct {
		name                   string
		fov, aspect, near, far float32
	}{
		{"45deg 4:3", Radians(45), 4.0 / 3.0, 0.1, 100},
		{"60deg 16:9", Radians(60), 16.0 / 9.0, 0.5, 500},
		{"narrow", Radians(10), 1, 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Perspective(tt.fov, tt.aspect, tt.near, tt.far)
			if err != nil {
				t.Fatalf("Perspective: %v", err)
			}
			want := mgl32.Perspective(tt.fov, tt.aspect, tt.near, tt.far)
			assertMat4Near(t, got, Mat4(want), 1e-4)
		})
	}
}

func TestPerspectiveInvalidArgument(t *testing.T) {
	tests := []struct {
		name                   string
		fov, aspect, near, far float32
	}{
		{"zero aspect", Radians(45), 0, 0.1, 100},
		{"negative zero aspect", Radians(45), float32(math.Copysign(0, -1)), 0.1, 100},
		{"near equals far", Radians(45), 1, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Perspective(tt.fov, tt.aspect, tt.near, tt.far)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestOrthoUnitBox(t *testing.T) {
	m := Ortho(-1, 1, -1, 1, -1, 1)
	want := Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, -1, 0,
		0, 0, 0, 1,
	}
	if m != want {
		t.Errorf("Ortho(-1,1,-1,1,-1,1) = %v, want %v", m, want)
	}
}

func TestOrthoMatchesReference(t *testing.T) {
	got := Ortho(0, 1024, 0, 768, -10, 20)
	want := mgl32.Ortho(0, 1024, 0, 768, -10, 20)
	assertMat4Near(t, got, Mat4(want), 1e-6)

	// Box corners land on the clip volume corners.
	p := got.TransformPoint(Vec3{1024, 768, 10})
	if abs(p.X-1) > eps || abs(p.Y-1) > eps || abs(p.Z+1) > eps {
		t.Errorf("corner mapped to %v, want (1, 1, -1)", p)
	}
}

func TestLookAtMatchesReference(t *testing.T) {
	tests := []struct {
		name            string
		eye, center, up Vec3
	}{
		{"down -Z", Vec3{0, 0, 5}, Vec3{0, 0, 0}, Vec3{0, 1, 0}},
		{"oblique", Vec3{4, 3, 3}, Vec3{0, 0, 0}, Vec3{0, 1, 0}},
		{"tilted up", Vec3{1, 2, 3}, Vec3{-2, 0.5, 7}, Vec3{0.3, 1, 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LookAt(tt.eye, tt.center, tt.up)
			want := mgl32.LookAtV(
				mgl32.Vec3{tt.eye.X, tt.eye.Y, tt.eye.Z},
				mgl32.Vec3{tt.center.X, tt.center.Y, tt.center.Z},
				mgl32.Vec3{tt.up.X, tt.up.Y, tt.up.Z},
			)
			assertMat4Near(t, got, Mat4(want), 1e-4)

			// The eye sits at the view-space origin.
			o := got.TransformPoint(tt.eye)
			if o.Length() > 1e-4 {
				t.Errorf("eye maps to %v, want origin", o)
			}
		})
	}
}

func TestLookAtOrthonormal(t *testing.T) {
	tests := []struct {
		eye, center, up Vec3
	}{
		{Vec3{0, 0, 5}, Vec3{0, 0, 0}, Vec3{0, 1, 0}},
		{Vec3{4, 3, 3}, Vec3{0, 0, 0}, Vec3{0, 1, 0}},
		// up not perpendicular to forward
		{Vec3{0, 0, 0}, Vec3{1, 1, 0}, Vec3{0, 1, 0}},
		{Vec3{-3, 7, 2}, Vec3{5, -1, 9}, Vec3{1, 1, 1}},
	}

	for _, tt := range tests {
		m := LookAt(tt.eye, tt.center, tt.up)
		cols := [3]Vec3{m.Col(0), m.Col(1), m.Col(2)}
		for i := 0; i < 3; i++ {
			if l := cols[i].Length(); abs(l-1) > eps {
				t.Errorf("%v: column %d length = %f, want 1", tt, i, l)
			}
			for j := i + 1; j < 3; j++ {
				if d := cols[i].Dot(cols[j]); abs(d) > eps {
					t.Errorf("%v: columns %d,%d dot = %f, want 0", tt, i, j, d)
				}
			}
		}
	}
}

func TestLookAtDegenerate(t *testing.T) {
	// eye == center: forward normalizes to zero, nothing may become NaN.
	m := LookAt(Vec3{1, 2, 3}, Vec3{1, 2, 3}, Vec3{0, 1, 0})
	if m.IsNaN() {
		t.Errorf("LookAt with eye == center produced NaN: %v", m)
	}
}

func assertMat4Near(t *testing.T, got, want Mat4, tol float32) {
	t.Helper()
	for i := range got {
		if abs(got[i]-want[i]) > tol {
			t.Errorf("element %d (col %d, row %d): got %f, want %f", i, i/4, i%4, got[i], want[i])
		}
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
