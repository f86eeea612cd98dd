package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/tinsel/config"
)

func init() {
	config.MustInit("")
}

func newCamera() *Camera {
	return New(config.Cfg().Camera)
}

func TestNew(t *testing.T) {
	cam := newCamera()

	// Should sit on +Z at the configured distance
	pos := cam.Position()
	want := mgl32.Vec3{0, 0, cam.Distance}
	if pos.Sub(want).Len() > 1e-4 {
		t.Errorf("expected camera at %v, got %v", want, pos)
	}
	if cam.Distance != 35 {
		t.Errorf("expected distance 35, got %f", cam.Distance)
	}
}

func TestOrbitClampsPolar(t *testing.T) {
	cam := newCamera()

	cam.Orbit(0, -10)
	if cam.Polar != cam.MinPolar {
		t.Errorf("expected polar clamped to %f, got %f", cam.MinPolar, cam.Polar)
	}
	cam.Orbit(0, 20)
	if cam.Polar != cam.MaxPolar {
		t.Errorf("expected polar clamped to %f, got %f", cam.MaxPolar, cam.Polar)
	}
}

func TestZoomClampsDistance(t *testing.T) {
	tests := []struct {
		name   string
		factor float32
		want   float32
	}{
		{"zoom in hard", 100, 10},
		{"zoom out hard", 0.01, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := newCamera()
			cam.ZoomBy(tt.factor)
			if cam.Distance != tt.want {
				t.Errorf("ZoomBy(%v) distance = %v, want %v", tt.factor, cam.Distance, tt.want)
			}
		})
	}
}

func TestZoomIgnoresNonPositive(t *testing.T) {
	cam := newCamera()
	cam.ZoomBy(0)
	cam.ZoomBy(-2)
	if cam.Distance != 35 {
		t.Errorf("distance changed to %v", cam.Distance)
	}
}

func TestAutoRotateOnlyWhenEnabled(t *testing.T) {
	cam := newCamera()

	cam.Update(1, false)
	if cam.Azimuth != 0 {
		t.Errorf("azimuth moved without auto-rotate: %v", cam.Azimuth)
	}

	cam.Update(1, true)
	if math.Abs(float64(cam.Azimuth-cam.AutoRotateSpeed)) > 1e-6 {
		t.Errorf("azimuth = %v, want %v", cam.Azimuth, cam.AutoRotateSpeed)
	}
}

func TestAzimuthWraps(t *testing.T) {
	cam := newCamera()
	for i := 0; i < 100; i++ {
		cam.Orbit(1, 0)
		if cam.Azimuth > math.Pi || cam.Azimuth < -math.Pi {
			t.Fatalf("azimuth %v escaped [-pi, pi]", cam.Azimuth)
		}
	}
}

func TestDistancePreservedByOrbit(t *testing.T) {
	cam := newCamera()
	cam.Orbit(0.7, 0.2)
	if d := cam.Position().Sub(cam.Target).Len(); math.Abs(float64(d-cam.Distance)) > 1e-3 {
		t.Errorf("orbit changed distance: %v", d)
	}
}

func TestReset(t *testing.T) {
	cam := newCamera()
	cam.Orbit(1, 0.3)
	cam.ZoomBy(2)
	cam.Reset()
	if cam.Azimuth != 0 || cam.Distance != 35 || cam.Polar != float32(math.Pi/2) {
		t.Errorf("reset left az=%v polar=%v dist=%v", cam.Azimuth, cam.Polar, cam.Distance)
	}
}
