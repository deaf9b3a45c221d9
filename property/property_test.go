package property

import (
	"testing"

	"github.com/vcrfx/vcr/value"
)

func TestKeyframeLinearMidpoint(t *testing.T) {
	p := Scalar{
		Kind: Keyframe,
		Keyframe: KeyframeScalar{
			StartFrame: 0, EndFrame: 10,
			From: 0, To: 100,
			Easing: value.EaseLinear,
		},
	}
	got, err := SampleScalar(p, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got != 50 {
		t.Fatalf("got %v, want 50", got)
	}
}

func TestKeyframeMonotonicity(t *testing.T) {
	p := Scalar{
		Kind: Keyframe,
		Keyframe: KeyframeScalar{
			StartFrame: 0, EndFrame: 20,
			From: 10, To: 90,
			Easing: value.EaseLinear,
		},
	}
	const n = 20
	for k := 0; k <= n; k++ {
		frame := 0 + k*(20-0)/n
		got, err := SampleScalar(p, frame)
		if err != nil {
			t.Fatal(err)
		}
		if got < 10 || got > 90 {
			t.Fatalf("frame %d: value %v out of [10,90]", frame, got)
		}
	}
}

func TestKeyframeClampsOutsideRange(t *testing.T) {
	p := Scalar{
		Kind: Keyframe,
		Keyframe: KeyframeScalar{
			StartFrame: 5, EndFrame: 15,
			From: 0, To: 1,
			Easing: value.EaseLinear,
		},
	}
	if got, _ := SampleScalar(p, 0); got != 0 {
		t.Fatalf("before start: got %v, want 0", got)
	}
	if got, _ := SampleScalar(p, 100); got != 1 {
		t.Fatalf("after end: got %v, want 1", got)
	}
}
