package viewer

import "testing"

func TestFrameTimerReportsOncePerPeriod(t *testing.T) {
	ft := NewFrameTimer(1)

	// 60 frames at ~16.67ms, starting at t=10.
	reports := 0
	var ms float64
	for i := 0; i <= 60; i++ {
		if v, ok := ft.Tick(10 + float64(i)/60); ok {
			reports++
			ms = v
		}
	}
	if reports != 1 {
		t.Fatalf("expected 1 report, got %d", reports)
	}
	if ms < 16 || ms > 17 {
		t.Errorf("expected ~16.4ms/frame, got %f", ms)
	}
}

func TestFrameTimerNoReportBeforePeriod(t *testing.T) {
	ft := NewFrameTimer(1)
	for _, now := range []float64{0, 0.25, 0.5, 0.99} {
		if _, ok := ft.Tick(now); ok {
			t.Fatalf("unexpected report at %f", now)
		}
	}
}

func TestFrameTimerKeepsCadence(t *testing.T) {
	ft := NewFrameTimer(1)
	ft.Tick(0)
	if _, ok := ft.Tick(1.5); !ok {
		t.Fatal("expected report after 1.5s")
	}
	// Next period ends at 2, not 2.5.
	if _, ok := ft.Tick(2.0); !ok {
		t.Error("expected report at the next whole period")
	}
}
