package training

import (
	"math"
	"reflect"
	"testing"
)

func TestFitScaler(t *testing.T) {
	X := [][]float64{
		{1, 10, 5},
		{3, 10, 7},
	}
	s, err := FitScaler(X)
	if err != nil {
		t.Fatalf("FitScaler() error = %v", err)
	}
	if !reflect.DeepEqual(s.Mean, []float64{2, 10, 6}) {
		t.Errorf("mean = %v, want [2 10 6]", s.Mean)
	}
	// Column 1 is constant: stddev guard keeps it at 1.0.
	if s.Stddev[1] != 1.0 {
		t.Errorf("constant column stddev = %v, want 1.0", s.Stddev[1])
	}
	if math.Abs(s.Stddev[0]-1.0) > 1e-12 {
		t.Errorf("stddev[0] = %v, want 1.0", s.Stddev[0])
	}

	got := s.Transform([]float64{3, 10, 6})
	want := []float64{1, 0, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Transform() = %v, want %v", got, want)
	}
}

func TestFitScalerEmpty(t *testing.T) {
	if _, err := FitScaler(nil); err == nil {
		t.Error("FitScaler(nil) = nil error, want error")
	}
}

func TestScalerNoLeakOnTransform(t *testing.T) {
	// Transforming held-out data must never move the fitted parameters.
	train := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	s, err := FitScaler(train)
	if err != nil {
		t.Fatalf("FitScaler() error = %v", err)
	}
	meanBefore := append([]float64{}, s.Mean...)
	stdBefore := append([]float64{}, s.Stddev...)

	test := [][]float64{{100, -100}, {42, 0.001}}
	s.TransformAll(test)
	s.Transform([]float64{9999, -9999})

	if !reflect.DeepEqual(s.Mean, meanBefore) || !reflect.DeepEqual(s.Stddev, stdBefore) {
		t.Error("scaler parameters changed after transforming test data")
	}
	// And the test rows themselves are untouched.
	if !reflect.DeepEqual(test[0], []float64{100, -100}) {
		t.Error("TransformAll mutated its input")
	}
}

func TestScalerParamsRoundTrip(t *testing.T) {
	s, err := FitScaler([][]float64{{1, 5}, {3, 9}})
	if err != nil {
		t.Fatalf("FitScaler() error = %v", err)
	}
	restored := ScalerFromParams(s.Params())
	in := []float64{2.5, 7.5}
	if !reflect.DeepEqual(s.Transform(in), restored.Transform(in)) {
		t.Error("params round trip changed transform output")
	}
}
