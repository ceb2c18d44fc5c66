package poseeval

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/poseinit/utils"
)

func TestBearingAngle(t *testing.T) {
	for _, tc := range []struct {
		name string
		pred r3.Vector
		gt   r3.Vector
		want float64
	}{
		{"same direction different length", r3.Vector{X: 1, Y: 2, Z: 2}, r3.Vector{X: 2, Y: 4, Z: 4}, 0},
		{"orthogonal", r3.Vector{X: 3}, r3.Vector{Y: 0.5}, math.Pi / 2},
		{"opposite", r3.Vector{Z: 1}, r3.Vector{Z: -7}, math.Pi},
		{"sixty degrees", r3.Vector{X: 1}, r3.Vector{X: 0.5, Y: math.Sqrt(3) / 2}, math.Pi / 3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BearingAngle(tc.pred, tc.gt, 0)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, got, test.ShouldAlmostEqual, tc.want, 1e-7)
		})
	}
}

func TestBearingAngleIdenticalIsZero(t *testing.T) {
	v := r3.Vector{X: float64(float32(0.1)), Y: float64(float32(-0.7)), Z: float64(float32(2.3))}
	got, err := BearingAngle(v, v, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldEqual, 0.0)
}

func TestBearingAngleReferenceEpsilon(t *testing.T) {
	pred := r3.Vector{X: 0.3, Y: -0.4, Z: 1.2}
	gt := r3.Vector{X: 0.25, Y: -0.35, Z: 1.3}
	plain, err := BearingAngle(pred, gt, 0)
	test.That(t, err, test.ShouldBeNil)
	ref, err := BearingAngle(pred, gt, ReferenceBearingEpsilon)
	test.That(t, err, test.ShouldBeNil)

	// the offset only touches the first vector, so swapping the arguments changes the result
	swapped, err := BearingAngle(gt, pred, ReferenceBearingEpsilon)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ref, test.ShouldNotEqual, plain)
	test.That(t, ref, test.ShouldNotEqual, swapped)
	test.That(t, ref, test.ShouldAlmostEqual, plain, 1e-4)

	n1 := pred.Normalize()
	n2 := gt.Normalize()
	want := math.Acos(n1.Add(r3.Vector{X: 1e-6, Y: 1e-6, Z: 1e-6}).Dot(n2))
	test.That(t, ref, test.ShouldAlmostEqual, want, 1e-12)
}

func TestBearingAngleFailures(t *testing.T) {
	var degenerate *utils.DegenerateInputError
	_, err := BearingAngle(r3.Vector{}, r3.Vector{X: 1}, 0)
	test.That(t, errors.As(err, &degenerate), test.ShouldBeTrue)
	_, err = BearingAngle(r3.Vector{X: 1}, r3.Vector{}, ReferenceBearingEpsilon)
	test.That(t, errors.As(err, &degenerate), test.ShouldBeTrue)

	var domainErr *utils.DomainError
	_, err = BearingAngle(r3.Vector{X: math.NaN()}, r3.Vector{X: 1}, 0)
	test.That(t, errors.As(err, &domainErr), test.ShouldBeTrue)
	_, err = BearingAngle(r3.Vector{X: 1}, r3.Vector{X: 1}, math.NaN())
	test.That(t, errors.As(err, &domainErr), test.ShouldBeTrue)
}
