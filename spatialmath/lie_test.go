package spatialmath

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/poseinit/utils"
)

func randomTwist(rng *rand.Rand, scale float64) Twist {
	data := make([]float64, 6)
	for i := range data {
		data[i] = rng.NormFloat64() * scale
	}
	tw, _ := NewTwist(data)
	return tw
}

func TestSE3ExpZeroIsIdentity(t *testing.T) {
	got := SE3Exp(Twist{})
	test.That(t, got.RowMajor(), test.ShouldResemble, NewIdentityTransform().RowMajor())

	// a negatively scaled zero twist must still be exactly the identity
	got = SE3Exp(Twist{}.Scale(-0.05))
	test.That(t, RigidTransformAlmostEqual(got, NewIdentityTransform(), 0), test.ShouldBeTrue)
}

func TestSO3ExpKnownRotations(t *testing.T) {
	for _, tc := range []struct {
		name  string
		w     r3.Vector
		input r3.Vector
		want  r3.Vector
	}{
		{"quarter turn about z", r3.Vector{Z: math.Pi / 2}, r3.Vector{X: 1}, r3.Vector{Y: 1}},
		{"quarter turn about x", r3.Vector{X: math.Pi / 2}, r3.Vector{Y: 1}, r3.Vector{Z: 1}},
		{"half turn about y", r3.Vector{Y: math.Pi}, r3.Vector{X: 1}, r3.Vector{X: -1}},
		{"small about z", r3.Vector{Z: 0.1}, r3.Vector{X: 1}, r3.Vector{X: math.Cos(0.1), Y: math.Sin(0.1)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := SO3Exp(tc.w).RotateVector(tc.input)
			test.That(t, got.X, test.ShouldAlmostEqual, tc.want.X)
			test.That(t, got.Y, test.ShouldAlmostEqual, tc.want.Y)
			test.That(t, got.Z, test.ShouldAlmostEqual, tc.want.Z)
		})
	}
}

func TestTaylorMatchesClosedForm(t *testing.T) {
	for _, x := range []float64{1e-8, 1e-3, 0.1, 0.5, 0.999} {
		test.That(t, taylor(x, 1), test.ShouldAlmostEqual, math.Sin(x)/x, 1e-12)
	}
	// the closed form of cosc cancels catastrophically, so only compare where it is still accurate
	for _, x := range []float64{1e-2, 0.1, 0.5, 0.999} {
		test.That(t, taylor(x, 2), test.ShouldAlmostEqual, (1-math.Cos(x))/(x*x), 1e-9)
	}
	test.That(t, taylor(1e-8, 2), test.ShouldAlmostEqual, 0.5)
	test.That(t, taylor(0.5, 3), test.ShouldAlmostEqual, (0.5-math.Sin(0.5))/0.125, 1e-12)
	// continuity across the switch point
	test.That(t, sinc(taylorThreshold-1e-12), test.ShouldAlmostEqual, sinc(taylorThreshold), 1e-9)
	test.That(t, cosc(taylorThreshold-1e-12), test.ShouldAlmostEqual, cosc(taylorThreshold), 1e-9)
	test.That(t, sincd(taylorThreshold-1e-12), test.ShouldAlmostEqual, sincd(taylorThreshold), 1e-9)
}

func TestSE3ExpProducesRigidTransforms(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 50; i++ {
		tw := randomTwist(rng, 1.5)
		rt := SE3Exp(tw)
		test.That(t, rt.Rotation().Validate(1e-9), test.ShouldBeNil)
	}
}

func TestSE3LogInvertsExp(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for _, scale := range []float64{1e-6, 0.05, 0.5, 1.2} {
		for i := 0; i < 20; i++ {
			tw := randomTwist(rng, scale)
			if tw.Omega.Norm() >= math.Pi {
				continue
			}
			back := SE3Log(SE3Exp(tw))
			got, want := back.Slice(), tw.Slice()
			for j := range want {
				test.That(t, got[j], test.ShouldAlmostEqual, want[j], 1e-9)
			}
		}
	}
}

func TestSO3LogNearPi(t *testing.T) {
	w := r3.Vector{X: 1, Y: 2, Z: -2}.Normalize().Mul(math.Pi - 1e-9)
	got := SO3Log(SO3Exp(w))
	test.That(t, got.Norm(), test.ShouldAlmostEqual, w.Norm(), 1e-6)
	// the axis is only defined up to sign at pi
	test.That(t, math.Abs(got.Normalize().Dot(w.Normalize())), test.ShouldAlmostEqual, 1, 1e-6)
}

func TestSE3ExpFirstOrderConsistency(t *testing.T) {
	// for small rotations the geodesic angle from identity is |omega|
	axis := r3.Vector{X: 0.2, Y: -0.9, Z: 0.4}.Normalize()
	for _, mag := range []float64{1e-6, 1e-4, 1e-2} {
		rt := SE3Exp(Twist{Omega: axis.Mul(mag), V: r3.Vector{X: mag}})
		angle := math.Acos(utils.Clamp((rt.Rotation().Trace()-1)/2, -1, 1))
		test.That(t, angle, test.ShouldAlmostEqual, mag, mag*1e-2)
		test.That(t, rt.Translation().X, test.ShouldAlmostEqual, mag, mag*1e-2)
	}
}

func TestNewTwistShape(t *testing.T) {
	tw, err := NewTwist([]float64{1, 2, 3, 4, 5, 6})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tw.Omega, test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, tw.V, test.ShouldResemble, r3.Vector{X: 4, Y: 5, Z: 6})

	_, err = NewTwist([]float64{1, 2, 3})
	var shapeErr *utils.ShapeError
	test.That(t, errors.As(err, &shapeErr), test.ShouldBeTrue)
}

func TestSkewSymmetricIsCrossProduct(t *testing.T) {
	w := r3.Vector{X: 0.3, Y: -1, Z: 2}
	v := r3.Vector{X: 4, Y: 0.5, Z: -1}
	got := fromVec3(SkewSymmetric(w).Mul3x1(toVec3(v)))
	want := w.Cross(v)
	test.That(t, got.X, test.ShouldAlmostEqual, want.X)
	test.That(t, got.Y, test.ShouldAlmostEqual, want.Y)
	test.That(t, got.Z, test.ShouldAlmostEqual, want.Z)
}
