package spatialmath

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/poseinit/utils"
)

func TestComposeIdentity(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	ident := NewIdentityTransform()
	for i := 0; i < 10; i++ {
		x := SE3Exp(randomTwist(rng, 1))
		test.That(t, RigidTransformAlmostEqual(Compose(ident, x), x, 0), test.ShouldBeTrue)
		test.That(t, RigidTransformAlmostEqual(Compose(x, ident), x, 0), test.ShouldBeTrue)
	}
}

func TestComposeAssociative(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	for i := 0; i < 20; i++ {
		a := SE3Exp(randomTwist(rng, 1))
		b := SE3Exp(randomTwist(rng, 1))
		c := SE3Exp(randomTwist(rng, 1))
		left := Compose(Compose(a, b), c)
		right := Compose(a, Compose(b, c))
		test.That(t, RigidTransformAlmostEqual(left, right, 1e-12), test.ShouldBeTrue)
		test.That(t, left.Rotation().Validate(1e-9), test.ShouldBeNil)
	}
}

func TestComposeOrder(t *testing.T) {
	// a translates, b rotates: a∘b rotates first
	a := NewRigidTransform(NewIdentityRotationMatrix(), r3.Vector{X: 1})
	b := NewRigidTransform(SO3Exp(r3.Vector{Z: math.Pi / 2}), r3.Vector{})
	p := Compose(a, b).Transform(r3.Vector{X: 1})
	test.That(t, p.X, test.ShouldAlmostEqual, 1)
	test.That(t, p.Y, test.ShouldAlmostEqual, 1)

	q := Compose(b, a).Transform(r3.Vector{X: 1})
	test.That(t, q.X, test.ShouldAlmostEqual, 0)
	test.That(t, q.Y, test.ShouldAlmostEqual, 2)
}

func TestInverseAndCameraCenter(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	x := SE3Exp(randomTwist(rng, 1))
	test.That(t, RigidTransformAlmostEqual(Compose(x, x.Inverse()), NewIdentityTransform(), 1e-12), test.ShouldBeTrue)
	test.That(t, RigidTransformAlmostEqual(Compose(x.Inverse(), x), NewIdentityTransform(), 1e-12), test.ShouldBeTrue)

	// the camera center maps to the camera's origin
	origin := x.Transform(x.CameraCenter())
	test.That(t, origin.Norm(), test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, x.CameraCenter(), test.ShouldResemble, x.Inverse().Translation())
}

func TestHomogeneousRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	x := SE3Exp(randomTwist(rng, 1))
	h := x.Homogeneous()
	test.That(t, h.Row(3), test.ShouldResemble, mgl64.Vec4{0, 0, 0, 1})

	back, err := NewRigidTransformFromHomogeneous(h)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back.Mat3x4(), test.ShouldResemble, x.Mat3x4())
	test.That(t, back.Homogeneous(), test.ShouldResemble, h)

	fromSlice, err := NewRigidTransformFromSlice(x.RowMajor())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, fromSlice.Mat3x4(), test.ShouldResemble, x.Mat3x4())

	full := append(x.RowMajor(), 0, 0, 0, 1)
	fromFull, err := NewRigidTransformFromSlice(full)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, fromFull.Mat3x4(), test.ShouldResemble, x.Mat3x4())
}

func TestRigidTransformErrors(t *testing.T) {
	_, err := NewRigidTransformFromSlice(make([]float64, 9))
	var shapeErr *utils.ShapeError
	test.That(t, errors.As(err, &shapeErr), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "(3, 4) or (4, 4)")

	bad := append(NewIdentityTransform().RowMajor(), 0, 0, 1, 1)
	_, err = NewRigidTransformFromSlice(bad)
	var domainErr *utils.DomainError
	test.That(t, errors.As(err, &domainErr), test.ShouldBeTrue)

	h := mgl64.Ident4()
	h.Set(3, 0, math.NaN())
	_, err = NewRigidTransformFromHomogeneous(h)
	test.That(t, errors.As(err, &domainErr), test.ShouldBeTrue)
}

func TestLookAt(t *testing.T) {
	eye := r3.Vector{X: 2, Y: -3, Z: 1}
	target := r3.Vector{X: 0.5, Y: 0.2, Z: 0}
	pose, err := LookAt(eye, target, r3.Vector{Z: 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.Rotation().Validate(1e-12), test.ShouldBeNil)

	center := pose.CameraCenter()
	test.That(t, center.X, test.ShouldAlmostEqual, eye.X)
	test.That(t, center.Y, test.ShouldAlmostEqual, eye.Y)
	test.That(t, center.Z, test.ShouldAlmostEqual, eye.Z)

	// the target lies on the optical axis in front of the camera
	inCam := pose.Transform(target)
	test.That(t, inCam.X, test.ShouldAlmostEqual, 0)
	test.That(t, inCam.Y, test.ShouldAlmostEqual, 0)
	test.That(t, inCam.Z, test.ShouldAlmostEqual, target.Sub(eye).Norm())

	// world up points toward -Y in the image
	above := pose.Transform(target.Add(r3.Vector{Z: 1}))
	test.That(t, above.Y, test.ShouldBeLessThan, 0)

	var degenerate *utils.DegenerateInputError
	_, err = LookAt(eye, eye, r3.Vector{Z: 1})
	test.That(t, errors.As(err, &degenerate), test.ShouldBeTrue)
	_, err = LookAt(r3.Vector{}, r3.Vector{Z: 5}, r3.Vector{Z: 1})
	test.That(t, errors.As(err, &degenerate), test.ShouldBeTrue)
}
