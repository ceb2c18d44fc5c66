package poseeval

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.viam.com/test"

	"go.viam.com/poseinit/spatialmath"
	"go.viam.com/poseinit/utils"
)

func ringPoses(t *testing.T, n int, radius float64) []*spatialmath.RigidTransform {
	t.Helper()
	poses := make([]*spatialmath.RigidTransform, n)
	for i := range poses {
		angle := 2 * math.Pi * float64(i) / float64(n)
		eye := r3.Vector{X: radius * math.Cos(angle), Y: radius * math.Sin(angle), Z: 0.3 * radius}
		pose, err := spatialmath.LookAt(eye, r3.Vector{}, r3.Vector{Z: 1})
		test.That(t, err, test.ShouldBeNil)
		poses[i] = pose
	}
	return poses
}

func TestAlignSimilarityRecoversTransform(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	want := &Similarity{
		Rotation:    spatialmath.SO3Exp(r3.Vector{X: 0.4, Y: -0.7, Z: 1.1}),
		Translation: r3.Vector{X: 1, Y: -2, Z: 0.5},
		Scale:       2.5,
	}
	src := make([]r3.Vector, 12)
	dst := make([]r3.Vector, len(src))
	for i := range src {
		src[i] = r3.Vector{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		dst[i] = want.Apply(src[i])
	}
	got, err := AlignSimilarity(src, dst)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Scale, test.ShouldAlmostEqual, want.Scale, 1e-9)
	test.That(t, spatialmath.RotationMatrixAlmostEqual(got.Rotation, want.Rotation, 1e-9), test.ShouldBeTrue)
	test.That(t, got.Translation.Sub(want.Translation).Norm(), test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, got.Rotation.Validate(1e-9), test.ShouldBeNil)
}

func TestAlignSimilarityProperRotationForPlanarPoints(t *testing.T) {
	// a mirrored planar set would be fit best by a reflection; the result must stay a rotation
	src := []r3.Vector{{X: 1}, {Y: 1}, {X: -1}, {Y: -2}}
	dst := make([]r3.Vector, len(src))
	for i, p := range src {
		dst[i] = r3.Vector{X: p.X, Y: -p.Y}
	}
	got, err := AlignSimilarity(src, dst)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Rotation.Validate(1e-9), test.ShouldBeNil)
}

func TestCameraCenterErrorZeroForIdenticalPoses(t *testing.T) {
	poses := ringPoses(t, 6, 2)
	errs, sim, err := CameraCenterError(poses, poses, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sim.Scale, test.ShouldAlmostEqual, 1, 1e-9)
	want := make([]float64, len(poses))
	test.That(t, cmp.Diff(want, errs, cmpopts.EquateApprox(0, 1e-9)), test.ShouldBeEmpty)
}

func TestCameraCenterErrorIsSimilarityInvariant(t *testing.T) {
	gt := ringPoses(t, 5, 3)
	// moving, rotating and scaling the whole rig is absorbed by the alignment
	rig := spatialmath.NewRigidTransform(spatialmath.SO3Exp(r3.Vector{Y: 0.8}), r3.Vector{X: 4, Z: -1})
	const scale = 0.25
	pred := make([]*spatialmath.RigidTransform, len(gt))
	for i, pose := range gt {
		moved := spatialmath.Compose(pose, rig.Inverse())
		pred[i] = spatialmath.NewRigidTransform(moved.Rotation(), moved.Translation().Mul(scale))
	}
	errs, sim, err := CameraCenterError(pred, gt, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sim.Scale, test.ShouldAlmostEqual, 1/scale, 1e-9)
	for _, e := range errs {
		test.That(t, e, test.ShouldAlmostEqual, 0, 1e-9)
	}
}

func TestCameraCenterErrorScaleNormalized(t *testing.T) {
	gt := ringPoses(t, 4, 1)
	pred := make([]*spatialmath.RigidTransform, len(gt))
	copy(pred, gt)
	// push one camera off the ring along its own optical axis
	offset := spatialmath.NewRigidTransform(spatialmath.NewIdentityRotationMatrix(), r3.Vector{Z: 0.1})
	pred[0] = spatialmath.Compose(offset, gt[0])

	unit, _, err := CameraCenterError(pred, gt, 1)
	test.That(t, err, test.ShouldBeNil)
	half, _, err := CameraCenterError(pred, gt, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, unit[0], test.ShouldBeGreaterThan, 0)
	for i := range unit {
		test.That(t, half[i], test.ShouldAlmostEqual, unit[i]/2)
	}
}

func TestCameraCenterErrorFailures(t *testing.T) {
	poses := ringPoses(t, 3, 1)
	var domainErr *utils.DomainError
	for _, scale := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, _, err := CameraCenterError(poses, poses, scale)
		test.That(t, errors.As(err, &domainErr), test.ShouldBeTrue)
	}
	_, _, err := CameraCenterError(poses, poses[:2], 1)
	var shapeErr *utils.ShapeError
	test.That(t, errors.As(err, &shapeErr), test.ShouldBeTrue)

	_, _, err = CameraCenterError(nil, nil, 1)
	var degenerate *utils.DegenerateInputError
	test.That(t, errors.As(err, &degenerate), test.ShouldBeTrue)
}

func TestCameraCenterErrorCoincidentCenters(t *testing.T) {
	// every camera at the origin: no spread to align, and no error either
	ident := spatialmath.NewIdentityTransform()
	rotated := spatialmath.NewRigidTransform(spatialmath.SO3Exp(r3.Vector{X: 0.2}), r3.Vector{})
	errs, sim, err := CameraCenterError(
		[]*spatialmath.RigidTransform{ident, rotated},
		[]*spatialmath.RigidTransform{ident, ident}, 1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sim.Scale, test.ShouldEqual, 0.)
	test.That(t, errs, test.ShouldResemble, []float64{0, 0})
}
