package poseeval

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/poseinit/spatialmath"
	"go.viam.com/poseinit/utils"
)

// Variance below which the source points are treated as a single point when estimating scale.
const varianceEpsilon = 1e-9

// Similarity is the transform p -> Scale * Rotation * p + Translation.
type Similarity struct {
	Rotation    *spatialmath.RotationMatrix
	Translation r3.Vector
	Scale       float64
}

// Apply maps a point through the similarity.
func (s *Similarity) Apply(p r3.Vector) r3.Vector {
	return s.Rotation.RotateVector(p).Mul(s.Scale).Add(s.Translation)
}

// AlignSimilarity returns the similarity that best maps src onto dst in the least squares sense
// (Umeyama, 1991). Fewer than three non-collinear points leave the rotation underdetermined; a
// proper rotation is still returned.
func AlignSimilarity(src, dst []r3.Vector) (*Similarity, error) {
	if len(src) != len(dst) {
		return nil, utils.NewShapeError("similarity alignment", "two point sets of equal length", len(src), len(dst))
	}
	if len(src) == 0 {
		return nil, utils.NewDegenerateInputError("similarity alignment", "no points to align")
	}
	n := float64(len(src))
	muSrc, muDst := centroid(src), centroid(dst)

	cov := mat.NewDense(3, 3, nil)
	devs := make([]float64, 0, 3*len(src))
	for i := range src {
		ds := src[i].Sub(muSrc)
		dd := dst[i].Sub(muDst)
		var outer mat.Dense
		outer.Outer(1, mat.NewVecDense(3, []float64{dd.X, dd.Y, dd.Z}), mat.NewVecDense(3, []float64{ds.X, ds.Y, ds.Z}))
		cov.Add(cov, &outer)
		devs = append(devs, ds.X, ds.Y, ds.Z)
	}
	cov.Scale(1/n, cov)
	varSrc := floats.Dot(devs, devs) / n

	var svd mat.SVD
	if ok := svd.Factorize(cov, mat.SVDFull); !ok {
		return nil, utils.NewDomainError("similarity alignment", "failed to factorize the cross covariance")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	// reflect the last axis if needed so the result is a proper rotation
	sign := 1.
	if mat.Det(&u)*mat.Det(&v) < 0 {
		sign = -1
	}
	var rot mat.Dense
	rot.Mul(&u, mat.NewDiagDense(3, []float64{1, 1, sign}))
	rot.Mul(&rot, v.T())

	rotation, err := spatialmath.NewRotationMatrix(mat.DenseCopyOf(&rot).RawMatrix().Data)
	if err != nil {
		return nil, err
	}
	scale := (values[0] + values[1] + sign*values[2]) / math.Max(varSrc, varianceEpsilon)
	translation := muDst.Sub(rotation.RotateVector(muSrc).Mul(scale))
	return &Similarity{Rotation: rotation, Translation: translation, Scale: scale}, nil
}

// CameraCenterError aligns the camera centers of pred to those of gt with a similarity and returns
// the distance between each aligned predicted center and its ground truth, divided by sceneScale.
// The alignment is returned for callers that want to reuse it.
func CameraCenterError(pred, gt []*spatialmath.RigidTransform, sceneScale float64) ([]float64, *Similarity, error) {
	if len(pred) != len(gt) {
		return nil, nil, utils.NewShapeError("camera center error", "two batches of equal length", len(pred), len(gt))
	}
	if !(sceneScale > 0) || math.IsInf(sceneScale, 0) {
		return nil, nil, utils.NewDomainError("camera center error", "scene scale must be positive and finite, got %v", sceneScale)
	}
	predCenters := make([]r3.Vector, len(pred))
	gtCenters := make([]r3.Vector, len(gt))
	for i := range pred {
		predCenters[i] = pred[i].CameraCenter()
		gtCenters[i] = gt[i].CameraCenter()
	}
	sim, err := AlignSimilarity(predCenters, gtCenters)
	if err != nil {
		return nil, nil, err
	}
	out := make([]float64, len(pred))
	for i := range predCenters {
		d := gtCenters[i].Sub(sim.Apply(predCenters[i])).Norm()
		if math.IsNaN(d) {
			return nil, nil, utils.NewDomainError("camera center error", "NaN distance for camera %d", i)
		}
		out[i] = d / sceneScale
	}
	return out, sim, nil
}

func centroid(pts []r3.Vector) r3.Vector {
	var sum r3.Vector
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(pts)))
}
