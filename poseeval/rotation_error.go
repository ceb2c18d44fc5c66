// Package poseeval compares estimated camera poses against ground truth.
//
// All metrics are stateless and operate on equally sized batches. Rotation metrics take
// rotation matrices, translation metrics take world-to-camera rigid transforms.
package poseeval

import (
	"math"

	"go.viam.com/poseinit/spatialmath"
	"go.viam.com/poseinit/utils"
)

// GeodesicDistance returns, for every pair, the angle in radians of the rotation r1[i] * r2[i]^T,
// the length of the shortest path between the two rotations on SO(3).
func GeodesicDistance(r1, r2 []*spatialmath.RotationMatrix) ([]float64, error) {
	if err := checkRotationBatches("geodesic distance", r1, r2); err != nil {
		return nil, err
	}
	out := make([]float64, len(r1))
	for i := range r1 {
		angle, err := rotationAngle("geodesic distance", r1[i], r2[i], i)
		if err != nil {
			return nil, err
		}
		out[i] = angle
	}
	return out, nil
}

// AngularErrorBatch returns, for every pair, the angle in degrees of the relative rotation
// r2[i] * r1[i]^T. The result is not reduced so callers can compute their own statistics.
func AngularErrorBatch(r1, r2 []*spatialmath.RotationMatrix) ([]float64, error) {
	if err := checkRotationBatches("angular error", r1, r2); err != nil {
		return nil, err
	}
	out := make([]float64, len(r1))
	for i := range r1 {
		angle, err := rotationAngle("angular error", r2[i], r1[i], i)
		if err != nil {
			return nil, err
		}
		out[i] = utils.RadToDeg(angle)
	}
	return out, nil
}

// rotationAngle returns the angle of a * b^T, symmetric in a and b. trace(a b^T) is the Frobenius
// inner product and ||a - b||_F = 2*sqrt(2)*sin(theta/2). Identical inputs give exactly 0.
func rotationAngle(op string, a, b *spatialmath.RotationMatrix, idx int) (float64, error) {
	cos := (spatialmath.FrobeniusInner(a, b) - 1) / 2
	chord := spatialmath.FrobeniusDistance(a, b)
	if math.IsNaN(cos) || math.IsNaN(chord) {
		return 0, utils.NewDomainError(op, "rotation pair %d produced a NaN trace", idx)
	}
	return stableAngle(cos, chord/(2*math.Sqrt2)), nil
}

// stableAngle returns the angle with the given cosine and half-angle sine, using the arcsin form
// below pi/2.
func stableAngle(cos, halfSin float64) float64 {
	if cos > 0 {
		return 2 * math.Asin(math.Min(1, halfSin))
	}
	return math.Acos(utils.Clamp(cos, -1, 1))
}

func checkRotationBatches(op string, r1, r2 []*spatialmath.RotationMatrix) error {
	if len(r1) != len(r2) {
		return utils.NewShapeError(op, "two batches of equal length", len(r1), len(r2))
	}
	if len(r1) == 0 {
		return utils.NewDegenerateInputError(op, "no rotations to compare")
	}
	return nil
}
