package poseeval

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/poseinit/utils"
)

// ReferenceBearingEpsilon is the offset the CoPoNeRF evaluation adds to every component of
// the normalized predicted translation. Pass it to BearingAngle to reproduce published numbers.
const ReferenceBearingEpsilon = 1e-6

// BearingAngle returns the angle in radians between the directions of two translation vectors.
// epsilon is added to each component of the normalized pred only, the way the CoPoNeRF evaluation
// does it; pass 0 for the plain angle.
func BearingAngle(pred, gt r3.Vector, epsilon float64) (float64, error) {
	predNorm, gtNorm := pred.Norm(), gt.Norm()
	if math.IsNaN(predNorm) || math.IsNaN(gtNorm) {
		return 0, utils.NewDomainError("bearing angle", "NaN translation (pred %v, gt %v)", pred, gt)
	}
	if predNorm == 0 || gtNorm == 0 {
		return 0, utils.NewDegenerateInputError("bearing angle", "zero length translation has no direction (pred %v, gt %v)", pred, gt)
	}
	predDir := pred.Mul(1 / predNorm).Add(r3.Vector{X: epsilon, Y: epsilon, Z: epsilon})
	gtDir := gt.Mul(1 / gtNorm)
	cos := predDir.Dot(gtDir)
	if math.IsNaN(cos) {
		return 0, utils.NewDomainError("bearing angle", "NaN cosine similarity")
	}
	if epsilon == 0 {
		return stableAngle(cos, predDir.Sub(gtDir).Norm()/2), nil
	}
	return math.Acos(utils.Clamp(cos, -1, 1)), nil
}
