// Package posenoise perturbs ground-truth camera poses with random rigid motions and reports how
// far the perturbed poses are from the truth.
package posenoise

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"

	"go.viam.com/poseinit/spatialmath"
	"go.viam.com/poseinit/utils"
)

// SampleNoise returns nPoses perturbations. The first nFixed are identities; every other one is
// SE3Exp of a twist whose six components are independent N(0, noiseLevel^2) draws from rng.
func SampleNoise(rng *rand.Rand, nPoses, nFixed int, noiseLevel float64) ([]*spatialmath.RigidTransform, error) {
	if rng == nil {
		return nil, errors.New("a random generator is required to sample pose noise")
	}
	if nPoses < 0 || nFixed < 0 || nFixed > nPoses {
		return nil, utils.NewDomainError("sample noise", "need 0 <= fixed (%d) <= poses (%d)", nFixed, nPoses)
	}
	if !(noiseLevel >= 0) || math.IsInf(noiseLevel, 0) {
		return nil, utils.NewDomainError("sample noise", "noise level must be finite and non-negative, got %v", noiseLevel)
	}

	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}
	noise := make([]*spatialmath.RigidTransform, nPoses)
	for i := 0; i < nFixed; i++ {
		noise[i] = spatialmath.NewIdentityTransform()
	}
	draw := make([]float64, 6)
	for i := nFixed; i < nPoses; i++ {
		for j := range draw {
			draw[j] = dist.Rand() * noiseLevel
		}
		tw, err := spatialmath.NewTwist(draw)
		if err != nil {
			return nil, err
		}
		noise[i] = spatialmath.SE3Exp(tw)
	}
	return noise, nil
}
