package cli

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"go.viam.com/poseinit/posenoise"
	"go.viam.com/poseinit/spatialmath"
)

// ringPoses returns a (1, n, 4, 4) tensor of world-to-camera poses for n cameras evenly spaced on
// a horizontal circle of the given radius, all looking at the origin.
func ringPoses(n int, radius float64) (*tensor.Dense, error) {
	if n <= 0 {
		return nil, errors.Errorf("ring needs at least one camera, got %d", n)
	}
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, errors.Errorf("ring radius must be finite and positive, got %v", radius)
	}
	poses := make([]*spatialmath.RigidTransform, n)
	for i := range poses {
		theta := 2 * math.Pi * float64(i) / float64(n)
		eye := r3.Vector{X: radius * math.Cos(theta), Z: radius * math.Sin(theta)}
		pose, err := spatialmath.LookAt(eye, r3.Vector{}, r3.Vector{Y: 1})
		if err != nil {
			return nil, errors.Wrapf(err, "camera %d", i)
		}
		poses[i] = pose
	}
	batch, err := posenoise.NewPoseBatch(1, n, poses)
	if err != nil {
		return nil, err
	}
	return batch.Tensor(), nil
}
