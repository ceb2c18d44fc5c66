package posenoise

import (
	"fmt"

	"go.viam.com/poseinit/spatialmath"
	"go.viam.com/poseinit/utils"
)

// Side selects which side of the ground-truth pose a perturbation is composed on.
type Side int

const (
	// PerturbLeft returns noise ∘ pose: the perturbation acts on the output of the pose, which for
	// a world-to-camera pose is the camera frame.
	PerturbLeft Side = iota
	// PerturbRight returns pose ∘ noise: the perturbation acts on world points before the pose.
	// This is the order the CoPoNeRF evaluation composes in.
	PerturbRight
)

func (s Side) String() string {
	switch s {
	case PerturbLeft:
		return "left"
	case PerturbRight:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ComposeBatch applies noise[i] to gt[i] for every i.
func ComposeBatch(noise, gt []*spatialmath.RigidTransform, side Side) ([]*spatialmath.RigidTransform, error) {
	if len(noise) != len(gt) {
		return nil, utils.NewShapeError("compose batch", "equal numbers of perturbations and poses", len(noise), len(gt))
	}
	out := make([]*spatialmath.RigidTransform, len(gt))
	for i := range gt {
		switch side {
		case PerturbLeft:
			out[i] = spatialmath.Compose(noise[i], gt[i])
		case PerturbRight:
			out[i] = spatialmath.Compose(gt[i], noise[i])
		default:
			return nil, utils.NewDomainError("compose batch", "unknown side %v", side)
		}
	}
	return out, nil
}
