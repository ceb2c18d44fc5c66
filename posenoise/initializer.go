package posenoise

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gorgonia.org/tensor"

	"go.viam.com/poseinit/logging"
	"go.viam.com/poseinit/poseeval"
	"go.viam.com/poseinit/spatialmath"
	"go.viam.com/poseinit/utils"
)

const (
	// DefaultNoiseLevel is the standard deviation of every twist component.
	DefaultNoiseLevel = 0.05
	// DefaultSceneScale normalizes camera-center error.
	DefaultSceneScale = 1.0
)

// Options controls how ground-truth poses are perturbed and evaluated.
type Options struct {
	NoiseLevel float64
	SceneScale float64
	// NumFixed leading poses, counted over the flattened batch, receive no perturbation.
	NumFixed int
	Side     Side
	// BearingEpsilon is added component-wise to the normalized predicted translation before the
	// bearing angle is taken. Zero gives an exact angle; poseeval.ReferenceBearingEpsilon
	// reproduces published numbers.
	BearingEpsilon float64
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		NoiseLevel: DefaultNoiseLevel,
		SceneScale: DefaultSceneScale,
		Side:       PerturbLeft,
	}
}

// Validate checks option values that do not depend on the input batch.
func (o Options) Validate() error {
	var err error
	if !(o.NoiseLevel >= 0) || math.IsInf(o.NoiseLevel, 0) {
		err = multierr.Append(err, utils.NewDomainError("options", "noise level must be finite and non-negative, got %v", o.NoiseLevel))
	}
	if !(o.SceneScale > 0) || math.IsInf(o.SceneScale, 0) {
		err = multierr.Append(err, utils.NewDomainError("options", "scene scale must be finite and positive, got %v", o.SceneScale))
	}
	if o.NumFixed < 0 {
		err = multierr.Append(err, utils.NewDomainError("options", "fixed pose count must be non-negative, got %d", o.NumFixed))
	}
	if o.Side != PerturbLeft && o.Side != PerturbRight {
		err = multierr.Append(err, utils.NewDomainError("options", "unknown side %v", o.Side))
	}
	if !utils.IsFinite(o.BearingEpsilon) {
		err = multierr.Append(err, utils.NewDomainError("options", "bearing epsilon must be finite, got %v", o.BearingEpsilon))
	}
	return err
}

// Result holds the perturbed poses and their error against the ground truth.
type Result struct {
	// Poses has shape (batch, view, 4, 4).
	Poses *tensor.Dense
	Batch int
	Views int

	// RotationErrors is the relative rotation angle in degrees for every pose.
	RotationErrors []float64
	// TranslationErrors is the aligned camera-center distance divided by scene scale for every pose.
	TranslationErrors []float64
	// GeodesicDegrees covers every pose except flattened index 0.
	GeodesicDegrees []float64
	// BearingDegrees compares the translation directions of flattened pose 1. It is only
	// meaningful when HasBearing is set.
	BearingDegrees float64
	HasBearing     bool

	Alignment *poseeval.Similarity
}

// InitializeNoisyPoses perturbs every pose in gt, a float32 tensor of shape (batch, view, 3, 4) or
// (batch, view, 4, 4) holding world-to-camera extrinsics, and measures the perturbed poses
// against gt. All randomness is drawn from rng. A nil logger discards output.
func InitializeNoisyPoses(
	logger logging.Logger,
	gt *tensor.Dense,
	opts Options,
	rng *rand.Rand,
) (*Result, error) {
	if logger == nil {
		logger = logging.NewBlankLogger("posenoise")
	}
	if rng == nil {
		return nil, errors.New("a random generator is required to initialize noisy poses")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	batch, err := PoseBatchFromTensor(gt)
	if err != nil {
		return nil, err
	}
	n := batch.Len()
	if n <= 1 {
		return nil, utils.NewDegenerateInputError("initialize noisy poses", "need at least two poses to exclude the anchor, got %d", n)
	}
	if opts.NumFixed > n {
		return nil, utils.NewDomainError("initialize noisy poses", "%d fixed poses requested but only %d given", opts.NumFixed, n)
	}
	if err := validateGroundTruth(batch); err != nil {
		return nil, err
	}

	noise, err := SampleNoise(rng, n, opts.NumFixed, opts.NoiseLevel)
	if err != nil {
		return nil, err
	}
	poses, err := ComposeBatch(noise, batch.Poses, opts.Side)
	if err != nil {
		return nil, err
	}
	noisy, err := NewPoseBatch(batch.Batch, batch.Views, poses)
	if err != nil {
		return nil, err
	}
	logger.Debugw("perturbed poses",
		"batch", batch.Batch, "views", batch.Views, "noise_level", opts.NoiseLevel,
		"fixed", opts.NumFixed, "side", opts.Side.String())

	res := &Result{Poses: noisy.Tensor(), Batch: batch.Batch, Views: batch.Views}
	predRot, gtRot := noisy.Rotations(), batch.Rotations()

	if res.RotationErrors, err = poseeval.AngularErrorBatch(predRot, gtRot); err != nil {
		return nil, errors.Wrap(err, "rotation error")
	}
	if res.TranslationErrors, res.Alignment, err = poseeval.CameraCenterError(noisy.Poses, batch.Poses, opts.SceneScale); err != nil {
		return nil, errors.Wrap(err, "camera center error")
	}
	geodesic, err := poseeval.GeodesicDistance(predRot[1:], gtRot[1:])
	if err != nil {
		return nil, errors.Wrap(err, "geodesic error")
	}
	res.GeodesicDegrees = utils.RadsToDegs(geodesic)

	predT, gtT := noisy.Translations(), batch.Translations()
	bearing, err := poseeval.BearingAngle(predT[1], gtT[1], opts.BearingEpsilon)
	var degenerate *utils.DegenerateInputError
	switch {
	case err == nil:
		res.BearingDegrees = utils.RadToDeg(bearing)
		res.HasBearing = true
	case errors.As(err, &degenerate):
		logger.Warnw("bearing error undefined", "reason", degenerate.Reason)
	default:
		return nil, errors.Wrap(err, "bearing error")
	}
	return res, nil
}

func validateGroundTruth(batch *PoseBatch) error {
	for i, p := range batch.Poses {
		if err := p.Rotation().Validate(spatialmath.RotationTolerance); err != nil {
			return errors.Wrapf(err, "ground truth pose %d", i)
		}
		t := p.Translation()
		if !utils.IsFinite(t.X) || !utils.IsFinite(t.Y) || !utils.IsFinite(t.Z) {
			return utils.NewDomainError("initialize noisy poses", "ground truth pose %d has a non-finite translation", i)
		}
	}
	return nil
}
