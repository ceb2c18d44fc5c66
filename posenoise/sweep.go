package posenoise

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"go.viam.com/poseinit/logging"
	"go.viam.com/poseinit/poseeval"
	"go.viam.com/poseinit/utils"
)

// SweepPoint summarizes the error of one noise level.
type SweepPoint struct {
	NoiseLevel     float64          `json:"noise_level"`
	Rotation       poseeval.Summary `json:"rotation_summary"`
	Translation    poseeval.Summary `json:"translation_summary"`
	Geodesic       poseeval.Summary `json:"geodesic_summary"`
	BearingDegrees *float64         `json:"bearing_error_deg,omitempty"`
}

// Sweep runs InitializeNoisyPoses once per noise level, concurrently. Level i draws from its own
// PCG generator seeded with (seed, i), so the points do not depend on scheduling. opts.NoiseLevel
// is ignored. A nil logger discards output.
func Sweep(
	ctx context.Context,
	logger logging.Logger,
	gt *tensor.Dense,
	opts Options,
	levels []float64,
	seed uint64,
) ([]SweepPoint, error) {
	if len(levels) == 0 {
		return nil, utils.NewDegenerateInputError("sweep", "no noise levels given")
	}
	if logger == nil {
		logger = logging.NewBlankLogger("posenoise")
	}
	points := make([]SweepPoint, len(levels))
	err := utils.RunInParallel(ctx, len(levels), func(ctx context.Context, i int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		levelOpts := opts
		levelOpts.NoiseLevel = levels[i]
		rng := rand.New(rand.NewPCG(seed, uint64(i)))
		res, err := InitializeNoisyPoses(logger.Sublogger(fmt.Sprintf("level%d", i)), gt, levelOpts, rng)
		if err != nil {
			return errors.Wrapf(err, "noise level %v", levels[i])
		}
		rep, err := res.Report()
		if err != nil {
			return err
		}
		points[i] = SweepPoint{
			NoiseLevel:     levels[i],
			Rotation:       rep.Rotation,
			Translation:    rep.Translation,
			Geodesic:       rep.Geodesic,
			BearingDegrees: rep.BearingDegrees,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

// SweepTable prints one row of mean and max errors per noise level.
func SweepTable(points []SweepPoint) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Noise", "Rotation mean (deg)", "Rotation max (deg)", "Camera center mean", "Geodesic mean (deg)", "Bearing (deg)"})
	for _, p := range points {
		bearing := "undefined"
		if p.BearingDegrees != nil {
			bearing = fmt.Sprintf("%.4f", *p.BearingDegrees)
		}
		t.AppendRow(table.Row{
			p.NoiseLevel,
			fmt.Sprintf("%.4f", p.Rotation.Mean),
			fmt.Sprintf("%.4f", p.Rotation.Max),
			fmt.Sprintf("%.4f", p.Translation.Mean),
			fmt.Sprintf("%.4f", p.Geodesic.Mean),
			bearing,
		})
	}
	return t.Render()
}
