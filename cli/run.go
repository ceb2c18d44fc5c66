package cli

import (
	"encoding/json"
	"math/rand/v2"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gorgonia.org/tensor"

	"go.viam.com/poseinit/config"
	"go.viam.com/poseinit/logging"
	"go.viam.com/poseinit/posenoise"
)

// RunAction is the corresponding Action for 'run'.
func RunAction(c *cli.Context) error {
	logger := newLogger(c)
	defer func() {
		//nolint:errcheck
		logger.Sync()
	}()

	conf, err := runConfig(c)
	if err != nil {
		return err
	}
	gt, err := groundTruth(c, conf)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(conf.Seed, conf.Seed))
	res, err := posenoise.InitializeNoisyPoses(logger, gt, conf.Options(), rng)
	if err != nil {
		return err
	}
	rep, err := res.Report()
	if err != nil {
		return err
	}

	if c.Bool(runFlagJSON) {
		out, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return errors.Wrap(err, "error marshaling report")
		}
		printf(c.App.Writer, "%s", out)
		return nil
	}
	infof(c.App.Writer, "perturbed %d x %d poses with noise %v (seed %d, %s side)",
		rep.Batch, rep.Views, conf.NoiseLevel, conf.Seed, conf.Options().Side)
	printf(c.App.Writer, "%s", rep.String())
	return nil
}

// SweepAction is the corresponding Action for 'sweep'.
func SweepAction(c *cli.Context) error {
	logger := newLogger(c)
	defer func() {
		//nolint:errcheck
		logger.Sync()
	}()

	conf, err := runConfig(c)
	if err != nil {
		return err
	}
	gt, err := groundTruth(c, conf)
	if err != nil {
		return err
	}
	points, err := posenoise.Sweep(c.Context, logger, gt, conf.Options(), c.Float64Slice(sweepFlagLevels), conf.Seed)
	if err != nil {
		return err
	}

	if c.Bool(runFlagJSON) {
		out, err := json.MarshalIndent(points, "", "  ")
		if err != nil {
			return errors.Wrap(err, "error marshaling sweep")
		}
		printf(c.App.Writer, "%s", out)
		return nil
	}
	printf(c.App.Writer, "%s", posenoise.SweepTable(points))
	return nil
}

// newLogger logs to stderr so reports on stdout stay machine readable.
func newLogger(c *cli.Context) logging.Logger {
	if c.Bool(debugFlag) {
		return logging.NewDebugLogger("poseinit")
	}
	return logging.NewLogger("poseinit")
}

// runConfig loads the config file if one is given and applies flag overrides on top.
func runConfig(c *cli.Context) (*config.Config, error) {
	conf := config.Default()
	if path := c.String(configFlag); path != "" {
		var err error
		if conf, err = config.Read(path); err != nil {
			return nil, err
		}
	}
	if c.IsSet(runFlagNoise) {
		conf.NoiseLevel = c.Float64(runFlagNoise)
	}
	if c.IsSet(runFlagSceneScale) {
		conf.SceneScale = c.Float64(runFlagSceneScale)
	}
	if c.IsSet(runFlagFixed) {
		conf.NumFixed = c.Int(runFlagFixed)
	}
	if c.IsSet(runFlagSeed) {
		conf.Seed = c.Uint64(runFlagSeed)
	}
	if c.IsSet(runFlagRight) {
		conf.PerturbRight = c.Bool(runFlagRight)
	}
	if c.IsSet(runFlagBearingEps) {
		conf.BearingEpsilon = c.Float64(runFlagBearingEps)
	}
	if c.IsSet(runFlagPoses) {
		conf.PosesFile = c.String(runFlagPoses)
	}
	if err := conf.Validate("flags"); err != nil {
		return nil, err
	}
	return conf, nil
}

func groundTruth(c *cli.Context, conf *config.Config) (*tensor.Dense, error) {
	if n := c.Int(runFlagRing); n > 0 {
		if c.IsSet(runFlagPoses) || conf.PosesFile != "" {
			warningf(c.App.ErrWriter, "--%s is set, ignoring poses file", runFlagRing)
		}
		return ringPoses(n, c.Float64(runFlagRingRadius))
	}
	path := conf.ResolvedPosesFile()
	if c.IsSet(runFlagPoses) {
		path = conf.PosesFile
	}
	if path == "" {
		return nil, errors.Errorf("one of --%s or --%s is required", runFlagPoses, runFlagRing)
	}
	return config.ReadPoses(path)
}
