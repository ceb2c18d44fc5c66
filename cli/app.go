// Package cli contains the poseinit command line application.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	configFlag = "config"
	debugFlag  = "debug"

	runFlagPoses      = "poses"
	runFlagRing       = "ring"
	runFlagRingRadius = "ring-radius"
	runFlagNoise      = "noise"
	runFlagSceneScale = "scene-scale"
	runFlagFixed      = "fixed"
	runFlagSeed       = "seed"
	runFlagRight      = "right"
	runFlagBearingEps = "bearing-epsilon"
	runFlagJSON       = "json"

	sweepFlagLevels = "levels"
)

var app = &cli.App{
	Name:            "poseinit",
	Usage:           "perturb ground-truth camera poses and measure the pose error",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    configFlag,
			Aliases: []string{"c"},
			Usage:   "load run configuration from `FILE`",
		},
		&cli.BoolFlag{
			Name:    debugFlag,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "run",
			Usage:     "perturb a batch of poses and print per-view errors",
			UsageText: "poseinit run (--poses FILE | --ring N) [other options]",
			Flags: append(inputFlags(),
				&cli.Float64Flag{
					Name:  runFlagNoise,
					Usage: "standard deviation of each twist component",
				},
				&cli.BoolFlag{
					Name:  runFlagJSON,
					Usage: "print the report as JSON",
				},
			),
			Action: RunAction,
		},
		{
			Name:      "sweep",
			Usage:     "run once per noise level in parallel and print summary errors",
			UsageText: "poseinit sweep (--poses FILE | --ring N) [--levels 0.01,0.05] [other options]",
			Flags: append(inputFlags(),
				&cli.Float64SliceFlag{
					Name:  sweepFlagLevels,
					Usage: "noise levels to evaluate",
					Value: cli.NewFloat64Slice(0.01, 0.05, 0.1, 0.2),
				},
				&cli.BoolFlag{
					Name:  runFlagJSON,
					Usage: "print the sweep as JSON",
				},
			),
			Action: SweepAction,
		},
	},
}

// inputFlags are shared by every command that evaluates a pose batch.
func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  runFlagPoses,
			Usage: "read ground-truth world-to-camera poses from `FILE`",
		},
		&cli.IntFlag{
			Name:  runFlagRing,
			Usage: "use a synthetic ring of `N` cameras looking at the origin",
		},
		&cli.Float64Flag{
			Name:  runFlagRingRadius,
			Usage: "radius of the synthetic ring",
			Value: 2,
		},
		&cli.Float64Flag{
			Name:  runFlagSceneScale,
			Usage: "divide camera-center errors by this scale",
		},
		&cli.IntFlag{
			Name:  runFlagFixed,
			Usage: "number of leading poses left unperturbed",
		},
		&cli.Uint64Flag{
			Name:  runFlagSeed,
			Usage: "seed for the random generator",
		},
		&cli.BoolFlag{
			Name:  runFlagRight,
			Usage: "compose noise on the right of each pose",
		},
		&cli.Float64Flag{
			Name:  runFlagBearingEps,
			Usage: "offset added to the normalized predicted translation in the bearing error",
		},
	}
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
