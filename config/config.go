// Package config defines the run configuration of a noisy pose initialization and the readers for
// it and for ground-truth pose files.
package config

import (
	"math"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/poseinit/posenoise"
	"go.viam.com/poseinit/utils"
)

// Config describes one noisy pose initialization run.
type Config struct {
	ConfigFilePath string `json:"-"`

	NoiseLevel     float64 `json:"noise_level"`
	SceneScale     float64 `json:"scene_scale"`
	NumFixed       int     `json:"num_fixed"`
	Seed           uint64  `json:"seed"`
	PerturbRight   bool    `json:"perturb_right"`
	BearingEpsilon float64 `json:"bearing_epsilon"`
	// PosesFile is resolved against the directory of the config file when relative.
	PosesFile string `json:"poses_file,omitempty"`
}

// Default returns a config holding the default options. Fields missing from a config file keep
// these values.
func Default() *Config {
	opts := posenoise.DefaultOptions()
	return &Config{
		NoiseLevel:     opts.NoiseLevel,
		SceneScale:     opts.SceneScale,
		NumFixed:       opts.NumFixed,
		BearingEpsilon: opts.BearingEpsilon,
	}
}

// Validate ensures all parts of the config are valid. Every invalid field is reported.
func (conf *Config) Validate(path string) error {
	var err error
	if !(conf.NoiseLevel >= 0) || math.IsInf(conf.NoiseLevel, 0) {
		err = multierr.Append(err, utils.NewConfigValidationError(path,
			errors.Errorf(`"noise_level" must be finite and non-negative, got %v`, conf.NoiseLevel)))
	}
	if !(conf.SceneScale > 0) || math.IsInf(conf.SceneScale, 0) {
		err = multierr.Append(err, utils.NewConfigValidationError(path,
			errors.Errorf(`"scene_scale" must be finite and positive, got %v`, conf.SceneScale)))
	}
	if conf.NumFixed < 0 {
		err = multierr.Append(err, utils.NewConfigValidationError(path,
			errors.Errorf(`"num_fixed" must be non-negative, got %d`, conf.NumFixed)))
	}
	if !utils.IsFinite(conf.BearingEpsilon) {
		err = multierr.Append(err, utils.NewConfigValidationError(path,
			errors.Errorf(`"bearing_epsilon" must be finite, got %v`, conf.BearingEpsilon)))
	}
	return err
}

// Options converts the config to posenoise options.
func (conf *Config) Options() posenoise.Options {
	side := posenoise.PerturbLeft
	if conf.PerturbRight {
		side = posenoise.PerturbRight
	}
	return posenoise.Options{
		NoiseLevel:     conf.NoiseLevel,
		SceneScale:     conf.SceneScale,
		NumFixed:       conf.NumFixed,
		Side:           side,
		BearingEpsilon: conf.BearingEpsilon,
	}
}

// ResolvedPosesFile returns the poses file path, relative paths taken from the config's directory.
func (conf *Config) ResolvedPosesFile() string {
	if conf.PosesFile == "" || filepath.IsAbs(conf.PosesFile) || conf.ConfigFilePath == "" {
		return conf.PosesFile
	}
	return filepath.Join(filepath.Dir(conf.ConfigFilePath), conf.PosesFile)
}
