package poseeval

import (
	"fmt"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"go.viam.com/poseinit/utils"
)

// Summary holds aggregate statistics of a per-view error vector.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// Summarize computes the mean, median, maximum and population standard deviation of errs.
func Summarize(errs []float64) (Summary, error) {
	if len(errs) == 0 {
		return Summary{}, utils.NewDegenerateInputError("summarize", "no errors to summarize")
	}
	data := stats.Float64Data(errs)
	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, errors.Wrap(err, "mean")
	}
	median, err := stats.Median(data)
	if err != nil {
		return Summary{}, errors.Wrap(err, "median")
	}
	maxErr, err := stats.Max(data)
	if err != nil {
		return Summary{}, errors.Wrap(err, "max")
	}
	sd, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return Summary{}, errors.Wrap(err, "standard deviation")
	}
	return Summary{Mean: mean, Median: median, Max: maxErr, StdDev: sd}, nil
}

func (s Summary) String() string {
	return fmt.Sprintf("mean %.4f, median %.4f, max %.4f, std %.4f", s.Mean, s.Median, s.Max, s.StdDev)
}
