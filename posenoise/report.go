package posenoise

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"

	"go.viam.com/poseinit/poseeval"
)

// Report is the serializable form of a Result.
type Report struct {
	Batch int `json:"batch"`
	Views int `json:"views"`

	RotationErrors    []float64 `json:"rotation_errors_deg"`
	TranslationErrors []float64 `json:"translation_errors"`
	GeodesicDegrees   []float64 `json:"geodesic_errors_deg"`
	BearingDegrees    *float64  `json:"bearing_error_deg,omitempty"`

	Rotation    poseeval.Summary `json:"rotation_summary"`
	Translation poseeval.Summary `json:"translation_summary"`
	Geodesic    poseeval.Summary `json:"geodesic_summary"`

	// Poses holds each perturbed pose as 16 row-major values, indexed [batch][view].
	Poses [][][]float64 `json:"poses"`
}

// Report summarizes the result for display or JSON output.
func (r *Result) Report() (*Report, error) {
	rep := &Report{
		Batch:             r.Batch,
		Views:             r.Views,
		RotationErrors:    r.RotationErrors,
		TranslationErrors: r.TranslationErrors,
		GeodesicDegrees:   r.GeodesicDegrees,
	}
	if r.HasBearing {
		bearing := r.BearingDegrees
		rep.BearingDegrees = &bearing
	}

	var err error
	if rep.Rotation, err = poseeval.Summarize(r.RotationErrors); err != nil {
		return nil, errors.Wrap(err, "rotation summary")
	}
	if rep.Translation, err = poseeval.Summarize(r.TranslationErrors); err != nil {
		return nil, errors.Wrap(err, "translation summary")
	}
	if rep.Geodesic, err = poseeval.Summarize(r.GeodesicDegrees); err != nil {
		return nil, errors.Wrap(err, "geodesic summary")
	}

	data, ok := r.Poses.Data().([]float32)
	if !ok {
		return nil, errors.Errorf("unexpected pose data type %T", r.Poses.Data())
	}
	rep.Poses = make([][][]float64, r.Batch)
	for b := range rep.Poses {
		rep.Poses[b] = make([][]float64, r.Views)
		for v := range rep.Poses[b] {
			offset := (b*r.Views + v) * 16
			pose := make([]float64, 16)
			for i := range pose {
				pose[i] = float64(data[offset+i])
			}
			rep.Poses[b][v] = pose
		}
	}
	return rep, nil
}

// String prints a table with one row per pose followed by summary rows.
func (rep *Report) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Batch", "View", "Rotation (deg)", "Camera center", "Geodesic (deg)"})
	for i := range rep.RotationErrors {
		geodesic := "anchor"
		if i > 0 && i-1 < len(rep.GeodesicDegrees) {
			geodesic = fmt.Sprintf("%.4f", rep.GeodesicDegrees[i-1])
		}
		t.AppendRow(table.Row{
			i,
			i / rep.Views,
			i % rep.Views,
			fmt.Sprintf("%.4f", rep.RotationErrors[i]),
			fmt.Sprintf("%.4f", rep.TranslationErrors[i]),
			geodesic,
		})
	}
	t.AppendSeparator()
	summaryRow := func(name string, pick func(poseeval.Summary) float64) table.Row {
		return table.Row{
			name, "", "",
			fmt.Sprintf("%.4f", pick(rep.Rotation)),
			fmt.Sprintf("%.4f", pick(rep.Translation)),
			fmt.Sprintf("%.4f", pick(rep.Geodesic)),
		}
	}
	t.AppendRow(summaryRow("mean", func(s poseeval.Summary) float64 { return s.Mean }))
	t.AppendRow(summaryRow("median", func(s poseeval.Summary) float64 { return s.Median }))
	t.AppendRow(summaryRow("max", func(s poseeval.Summary) float64 { return s.Max }))

	bearing := "undefined"
	if rep.BearingDegrees != nil {
		bearing = fmt.Sprintf("%.4f deg", *rep.BearingDegrees)
	}
	t.AppendRow(table.Row{"bearing", "", "", bearing, "", ""})
	return t.Render()
}
