package config

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/a8m/envsubst"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
	"gorgonia.org/tensor"

	"go.viam.com/poseinit/spatialmath"
	"go.viam.com/poseinit/utils"
)

// Read reads a config from the given file, expanding environment variables first.
func Read(filePath string) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(filePath, bytes.NewReader(buf))
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(originalPath string, r io.Reader) (*Config, error) {
	conf := Default()
	if err := json.NewDecoder(r).Decode(conf); err != nil {
		return nil, errors.Wrapf(err, "failed to decode Config from json")
	}
	conf.ConfigFilePath = originalPath
	if err := conf.Validate("run"); err != nil {
		return nil, err
	}
	return conf, nil
}

type posesFile struct {
	Poses [][][]float64 `json:"poses"`
}

// ReadPoses reads ground-truth poses from a JSON file of the form {"poses": [[[...], ...], ...]},
// indexed by batch then view. See PosesFromReader for the accepted pose encodings.
func ReadPoses(filePath string) (*tensor.Dense, error) {
	//nolint:gosec
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		//nolint:errcheck
		f.Close()
	}()
	t, err := PosesFromReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read poses from %q", filePath)
	}
	return t, nil
}

// PosesFromReader decodes a pose file into a float32 tensor of shape (batch, view, 3|4, 4).
// Each pose is a row-major 3x4 or 4x4 world-to-camera matrix, an OpenCV style rotation vector and
// translation [rx ry rz tx ty tz], or a COLMAP style quaternion and translation
// [qw qx qy qz tx ty tz]. The last two are expanded to 3x4 matrices.
func PosesFromReader(r io.Reader) (*tensor.Dense, error) {
	var pf posesFile
	if err := json.NewDecoder(r).Decode(&pf); err != nil {
		return nil, errors.Wrap(err, "failed to decode poses from json")
	}
	if len(pf.Poses) == 0 || len(pf.Poses[0]) == 0 {
		return nil, utils.NewDegenerateInputError("read poses", "pose file holds no poses")
	}
	batch, views := len(pf.Poses), len(pf.Poses[0])
	size := len(pf.Poses[0][0])
	rows := 3
	switch size {
	case rotationVectorPoseSize, quaternionPoseSize, 12:
	case 16:
		rows = 4
	default:
		return nil, utils.NewShapeError("read poses", "6, 7, 12 or 16 values per pose", size)
	}

	data := make([]float32, 0, batch*views*rows*4)
	for b, row := range pf.Poses {
		if len(row) != views {
			return nil, utils.NewShapeError("read poses", "the same number of views in every batch", b, len(row))
		}
		for v, pose := range row {
			if len(pose) != size {
				return nil, utils.NewShapeError("read poses", "the same number of values in every pose", len(pose))
			}
			values, err := expandPose(pose)
			if err != nil {
				return nil, errors.Wrapf(err, "pose [%d][%d]", b, v)
			}
			for _, x := range values {
				data = append(data, float32(x))
			}
		}
	}
	return tensor.New(tensor.WithShape(batch, views, rows, 4), tensor.WithBacking(data)), nil
}

const (
	rotationVectorPoseSize = 6
	quaternionPoseSize     = 7
)

// expandPose turns a compact pose into the 12 values of a 3x4 matrix. Matrices pass through.
func expandPose(pose []float64) ([]float64, error) {
	var rot *spatialmath.RotationMatrix
	var trans r3.Vector
	switch len(pose) {
	case rotationVectorPoseSize:
		rot = spatialmath.R3ToR4(r3.Vector{X: pose[0], Y: pose[1], Z: pose[2]}).RotationMatrix()
		trans = r3.Vector{X: pose[3], Y: pose[4], Z: pose[5]}
	case quaternionPoseSize:
		q := quat.Number{Real: pose[0], Imag: pose[1], Jmag: pose[2], Kmag: pose[3]}
		norm := quat.Abs(q)
		if norm == 0 || !utils.IsFinite(norm) {
			return nil, utils.NewDomainError("read poses", "quaternion %v cannot be normalized", q)
		}
		rot = spatialmath.QuatToRotationMatrix(quat.Scale(1/norm, q))
		trans = r3.Vector{X: pose[4], Y: pose[5], Z: pose[6]}
	default:
		return pose, nil
	}
	return spatialmath.NewRigidTransform(rot, trans).RowMajor(), nil
}
