package posenoise

import (
	"github.com/golang/geo/r3"
	"gorgonia.org/tensor"

	"go.viam.com/poseinit/spatialmath"
	"go.viam.com/poseinit/utils"
)

const batchShape = "(batch, view, 3|4, 4)"

// PoseBatch is a (batch, view) grid of poses stored flat in row-major order.
type PoseBatch struct {
	Batch int
	Views int
	Poses []*spatialmath.RigidTransform
}

// NewPoseBatch groups poses into a batch of the given dimensions.
func NewPoseBatch(batch, views int, poses []*spatialmath.RigidTransform) (*PoseBatch, error) {
	if batch < 0 || views < 0 || batch*views != len(poses) {
		return nil, utils.NewShapeError("pose batch", "batch*view poses", batch, views, len(poses))
	}
	return &PoseBatch{Batch: batch, Views: views, Poses: poses}, nil
}

// PoseBatchFromTensor decodes a float32 tensor of shape (batch, view, 3, 4) or (batch, view, 4, 4).
// Sliced or transposed views are copied into row-major order first.
func PoseBatchFromTensor(t *tensor.Dense) (*PoseBatch, error) {
	if t == nil {
		return nil, utils.NewShapeError("pose batch", batchShape)
	}
	if t.IsMaterializable() {
		m := t.Materialize()
		dense, ok := m.(*tensor.Dense)
		if !ok {
			return nil, utils.NewDomainError("pose batch", "cannot materialize a %T view", m)
		}
		t = dense
	}
	shape := t.Shape()
	if len(shape) != 4 || shape[3] != 4 || (shape[2] != 3 && shape[2] != 4) {
		return nil, utils.NewShapeError("pose batch", batchShape, shape...)
	}
	if t.Dtype() != tensor.Float32 {
		return nil, utils.NewDomainError("pose batch", "expected float32 data, got %v", t.Dtype())
	}
	data, ok := t.Data().([]float32)
	rows := shape[2]
	n := shape[0] * shape[1]
	if !ok || len(data) < n*rows*4 {
		return nil, utils.NewShapeError("pose batch", batchShape, shape...)
	}

	poses := make([]*spatialmath.RigidTransform, n)
	values := make([]float64, rows*4)
	for i := range poses {
		for j := range values {
			values[j] = float64(data[i*rows*4+j])
		}
		pose, err := spatialmath.NewRigidTransformFromSlice(values)
		if err != nil {
			return nil, err
		}
		poses[i] = pose
	}
	return &PoseBatch{Batch: shape[0], Views: shape[1], Poses: poses}, nil
}

// Len returns the number of poses, batch*view.
func (pb *PoseBatch) Len() int {
	return len(pb.Poses)
}

// Rotations returns the rotation part of every pose.
func (pb *PoseBatch) Rotations() []*spatialmath.RotationMatrix {
	out := make([]*spatialmath.RotationMatrix, len(pb.Poses))
	for i, p := range pb.Poses {
		out[i] = p.Rotation()
	}
	return out
}

// Translations returns the translation part of every pose.
func (pb *PoseBatch) Translations() []r3.Vector {
	out := make([]r3.Vector, len(pb.Poses))
	for i, p := range pb.Poses {
		out[i] = p.Translation()
	}
	return out
}

// Tensor encodes the batch as a float32 tensor of shape (batch, view, 4, 4), appending the
// homogeneous [0 0 0 1] row to every pose.
func (pb *PoseBatch) Tensor() *tensor.Dense {
	data := make([]float32, 0, len(pb.Poses)*16)
	for _, p := range pb.Poses {
		h := p.Homogeneous()
		for row := 0; row < 4; row++ {
			for col := 0; col < 4; col++ {
				data = append(data, float32(h.At(row, col)))
			}
		}
	}
	return tensor.New(tensor.WithShape(pb.Batch, pb.Views, 4, 4), tensor.WithBacking(data))
}
