package spatialmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"go.viam.com/poseinit/utils"
)

// homogeneousRowTolerance bounds how far the bottom row of a 4x4 input may be from [0 0 0 1].
const homogeneousRowTolerance = 1e-6

// RigidTransform stores the 3x4 matrix [R | t] of a rigid motion x -> Rx + t. It is read as a 4x4
// homogeneous matrix with an implicit [0 0 0 1] bottom row.
type RigidTransform struct {
	mat mgl64.Mat3x4
}

// NewRigidTransform creates a transform from a rotation and a translation.
func NewRigidTransform(rot *RotationMatrix, t r3.Vector) *RigidTransform {
	var m mgl64.Mat3x4
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			m.Set(row, col, rot.mat.At(row, col))
		}
	}
	m.Set(0, 3, t.X)
	m.Set(1, 3, t.Y)
	m.Set(2, 3, t.Z)
	return &RigidTransform{m}
}

// NewIdentityTransform returns the transform that does nothing.
func NewIdentityTransform() *RigidTransform {
	return NewRigidTransform(NewIdentityRotationMatrix(), r3.Vector{})
}

// NewRigidTransformFromSlice creates a transform from 12 (3x4) or 16 (4x4) row-major values. The
// bottom row of a 4x4 input must be [0 0 0 1].
func NewRigidTransformFromSlice(data []float64) (*RigidTransform, error) {
	switch len(data) {
	case 12:
	case 16:
		if err := checkBottomRow(data[12:]); err != nil {
			return nil, err
		}
	default:
		return nil, utils.NewShapeError("rigid transform", "(3, 4) or (4, 4)", len(data))
	}
	var m mgl64.Mat3x4
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			m.Set(row, col, data[row*4+col])
		}
	}
	return &RigidTransform{m}, nil
}

// NewRigidTransformFromHomogeneous strips the bottom row off a 4x4 homogeneous matrix.
func NewRigidTransformFromHomogeneous(h mgl64.Mat4) (*RigidTransform, error) {
	if err := checkBottomRow([]float64{h.At(3, 0), h.At(3, 1), h.At(3, 2), h.At(3, 3)}); err != nil {
		return nil, err
	}
	var m mgl64.Mat3x4
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			m.Set(row, col, h.At(row, col))
		}
	}
	return &RigidTransform{m}, nil
}

func checkBottomRow(row []float64) error {
	want := [4]float64{0, 0, 0, 1}
	for i, v := range row {
		if !utils.Float64AlmostEqual(v, want[i], homogeneousRowTolerance) {
			return utils.NewDomainError("rigid transform", "bottom row must be [0 0 0 1], got %v", row)
		}
	}
	return nil
}

// Rotation returns the rotation part.
func (rt *RigidTransform) Rotation() *RotationMatrix {
	var r mgl64.Mat3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			r.Set(row, col, rt.mat.At(row, col))
		}
	}
	return &RotationMatrix{r}
}

// Translation returns the translation part.
func (rt *RigidTransform) Translation() r3.Vector {
	return r3.Vector{X: rt.mat.At(0, 3), Y: rt.mat.At(1, 3), Z: rt.mat.At(2, 3)}
}

// Mat3x4 returns a copy of the underlying matrix.
func (rt *RigidTransform) Mat3x4() mgl64.Mat3x4 {
	return rt.mat
}

// Homogeneous returns the 4x4 matrix with the [0 0 0 1] row appended.
func (rt *RigidTransform) Homogeneous() mgl64.Mat4 {
	h := mgl64.Ident4()
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			h.Set(row, col, rt.mat.At(row, col))
		}
	}
	return h
}

// RowMajor returns the 12 entries of the 3x4 matrix in row-major order.
func (rt *RigidTransform) RowMajor() []float64 {
	out := make([]float64, 0, 12)
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			out = append(out, rt.mat.At(row, col))
		}
	}
	return out
}

// Transform applies the transform to a point.
func (rt *RigidTransform) Transform(p r3.Vector) r3.Vector {
	return rt.Rotation().RotateVector(p).Add(rt.Translation())
}

// Inverse returns [R^T | -R^T t].
func (rt *RigidTransform) Inverse() *RigidTransform {
	rotT := rt.Rotation().Transpose()
	return NewRigidTransform(rotT, rotT.RotateVector(rt.Translation()).Mul(-1))
}

// CameraCenter returns the position of the camera in world coordinates when rt is a
// world-to-camera transform, -R^T t.
func (rt *RigidTransform) CameraCenter() r3.Vector {
	return rt.Rotation().Transpose().RotateVector(rt.Translation()).Mul(-1)
}

func (rt *RigidTransform) String() string {
	return fmt.Sprintf("%v", rt.RowMajor())
}

// Compose returns a ∘ b, the transform that applies b and then a.
func Compose(a, b *RigidTransform) *RigidTransform {
	return &RigidTransform{a.mat.Mul4(b.Homogeneous())}
}

// RigidTransformAlmostEqual returns whether every entry of a and b differs by at most tol.
func RigidTransformAlmostEqual(a, b *RigidTransform, tol float64) bool {
	for i := range a.mat {
		if math.Abs(a.mat[i]-b.mat[i]) > tol {
			return false
		}
	}
	return true
}

// LookAt returns the world-to-camera transform of a camera at eye looking at target, with the
// camera's +Z forward, +X right and +Y down.
func LookAt(eye, target, up r3.Vector) (*RigidTransform, error) {
	forward := target.Sub(eye)
	if forward.Norm() < 1e-12 {
		return nil, utils.NewDegenerateInputError("look at", "eye and target coincide at %v", eye)
	}
	forward = forward.Normalize()
	right := forward.Cross(up)
	if right.Norm() < 1e-12 {
		return nil, utils.NewDegenerateInputError("look at", "up %v is parallel to the viewing direction", up)
	}
	right = right.Normalize()
	down := forward.Cross(right)
	rot, err := NewRotationMatrix([]float64{
		right.X, right.Y, right.Z,
		down.X, down.Y, down.Z,
		forward.X, forward.Y, forward.Z,
	})
	if err != nil {
		return nil, err
	}
	return NewRigidTransform(rot, rot.RotateVector(eye).Mul(-1)), nil
}
