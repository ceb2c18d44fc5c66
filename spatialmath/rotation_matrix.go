// Package spatialmath defines the rigid-motion algebra used to perturb and compare camera poses.
package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/poseinit/utils"
)

// RotationTolerance is the default tolerance used when checking that a matrix is a rotation.
// Poses arrive as float32, so this is well above float64 round-off.
const RotationTolerance = 1e-3

// RotationMatrix is a 3x3 orthonormal matrix with determinant +1.
type RotationMatrix struct {
	mat mgl64.Mat3
}

// NewRotationMatrix creates a rotation matrix from 9 values given in row-major order.
// The values are not checked for orthonormality; see Validate.
func NewRotationMatrix(m []float64) (*RotationMatrix, error) {
	if len(m) != 9 {
		return nil, utils.NewShapeError("rotation matrix", "(3, 3)", len(m))
	}
	var mat mgl64.Mat3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			mat.Set(row, col, m[row*3+col])
		}
	}
	return &RotationMatrix{mat}, nil
}

// NewIdentityRotationMatrix returns the rotation that does nothing.
func NewIdentityRotationMatrix() *RotationMatrix {
	return &RotationMatrix{mgl64.Ident3()}
}

// At returns the entry at the given row and column.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat.At(row, col)
}

// Row returns a row of the matrix.
func (rm *RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm.mat.At(row, 0), Y: rm.mat.At(row, 1), Z: rm.mat.At(row, 2)}
}

// Col returns a column of the matrix.
func (rm *RotationMatrix) Col(col int) r3.Vector {
	return r3.Vector{X: rm.mat.At(0, col), Y: rm.mat.At(1, col), Z: rm.mat.At(2, col)}
}

// RowMajor returns the 9 entries in row-major order.
func (rm *RotationMatrix) RowMajor() []float64 {
	out := make([]float64, 0, 9)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out = append(out, rm.mat.At(row, col))
		}
	}
	return out
}

// Transpose returns the transpose, which for a rotation is its inverse.
func (rm *RotationMatrix) Transpose() *RotationMatrix {
	return &RotationMatrix{rm.mat.Transpose()}
}

// Mul returns rm * other.
func (rm *RotationMatrix) Mul(other *RotationMatrix) *RotationMatrix {
	return &RotationMatrix{rm.mat.Mul3(other.mat)}
}

// RotateVector returns rm * v.
func (rm *RotationMatrix) RotateVector(v r3.Vector) r3.Vector {
	return fromVec3(rm.mat.Mul3x1(toVec3(v)))
}

// Trace returns the sum of the diagonal.
func (rm *RotationMatrix) Trace() float64 {
	return rm.mat.At(0, 0) + rm.mat.At(1, 1) + rm.mat.At(2, 2)
}

// Validate checks that the matrix is finite, orthonormal and proper to within tol.
func (rm *RotationMatrix) Validate(tol float64) error {
	for i, v := range rm.mat {
		if !utils.IsFinite(v) {
			return utils.NewDomainError("rotation matrix", "non-finite entry %v at row %d col %d", v, i%3, i/3)
		}
	}
	rrt := rm.mat.Mul3(rm.mat.Transpose())
	ident := mgl64.Ident3()
	for i := range rrt {
		if math.Abs(rrt[i]-ident[i]) > tol {
			return utils.NewDomainError("rotation matrix", "not orthonormal, R*R^T deviates from identity by %v", math.Abs(rrt[i]-ident[i]))
		}
	}
	if det := rm.mat.Det(); math.Abs(det-1) > tol {
		return utils.NewDomainError("rotation matrix", "determinant is %v, expected 1", det)
	}
	return nil
}

// QuatToRotationMatrix converts a unit quaternion to a rotation matrix.
func QuatToRotationMatrix(q quat.Number) *RotationMatrix {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	rm, _ := NewRotationMatrix([]float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	})
	return rm
}

// FrobeniusInner returns sum_ij a_ij * b_ij, which equals trace(a * b^T). It is symmetric in its
// arguments to the last bit, unlike a matrix product followed by a trace.
func FrobeniusInner(a, b *RotationMatrix) float64 {
	var sum float64
	for i := range a.mat {
		sum += a.mat[i] * b.mat[i]
	}
	return sum
}

// FrobeniusDistance returns the Frobenius norm of a - b. For rotations it equals
// 2*sqrt(2)*sin(theta/2), where theta is the angle of a * b^T.
func FrobeniusDistance(a, b *RotationMatrix) float64 {
	var sum float64
	for i := range a.mat {
		d := a.mat[i] - b.mat[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// RotationMatrixAlmostEqual returns whether every entry of a and b differs by at most tol.
func RotationMatrixAlmostEqual(a, b *RotationMatrix, tol float64) bool {
	return a.mat.ApproxEqualThreshold(b.mat, tol)
}

func toVec3(v r3.Vector) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromVec3(v mgl64.Vec3) r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}
