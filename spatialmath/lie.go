package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"go.viam.com/poseinit/utils"
)

// Below this angle the exponential map coefficients are evaluated by their Taylor series.
const taylorThreshold = 1.0

// Number of series terms after the constant one.
const taylorTerms = 10

// Twist is an element of se(3): a rotation part Omega (axis times angle) and a translation part V.
type Twist struct {
	Omega r3.Vector
	V     r3.Vector
}

// NewTwist creates a twist from 6 values, rotation first.
func NewTwist(data []float64) (Twist, error) {
	if len(data) != 6 {
		return Twist{}, utils.NewShapeError("twist", "(6)", len(data))
	}
	return Twist{
		Omega: r3.Vector{X: data[0], Y: data[1], Z: data[2]},
		V:     r3.Vector{X: data[3], Y: data[4], Z: data[5]},
	}, nil
}

// Slice returns the twist as 6 values, rotation first.
func (tw Twist) Slice() []float64 {
	return []float64{tw.Omega.X, tw.Omega.Y, tw.Omega.Z, tw.V.X, tw.V.Y, tw.V.Z}
}

// Scale multiplies both parts of the twist by s.
func (tw Twist) Scale(s float64) Twist {
	return Twist{Omega: tw.Omega.Mul(s), V: tw.V.Mul(s)}
}

// SkewSymmetric returns the matrix [w]x such that [w]x * v = w x v.
func SkewSymmetric(w r3.Vector) mgl64.Mat3 {
	var m mgl64.Mat3
	m.Set(0, 1, -w.Z)
	m.Set(0, 2, w.Y)
	m.Set(1, 0, w.Z)
	m.Set(1, 2, -w.X)
	m.Set(2, 0, -w.Y)
	m.Set(2, 1, w.X)
	return m
}

// sinc is sin(x)/x.
func sinc(x float64) float64 {
	if x >= taylorThreshold {
		return math.Sin(x) / x
	}
	return taylor(x, 1)
}

// cosc is (1-cos(x))/x^2.
func cosc(x float64) float64 {
	if x >= taylorThreshold {
		return (1 - math.Cos(x)) / (x * x)
	}
	return taylor(x, 2)
}

// sincd is (x-sin(x))/x^3.
func sincd(x float64) float64 {
	if x >= taylorThreshold {
		return (x - math.Sin(x)) / (x * x * x)
	}
	return taylor(x, 3)
}

// taylor evaluates sum_i (-1)^i x^(2i) / (2i+k)!, the common series of sinc, cosc and sincd.
func taylor(x float64, k int) float64 {
	denom := 1.
	for j := 2; j <= k; j++ {
		denom *= float64(j)
	}
	x2 := x * x
	term := 1.
	ans := 1 / denom
	for i := 1; i <= taylorTerms; i++ {
		denom *= float64((2*i + k - 1) * (2*i + k))
		term *= -x2
		ans += term / denom
	}
	return ans
}

// SO3Exp maps an axis-angle vector to its rotation matrix with Rodrigues' formula.
func SO3Exp(w r3.Vector) *RotationMatrix {
	theta := w.Norm()
	wx := SkewSymmetric(w)
	wx2 := wx.Mul3(wx)
	r := mgl64.Ident3().Add(wx.Mul(sinc(theta))).Add(wx2.Mul(cosc(theta)))
	return &RotationMatrix{r}
}

// SE3Exp maps a twist to the rigid transform exp([ω; v]). The rotation is SO3Exp(ω) and the
// translation is the left Jacobian of SO(3) at ω applied to v.
func SE3Exp(tw Twist) *RigidTransform {
	theta := tw.Omega.Norm()
	wx := SkewSymmetric(tw.Omega)
	wx2 := wx.Mul3(wx)
	ident := mgl64.Ident3()
	r := ident.Add(wx.Mul(sinc(theta))).Add(wx2.Mul(cosc(theta)))
	jac := ident.Add(wx.Mul(cosc(theta))).Add(wx2.Mul(sincd(theta)))
	return NewRigidTransform(&RotationMatrix{r}, fromVec3(jac.Mul3x1(toVec3(tw.V))))
}

// SO3Log is the inverse of SO3Exp for rotation angles in [0, pi].
func SO3Log(rm *RotationMatrix) r3.Vector {
	cosTheta := utils.Clamp((rm.Trace()-1)/2, -1, 1)
	theta := math.Acos(cosTheta)
	m := rm.mat
	if math.Pi-theta > 1e-6 {
		vee := r3.Vector{
			X: m.At(2, 1) - m.At(1, 2),
			Y: m.At(0, 2) - m.At(2, 0),
			Z: m.At(1, 0) - m.At(0, 1),
		}
		return vee.Mul(1 / (2 * sinc(theta)))
	}
	// Near pi, R ~ 2nn^T - I, so the axis is read off the largest diagonal of (R+I)/2.
	k := 0
	for i := 1; i < 3; i++ {
		if m.At(i, i) > m.At(k, k) {
			k = i
		}
	}
	var axis [3]float64
	axis[k] = math.Sqrt(math.Max((m.At(k, k)+1)/2, 0))
	for j := 0; j < 3; j++ {
		if j != k {
			axis[j] = (m.At(k, j) + m.At(j, k)) / (4 * axis[k])
		}
	}
	n := r3.Vector{X: axis[0], Y: axis[1], Z: axis[2]}.Normalize()
	return n.Mul(theta)
}

// SE3Log is the inverse of SE3Exp.
func SE3Log(rt *RigidTransform) Twist {
	w := SO3Log(rt.Rotation())
	theta := w.Norm()
	wx := SkewSymmetric(w)
	wx2 := wx.Mul3(wx)
	var d float64
	if theta < 1e-3 {
		d = 1./12 + theta*theta/720
	} else {
		d = (1 - sinc(theta)/(2*cosc(theta))) / (theta * theta)
	}
	invJac := mgl64.Ident3().Sub(wx.Mul(0.5)).Add(wx2.Mul(d))
	return Twist{Omega: w, V: fromVec3(invJac.Mul3x1(toVec3(rt.Translation())))}
}
