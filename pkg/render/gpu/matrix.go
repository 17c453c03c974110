package gpu

import "github.com/chewxy/math32"

// Mat4 is a 4x4 matrix in column-major order, as uploaded to GLSL.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Perspective builds a perspective projection. fovy is in radians.
func Perspective(fovy, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovy/2)
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[11] = -1
	if near != far {
		nf := 1 / (near - far)
		m[10] = (far + near) * nf
		m[14] = 2 * far * near * nf
	}
	return m
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// Scale returns a scaling matrix.
func Scale(x, y, z float32) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = x, y, z
	return m
}

// RotateZ returns a counterclockwise rotation about the z axis. angle is in
// radians.
func RotateZ(angle float32) Mat4 {
	s, c := math32.Sincos(angle)
	m := Identity()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// Mul returns a*b.
func (a Mat4) Mul(b Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Apply transforms the point (x, y, 0, 1) and returns x and y.
func (a Mat4) Apply(x, y float32) (float32, float32) {
	return a[0]*x + a[4]*y + a[12], a[1]*x + a[5]*y + a[13]
}

// Radians converts degrees to radians.
func Radians(deg float32) float32 { return deg * math32.Pi / 180 }

// WrapAngle folds a radian angle into [0, 2π).
func WrapAngle(rad float32) float32 {
	r := math32.Mod(rad, 2*math32.Pi)
	if r < 0 {
		r += 2 * math32.Pi
	}
	return r
}
