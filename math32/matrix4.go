// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// Matrix4 is 4x4 matrix organized internally as column matrix.
// Element (row r, column c) is at index c*4+r, which is the
// layout expected by the GPU for a mat4x4<f32> uniform.
type Matrix4 [16]float32

// Identity4 returns a new identity [Matrix4] matrix.
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// At returns the element at the given row and column.
func (m Matrix4) At(row, col int) float32 {
	return m[col*4+row]
}

// Set sets the element at the given row and column.
func (m *Matrix4) Set(row, col int, v float32) {
	m[col*4+row] = v
}

// Column returns the given column as a [Vector4].
func (m Matrix4) Column(col int) Vector4 {
	i := col * 4
	return Vec4(m[i], m[i+1], m[i+2], m[i+3])
}

// Translation4 returns a matrix translating by the given vector.
func Translation4(v Vector3) Matrix4 {
	m := Identity4()
	m[12] = v.X
	m[13] = v.Y
	m[14] = v.Z
	return m
}

// RotationX4 returns a matrix rotating by theta radians about the X axis.
func RotationX4(theta float32) Matrix4 {
	s, c := Sincos(theta)
	m := Identity4()
	m.Set(1, 1, c)
	m.Set(1, 2, -s)
	m.Set(2, 1, s)
	m.Set(2, 2, c)
	return m
}

// RotationY4 returns a matrix rotating by theta radians about the Y axis.
func RotationY4(theta float32) Matrix4 {
	s, c := Sincos(theta)
	m := Identity4()
	m.Set(0, 0, c)
	m.Set(0, 2, s)
	m.Set(2, 0, -s)
	m.Set(2, 2, c)
	return m
}

// RotationZ4 returns a matrix rotating by theta radians about the Z axis.
func RotationZ4(theta float32) Matrix4 {
	s, c := Sincos(theta)
	m := Identity4()
	m.Set(0, 0, c)
	m.Set(0, 1, -s)
	m.Set(1, 0, s)
	m.Set(1, 1, c)
	return m
}

// Perspective4 returns a right-handed perspective projection matrix
// for the given vertical field of view (in radians), aspect ratio
// (width / height) and near / far planes, mapping depth to [0, 1].
func Perspective4(fovy, aspect, near, far float32) Matrix4 {
	f := 1 / Tan(fovy/2)
	var m Matrix4
	m.Set(0, 0, f/aspect)
	m.Set(1, 1, f)
	m.Set(2, 2, far/(near-far))
	m.Set(3, 2, -1)
	m.Set(2, 3, -(far*near)/(far-near))
	return m
}

// LookAt4 returns a right-handed view matrix for a camera at eye
// looking at center, with the given up direction.
func LookAt4(eye, center, up Vector3) Matrix4 {
	f := center.Sub(eye).Normal()
	s := f.Cross(up).Normal()
	u := s.Cross(f)
	m := Identity4()
	m.Set(0, 0, s.X)
	m.Set(0, 1, s.Y)
	m.Set(0, 2, s.Z)
	m.Set(1, 0, u.X)
	m.Set(1, 1, u.Y)
	m.Set(1, 2, u.Z)
	m.Set(2, 0, -f.X)
	m.Set(2, 1, -f.Y)
	m.Set(2, 2, -f.Z)
	m.Set(0, 3, -s.Dot(eye))
	m.Set(1, 3, -u.Dot(eye))
	m.Set(2, 3, f.Dot(eye))
	return m
}

// Mul returns the matrix product m * other: other is applied
// first when the result transforms a vector.
func (m Matrix4) Mul(other Matrix4) Matrix4 {
	var r Matrix4
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * other[c*4+k]
			}
			r[c*4+row] = sum
		}
	}
	return r
}

// MulVector4 returns the product of this matrix with the given vector.
func (m Matrix4) MulVector4(v Vector4) Vector4 {
	return Vec4(
		m[0]*v.X+m[4]*v.Y+m[8]*v.Z+m[12]*v.W,
		m[1]*v.X+m[5]*v.Y+m[9]*v.Z+m[13]*v.W,
		m[2]*v.X+m[6]*v.Y+m[10]*v.Z+m[14]*v.W,
		m[3]*v.X+m[7]*v.Y+m[11]*v.Z+m[15]*v.W,
	)
}

// MulVector3AsPoint transforms the given point (w = 1) and
// returns the X, Y, Z components, without perspective division.
func (m Matrix4) MulVector3AsPoint(v Vector3) Vector3 {
	return m.MulVector4(Vector4FromVector3(v, 1)).Vector3()
}

// IsEqualTol returns whether all elements of the two matrices
// are within the given tolerance of each other.
func (m Matrix4) IsEqualTol(other Matrix4, tol float32) bool {
	for i := range m {
		if !Equal(m[i], other[i], tol) {
			return false
		}
	}
	return true
}
