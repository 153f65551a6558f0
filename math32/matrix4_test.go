// Copyright 2021 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const StandardTol = float32(1.0e-5)

func tolAssertEqualVector(t *testing.T, vt, va Vector3) {
	t.Helper()
	assert.InDelta(t, vt.X, va.X, float64(StandardTol), "X")
	assert.InDelta(t, vt.Y, va.Y, float64(StandardTol), "Y")
	assert.InDelta(t, vt.Z, va.Z, float64(StandardTol), "Z")
}

func TestMatrix4Basics(t *testing.T) {
	v := Vec3(1, 2, 3)
	assert.Equal(t, v, Identity4().MulVector3AsPoint(v))
	assert.Equal(t, Vec3(2, 2, 3), Translation4(Vec3(1, 0, 0)).MulVector3AsPoint(v))
	assert.Equal(t, Identity4(), Identity4().Mul(Identity4()))

	tolAssertEqualVector(t, Vec3(0, 1, 0), RotationZ4(DegToRad(90)).MulVector3AsPoint(Vec3(1, 0, 0)))
	tolAssertEqualVector(t, Vec3(0, 0, 1), RotationX4(DegToRad(90)).MulVector3AsPoint(Vec3(0, 1, 0)))
	tolAssertEqualVector(t, Vec3(1, 0, 0), RotationY4(DegToRad(90)).MulVector3AsPoint(Vec3(0, 0, 1)))

	// multiplication order is *reverse* of "logical" order:
	// rotate 1,0,0 to 0,1,0, then translate by 1,1,0
	m := Translation4(Vec3(1, 1, 0)).Mul(RotationZ4(DegToRad(90)))
	tolAssertEqualVector(t, Vec3(1, 2, 0), m.MulVector3AsPoint(Vec3(1, 0, 0)))
}

func TestMatrix4Column(t *testing.T) {
	m := Translation4(Vec3(4, 5, 6))
	assert.Equal(t, Vec4(4, 5, 6, 1), m.Column(3))
	assert.Equal(t, float32(5), m.At(1, 3))
}

func TestPerspective4(t *testing.T) {
	near, far := float32(0.1), float32(200)
	p := Perspective4(DegToRad(90), 1, near, far)
	// a point on the near plane maps to depth 0, far plane to depth 1
	nz := p.MulVector4(Vec4(0, 0, -near, 1)).PerspDiv()
	fz := p.MulVector4(Vec4(0, 0, -far, 1)).PerspDiv()
	assert.InDelta(t, 0, nz.Z, 1e-5)
	assert.InDelta(t, 1, fz.Z, 1e-4)
	// 90 degree fov: edge of the view at x == -z maps to x = 1
	e := p.MulVector4(Vec4(1, 0, -1, 1)).PerspDiv()
	assert.InDelta(t, 1, e.X, 1e-5)
}

func TestLookAt4(t *testing.T) {
	eye := Vec3(0, 0, 5)
	v := LookAt4(eye, Vec3(0, 0, 0), Vec3(0, 1, 0))
	// the eye maps to the origin, the target lies along -Z
	tolAssertEqualVector(t, Vec3(0, 0, 0), v.MulVector3AsPoint(eye))
	tolAssertEqualVector(t, Vec3(0, 0, -5), v.MulVector3AsPoint(Vec3(0, 0, 0)))
	tolAssertEqualVector(t, Vec3(0, 1, -5), v.MulVector3AsPoint(Vec3(0, 1, 0)))
}

func TestVector3(t *testing.T) {
	a := Vec3(1, 0, 0)
	b := Vec3(0, 1, 0)
	assert.Equal(t, Vec3(0, 0, 1), a.Cross(b))
	assert.Equal(t, float32(0), a.Dot(b))
	assert.Equal(t, float32(5), Vec3(3, 4, 0).Length())
	tolAssertEqualVector(t, Vec3(0.6, 0.8, 0), Vec3(3, 4, 0).Normal())
	assert.Equal(t, Vec3(0, 0, 0), Vec3(0, 0, 0).Normal())
	assert.True(t, Vec3(1, 2, 3).IsEqualTol(Vec3(1, 2, 3.000001), 0))
	v := Vec3(1, 1, 1)
	v.SetAdd(Vec3(1, 2, 3))
	assert.Equal(t, Vec3(2, 3, 4), v)
	assert.Equal(t, Vec3(-2, -3, -4), v.Negate())
	assert.Equal(t, float32(3), v.Dim(Y))
}
