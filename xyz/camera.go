// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xyz

import (
	"github.com/vkhuman/human3d/ecs"
	"github.com/vkhuman/human3d/math32"
)

// CameraID is the [ecs.ComponentID] of [Camera].
var CameraID = ecs.NewComponentID("Camera")

const (
	// CameraNear is the near clipping distance of every camera.
	CameraNear = 0.1

	// CameraFar is the far clipping distance of every camera.
	CameraFar = 200

	// DefaultSensitivity is the default movement speed of a camera,
	// in world units per second.
	DefaultSensitivity = 2
)

// Camera is a free flying perspective camera.
// With zero yaw and pitch it looks down the positive Z axis
// with Y up. The projection maps depth to [0, 1] and flips Y,
// for clip spaces where Y points down.
type Camera struct {

	// Position of the camera in the world.
	Position math32.Vector3

	// Yaw is the rotation about the Y axis, in radians.
	Yaw float32

	// Pitch is the rotation above the horizon, in radians.
	// Positive pitch looks up.
	Pitch float32

	// Sensitivity is the movement speed, in world units per second.
	Sensitivity float32

	// aspect ratio, width / height
	aspect float32

	// vertical field of view in degrees
	fov float32

	// projection matrix, updated by the setters
	projection math32.Matrix4
}

func (*Camera) ComponentID() ecs.ComponentID { return CameraID }

// NewCamera returns a new camera at the origin with the given
// aspect ratio (width / height) and vertical field of view in degrees.
func NewCamera(aspect, fovDegrees float32) *Camera {
	cm := &Camera{Sensitivity: DefaultSensitivity, aspect: aspect, fov: fovDegrees}
	cm.updateProjection()
	return cm
}

// Aspect returns the aspect ratio.
func (cm *Camera) Aspect() float32 { return cm.aspect }

// FOV returns the vertical field of view in degrees.
func (cm *Camera) FOV() float32 { return cm.fov }

// SetAspect sets the aspect ratio and updates the projection.
func (cm *Camera) SetAspect(aspect float32) {
	cm.aspect = aspect
	cm.updateProjection()
}

// SetFOV sets the vertical field of view in degrees
// and updates the projection.
func (cm *Camera) SetFOV(fovDegrees float32) {
	cm.fov = fovDegrees
	cm.updateProjection()
}

func (cm *Camera) updateProjection() {
	cm.projection = math32.Perspective4(math32.DegToRad(cm.fov), cm.aspect, CameraNear, CameraFar)
	cm.projection.Set(1, 1, -cm.projection.At(1, 1))
}

// Projection returns the projection matrix.
func (cm *Camera) Projection() math32.Matrix4 {
	return cm.projection
}

// Rotation returns the orientation of the camera as Ry(yaw) * Rx(-pitch).
func (cm *Camera) Rotation() math32.Matrix4 {
	return math32.RotationY4(cm.Yaw).Mul(math32.RotationX4(-cm.Pitch))
}

// Forward returns the unit direction the camera looks in.
func (cm *Camera) Forward() math32.Vector3 {
	return cm.Rotation().Column(2).Vector3()
}

// Up returns the unit up direction of the camera.
func (cm *Camera) Up() math32.Vector3 {
	return cm.Rotation().Column(1).Vector3()
}

// Right returns the unit direction to the right of the view,
// which is Forward cross Up.
func (cm *Camera) Right() math32.Vector3 {
	return cm.Rotation().Column(0).Vector3().Negate()
}

// View returns the view matrix, looking from Position along Forward.
func (cm *Camera) View() math32.Matrix4 {
	return math32.LookAt4(cm.Position, cm.Position.Add(cm.Forward()), cm.Up())
}

// ViewProjection returns Projection * View.
func (cm *Camera) ViewProjection() math32.Matrix4 {
	return cm.projection.Mul(cm.View())
}

// Rotate adds the given yaw and pitch, in radians.
func (cm *Camera) Rotate(yaw, pitch float32) {
	cm.Yaw += yaw
	cm.Pitch += pitch
}

// Move moves the camera by the given offset.
func (cm *Camera) Move(delta math32.Vector3) {
	cm.Position.SetAdd(delta)
}

// Reset moves the camera back to the origin, looking down +Z.
func (cm *Camera) Reset() {
	cm.Position = math32.Vector3{}
	cm.Yaw = 0
	cm.Pitch = 0
}
