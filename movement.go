package main

import "math"

// Camera is the world-space viewer pose. Angle is in radians and is never
// normalized.
type Camera struct {
	X, Y  float64
	Angle float64
}

// cameraMotion scales held actions into per-tick camera changes.
type cameraMotion struct {
	moveSpeed float64
	turnSpeed float64
}

// apply advances the camera by one tick of held input scaled by delta.
func (m cameraMotion) apply(cam Camera, in InputState, delta float64) Camera {
	step := delta * m.moveSpeed
	if in.Held(ActionForward) {
		cam.X += math.Cos(cam.Angle) * step
		cam.Y += math.Sin(cam.Angle) * step
	}
	if in.Held(ActionBackward) {
		cam.X -= math.Cos(cam.Angle) * step
		cam.Y -= math.Sin(cam.Angle) * step
	}
	if in.Held(ActionTurnRight) {
		cam.Angle += delta * m.turnSpeed
	}
	if in.Held(ActionTurnLeft) {
		cam.Angle -= delta * m.turnSpeed
	}
	return cam
}
