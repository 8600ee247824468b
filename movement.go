package main

import "math"

// Movement tuning. Acceleration is used whenever the forward-speed change
// grows the speed magnitude or reverses its sign; deceleration otherwise.
const (
	InputSmoothTau  = 0.12 // seconds; exponential input smoothing
	MaxForwardSpeed = 38.0 // m/s
	ForwardAccel    = 48.0 // m/s²
	ForwardDecel    = 30.0 // m/s²
	MaxSpeedStep    = 2.5  // m/s; per-frame velocity change cap
	LateralDampTau  = 0.22 // seconds; sideways-drift suppression

	MaxTurnRate = 2.6  // rad/s
	TurnAccel   = 16.0 // rad/s²
	TurnDecel   = 10.0 // rad/s²
	MaxTurnStep = 0.6  // rad/s; per-frame angular change cap
)

// IntegrateMovement turns the player's buffered input into new linear and
// angular velocity on the physics body. Position integration stays with
// the physics collaborator. Frame-rate independent: smoothing uses
// alpha = 1 - e^(-dt/tau) and per-frame deltas are capped.
func IntegrateMovement(p *Player, body PhysicsBody, dt float64) {
	alpha := 1 - math.Exp(-dt/InputSmoothTau)
	p.smoothTurn += (Clamp(p.Input.Turn, -1, 1) - p.smoothTurn) * alpha
	p.smoothThrust += (Clamp(p.Input.Thrust, -1, 1) - p.smoothThrust) * alpha

	yaw := body.Yaw()
	fwd := YawForward(yaw)
	vel := body.Velocity()

	// Forward axis
	fwdSpeed := vel.Dot(fwd)
	target := p.smoothThrust * MaxForwardSpeed * p.SpeedMul
	rate := ForwardDecel
	if math.Abs(target) > math.Abs(fwdSpeed) || target*fwdSpeed < 0 {
		// Growing speed, or sign reversal: reversals always accelerate
		rate = ForwardAccel
	}
	step := rate * dt
	if step > MaxSpeedStep {
		step = MaxSpeedStep
	}
	fwdSpeed += Clamp(target-fwdSpeed, -step, step)

	// Damp the horizontal component perpendicular to the forward axis so
	// the ship doesn't skid sideways through turns. Vertical velocity is
	// the physics collaborator's business (gravity, jump pads).
	lat := YawRight(yaw)
	latSpeed := vel.Dot(lat) * math.Exp(-dt/LateralDampTau)

	newVel := fwd.Scale(fwdSpeed).Add(lat.Scale(latSpeed))
	newVel.Y = vel.Y
	body.SetVelocity(newVel)

	// Angular axis, integrated the same way with its own constants
	angVel := body.AngularVelocity()
	targetAng := p.smoothTurn * MaxTurnRate
	aRate := TurnDecel
	if math.Abs(targetAng) > math.Abs(angVel) || targetAng*angVel < 0 {
		aRate = TurnAccel
	}
	aStep := aRate * dt
	if aStep > MaxTurnStep {
		aStep = MaxTurnStep
	}
	body.SetAngularVelocity(angVel + Clamp(targetAng-angVel, -aStep, aStep))
}
