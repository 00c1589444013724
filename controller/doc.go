// Package controller holds the per-frame behaviour of the arena's actors,
// free of any engine or ECS types.
//
// Each controller is a configuration struct plus a Step method that reads a
// frame snapshot and world queries and returns the commands the host should
// carry out (move here, face there, spawn this). Deferred work such as attack
// cooldowns goes through Timers, which the host advances once per frame on the
// same goroutine that calls Step.
//
// Angles are in degrees. Y is up, yaw turns about +Y and yaw 0 faces +Z.
// Positive pitch looks down.
package controller
