package engine

import "errors"

// Rejections reported by the action handlers and the driver. A handler that
// returns one of these has left the world and the robot untouched.
var (
	ErrNotEnoughEnergy  = errors.New("not enough battery left")
	ErrScanNoEnergy     = errors.New("not enough energy to scan")
	ErrSubjectNotSaved  = errors.New("subject not yet saved")
	ErrFactNotSaved     = errors.New("fact not yet saved")
	ErrObjectNotFound   = errors.New("object not found")
	ErrNoWeatherEffect  = errors.New("weather change does not affect the environment")
	ErrNoEffect         = errors.New("improvement has no effect on this cell")
	ErrNoReachableCell  = errors.New("no reachable neighbouring cell")
	ErrCharging         = errors.New("robot still charging")
	ErrNotStarted       = errors.New("simulation not started")
	ErrAlreadyStarted   = errors.New("simulation already started")
	ErrNoSimulationLeft = errors.New("no simulation parameters left")
	ErrUnknownCommand   = errors.New("unknown command")
)
