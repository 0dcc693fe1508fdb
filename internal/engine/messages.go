package engine

import "errors"

// Success messages.
const (
	MsgStarted        = "Simulation has started."
	MsgEnded          = "Simulation has ended."
	MsgWeatherChanged = "The weather has changed."
	MsgFactSaved      = "The fact has been successfully saved in the database."
	MsgCharging       = "Robot battery is charging."
)

// rejectionMessages is the user-facing wording for each rejection.
var rejectionMessages = []struct {
	err error
	msg string
}{
	{ErrNotEnoughEnergy, "ERROR: Not enough battery left. Cannot perform action"},
	{ErrScanNoEnergy, "ERROR: Not enough energy to perform action"},
	{ErrSubjectNotSaved, "ERROR: Subject not yet saved. Cannot perform action"},
	{ErrFactNotSaved, "ERROR: Fact not yet saved. Cannot perform action"},
	{ErrObjectNotFound, "ERROR: Object not found. Cannot perform action"},
	{ErrNoWeatherEffect, "ERROR: The weather change does not affect the environment. Cannot perform action"},
	{ErrNoEffect, "ERROR: The improvement does not affect the environment. Cannot perform action"},
	{ErrNoReachableCell, "ERROR: No reachable cell. Cannot perform action"},
	{ErrCharging, "ERROR: Robot still charging. Cannot perform action"},
	{ErrNotStarted, "ERROR: Simulation not started. Cannot perform action"},
	{ErrAlreadyStarted, "ERROR: Simulation already started. Cannot perform action"},
	{ErrNoSimulationLeft, "ERROR: No simulation parameters left. Cannot perform action"},
	{ErrUnknownCommand, "ERROR: Unknown command. Cannot perform action"},
}

// Message renders an error as the line reported for a command.
func Message(err error) string {
	for _, m := range rejectionMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "ERROR: " + err.Error() + ". Cannot perform action"
}

// IsRejection reports whether err is one of the handler rejections rather
// than an unexpected failure.
func IsRejection(err error) bool {
	for _, m := range rejectionMessages {
		if errors.Is(err, m.err) {
			return true
		}
	}
	return false
}
