package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone     Action = iota
	ActionRotate          // Up, W, K - turn the piece a quarter clockwise
	ActionLeft            // Left, A, H
	ActionRight           // Right, D, L
	ActionSoftDrop        // Down, S, J - one row down
	ActionHardDrop        // Space - drop until landing
	ActionPause           // P, Escape
	ActionRestart         // R - new game after game over
	ActionQuit            // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionRotate:
		return "Rotate"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionSoftDrop:
		return "SoftDrop"
	case ActionHardDrop:
		return "HardDrop"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsMotion reports whether the action drives the falling piece.
func (a Action) IsMotion() bool {
	switch a {
	case ActionRotate, ActionLeft, ActionRight, ActionSoftDrop, ActionHardDrop:
		return true
	}
	return false
}
