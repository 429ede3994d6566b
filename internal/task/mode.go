package task

// WindowingMode classifies a task for routing purposes. Each mode has at
// most one listener bound to it in the organizer.
type WindowingMode int32

const (
	// WindowingModeUndefined is the zero mode; tasks in it are routable
	// like any other mode, but no built-in listener binds to it.
	WindowingModeUndefined WindowingMode = iota

	// WindowingModeFullscreen is the default mode for ordinary tasks.
	WindowingModeFullscreen

	// WindowingModeSplit is for tasks sharing the display side by side.
	WindowingModeSplit

	// WindowingModeFreeform is for free-floating, user-positioned tasks.
	WindowingModeFreeform

	// WindowingModePinned is for picture-in-picture tasks.
	WindowingModePinned

	// WindowingModeMulti is for tasks participating in multi-display flows.
	WindowingModeMulti
)

// String returns a human-readable mode name.
func (m WindowingMode) String() string {
	switch m {
	case WindowingModeUndefined:
		return "undefined"
	case WindowingModeFullscreen:
		return "fullscreen"
	case WindowingModeSplit:
		return "split"
	case WindowingModeFreeform:
		return "freeform"
	case WindowingModePinned:
		return "pinned"
	case WindowingModeMulti:
		return "multi"
	default:
		return "unknown"
	}
}

// ParseWindowingMode parses a mode name as produced by String.
// Unrecognized names map to WindowingModeUndefined with ok=false.
func ParseWindowingMode(s string) (WindowingMode, bool) {
	switch s {
	case "undefined":
		return WindowingModeUndefined, true
	case "fullscreen":
		return WindowingModeFullscreen, true
	case "split":
		return WindowingModeSplit, true
	case "freeform":
		return WindowingModeFreeform, true
	case "pinned":
		return WindowingModePinned, true
	case "multi":
		return WindowingModeMulti, true
	default:
		return WindowingModeUndefined, false
	}
}
