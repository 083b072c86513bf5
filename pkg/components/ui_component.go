package components

// UIState represents the current interaction state of a widget.
type UIState int

const (
	// UINormal indicates the widget is in its default state.
	UINormal UIState = iota
	// UIHovered indicates the pointer is over the widget.
	UIHovered
	// UIClicked indicates the widget is being pressed.
	UIClicked
	// UIDisabled indicates the widget ignores input.
	UIDisabled
)

// String returns a short name for logs.
func (s UIState) String() string {
	switch s {
	case UINormal:
		return "normal"
	case UIHovered:
		return "hovered"
	case UIClicked:
		return "clicked"
	case UIDisabled:
		return "disabled"
	}
	return "unknown"
}

// UIComponent marks an entity as a widget and tracks its interaction state.
type UIComponent struct {
	// State is the current interaction state of the widget.
	State UIState
}
