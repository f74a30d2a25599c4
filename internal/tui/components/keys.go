package components

import "github.com/charmbracelet/bubbles/key"

// JumpModalKeyMap defines key bindings inside the jump modal
type JumpModalKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Escape key.Binding
}

// DefaultJumpModalKeyMap returns the default jump modal key bindings
func DefaultJumpModalKeyMap() JumpModalKeyMap {
	return JumpModalKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "jump"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// JumpModalKeys is the global jump modal key bindings instance
var JumpModalKeys = DefaultJumpModalKeyMap()
