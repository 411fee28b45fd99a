package component

import (
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	lightText = "#ffffff"
	darkText  = "#111827"
)

// TextColorFor picks a label color that stays readable on the given
// background. Unparsable colors fall back to white text.
func TextColorFor(background string) string {
	c, err := colorful.Hex(background)
	if err != nil {
		return lightText
	}

	l, _, _ := c.Lab()
	if l > 0.6 {
		return darkText
	}

	return lightText
}
