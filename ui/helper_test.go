package ui

import (
	"testing"

	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
)

func TestLabelStyles(t *testing.T) {
	section := sectionLabel("Section")
	assert.Equal(t, widget.HighImportance, section.Importance)
	assert.True(t, section.TextStyle.Bold)

	field := fieldLabel("Field")
	assert.Equal(t, widget.MediumImportance, field.Importance)
	assert.True(t, field.TextStyle.Bold)

	hint := hintLabel("Hint")
	assert.Equal(t, widget.LowImportance, hint.Importance)
	assert.True(t, hint.TextStyle.Italic)
}

func TestIntervalHint(t *testing.T) {
	assert.Equal(t, "A new image every 5m0s.", intervalHint("300"))
	assert.Equal(t, "A new image every 1m0s.", intervalHint(" 60 "))
	assert.Equal(t, "Enter a whole number of seconds.", intervalHint("0"))
	assert.Equal(t, "Enter a whole number of seconds.", intervalHint("soon"))
}
