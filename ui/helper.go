package ui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

func styledLabel(text string, importance widget.Importance, style fyne.TextStyle) *widget.Label {
	l := widget.NewLabel(text)
	l.Wrapping = fyne.TextWrapWord
	l.Importance = importance
	l.TextStyle = style
	return l
}

// sectionLabel heads a group of settings.
func sectionLabel(text string) *widget.Label {
	return styledLabel(text, widget.HighImportance, fyne.TextStyle{Bold: true})
}

// fieldLabel names a single setting.
func fieldLabel(text string) *widget.Label {
	return styledLabel(text, widget.MediumImportance, fyne.TextStyle{Bold: true})
}

// hintLabel explains a setting in small print.
func hintLabel(text string) *widget.Label {
	return styledLabel(text, widget.LowImportance, fyne.TextStyle{Italic: true})
}

// intervalHint describes an interval entry, e.g. "A new image every 5m0s.".
func intervalHint(text string) string {
	seconds, err := parseInterval(text)
	if err != nil {
		return "Enter a whole number of seconds."
	}
	return fmt.Sprintf("A new image every %v.", time.Duration(seconds)*time.Second)
}
