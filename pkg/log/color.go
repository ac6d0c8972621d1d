package log

import (
	"github.com/gookit/color"
)

type Color struct {
	Info   func(a ...any) string
	Banner func(a ...any) string
	Bold   func(a ...any) string
	Red    func(a ...any) string
	Green  func(a ...any) string
	Time   func(a ...any) string
}

var LogColor *Color

func init() {
	if LogColor == nil {
		LogColor = NewColor()
	}
}

func NewColor() *Color {
	return &Color{
		Info:   color.HiCyan.Render,
		Banner: color.FgLightGreen.Render,
		Bold:   color.Bold.Render,
		Red:    color.FgLightRed.Render,
		Green:  color.FgLightGreen.Render,
		Time:   color.Gray.Render,
	}
}
