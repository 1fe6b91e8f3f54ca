package ui

import (
	"github.com/yildizm/PalmScan/internal/controller"
	"github.com/yildizm/PalmScan/internal/history"
	"github.com/yildizm/PalmScan/internal/theme"
)

// Overlay is a view drawn over the upload form
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHelp
	OverlayStats
)

// Options configures the interactive app
type Options struct {
	Controller *controller.Controller
	History    *history.Store
	Theme      theme.Mode
}
