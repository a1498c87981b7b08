package constant

// Zoom bounds and step for the card text
const (
	MinZoom  = 0.8
	MaxZoom  = 2.0
	ZoomStep = 0.1
)

// Card announcements
const (
	AnnounceContrastOn  = "High contrast mode enabled."
	AnnounceContrastOff = "High contrast mode disabled."
	AnnounceZoomIn      = "Zoom level increased to %d%%."
	AnnounceZoomOut     = "Zoom level decreased to %d%%."
	AnnounceZoomReset   = "Zoom level reset to 100%."
)
