package ui

// HelpLines lists the key bindings shown by the overlay.
var HelpLines = []string{
	"space    pause / resume",
	"n        single step while paused",
	"up/down  cycle brush (or mouse wheel)",
	"click    paint, drag to paint a line",
	"+/-      change delay",
	"drop     open a snapshot; it saves under the data dir",
	"h        toggle this help",
	"q/esc    save and quit",
}
