package ansi

// PaletteDefault is the palette installed at package init and restored by
// SetPalette(PaletteDefault).
var PaletteDefault = Palette{
	Critical:  BrightRed,
	Error:     Red,
	Warning:   BrightYellow,
	Info:      BrightGreen,
	Verbose:   Faint,
	Site:      Cyan,
	Tag:       Magenta,
	Timestamp: Faint,
}

// PaletteMono disables colour entirely; SetPalette(PaletteMono) turns the
// sink emitter's output plain. Fields use the Off sentinel rather than the
// empty string, since SetPalette treats "" as "leave the current value".
var PaletteMono = Palette{
	Critical:  Off,
	Error:     Off,
	Warning:   Off,
	Info:      Off,
	Verbose:   Off,
	Site:      Off,
	Tag:       Off,
	Timestamp: Off,
}
