package driver

import "runtime"

//Platform carries properties the native client resolves once per process or
//connection: the width of one wide character unit in bound buffers and the
//decimal separator used when the client renders fixed point values as text.
//Converters receive it as configuration and never re-derive it per cell.
type Platform struct {
	WideCharWidth int
	DecimalPoint  byte
}

//DetectPlatform resolves the platform properties for the current process,
//wide characters are 2 bytes on windows and 4 bytes elsewhere.
func DetectPlatform() Platform {
	width := 4
	if runtime.GOOS == "windows" {
		width = 2
	}
	return Platform{WideCharWidth: width, DecimalPoint: '.'}
}

//Valid returns true when the platform carries usable settings
func (p Platform) Valid() bool {
	return (p.WideCharWidth == 2 || p.WideCharWidth == 4) && p.DecimalPoint != 0
}
