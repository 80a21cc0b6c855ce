// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package wsi

import (
	"github.com/gdamore/tcell/v2"
)

// keyFrom returns the Key value that represents a
// terminal key event.
func keyFrom(ev *tcell.EventKey) Key {
	switch ev.Key() {
	case tcell.KeyUp:
		return KeyUp
	case tcell.KeyDown:
		return KeyDown
	case tcell.KeyPgUp:
		return KeyPageUp
	case tcell.KeyPgDn:
		return KeyPageDown
	case tcell.KeyHome:
		return KeyHome
	case tcell.KeyEnd:
		return KeyEnd
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return KeyEsc
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			return KeySpace
		case 'q', 'Q':
			return KeyQ
		case 'j':
			return KeyDown
		case 'k':
			return KeyUp
		case 'g':
			return KeyHome
		case 'G':
			return KeyEnd
		}
	}
	return KeyUnknown
}
