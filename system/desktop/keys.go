// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build (darwin && !ios) || windows || (linux && !android) || dragonfly || openbsd

package desktop

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/vkhuman/human3d/events/key"
)

// glfwKeys maps glfw keys to key codes.
var glfwKeys = map[glfw.Key]key.Codes{
	glfw.KeyA: key.CodeA, glfw.KeyB: key.CodeB, glfw.KeyC: key.CodeC, glfw.KeyD: key.CodeD,
	glfw.KeyE: key.CodeE, glfw.KeyF: key.CodeF, glfw.KeyG: key.CodeG, glfw.KeyH: key.CodeH,
	glfw.KeyI: key.CodeI, glfw.KeyJ: key.CodeJ, glfw.KeyK: key.CodeK, glfw.KeyL: key.CodeL,
	glfw.KeyM: key.CodeM, glfw.KeyN: key.CodeN, glfw.KeyO: key.CodeO, glfw.KeyP: key.CodeP,
	glfw.KeyQ: key.CodeQ, glfw.KeyR: key.CodeR, glfw.KeyS: key.CodeS, glfw.KeyT: key.CodeT,
	glfw.KeyU: key.CodeU, glfw.KeyV: key.CodeV, glfw.KeyW: key.CodeW, glfw.KeyX: key.CodeX,
	glfw.KeyY: key.CodeY, glfw.KeyZ: key.CodeZ,

	glfw.Key0: key.Code0, glfw.Key1: key.Code1, glfw.Key2: key.Code2, glfw.Key3: key.Code3,
	glfw.Key4: key.Code4, glfw.Key5: key.Code5, glfw.Key6: key.Code6, glfw.Key7: key.Code7,
	glfw.Key8: key.Code8, glfw.Key9: key.Code9,

	glfw.KeyEnter:     key.CodeReturnEnter,
	glfw.KeyEscape:    key.CodeEscape,
	glfw.KeyBackspace: key.CodeBackspace,
	glfw.KeyTab:       key.CodeTab,
	glfw.KeySpace:     key.CodeSpacebar,
	glfw.KeyMinus:     key.CodeHyphenMinus,
	glfw.KeyEqual:     key.CodeEqualSign,
	glfw.KeyComma:     key.CodeComma,
	glfw.KeyPeriod:    key.CodeFullStop,
	glfw.KeySlash:     key.CodeSlash,

	glfw.KeyF1: key.CodeF1, glfw.KeyF2: key.CodeF2, glfw.KeyF3: key.CodeF3, glfw.KeyF4: key.CodeF4,
	glfw.KeyF5: key.CodeF5, glfw.KeyF6: key.CodeF6, glfw.KeyF7: key.CodeF7, glfw.KeyF8: key.CodeF8,
	glfw.KeyF9: key.CodeF9, glfw.KeyF10: key.CodeF10, glfw.KeyF11: key.CodeF11, glfw.KeyF12: key.CodeF12,

	glfw.KeyHome:     key.CodeHome,
	glfw.KeyPageUp:   key.CodePageUp,
	glfw.KeyDelete:   key.CodeDelete,
	glfw.KeyEnd:      key.CodeEnd,
	glfw.KeyPageDown: key.CodePageDown,
	glfw.KeyRight:    key.CodeRightArrow,
	glfw.KeyLeft:     key.CodeLeftArrow,
	glfw.KeyDown:     key.CodeDownArrow,
	glfw.KeyUp:       key.CodeUpArrow,

	glfw.KeyLeftControl:  key.CodeLeftControl,
	glfw.KeyLeftShift:    key.CodeLeftShift,
	glfw.KeyLeftAlt:      key.CodeLeftAlt,
	glfw.KeyRightControl: key.CodeRightControl,
	glfw.KeyRightShift:   key.CodeRightShift,
	glfw.KeyRightAlt:     key.CodeRightAlt,
}

// GlfwKeyCode returns the key code of the given glfw key,
// or [key.CodeUnknown] for keys without one.
func GlfwKeyCode(k glfw.Key) key.Codes {
	return glfwKeys[k]
}
