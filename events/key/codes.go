// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package key defines the physical key codes used for
// keyboard input and key bindings.
package key

import (
	"fmt"
	"strings"
)

// Codes are the physical key codes, independent of the keyboard layout.
type Codes int32

const (
	CodeUnknown Codes = iota
	CodeA
	CodeB
	CodeC
	CodeD
	CodeE
	CodeF
	CodeG
	CodeH
	CodeI
	CodeJ
	CodeK
	CodeL
	CodeM
	CodeN
	CodeO
	CodeP
	CodeQ
	CodeR
	CodeS
	CodeT
	CodeU
	CodeV
	CodeW
	CodeX
	CodeY
	CodeZ
	Code0
	Code1
	Code2
	Code3
	Code4
	Code5
	Code6
	Code7
	Code8
	Code9
	CodeReturnEnter
	CodeEscape
	CodeBackspace
	CodeTab
	CodeSpacebar
	CodeHyphenMinus
	CodeEqualSign
	CodeComma
	CodeFullStop
	CodeSlash
	CodeF1
	CodeF2
	CodeF3
	CodeF4
	CodeF5
	CodeF6
	CodeF7
	CodeF8
	CodeF9
	CodeF10
	CodeF11
	CodeF12
	CodeHome
	CodePageUp
	CodeDelete
	CodeEnd
	CodePageDown
	CodeRightArrow
	CodeLeftArrow
	CodeDownArrow
	CodeUpArrow
	CodeLeftControl
	CodeLeftShift
	CodeLeftAlt
	CodeRightControl
	CodeRightShift
	CodeRightAlt

	// CodesN is the number of key codes.
	CodesN
)

var codeNames = [CodesN]string{
	CodeUnknown:      "unknown",
	CodeA:            "A",
	CodeB:            "B",
	CodeC:            "C",
	CodeD:            "D",
	CodeE:            "E",
	CodeF:            "F",
	CodeG:            "G",
	CodeH:            "H",
	CodeI:            "I",
	CodeJ:            "J",
	CodeK:            "K",
	CodeL:            "L",
	CodeM:            "M",
	CodeN:            "N",
	CodeO:            "O",
	CodeP:            "P",
	CodeQ:            "Q",
	CodeR:            "R",
	CodeS:            "S",
	CodeT:            "T",
	CodeU:            "U",
	CodeV:            "V",
	CodeW:            "W",
	CodeX:            "X",
	CodeY:            "Y",
	CodeZ:            "Z",
	Code0:            "0",
	Code1:            "1",
	Code2:            "2",
	Code3:            "3",
	Code4:            "4",
	Code5:            "5",
	Code6:            "6",
	Code7:            "7",
	Code8:            "8",
	Code9:            "9",
	CodeReturnEnter:  "ReturnEnter",
	CodeEscape:       "Escape",
	CodeBackspace:    "Backspace",
	CodeTab:          "Tab",
	CodeSpacebar:     "Spacebar",
	CodeHyphenMinus:  "HyphenMinus",
	CodeEqualSign:    "EqualSign",
	CodeComma:        "Comma",
	CodeFullStop:     "FullStop",
	CodeSlash:        "Slash",
	CodeF1:           "F1",
	CodeF2:           "F2",
	CodeF3:           "F3",
	CodeF4:           "F4",
	CodeF5:           "F5",
	CodeF6:           "F6",
	CodeF7:           "F7",
	CodeF8:           "F8",
	CodeF9:           "F9",
	CodeF10:          "F10",
	CodeF11:          "F11",
	CodeF12:          "F12",
	CodeHome:         "Home",
	CodePageUp:       "PageUp",
	CodeDelete:       "Delete",
	CodeEnd:          "End",
	CodePageDown:     "PageDown",
	CodeRightArrow:   "RightArrow",
	CodeLeftArrow:    "LeftArrow",
	CodeDownArrow:    "DownArrow",
	CodeUpArrow:      "UpArrow",
	CodeLeftControl:  "LeftControl",
	CodeLeftShift:    "LeftShift",
	CodeLeftAlt:      "LeftAlt",
	CodeRightControl: "RightControl",
	CodeRightShift:   "RightShift",
	CodeRightAlt:     "RightAlt",
}

// codeByName maps lower case names and aliases to codes.
var codeByName = func() map[string]Codes {
	m := map[string]Codes{
		"enter":  CodeReturnEnter,
		"return": CodeReturnEnter,
		"esc":    CodeEscape,
		"space":  CodeSpacebar,
		"minus":  CodeHyphenMinus,
		"equal":  CodeEqualSign,
		"period": CodeFullStop,
		"up":     CodeUpArrow,
		"down":   CodeDownArrow,
		"left":   CodeLeftArrow,
		"right":  CodeRightArrow,
		"shift":  CodeLeftShift,
		"ctrl":   CodeLeftControl,
		"alt":    CodeLeftAlt,
	}
	for c := CodeUnknown + 1; c < CodesN; c++ {
		m[strings.ToLower(codeNames[c])] = c
	}
	return m
}()

// String returns the name of the code.
func (c Codes) String() string {
	if c < 0 || c >= CodesN {
		return fmt.Sprintf("Codes(%d)", int32(c))
	}
	return codeNames[c]
}

// IsValid returns whether the code is a known key, other than [CodeUnknown].
func (c Codes) IsValid() bool {
	return c > CodeUnknown && c < CodesN
}

// SetString sets the code from its name, as returned by [Codes.String]
// or a common alias such as "space" or "esc", ignoring case.
func (c *Codes) SetString(s string) error {
	nc, err := Parse(s)
	if err != nil {
		return err
	}
	*c = nc
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (c Codes) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (c *Codes) UnmarshalText(text []byte) error {
	return c.SetString(string(text))
}

// Parse returns the code with the given name, ignoring case.
func Parse(s string) (Codes, error) {
	if c, ok := codeByName[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return CodeUnknown, fmt.Errorf("key.Parse: unknown key %q", s)
}

// Values returns all known key codes, in order.
func Values() []Codes {
	cs := make([]Codes, 0, CodesN-1)
	for c := CodeUnknown + 1; c < CodesN; c++ {
		cs = append(cs, c)
	}
	return cs
}
