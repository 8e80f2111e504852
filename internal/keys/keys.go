package keys

// Code is a host virtual key code. The values follow the macOS virtual key
// table, which is what the platform hosts deliver unchanged.
type Code uint16

const (
	A = 0
	S = 1
	D = 2
	F = 3
	H = 4
	G = 5
	Z = 6
	X = 7
	C = 8
	V = 9
	B = 11
	Q = 12
	W = 13
	E = 14
	R = 15
	Y = 16
	T = 17
	O = 31
	U = 32
	I = 34
	P = 35
	L = 37
	J = 38
	K = 40
	N = 45
	M = 46

	N1    = 18
	N2    = 19
	N3    = 20
	N4    = 21
	N6    = 22
	N5    = 23
	Equal = 24
	N9    = 25
	N7    = 26
	Minus = 27
	N8    = 28
	N0    = 29

	RBracket  = 30
	LBracket  = 33
	Return    = 36
	Quote     = 39
	Semicolon = 41
	Backslash = 42
	Comma     = 43
	Slash     = 44
	Dot       = 47
	Tab       = 48
	Space     = 49
	Backquote = 50
	Delete    = 51
	Esc       = 53
	Enter     = 76
	Left      = 123
	Right     = 124
	Down      = 125
	Up        = 126
)

var letterCodes = map[Code]rune{
	A: 'a', B: 'b', C: 'c', D: 'd', E: 'e', F: 'f', G: 'g', H: 'h', I: 'i',
	J: 'j', K: 'k', L: 'l', M: 'm', N: 'n', O: 'o', P: 'p', Q: 'q', R: 'r',
	S: 's', T: 't', U: 'u', V: 'v', W: 'w', X: 'x', Y: 'y', Z: 'z',
}

var digitCodes = map[Code]rune{
	N0: '0', N1: '1', N2: '2', N3: '3', N4: '4',
	N5: '5', N6: '6', N7: '7', N8: '8', N9: '9',
}

var punctCodes = map[Code][2]rune{
	Dot:       {'.', '>'},
	Comma:     {',', '<'},
	Slash:     {'/', '?'},
	Semicolon: {';', ':'},
	Quote:     {'\'', '"'},
	LBracket:  {'[', '{'},
	RBracket:  {']', '}'},
	Backslash: {'\\', '|'},
	Minus:     {'-', '_'},
	Equal:     {'=', '+'},
	Backquote: {'`', '~'},
}

var shiftedDigits = [10]rune{')', '!', '@', '#', '$', '%', '^', '&', '*', '('}

var (
	runeToCode    = buildRuneIndex()
	shiftedToCode = buildShiftedIndex()
)

func buildRuneIndex() map[rune]Code {
	idx := make(map[rune]Code, len(letterCodes)+len(digitCodes)+len(punctCodes))
	for code, r := range letterCodes {
		idx[r] = code
	}
	for code, r := range digitCodes {
		idx[r] = code
	}
	for code, pair := range punctCodes {
		idx[pair[0]] = code
	}
	return idx
}

func buildShiftedIndex() map[rune]Code {
	idx := make(map[rune]Code, len(punctCodes)+len(shiftedDigits))
	for code, pair := range punctCodes {
		idx[pair[1]] = code
	}
	for d, r := range shiftedDigits {
		idx[r] = runeToCode[rune('0'+d)]
	}
	return idx
}

// Letter returns the lowercase ASCII letter for a letter key.
func Letter(code Code) (rune, bool) {
	r, ok := letterCodes[code]
	return r, ok
}

// Digit returns the ASCII digit for a number-row key.
func Digit(code Code) (rune, bool) {
	r, ok := digitCodes[code]
	return r, ok
}

func IsLetter(code Code) bool {
	_, ok := letterCodes[code]
	return ok
}

func IsDigit(code Code) bool {
	_, ok := digitCodes[code]
	return ok
}

func IsVowel(code Code) bool {
	switch code {
	case A, E, I, O, U, Y:
		return true
	}
	return false
}

// IsBreak reports whether the key ends the word being composed.
// Digits are not listed: whether they break a word depends on the scheme.
func IsBreak(code Code) bool {
	switch code {
	case Space, Tab, Return, Enter, Esc, Left, Right, Up, Down:
		return true
	}
	_, punct := punctCodes[code]
	return punct
}

// ToChar returns the character the key types on a plain keyboard, or 0 when
// the key has no printable form.
func ToChar(code Code, upper, shift bool) rune {
	if r, ok := letterCodes[code]; ok {
		if upper {
			return r - 'a' + 'A'
		}
		return r
	}
	if r, ok := digitCodes[code]; ok {
		if shift {
			return shiftedDigits[r-'0']
		}
		return r
	}
	if pair, ok := punctCodes[code]; ok {
		if shift {
			return pair[1]
		}
		return pair[0]
	}
	switch code {
	case Space:
		return ' '
	case Tab:
		return '\t'
	case Return, Enter:
		return '\n'
	}
	return 0
}

// FromASCII maps a byte read from a terminal or a test string to a key code.
// upper and shift describe the modifier state that produces the byte.
func FromASCII(b byte) (code Code, upper, shift, ok bool) {
	switch b {
	case 0x08, 0x7f:
		return Delete, false, false, true
	case '\r', '\n':
		return Return, false, false, true
	case 0x1b:
		return Esc, false, false, true
	case ' ':
		return Space, false, false, true
	case '\t':
		return Tab, false, false, true
	}
	r := rune(b)
	if r >= 'A' && r <= 'Z' {
		return runeToCode[r-'A'+'a'], true, true, true
	}
	if c, found := runeToCode[r]; found {
		return c, false, false, true
	}
	if c, found := shiftedToCode[r]; found {
		return c, false, true, true
	}
	return 0, false, false, false
}
