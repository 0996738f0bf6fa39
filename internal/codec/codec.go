// Package codec packs ticket metadata into the fixed-width string embedded in
// the ticket's QR code.
//
// The layout is a fixed contract: field order, widths and justification must
// not change. Several fields use a legacy numeric transliteration, the code
// point minus 39 printed as two digits, which maps 'A' to "26" and 'a' to "58".
package codec

import (
	"encoding/base64"
	"strconv"
	"strings"
	"unicode/utf8"
)

// User data keys read by the codec.
const (
	KeyLetter        = "字母"
	KeyTicketNumber  = "票号"
	KeyYear          = "年"
	KeyMonth         = "月"
	KeyDay           = "日"
	KeyType          = "类型"
	KeyTrain         = "车次号"
	KeyCar           = "车厢号"
	KeySeat          = "席位号"
	KeySequence      = "普通序号"
	KeyOtherIDType   = "其它证件标识符"
	KeyIDNumberHead  = "身份证号1"
	KeyIDNumberTail  = "身份证号2"
	KeyPassengerName = "姓名"
	KeyHour          = "时"
	KeyMinute        = "分"
)

// Values is the read side of user data.
type Values interface {
	Lookup(key string) (string, bool)
}

type kind int

const (
	right      kind = iota // right-justified, space padded
	translit               // two digits per char, then left-justified
	base64Left             // Base64 of the UTF-8 bytes, left-justified
)

type field struct {
	key   string
	width int
	kind  kind
	chars int // characters consumed by translit fields
}

// layout is the payload contract, in order.
var layout = []field{
	{key: KeyLetter, width: 2, kind: translit, chars: 1},
	{key: KeyTicketNumber, width: 6, kind: right},
	{key: KeyYear, width: 4, kind: right},
	{key: KeyMonth, width: 2, kind: right},
	{key: KeyDay, width: 2, kind: right},
	{key: KeyType, width: 4, kind: translit, chars: 2},
	{key: KeyTrain, width: 6, kind: right},
	{key: KeyCar, width: 4, kind: right},
	{key: KeySeat, width: 5, kind: right},
	{key: KeySequence, width: 5, kind: translit, chars: 1},
	{key: KeyOtherIDType, width: 4, kind: translit, chars: 2},
	{key: KeyIDNumberHead, width: 10, kind: right},
	{key: KeyIDNumberTail, width: 5, kind: right},
	{key: KeyPassengerName, width: 41, kind: base64Left},
	{key: KeyHour, width: 2, kind: right},
	{key: KeyMinute, width: 2, kind: right},
}

// PayloadWidth is the length in characters of every encoded payload.
var PayloadWidth = func() int {
	n := 0
	for _, f := range layout {
		n += f.width
	}
	return n
}()

// EncodeTicketData builds the QR payload from v. Missing fields encode as
// blanks; over-long values are cut so the payload length never varies.
func EncodeTicketData(v Values) string {
	var b strings.Builder
	for _, f := range layout {
		s, _ := v.Lookup(f.key)
		switch f.kind {
		case right:
			b.WriteString(rjust(s, f.width))
		case base64Left:
			b.WriteString(ljust(base64.StdEncoding.EncodeToString([]byte(s)), f.width))
		case translit:
			b.WriteString(ljust(transliterate(s, f.chars), f.width))
		}
	}
	return b.String()
}

// transliterate pads s with spaces to n characters, keeps the first n, and
// writes each as its code point minus 39 in two digits.
func transliterate(s string, n int) string {
	rs := []rune(s)
	var b strings.Builder
	for i := 0; i < n; i++ {
		r := ' '
		if i < len(rs) {
			r = rs[i]
		}
		b.WriteString(Code(r))
	}
	return b.String()
}

// Code returns the two-character transliteration of r. Values outside
// -9..99 keep their two trailing characters.
func Code(r rune) string {
	s := strconv.Itoa(int(r) - 39)
	if len(s) == 1 {
		s = "0" + s
	}
	return s[len(s)-2:]
}

func rjust(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		rs := []rune(s)
		return string(rs[n-width:])
	}
	return strings.Repeat(" ", width-n) + s
}

func ljust(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return string([]rune(s)[:width])
	}
	return s + strings.Repeat(" ", width-n)
}
