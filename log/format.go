// Copyright (c) 2026 The nft-collateral developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>
package log

import (
	"bytes"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/holiman/uint256"
)

const (
	timeFormat     = "2006-01-02T15:04:05-0700"
	termTimeFormat = "01-02|15:04:05.000"
	termMsgJust    = 40
	termCtxMaxPad  = 40
)

var levelColors = map[slog.Level]int{
	LevelCrit:  35,
	LevelError: 31,
	LevelWarn:  33,
	LevelInfo:  32,
	LevelDebug: 36,
	LevelTrace: 34,
}

func (h *TerminalHandler) format(buf []byte, r slog.Record) []byte {
	b := bytes.NewBuffer(buf)
	lvl := LevelAlignedString(r.Level)
	if color, ok := levelColors[r.Level]; ok && h.useColor {
		fmt.Fprintf(b, "\x1b[%dm%s\x1b[0m", color, lvl)
	} else {
		b.WriteString(lvl)
	}
	b.WriteString(" [")
	b.WriteString(r.Time.Format(termTimeFormat))
	b.WriteString("] ")
	b.WriteString(r.Message)

	// align the context behind short messages
	if length := utf8.RuneCountInString(r.Message); r.NumAttrs()+len(h.attrs) > 0 && length < termMsgJust {
		b.Write(bytes.Repeat([]byte{' '}, termMsgJust-length))
	}
	h.formatAttributes(b, r)
	return b.Bytes()
}

func (h *TerminalHandler) formatAttributes(b *bytes.Buffer, r slog.Record) {
	writeAttr := func(attr slog.Attr, last bool) {
		b.WriteByte(' ')
		if h.useColor {
			fmt.Fprintf(b, "\x1b[%dm%s\x1b[0m=", levelColors[r.Level], attr.Key)
		} else {
			b.WriteString(attr.Key)
			b.WriteByte('=')
		}
		val := FormatSlogValue(attr.Value, b.AvailableBuffer())

		padding := h.fieldPadding[attr.Key]
		length := utf8.RuneCount(val)
		if padding < length && length <= termCtxMaxPad {
			padding = length
			h.fieldPadding[attr.Key] = padding
		}
		b.Write(val)
		if !last && padding > length {
			b.Write(bytes.Repeat([]byte{' '}, padding-length))
		}
	}

	n := 0
	total := r.NumAttrs() + len(h.attrs)
	for _, attr := range h.attrs {
		n++
		writeAttr(attr, n == total)
	}
	r.Attrs(func(attr slog.Attr) bool {
		n++
		writeAttr(attr, n == total)
		return true
	})
	b.WriteByte('\n')
}

// FormatSlogValue renders a value for the terminal format, appending to tmp.
func FormatSlogValue(v slog.Value, tmp []byte) []byte {
	var value any
	switch v.Kind() {
	case slog.KindString:
		return appendEscapeString(tmp, v.String())
	case slog.KindInt64:
		return appendInt64(tmp, v.Int64())
	case slog.KindUint64:
		return appendUint64(tmp, v.Uint64(), false)
	case slog.KindFloat64:
		return strconv.AppendFloat(tmp, v.Float64(), 'f', 3, 64)
	case slog.KindBool:
		return strconv.AppendBool(tmp, v.Bool())
	case slog.KindDuration:
		value = v.Duration()
	case slog.KindTime:
		return v.Time().AppendFormat(tmp, timeFormat)
	default:
		value = v.Any()
	}
	if isNil(value) {
		return append(tmp, "<nil>"...)
	}
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return append(tmp, "<nil>"...)
		}
		return appendBigInt(tmp, v)
	case *uint256.Int:
		if v == nil {
			return append(tmp, "<nil>"...)
		}
		return appendU256(tmp, v)
	case error:
		return appendEscapeString(tmp, v.Error())
	case fmt.Stringer:
		return appendEscapeString(tmp, v.String())
	case time.Duration:
		return append(tmp, v.String()...)
	}
	return appendEscapeString(tmp, fmt.Sprintf("%+v", value))
}

// appendInt64 formats n with thousand separators once it reaches 100000.
func appendInt64(dst []byte, n int64) []byte {
	if n < 0 {
		return appendUint64(dst, uint64(-n), true)
	}
	return appendUint64(dst, uint64(n), false)
}

// appendUint64 formats n with thousand separators once it reaches 100000.
func appendUint64(dst []byte, n uint64, neg bool) []byte {
	if n < 100000 {
		if neg {
			return strconv.AppendInt(dst, -int64(n), 10)
		}
		return strconv.AppendUint(dst, n, 10)
	}
	return appendGrouped(dst, strconv.FormatUint(n, 10), neg)
}

func appendBigInt(dst []byte, n *big.Int) []byte {
	if n.IsUint64() {
		return appendUint64(dst, n.Uint64(), false)
	}
	if n.IsInt64() {
		return appendInt64(dst, n.Int64())
	}
	text := n.String()
	if neg := text[0] == '-'; neg {
		return appendGrouped(dst, text[1:], true)
	}
	return appendGrouped(dst, text, false)
}

func appendU256(dst []byte, n *uint256.Int) []byte {
	if n.IsUint64() {
		return appendUint64(dst, n.Uint64(), false)
	}
	return appendGrouped(dst, n.Dec(), false)
}

// appendGrouped writes a decimal digit string with comma separators.
func appendGrouped(dst []byte, digits string, neg bool) []byte {
	if neg {
		dst = append(dst, '-')
	}
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	dst = append(dst, digits[:head]...)
	for i := head; i < len(digits); i += 3 {
		dst = append(dst, ',')
		dst = append(dst, digits[i:i+3]...)
	}
	return dst
}

// appendEscapeString quotes s only if it contains spaces, quotes, '=' or control characters.
func appendEscapeString(dst []byte, s string) []byte {
	needsQuoting := s == ""
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			needsQuoting = true
			break
		}
	}
	if !needsQuoting {
		return append(dst, s...)
	}
	return strconv.AppendQuote(dst, strings.ToValidUTF8(s, "�"))
}
