package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// palette wraps text in ANSI colors, or passes it through when disabled.
type palette bool

func (p palette) paint(buf *bytes.Buffer, color, s string) {
	if p {
		buf.WriteString(color)
	}

	buf.WriteString(s)

	if p {
		buf.WriteString(colorReset)
	}
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	case level >= slog.LevelDebug:
		return colorBlue
	default:
		return colorMagenta
	}
}

func levelName(level slog.Level) string {
	return strings.ToUpper(Level(level).String())
}

func sourceName(r slog.Record) string {
	if src := r.Source(); src != nil {
		return fmt.Sprintf("%s:%d", src.File, src.Line)
	}

	return ""
}

// prettyBase is the state shared by both pretty handlers.
type prettyBase struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	color      palette
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	group      string
}

func (h prettyBase) enabled(level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// qualify prefixes key with the open group, if any.
func (h prettyBase) qualify(key string) string {
	if h.group == "" {
		return key
	}

	return h.group + "." + key
}

func (h prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	for _, a := range attrs {
		a.Key = h.qualify(a.Key)
		h.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], a)
	}

	return h
}

func (h prettyBase) withGroup(name string) prettyBase {
	if name != "" {
		h.group = h.qualify(name)
	}

	return h
}

func (h prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes one line of key=value pairs per record with
// unquoted values.
type prettyTextHandler struct{ prettyBase }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
	color bool,
) *prettyTextHandler {
	return &prettyTextHandler{prettyBase{
		opts:       *opts,
		formatTime: formatTime,
		color:      palette(color),
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			h.writeKey(buf, slog.TimeKey)
			h.color.paint(buf, colorBlue, ts)
		}
	}

	h.writeKey(buf, slog.LevelKey)
	h.color.paint(buf, levelColor(r.Level), levelName(r.Level))

	if h.opts.AddSource {
		if src := sourceName(r); src != "" {
			h.writeKey(buf, slog.SourceKey)
			h.color.paint(buf, colorGray, src)
		}
	}

	h.writeKey(buf, slog.MessageKey)
	h.color.paint(buf, colorCyan, r.Message)

	for _, a := range h.attrs {
		h.writeAttr(buf, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		a.Key = h.qualify(a.Key)
		h.writeAttr(buf, a)

		return true
	})

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

func (h *prettyTextHandler) writeKey(buf *bytes.Buffer, key string) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	h.color.paint(buf, colorGray, key)
	buf.WriteByte('=')
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, a slog.Attr) {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			ga.Key = a.Key + "." + ga.Key
			h.writeAttr(buf, ga)
		}

		return
	}

	h.writeKey(buf, a.Key)
	h.writeValue(buf, v)
}

func (h *prettyTextHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindInt64:
		h.color.paint(buf, colorYellow, strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		h.color.paint(buf, colorYellow, strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		h.color.paint(buf, colorYellow,
			strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			h.color.paint(buf, colorGreen, "true")
		} else {
			h.color.paint(buf, colorRed, "false")
		}
	case slog.KindDuration:
		h.color.paint(buf, colorMagenta, v.Duration().String())
	case slog.KindTime:
		h.color.paint(buf, colorBlue, h.formatTime(v.Time()))
	default:
		h.color.paint(buf, colorCyan, v.String())
	}
}

// prettyJSONHandler writes each record as an indented JSON-like object
// with unquoted values.
type prettyJSONHandler struct{ prettyBase }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
	color bool,
) *prettyJSONHandler {
	return &prettyJSONHandler{prettyBase{
		opts:       *opts,
		formatTime: formatTime,
		color:      palette(color),
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)
	buf.WriteString("{")

	first := true

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			h.writeField(buf, slog.TimeKey, ts, &first)
		}
	}

	h.writeField(buf, slog.LevelKey, r.Level, &first)

	if h.opts.AddSource {
		if src := sourceName(r); src != "" {
			h.writeField(buf, slog.SourceKey, src, &first)
		}
	}

	h.writeField(buf, slog.MessageKey, r.Message, &first)

	for _, a := range h.attrs {
		h.writeField(buf, a.Key, a.Value.Resolve().Any(), &first)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeField(buf, h.qualify(a.Key), a.Value.Resolve().Any(), &first)

		return true
	})

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

func (h *prettyJSONHandler) writeField(
	buf *bytes.Buffer,
	key string,
	value any,
	first *bool,
) {
	if !*first {
		buf.WriteByte(',')
	}

	*first = false

	buf.WriteString("\n  ")
	h.color.paint(buf, colorGray, key)
	buf.WriteString(": ")

	switch val := value.(type) {
	case slog.Level:
		h.color.paint(buf, levelColor(val), levelName(val))
	case string:
		h.color.paint(buf, colorCyan, val)
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		h.color.paint(buf, colorYellow, fmt.Sprint(val))
	case bool:
		if val {
			h.color.paint(buf, colorGreen, "true")
		} else {
			h.color.paint(buf, colorRed, "false")
		}
	case time.Time:
		h.color.paint(buf, colorBlue, h.formatTime(val))
	case time.Duration:
		h.color.paint(buf, colorMagenta, val.String())
	case nil:
		h.color.paint(buf, colorGray, "null")
	default:
		h.color.paint(buf, colorCyan, fmt.Sprint(val))
	}
}
