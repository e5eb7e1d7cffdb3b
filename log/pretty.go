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

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers.
//
// Styles are bound to a renderer created for the handler's writer, so color
// is only emitted when that writer is a terminal that supports it.
type palette struct {
	key, str, num, dur, tim, null lipgloss.Style
	yes, no                       lipgloss.Style
	trace, debug, info, warn, err lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		dur:   fg("5"),
		tim:   fg("4"),
		null:  fg("8"),
		yes:   fg("2"),
		no:    fg("1"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3"),
		err:   fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyHandler is shared by the pretty text and JSON handlers. It keeps the
// attributes and groups accumulated through WithAttrs and WithGroup, and
// renders each record through a layout function.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	pal    *palette
	layout func(h *prettyHandler, buf *bytes.Buffer, fields []slog.Attr)
	attrs  []slog.Attr
	groups []string
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		pal:    newPalette(w),
		layout: (*prettyHandler).layoutText,
	}
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		pal:    newPalette(w),
		layout: (*prettyHandler).layoutJSON,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		fields = h.appendBuiltin(fields, slog.Time(slog.TimeKey, r.Time))
	}

	fields = h.appendBuiltin(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			fields = h.appendBuiltin(fields, slog.String(
				slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line),
			))
		}
	}

	fields = h.appendBuiltin(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	prefix := strings.Join(h.groups, ".")

	r.Attrs(func(a slog.Attr) bool {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}

		fields = append(fields, a)

		return true
	})

	var buf bytes.Buffer

	h.layout(h, &buf, fields)
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) appendBuiltin(
	fields []slog.Attr,
	a slog.Attr,
) []slog.Attr {
	// Levels keep their slog.Level value so they can be colored by severity.
	if h.opts.ReplaceAttr != nil && a.Key != slog.LevelKey {
		a = h.opts.ReplaceAttr(nil, a)
	}

	if a.Key == "" {
		return fields
	}

	return append(fields, a)
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h

	prefix := strings.Join(h.groups, ".")
	c.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	c.attrs = append(c.attrs, h.attrs...)

	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}

		c.attrs = append(c.attrs, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

func (h *prettyHandler) layoutText(buf *bytes.Buffer, fields []slog.Attr) {
	for i, a := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.pal.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.value(a.Value))
	}
}

func (h *prettyHandler) layoutJSON(buf *bytes.Buffer, fields []slog.Attr) {
	buf.WriteString("{\n")

	for i, a := range fields {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(h.pal.key.Render(a.Key))
		buf.WriteString(": ")
		buf.WriteString(h.value(a.Value))
	}

	buf.WriteString("\n}")
}

func (h *prettyHandler) value(v slog.Value) string {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return h.pal.str.Render(v.String())
	case slog.KindInt64:
		return h.pal.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return h.pal.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return h.pal.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return h.pal.yes.Render("true")
		}

		return h.pal.no.Render("false")
	case slog.KindDuration:
		return h.pal.dur.Render(v.Duration().String())
	case slog.KindTime:
		return h.pal.tim.Render(v.Time().Format(time.RFC3339))
	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, a := range v.Group() {
			parts = append(parts, a.Key+"="+h.value(a.Value))
		}

		return "{" + strings.Join(parts, " ") + "}"
	}

	switch val := v.Any().(type) {
	case nil:
		return h.pal.null.Render("null")
	case slog.Level:
		return h.pal.level(val).Render(strings.ToUpper(Level(val).String()))
	case error:
		return h.pal.no.Render(val.Error())
	default:
		return h.pal.str.Render(fmt.Sprint(val))
	}
}
