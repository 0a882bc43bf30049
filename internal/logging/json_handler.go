package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

const jsonTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// newJSONHandler emits one object per record with short canonical keys
// (ts, level, msg, source). Empty string attributes are dropped so optional
// fields such as the conversion id only appear when set.
func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) == 0 {
				switch attr.Key {
				case slog.TimeKey:
					if attr.Value.Kind() == slog.KindTime {
						return slog.String("ts", attr.Value.Time().UTC().Format(jsonTimeLayout))
					}
					attr.Key = "ts"
					return attr
				case slog.LevelKey:
					return slog.String("level", strings.ToLower(attr.Value.String()))
				case slog.MessageKey:
					attr.Key = "msg"
					return attr
				case slog.SourceKey:
					if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
						return slog.String("source", fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
					}
					return attr
				}
			}
			if attr.Value.Kind() == slog.KindString && strings.TrimSpace(attr.Value.String()) == "" {
				return slog.Attr{}
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}
