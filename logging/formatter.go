package logging

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const timestampLayout = "2006-01-02 15:04:05"

// TextFormatter renders `[LEVEL] [component] message key=value` lines with
// fields in key order.
type TextFormatter struct {
	Config FormatConfig
}

func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer

	if !f.Config.DisableTimestamp {
		b.WriteString(entry.Time.Format(timestampLayout))
		b.WriteByte(' ')
	}
	b.WriteString("[" + levelLabel(entry.Level) + "]")

	if c, ok := entry.Data["component"]; ok && !f.Config.DisableComponent {
		b.WriteString(" [" + toString(c) + "]")
	}
	if entry.HasCaller() {
		b.WriteString(" [" + filepath.Base(entry.Caller.File) + ":" + strconv.Itoa(entry.Caller.Line) +
			" " + filepath.Base(entry.Caller.Function) + "]")
	}

	b.WriteByte(' ')
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != "component" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(quoteIfNeeded(toString(entry.Data[k])))
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

func levelLabel(l logrus.Level) string {
	if l == logrus.WarnLevel {
		return "WARN"
	}
	return strings.ToUpper(l.String())
}

func toString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	case []string:
		return "[" + strings.Join(x, ",") + "]"
	default:
		return strings.TrimSpace(strings.ReplaceAll(fmt.Sprint(x), "\n", " "))
	}
}

// quoteIfNeeded quotes values that would otherwise split into several tokens.
func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"=") {
		return strconv.Quote(s)
	}
	return s
}
