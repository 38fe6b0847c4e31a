package tables

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/opscenter-labs/opsconsole/internal/grid"
)

// timeLayout is how timestamps are shown in every table.
const timeLayout = "2006-01-02 15:04:05 UTC"

func text(s string) Field {
	return Field{Text: s, Key: grid.Text(s)}
}

func link(s, href string) Field {
	return Field{Text: s, Href: href, Key: grid.Text(s)}
}

func number(n int64) Field {
	return Field{Text: strconv.FormatInt(n, 10), Key: grid.Number(float64(n)), Class: "num"}
}

func bytesField(n int64) Field {
	return Field{Text: FormatBytes(n), Key: grid.Number(float64(n)), Class: "num"}
}

// timestamp keys on unix seconds; the zero time sorts first.
func timestamp(t time.Time) Field {
	f := Field{Text: FormatTime(t), Key: grid.Number(0)}
	if !t.IsZero() {
		f.Key = grid.Number(float64(t.Unix()))
	}
	return f
}

// FormatTime renders t the way tables show it.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.UTC().Format(timeLayout)
}

func status(s string) Field {
	f := text(s)
	f.Class = "status status-" + strings.ToLower(s)
	return f
}

func boolean(b bool) Field {
	if b {
		return text("yes")
	}
	return text("no")
}

func actions(links ...Link) Field {
	return Field{Class: "actions", Links: links}
}

// href joins a base path with escaped segments.
func href(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// FormatBytes renders n with binary units, e.g. "1.5 KiB" or "870 MiB".
func FormatBytes(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}
	return humanize.IBytes(uint64(n))
}
