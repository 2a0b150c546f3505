// Package label renders a task as a single display line and parses it back.
//
// The format is
//
//	[✓] text (category) [priority]
//
// with the leading marker present only for finished tasks. Encode and Decode
// are exact inverses as long as Check accepts the parts.
package label

import (
	"strings"

	"diary/internal/errs"
	"diary/internal/models"
)

// DoneMarker prefixes the label of a finished task.
const DoneMarker = "[✓] "

const reserved = "()[]"

// Parts is the tuple carried by a label.
type Parts struct {
	Text     string
	Done     bool
	Category string
	Priority models.Priority
}

func Encode(text string, done bool, category string, priority models.Priority) string {
	if done {
		return DoneMarker + Body(text, category, priority)
	}
	return Body(text, category, priority)
}

// EncodeTask is Encode applied to a stored task.
func EncodeTask(t models.Task) string {
	return Encode(t.Text, t.Done, t.Category, t.Priority)
}

// Body renders the label without the done marker.
func Body(text, category string, priority models.Priority) string {
	var b strings.Builder
	b.Grow(len(text) + len(category) + len(priority) + 6)
	b.WriteString(text)
	b.WriteString(" (")
	b.WriteString(category)
	b.WriteString(") [")
	b.WriteString(string(priority))
	b.WriteString("]")
	return b.String()
}

// Decode parses a label produced by Encode.
func Decode(s string) (Parts, error) {
	const op = "label.Decode"
	var p Parts

	if rest, ok := strings.CutPrefix(s, DoneMarker); ok {
		p.Done = true
		s = rest
	}

	prioOpen := strings.LastIndex(s, "[")
	prioClose := strings.LastIndex(s, "]")
	if prioOpen < 0 || prioClose != len(s)-1 || prioOpen > prioClose {
		return Parts{}, errs.E(op, errs.ErrDecode, "missing trailing [priority]")
	}
	catOpen := strings.LastIndex(s, "(")
	catClose := strings.LastIndex(s, ")")
	if catOpen < 0 || catClose < catOpen || catClose > prioOpen {
		return Parts{}, errs.E(op, errs.ErrDecode, "missing (category) before [priority]")
	}
	if s[catClose:prioOpen] != ") " || catOpen == 0 || s[catOpen-1] != ' ' {
		return Parts{}, errs.E(op, errs.ErrDecode, "unexpected separators")
	}

	p.Text = strings.TrimSpace(s[:catOpen])
	if p.Text == "" {
		return Parts{}, errs.E(op, errs.ErrDecode, "empty text")
	}
	p.Category = s[catOpen+1 : catClose]
	p.Priority = models.Priority(s[prioOpen+1 : prioClose])
	if !p.Priority.Valid() {
		return Parts{}, errs.E(op, errs.ErrDecode, "unknown priority "+string(p.Priority))
	}
	return p, nil
}

// Check reports whether the parts survive an Encode/Decode round trip.
// Text, category and priority must be free of ( ) [ ], text must be
// non-empty, must not start with the done marker and must not carry
// surrounding whitespace.
func Check(text, category string, priority models.Priority) error {
	const op = "label.Check"
	if strings.TrimSpace(text) == "" {
		return errs.E(op, errs.ErrValidation, "text is empty")
	}
	if strings.TrimSpace(text) != text {
		return errs.E(op, errs.ErrValidation, "text has surrounding whitespace")
	}
	if strings.HasPrefix(text, DoneMarker) {
		return errs.E(op, errs.ErrValidation, "text starts with the done marker")
	}
	for _, field := range []string{text, category, string(priority)} {
		if strings.ContainsAny(field, reserved) {
			return errs.E(op, errs.ErrValidation, "reserved character in "+field)
		}
	}
	return nil
}

// HasReserved reports whether v contains a character the label format reserves.
func HasReserved(v string) bool {
	return strings.ContainsAny(v, reserved)
}
