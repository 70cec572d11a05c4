package loader

import (
	"io"

	"github.com/chai2010/gettext-go/po"
)

// decodePO returns one row per untranslated, non-fuzzy catalog entry.
func decodePO(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Format: FormatPO, Msg: err.Error()}
	}

	catalog, err := po.Load(data)
	if err != nil {
		return nil, &ParseError{Format: FormatPO, Msg: err.Error()}
	}

	rows := []Row{}
	for _, msg := range catalog.Messages {
		if msg.MsgId == "" || isTranslated(msg) || hasFlag(msg.Flags, "fuzzy") {
			continue
		}

		occurrences := make([]any, 0, len(msg.ReferenceFile))
		for i, file := range msg.ReferenceFile {
			line := 0
			if i < len(msg.ReferenceLine) {
				line = msg.ReferenceLine[i]
			}
			occurrences = append(occurrences, []any{file, line})
		}
		flags := make([]any, 0, len(msg.Flags))
		for _, f := range msg.Flags {
			flags = append(flags, f)
		}

		rows = append(rows, Row{
			"msgid":        msg.MsgId,
			"msgid_plural": msg.MsgIdPlural,
			"msgctxt":      msg.MsgContext,
			"msgstr":       msg.MsgStr,
			"comment":      msg.ExtractedComment,
			"tcomment":     msg.TranslatorComment,
			"occurrences":  occurrences,
			"flags":        flags,
		})
	}
	return rows, nil
}

func isTranslated(msg po.Message) bool {
	if msg.MsgStr != "" {
		return true
	}
	if len(msg.MsgStrPlural) == 0 {
		return false
	}
	for _, s := range msg.MsgStrPlural {
		if s == "" {
			return false
		}
	}
	return true
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}
