// Package i18n renders issue codes and diagnostic kinds as human messages.
package i18n

import "strings"

// Translator retrieves localized messages for issue codes and diagnostic kinds.
// data provides optional values to embed in the message (for example "type",
// "archive", "declared" or "fields").
type Translator interface {
	Message(code string, data map[string]string) string
}

// New returns the built-in dictionary Translator for lang ("en" or "ja");
// any other language falls back to English.
func New(lang string) Translator {
	if lang != "ja" {
		lang = "en"
	}
	return dictTranslator{lang: lang}
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var tmpl string
	switch t.lang {
	case "ja":
		switch code {
		case "future_version_fields_ignored":
			tmpl = "警告: 新しいバージョン ({archive}) の {type} を読み込みました。未対応のフィールドは無視されました"
		case "past_version_fields_defaulted":
			tmpl = "警告: 以前のバージョン ({archive}) の {type} を読み込みました。{fields} は初期化されていません"
		case "io_error":
			tmpl = "入出力エラー"
		case "corrupt_archive":
			tmpl = "アーカイブが破損しています"
		case "missing_field":
			tmpl = "フィールドがありません"
		case "invalid_schema":
			tmpl = "スキーマ定義が不正です"
		}
	default: // "en"
		switch code {
		case "future_version_fields_ignored":
			tmpl = "Warning: reading {type} from a future version ({archive}); unsupported fields have been ignored."
		case "past_version_fields_defaulted":
			tmpl = "Warning: reading {type} from a previous version ({archive}); {fields} not initialized."
		case "io_error":
			tmpl = "i/o error"
		case "corrupt_archive":
			tmpl = "corrupt archive"
		case "missing_field":
			tmpl = "missing field"
		case "invalid_schema":
			tmpl = "invalid schema"
		}
	}
	if tmpl == "" {
		return code
	}
	return expand(tmpl, data)
}

func expand(tmpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
