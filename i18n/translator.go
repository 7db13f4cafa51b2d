package i18n

import "fmt"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "minimum" or "expected").
type Translator interface {
	Message(code string, data map[string]any) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]any) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型が不正です"
		case "invalid_literal":
			return "リテラル値が一致しません"
		case "too_small":
			return "小さすぎます"
		case "too_big":
			return "大きすぎます"
		case "invalid_string":
			return "文字列の形式が不正です"
		case "invalid_enum_value":
			return "許可されていない値です"
		case "invalid_union":
			return "どの候補にも一致しません"
		case "invalid_union_discriminator":
			return "不明な判別子です"
		case "unrecognized_keys":
			return "未知のキーです"
		case "invalid_date":
			return "日付が不正です"
		case "not_multiple_of":
			return "倍数ではありません"
		case "not_finite":
			return "有限の数値ではありません"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			if exp, ok := data["expected"]; ok {
				if got, ok2 := data["got"]; ok2 {
					return fmt.Sprintf("expected %v, got %v", exp, got)
				}
				return fmt.Sprintf("expected %v", exp)
			}
			return "invalid type"
		case "invalid_literal":
			if exp, ok := data["expected"]; ok {
				return fmt.Sprintf("expected literal %v", exp)
			}
			return "invalid literal"
		case "too_small":
			if m, ok := data["minimum"]; ok {
				return fmt.Sprintf("too small: minimum is %v", m)
			}
			return "too small"
		case "too_big":
			if m, ok := data["maximum"]; ok {
				return fmt.Sprintf("too big: maximum is %v", m)
			}
			return "too big"
		case "invalid_string":
			if f, ok := data["format"]; ok {
				return fmt.Sprintf("invalid %v", f)
			}
			return "invalid string"
		case "invalid_enum_value":
			return "invalid enum value"
		case "invalid_union":
			return "no union option matched"
		case "invalid_union_discriminator":
			return "unknown discriminator value"
		case "unrecognized_keys":
			if k, ok := data["key"]; ok {
				return fmt.Sprintf("unrecognized key %q", k)
			}
			return "unrecognized key"
		case "invalid_date":
			return "invalid date"
		case "not_multiple_of":
			if m, ok := data["multipleOf"]; ok {
				return fmt.Sprintf("not a multiple of %v", m)
			}
			return "not a multiple of"
		case "not_finite":
			return "not a finite number"
		case "custom":
			return "invalid value"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]any) string { return currentTranslator.Message(code, data) }
