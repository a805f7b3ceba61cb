package i18n

// Translator retrieves localized messages for error codes. data provides
// optional metadata to embed in the message (for example, "expected" or
// "field").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "parse_error":
			return "解析エラー"
		case "config_error":
			return "設定エラー"
		case "invalid_type":
			return "型が不正です"
		case "required":
			return "必須フィールドが不足しています"
		case "invalid_format":
			return "書式が不正です"
		case "unknown_field":
			return "未知のフィールドです"
		}
	default: // "en"
		switch code {
		case "parse_error":
			return "parse error"
		case "config_error":
			return "configuration error"
		case "invalid_type":
			return "invalid type"
		case "required":
			return "required field missing"
		case "invalid_format":
			return "invalid format"
		case "unknown_field":
			return "unknown field"
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
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
