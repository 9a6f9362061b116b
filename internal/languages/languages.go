package languages

// Language pairs a BCP-47-ish code with its display name. Display names are
// fed into translation prompts, so they stay in English.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var registry = []Language{
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "zh", Name: "Chinese"},
	{Code: "ar", Name: "Arabic"},
	{Code: "hi", Name: "Hindi"},
	{Code: "de", Name: "German"},
	{Code: "pt", Name: "Portuguese"},
}

// All returns the supported languages in display order.
func All() []Language {
	out := make([]Language, len(registry))
	copy(out, registry)
	return out
}

// Name resolves a code to its display name, falling back to the code itself
// so an unknown code still produces a usable prompt.
func Name(code string) string {
	for _, l := range registry {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}

func Supported(code string) bool {
	for _, l := range registry {
		if l.Code == code {
			return true
		}
	}
	return false
}

// RecognizerLocale maps a registry code to the locale tag expected by the
// speech engine.
func RecognizerLocale(code string) string {
	switch code {
	case "en":
		return "en-US"
	case "es":
		return "es-ES"
	case "fr":
		return "fr-FR"
	case "zh":
		return "zh-CN"
	case "ar":
		return "ar-SA"
	case "hi":
		return "hi-IN"
	case "de":
		return "de-DE"
	case "pt":
		return "pt-BR"
	default:
		if code == "" {
			return "en-US"
		}
		return code
	}
}
