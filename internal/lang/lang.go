package lang

import (
	"fmt"
	"sort"
)

// supported maps short language codes to human-readable names.
// The names are embedded into translation prompts, so they include the
// native spelling where it helps the model.
var supported = map[string]string{
	"en":    "English",
	"ko":    "Korean / 한국어",
	"ja":    "Japanese / 日本語",
	"zh":    "Chinese (Simplified) / 简体中文",
	"zh-tw": "Chinese (Traditional) / 繁體中文",
	"es":    "Spanish / Español",
	"fr":    "French / Français",
	"de":    "German / Deutsch",
	"it":    "Italian / Italiano",
	"pt":    "Portuguese / Português",
	"ru":    "Russian / Русский",
	"ar":    "Arabic / العربية",
	"hi":    "Hindi / हिन्दी",
	"th":    "Thai / ไทย",
	"vi":    "Vietnamese / Tiếng Việt",
	"id":    "Indonesian / Bahasa Indonesia",
	"nl":    "Dutch / Nederlands",
	"pl":    "Polish / Polski",
	"tr":    "Turkish / Türkçe",
	"uk":    "Ukrainian / Українська",
}

// IsSupported reports whether the short language code is known
func IsSupported(code string) bool {
	_, ok := supported[code]
	return ok
}

// Name returns the human-readable name for a short language code.
// Unknown codes are returned as-is so prompts stay usable.
func Name(code string) string {
	if name, ok := supported[code]; ok {
		return name
	}
	return code
}

// Codes returns all supported short codes in sorted order
func Codes() []string {
	codes := make([]string, 0, len(supported))
	for code := range supported {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// PrintSupported prints the supported language table
func PrintSupported() {
	fmt.Println("\nSupported languages:")
	fmt.Println("----------------------------------------")
	for _, code := range Codes() {
		fmt.Printf("  %-6s : %s\n", code, supported[code])
	}
	fmt.Println("----------------------------------------")
}
