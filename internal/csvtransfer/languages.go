package csvtransfer

import "sort"

// operatorLanguages is the fixed set of column names accepted by operator
// imports, keyed by locale code.
var operatorLanguages = map[string]string{
	"bg": "Bulgarian",
	"hr": "Croatian",
	"cs": "Czech",
	"da": "Danish",
	"nl": "Dutch",
	"et": "Estonian",
	"fi": "Finnish",
	"fr": "French",
	"de": "German",
	"el": "Greek",
	"hu": "Hungarian",
	"ga": "Irish",
	"it": "Italian",
	"lv": "Latvian",
	"lt": "Lithuanian",
	"mt": "Maltese",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"sk": "Slovak",
	"sl": "Slovenian",
	"es": "Spanish",
	"sv": "Swedish",
	"zh": "Chinese",
}

// LanguageCode returns the locale code for an operator column name.
func LanguageCode(name string) (string, bool) {
	for code, language := range operatorLanguages {
		if language == name {
			return code, true
		}
	}
	return "", false
}

// LanguageNames lists the accepted operator column names alphabetically.
func LanguageNames() []string {
	names := make([]string, 0, len(operatorLanguages))
	for _, name := range operatorLanguages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
