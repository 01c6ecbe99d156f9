package services

import (
	"golang.org/x/text/language"
)

var (
	supportedTags = []language.Tag{language.Uzbek, language.Russian, language.English}
	supportedLang = []string{"uz", "ru", "en"}
	langMatcher   = language.NewMatcher(supportedTags)
)

// ResolveLanguage picks uz, ru or en: an explicit ?lang= wins, then the
// Accept-Language header, then fallback, then uz.
func ResolveLanguage(query, acceptLanguage, fallback string) string {
	if l, ok := baseLang(query); ok {
		return l
	}
	if acceptLanguage != "" {
		if tags, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil && len(tags) > 0 {
			if _, i, conf := langMatcher.Match(tags...); conf != language.No {
				return supportedLang[i]
			}
		}
	}
	if l, ok := baseLang(fallback); ok {
		return l
	}
	return supportedLang[0]
}

func baseLang(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	for _, l := range supportedLang {
		if base.String() == l {
			return l, true
		}
	}
	return "", false
}
