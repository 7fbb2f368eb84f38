// Package localize resolves the typed error kinds in gones/neserr to a
// human-readable string in the caller's locale, via go-i18n/v2.
//
// Grounded on original_source's i18n.rs/conf.rs (a navigator-language
// lookup with an "en" fallback), re-expressed with this pack's idiomatic
// stack: an embedded TOML message bundle plus BCP-47 tag matching through
// golang.org/x/text/language, and host-locale auto-detection through
// github.com/jeandeaual/go-locale when the caller leaves Config.Locale
// unset.
package localize

import (
	_ "embed"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	hostlocale "github.com/jeandeaual/go-locale"

	"github.com/BurntSushi/toml"

	"gones/neserr"
)

//go:embed en.toml
var enMessages []byte

//go:embed fr.toml
var frMessages []byte

var supported = []language.Tag{
	language.English,
	language.French,
}

var matcher = language.NewMatcher(supported)

// Table is a locale-bound error message table.
type Table struct {
	localizer *i18n.Localizer
}

// New builds a Table for the best match of requested against the
// supported locale set. An empty tag is replaced by the host's detected
// locale; an unparseable or unsupported tag, or an empty one with no
// detectable host locale, falls back to en.
func New(requested string) *Table {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	bundle.MustParseMessageFileBytes(enMessages, "en.toml")
	bundle.MustParseMessageFileBytes(frMessages, "fr.toml")

	tag := resolveTag(requested)
	return &Table{localizer: i18n.NewLocalizer(bundle, tag.String())}
}

func resolveTag(requested string) language.Tag {
	if requested == "" {
		if host, err := hostlocale.GetLocale(); err == nil {
			requested = host
		}
	}
	if requested == "" {
		return language.English
	}
	parsed, _, confidence := matcher.Match(language.Make(requested))
	if confidence == language.No {
		return language.English
	}
	return parsed
}

// Message returns the localized string for an error kind, falling back to
// the kind's bare name if no translation exists.
func (t *Table) Message(k neserr.Kind) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: k.String()})
	if err != nil {
		return k.String()
	}
	return msg
}
