package enforcer

import (
	"embed"

	"github.com/kaptinlin/go-i18n"
)

//go:embed locales/*.json
var localesFS embed.FS

// I18n returns an initialized internationalization bundle with embedded
// locales, keyed by the message codes recorded on Exception messages
// (§10.3: type_mismatch, enum_mismatch, missing_required, ...).
func I18n() (*i18n.I18n, error) {
	bundle := i18n.NewBundle(
		i18n.WithDefaultLocale("en"),
		i18n.WithLocales("en", "zh-Hans"),
	)

	err := bundle.LoadFS(localesFS, "locales/*.json")

	return bundle, err
}
