// Package mi18n はログ・エラーメッセージの翻訳を提供する。
package mi18n

import (
	"embed"
	"encoding/json"
	"os"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var localizer *i18n.Localizer

func init() {
	bundle := i18n.NewBundle(language.Japanese)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, name := range []string{"locales/ja.json", "locales/en.json"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, name); err != nil {
			panic(err)
		}
	}
	// FAT_LANG=en で英語メッセージに切り替えられる
	langs := []string{"ja"}
	if env := os.Getenv("FAT_LANG"); env != "" {
		langs = append([]string{env}, langs...)
	}
	localizer = i18n.NewLocalizer(bundle, langs...)
}

// T はメッセージIDを現在の言語の文言に変換する
func T(id string, data ...map[string]interface{}) string {
	cfg := &i18n.LocalizeConfig{MessageID: id}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}
	msg, err := localizer.Localize(cfg)
	if err != nil {
		return id
	}
	return msg
}
