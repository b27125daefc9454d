package messages

import (
	"strings"

	"adstxt-validator/internal/models"
)

const (
	LocaleEnglish  = "en"
	LocaleJapanese = "ja"

	defaultHelpBaseURL = "https://adstxt-validator.dev/help"
)

// Resolver maps validation keys to localized text. Locale and help base URL
// are fixed at construction, there is no process-wide mutable provider.
type Resolver struct {
	locale  string
	baseURL string
	catalog map[models.ValidationKey]string
}

// NewResolver creates a resolver for the given locale and help base URL.
// Unknown locales fall back to English, an empty baseURL falls back to the
// built-in documentation site.
func NewResolver(locale, baseURL string) Service {
	return newResolver(locale, baseURL)
}

func newResolver(locale, baseURL string) *Resolver {
	catalog, ok := catalogs[strings.ToLower(strings.TrimSpace(locale))]
	if !ok {
		locale = LocaleEnglish
		catalog = catalogs[LocaleEnglish]
	}
	if baseURL == "" {
		baseURL = defaultHelpBaseURL
	}
	return &Resolver{
		locale:  locale,
		baseURL: strings.TrimRight(baseURL, "/"),
		catalog: catalog,
	}
}

// Resolve returns the message for key, substituting {name} placeholders from
// params. Keys without a catalog entry resolve to the key string itself.
func (r *Resolver) Resolve(key models.ValidationKey, params map[string]string) string {
	template, ok := r.catalog[key]
	if !ok {
		return string(key)
	}
	for name, value := range params {
		template = strings.ReplaceAll(template, "{"+name+"}", value)
	}
	return template
}

// HelpURL returns the documentation anchor for key.
func (r *Resolver) HelpURL(key models.ValidationKey) string {
	return r.baseURL + "#" + strings.ToLower(string(key))
}

// Apply resolves the message for every entry carrying a validation outcome
// and stores it on the record. Variables and clean records are untouched.
func (r *Resolver) Apply(entries []*models.Entry) {
	for _, entry := range entries {
		if !entry.IsRecord() || entry.Record == nil {
			continue
		}
		switch {
		case !entry.IsValid:
			entry.Record.Message = r.Resolve(entry.ValidationKey, nil)
		case entry.Record.HasWarning:
			entry.Record.Message = r.Resolve(entry.Record.Warning, entry.Record.WarningParams)
		}
	}
}

var catalogs = map[string]map[models.ValidationKey]string{
	LocaleEnglish: {
		models.KeyInvalidCharacters:   "Line contains invalid control characters",
		models.KeyInvalidFormat:       "Line is not a comma-separated record or a KEY=value declaration",
		models.KeyMissingFields:       "Record needs at least an exchange domain, an account ID and a relationship",
		models.KeyInvalidRelationship: "Relationship must be DIRECT or RESELLER",
		models.KeyInvalidDomain:       "Exchange domain is not a valid registrable domain",
		models.KeyEmptyAccountID:      "Account ID must not be empty",
		models.KeyEmptyFile:           "File contains no entries",

		models.KeyNoSellersJSON:              "No sellers.json file was found for {domain}",
		models.KeyDirectAccountNotInSellers:  "Account {account_id} is declared DIRECT but was not found in the exchange's sellers.json",
		models.KeyResellerAccountNotInSeller: "Account {account_id} is declared RESELLER but was not found in the exchange's sellers.json",
		models.KeyDomainMismatch:             "Seller domain {seller_domain} does not match the declared publisher domain {publisher_domain}",
		models.KeyDirectNotPublisher:         "DIRECT account is listed in sellers.json but not as PUBLISHER",
		models.KeyResellerNotIntermediary:    "RESELLER account is listed in sellers.json but not as INTERMEDIARY",
		models.KeySellerIDNotUnique:          "Seller ID appears more than once in the exchange's sellers.json",
	},
	LocaleJapanese: {
		models.KeyInvalidCharacters:   "行に不正な制御文字が含まれています",
		models.KeyInvalidFormat:       "行はカンマ区切りのレコードでも KEY=value 宣言でもありません",
		models.KeyMissingFields:       "レコードには取引先ドメイン、アカウントID、取引関係が必要です",
		models.KeyInvalidRelationship: "取引関係は DIRECT または RESELLER でなければなりません",
		models.KeyInvalidDomain:       "取引先ドメインが有効なドメインではありません",
		models.KeyEmptyAccountID:      "アカウントIDが空です",
		models.KeyEmptyFile:           "ファイルにエントリがありません",

		models.KeyNoSellersJSON:              "{domain} の sellers.json が見つかりませんでした",
		models.KeyDirectAccountNotInSellers:  "DIRECT 指定のアカウント {account_id} が sellers.json に見つかりません",
		models.KeyResellerAccountNotInSeller: "RESELLER 指定のアカウント {account_id} が sellers.json に見つかりません",
		models.KeyDomainMismatch:             "販売者ドメイン {seller_domain} が宣言されたパブリッシャードメイン {publisher_domain} と一致しません",
		models.KeyDirectNotPublisher:         "DIRECT アカウントが sellers.json で PUBLISHER として登録されていません",
		models.KeyResellerNotIntermediary:    "RESELLER アカウントが sellers.json で INTERMEDIARY として登録されていません",
		models.KeySellerIDNotUnique:          "販売者IDが sellers.json 内で重複しています",
	},
}
