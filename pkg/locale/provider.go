package locale

import (
	"os"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// DefaultCountry is used when the locale is missing or unsupported upstream.
const DefaultCountry = "us"

// Countries accepted by the top-headlines endpoint.
var supportedCountries = map[string]struct{}{
	"ae": {}, "ar": {}, "at": {}, "au": {}, "be": {}, "bg": {}, "br": {}, "ca": {}, "ch": {}, "cn": {},
	"co": {}, "cu": {}, "cz": {}, "de": {}, "eg": {}, "fr": {}, "gb": {}, "gr": {}, "hk": {}, "hu": {},
	"id": {}, "ie": {}, "il": {}, "in": {}, "it": {}, "jp": {}, "kr": {}, "lt": {}, "lv": {}, "ma": {},
	"mx": {}, "my": {}, "ng": {}, "nl": {}, "no": {}, "nz": {}, "ph": {}, "pl": {}, "pt": {}, "ro": {},
	"rs": {}, "ru": {}, "sa": {}, "se": {}, "sg": {}, "si": {}, "sk": {}, "th": {}, "tr": {}, "tw": {},
	"ua": {}, "us": {},
}

// POSIX locale variables in precedence order.
var localeEnvVars = []string{"LC_ALL", "LC_MESSAGES", "LANG"}

// Provider resolves the country code used for headline requests.
type Provider struct {
	override string
	getenv   func(string) string
}

// NewProvider returns a provider that prefers override and otherwise reads the process locale.
func NewProvider(override string) *Provider {
	return &Provider{override: override, getenv: os.Getenv}
}

// CountryCode returns a supported two-letter lowercase code, DefaultCountry otherwise.
func (p *Provider) CountryCode() string {
	if p == nil {
		return DefaultCountry
	}
	if o := strings.TrimSpace(p.override); o != "" {
		return Clamp(o)
	}
	getenv := p.getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	// The first non-empty variable decides, even when it carries no region.
	for _, key := range localeEnvVars {
		value := strings.TrimSpace(getenv(key))
		if value == "" {
			continue
		}
		if region, ok := regionFromPOSIX(value); ok {
			return Clamp(region)
		}
		return DefaultCountry
	}
	return DefaultCountry
}

// Clamp lowercases code and falls back to DefaultCountry when unsupported.
func Clamp(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if _, ok := supportedCountries[code]; ok {
		return code
	}
	return DefaultCountry
}

// SupportedCountries lists the accepted codes in sorted order.
func SupportedCountries() []string {
	out := make([]string, 0, len(supportedCountries))
	for code := range supportedCountries {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// regionFromPOSIX extracts an explicit region from values like "fr_FR.UTF-8@euro".
// Inferred regions (e.g. "fr" alone) are ignored.
func regionFromPOSIX(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if i := strings.IndexAny(value, ".@"); i >= 0 {
		value = value[:i]
	}
	if value == "" || value == "C" || value == "POSIX" {
		return "", false
	}

	tag, err := language.Parse(strings.ReplaceAll(value, "_", "-"))
	if err != nil {
		return "", false
	}
	region, conf := tag.Region()
	if conf != language.Exact {
		return "", false
	}
	return strings.ToLower(region.String()), true
}
