package locale

import "testing"

func envProvider(override string, env map[string]string) *Provider {
	return &Provider{
		override: override,
		getenv:   func(k string) string { return env[k] },
	}
}

func TestCountryCodeFromLocaleEnv(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "lang with charset", env: map[string]string{"LANG": "fr_FR.UTF-8"}, want: "fr"},
		{name: "lc_all wins", env: map[string]string{"LC_ALL": "de_DE", "LANG": "fr_FR"}, want: "de"},
		{name: "modifier", env: map[string]string{"LANG": "pt_PT@euro"}, want: "pt"},
		{name: "unsupported region", env: map[string]string{"LANG": "es_ES.UTF-8"}, want: "us"},
		{name: "language only", env: map[string]string{"LANG": "fr"}, want: "us"},
		{name: "posix", env: map[string]string{"LANG": "C.UTF-8"}, want: "us"},
		{name: "lc_all without region overrides lang", env: map[string]string{"LC_ALL": "C.UTF-8", "LANG": "fr_FR.UTF-8"}, want: "us"},
		{name: "lc_messages language only overrides lang", env: map[string]string{"LC_MESSAGES": "de", "LANG": "fr_FR"}, want: "us"},
		{name: "blank lc_all is skipped", env: map[string]string{"LC_ALL": "  ", "LANG": "fr_FR"}, want: "fr"},
		{name: "empty", env: map[string]string{}, want: "us"},
		{name: "garbage", env: map[string]string{"LANG": "!!"}, want: "us"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := envProvider("", tc.env).CountryCode(); got != tc.want {
				t.Fatalf("CountryCode() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCountryCodeOverride(t *testing.T) {
	env := map[string]string{"LANG": "de_DE.UTF-8"}
	if got := envProvider(" GB ", env).CountryCode(); got != "gb" {
		t.Fatalf("override ignored: %q", got)
	}
	if got := envProvider("zz", env).CountryCode(); got != DefaultCountry {
		t.Fatalf("unsupported override should fall back, got %q", got)
	}
}

func TestNilProviderDefaults(t *testing.T) {
	var p *Provider
	if got := p.CountryCode(); got != DefaultCountry {
		t.Fatalf("got %q", got)
	}
}

func TestSupportedCountries(t *testing.T) {
	list := SupportedCountries()
	if len(list) != 52 {
		t.Fatalf("expected 52 supported countries, got %d", len(list))
	}
	if list[0] != "ae" || list[len(list)-1] != "us" {
		t.Fatalf("unexpected ordering: first=%s last=%s", list[0], list[len(list)-1])
	}
}
