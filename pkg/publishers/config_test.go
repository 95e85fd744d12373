package publishers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: " webhook "
    type: HTTP
    http:
      url: https://hooks.example.com/read
      headers:
        X-Token: abc
        "": dropped
  - id: queue
    type: sqs
    enabled: false
    sqs:
      uri: https://sqs.us-east-1.amazonaws.com/1/reads
      region: us-east-1
`)
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	all := reg.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 publishers, got %d", len(all))
	}
	hook := all[0]
	if hook.ID != "webhook" || hook.Type != TypeHTTP {
		t.Fatalf("not sanitized: %+v", hook)
	}
	if hook.HTTP.Method != "POST" || hook.HTTP.TimeoutSeconds != 5 || len(hook.HTTP.Headers) != 1 {
		t.Fatalf("http defaults not applied: %+v", hook.HTTP)
	}

	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "webhook" {
		t.Fatalf("unexpected enabled set %+v", enabled)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "publishers.json", `{"publishers":[{"id":"gcp","type":"pubsub","pubsub":{"project_id":"p","topic":"t"}}]}`)
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if got := reg.All(); len(got) != 1 || got[0].PubSub.Topic != "t" {
		t.Fatalf("unexpected publishers %+v", got)
	}
}

func TestLoadRegistryValidation(t *testing.T) {
	cases := map[string]string{
		"missing id":   "publishers:\n  - type: http\n    http: {url: https://x}\n",
		"missing url":  "publishers:\n  - id: a\n    type: http\n",
		"sqs region":   "publishers:\n  - id: a\n    type: sqs\n    sqs: {uri: https://q}\n",
		"sns topic":    "publishers:\n  - id: a\n    type: sns\n    sns: {region: us-east-1}\n",
		"pubsub topic": "publishers:\n  - id: a\n    type: pubsub\n    pubsub: {project_id: p}\n",
		"duplicate":    "publishers:\n  - id: a\n    type: http\n    http: {url: https://x}\n  - id: a\n    type: http\n    http: {url: https://y}\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadRegistry(writeFile(t, "p.yaml", body)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadRegistryErrors(t *testing.T) {
	if _, err := LoadRegistry("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !strings.Contains(err.Error(), "read publishers file") {
		t.Fatalf("expected read error, got %v", err)
	}
	if _, err := LoadRegistry(writeFile(t, "p.json", "{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestNilRegistryIsEmpty(t *testing.T) {
	var reg *ConfigRegistry
	if reg.All() != nil || reg.Enabled() != nil {
		t.Fatalf("nil registry should be empty")
	}
}
