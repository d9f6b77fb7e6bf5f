package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestParseConfigFile(t *testing.T) {
	path := writeConfig(t, `
app:
  name: NeoRecon
  version: 1.0.0
scan:
  policy:
    allow_private_ips: false
    allowed_protocols: [http, https]
    blocked_hosts: [localhost]
    max_redirects: 5
  subdomain:
    batch_size: 10
    wildcard_filter: ip-equality
  crawler:
    max_pages: 50
`)

	cfg, err := ParseConfigFile(path)
	if err != nil {
		t.Fatalf("ParseConfigFile failed: %v", err)
	}

	if cfg.App.Name != "NeoRecon" {
		t.Errorf("App.Name = %q", cfg.App.Name)
	}
	if cfg.Scan.Policy.AllowPrivateIPs {
		t.Error("AllowPrivateIPs should be false")
	}
	if cfg.Scan.Policy.MaxRedirects != 5 {
		t.Errorf("MaxRedirects = %d, want 5", cfg.Scan.Policy.MaxRedirects)
	}
	if cfg.Scan.Subdomain.WildcardFilter != "ip-equality" {
		t.Errorf("WildcardFilter = %q", cfg.Scan.Subdomain.WildcardFilter)
	}
	if cfg.Scan.Crawler.MaxPages != 50 {
		t.Errorf("MaxPages = %d, want 50", cfg.Scan.Crawler.MaxPages)
	}
}

func TestParseConfigFile_RejectsBadPolicy(t *testing.T) {
	cases := map[string]string{
		"bad protocol": `
app: {name: NeoRecon}
scan:
  policy:
    allowed_protocols: [http, ftp]
`,
		"bad wildcard filter": `
app: {name: NeoRecon}
scan:
  subdomain:
    wildcard_filter: fingerprint
`,
		"negative redirects": `
app: {name: NeoRecon}
scan:
  policy:
    max_redirects: -1
`,
	}

	for name, content := range cases {
		path := writeConfig(t, content)
		if _, err := ParseConfigFile(path); err == nil {
			t.Errorf("%s: config accepted, want validation error", name)
		}
	}
}

func TestLoader_Defaults(t *testing.T) {
	// 不提供配置文件，默认值与环境变量足以构成合法配置
	loader := NewConfigLoader(t.TempDir(), "NEORECON")
	cfg, err := loader.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.App.Name != "NeoRecon" {
		t.Errorf("default App.Name = %q", cfg.App.Name)
	}
	if cfg.Scan.Policy.AllowPrivateIPs {
		t.Error("default policy must deny private IPs")
	}
	if cfg.Scan.Policy.MaxRedirects != 5 {
		t.Errorf("default MaxRedirects = %d, want 5", cfg.Scan.Policy.MaxRedirects)
	}
	if cfg.Scan.Subdomain.BatchSize != 10 {
		t.Errorf("default subdomain batch = %d, want 10", cfg.Scan.Subdomain.BatchSize)
	}
	if cfg.Scan.Crawler.BatchSize != 5 || cfg.Scan.Crawler.MaxPages != 50 {
		t.Errorf("default crawler batch/pages = %d/%d, want 5/50", cfg.Scan.Crawler.BatchSize, cfg.Scan.Crawler.MaxPages)
	}
}

func TestValidateConfigChange(t *testing.T) {
	oldCfg := &Config{
		App:  &AppConfig{Name: "NeoRecon"},
		Scan: &ScanConfig{},
	}
	newCfg := &Config{
		App:  &AppConfig{Name: "NeoRecon"},
		Scan: &ScanConfig{},
	}

	if err := ValidateConfigChange(oldCfg, newCfg); err != nil {
		t.Errorf("benign change rejected: %v", err)
	}

	newCfg.Scan.Policy.AllowPrivateIPs = true
	if err := ValidateConfigChange(oldCfg, newCfg); err == nil {
		t.Error("widening allow_private_ips via hot reload should be rejected")
	}
}
