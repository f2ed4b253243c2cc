package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DATA_FILE", "DATA_SHEET", "OUT_DIR", "DATABASE_URL", "PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Data.SheetName != "Sheet1" {
		t.Errorf("sheet = %s, want Sheet1", cfg.Data.SheetName)
	}
	if cfg.Data.OutDir != "." {
		t.Errorf("out dir = %s, want .", cfg.Data.OutDir)
	}
	if cfg.Database.URL != "" {
		t.Errorf("database URL = %s, want empty", cfg.Database.URL)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DATA_FILE", "/data/ckd.xlsx")
	t.Setenv("DATA_SHEET", "Patients")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Data.File != "/data/ckd.xlsx" || cfg.Data.SheetName != "Patients" {
		t.Errorf("data config = %+v", cfg.Data)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %s, want 9090", cfg.Server.Port)
	}
}

func TestLoad_RejectsNonNumericPort(t *testing.T) {
	t.Setenv("PORT", "http")
	if _, err := Load(); err == nil {
		t.Error("a non-numeric port must be rejected")
	}
}
