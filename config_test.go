package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigModes(t *testing.T) {
	cfg := DefaultConfig()
	tag, ok := cfg.Mode(ModeTag)
	if !ok || tag.Damage || tag.Metric != MetricPlanar {
		t.Errorf("unexpected tag mode %+v", tag)
	}
	hunt, ok := cfg.Mode(ModeHunt)
	if !ok || !hunt.Damage || hunt.MaxHP != 10 || hunt.Metric != MetricVolumetric {
		t.Errorf("unexpected hunt mode %+v", hunt)
	}
	if _, ok := cfg.Mode("chess"); ok {
		t.Error("unknown mode should not resolve")
	}
	if cfg.BroadcastInterval() != 50*time.Millisecond {
		t.Errorf("expected 50ms cadence, got %v", cfg.BroadcastInterval())
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	os.WriteFile(path, []byte(`{"min_players": 4, "tag_radius": 3.5}`), 0o644)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MinPlayers != 4 || cfg.TagRadius != 3.5 {
		t.Errorf("overrides not applied: %d %v", cfg.MinPlayers, cfg.TagRadius)
	}
	if cfg.RoundLengthSec != 120 {
		t.Errorf("defaults lost: round length %v", cfg.RoundLengthSec)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should fail")
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte(`{`), 0o644)
	if _, err := LoadConfig(path); err == nil {
		t.Error("bad json should fail")
	}
}

func TestClampConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinPlayers = 0
	cfg.BroadcastIntervalMs = 1
	cfg.HazardShare = 2
	cfg.RankCeiling = 1
	cfg.Modes = []ModeDef{{Name: "solo", MinPlayers: 1}}
	cfg.ClampConfig()

	if cfg.MinPlayers != 1 {
		t.Errorf("min players: %d", cfg.MinPlayers)
	}
	if cfg.BroadcastIntervalMs != 10 {
		t.Errorf("broadcast interval: %d", cfg.BroadcastIntervalMs)
	}
	if cfg.HazardShare != 1 {
		t.Errorf("hazard share: %v", cfg.HazardShare)
	}
	if cfg.RankCeiling != cfg.GroundCeiling {
		t.Errorf("rank ceiling below ground ceiling: %v", cfg.RankCeiling)
	}
	if cfg.Modes[0].MinPlayers != 2 || cfg.Modes[0].MaxHP != 1 {
		t.Errorf("mode not clamped: %+v", cfg.Modes[0])
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TAGFIELD_MIN_PLAYERS", "5")
	t.Setenv("TAGFIELD_TAG_RADIUS", "4.5")
	t.Setenv("TAGFIELD_SEED", "99")
	t.Setenv("TAGFIELD_ITEM_COUNT", "lots")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	if cfg.MinPlayers != 5 || cfg.TagRadius != 4.5 || cfg.Seed != 99 {
		t.Errorf("env not applied: %d %v %d", cfg.MinPlayers, cfg.TagRadius, cfg.Seed)
	}
	if cfg.ItemCount != 12 {
		t.Errorf("bad value should be ignored, got %d", cfg.ItemCount)
	}
}
