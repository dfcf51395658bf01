package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every gameplay and server tunable. Durations are seconds.
type Config struct {
	MinPlayers          int     `json:"min_players"`
	VoteDurationSec     float64 `json:"vote_duration_sec"`
	CountdownSeconds    int     `json:"countdown_seconds"`
	RoundLengthSec      float64 `json:"round_length_sec"`
	EndedDisplaySec     float64 `json:"ended_display_sec"`
	BroadcastIntervalMs int     `json:"broadcast_interval_ms"`

	TagRadius         float64 `json:"tag_radius"`
	PickupRange       float64 `json:"pickup_range"`
	ThrowFlightSec    float64 `json:"throw_flight_sec"`
	ThrowRadius       float64 `json:"throw_radius"`
	StunSec           float64 `json:"stun_sec"`
	NeutralizeStunSec float64 `json:"neutralize_stun_sec"`
	AttackCooldownSec float64 `json:"attack_cooldown_sec"`

	CollectThreshold    int     `json:"collect_threshold"`
	EscapeItems         int     `json:"escape_items"`
	ItemCount           int     `json:"item_count"`
	HazardShare         float64 `json:"hazard_share"`
	ItemRespawnDelaySec float64 `json:"item_respawn_delay_sec"`

	WorldHalfSize     float64 `json:"world_half_size"`
	GroundCeiling     float64 `json:"ground_ceiling"`
	RankCeiling       float64 `json:"rank_ceiling"`
	PlayerHalfExtents Vec3    `json:"player_half_extents"`
	Obstacles         []AABB  `json:"obstacles"`

	Modes []ModeDef `json:"modes"`
	Seed  uint64    `json:"seed"`
}

// DefaultConfig returns the stock two-mode configuration
func DefaultConfig() Config {
	return Config{
		MinPlayers:          3,
		VoteDurationSec:     15,
		CountdownSeconds:    5,
		RoundLengthSec:      120,
		EndedDisplaySec:     5,
		BroadcastIntervalMs: 50,

		TagRadius:         2.5,
		PickupRange:       1.5,
		ThrowFlightSec:    1.0,
		ThrowRadius:       2.0,
		StunSec:           2.0,
		NeutralizeStunSec: 3.0,
		AttackCooldownSec: 0.5,

		CollectThreshold:    3,
		EscapeItems:         10,
		ItemCount:           12,
		HazardShare:         0.25,
		ItemRespawnDelaySec: 5,

		WorldHalfSize:     50,
		GroundCeiling:     3,
		RankCeiling:       20,
		PlayerHalfExtents: Vec3{X: 0.4, Y: 0.9, Z: 0.4},
		Obstacles: []AABB{
			{Min: Vec3{X: -4, Y: 0, Z: -4}, Max: Vec3{X: 4, Y: 3, Z: 4}},
			{Min: Vec3{X: 20, Y: 0, Z: -30}, Max: Vec3{X: 24, Y: 6, Z: -10}},
			{Min: Vec3{X: -24, Y: 0, Z: 10}, Max: Vec3{X: -20, Y: 6, Z: 30}},
		},

		Modes: DefaultModes(),
	}
}

// LoadConfig overlays a JSON file on top of the defaults
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv loads .env if present and applies TAGFIELD_* overrides
func (c *Config) ApplyEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env: %v", err)
	}
	envInt("TAGFIELD_MIN_PLAYERS", &c.MinPlayers)
	envInt("TAGFIELD_COUNTDOWN_SECONDS", &c.CountdownSeconds)
	envInt("TAGFIELD_BROADCAST_INTERVAL_MS", &c.BroadcastIntervalMs)
	envInt("TAGFIELD_ITEM_COUNT", &c.ItemCount)
	envFloat("TAGFIELD_VOTE_DURATION_SEC", &c.VoteDurationSec)
	envFloat("TAGFIELD_ROUND_LENGTH_SEC", &c.RoundLengthSec)
	envFloat("TAGFIELD_TAG_RADIUS", &c.TagRadius)
	if v := os.Getenv("TAGFIELD_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Seed = n
		}
	}
}

func envInt(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: ignoring %s=%q: %v", key, v, err)
		return
	}
	*dst = n
}

func envFloat(key string, dst *float64) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("config: ignoring %s=%q: %v", key, v, err)
		return
	}
	*dst = f
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// ClampConfig enforces hard bounds so a bad file cannot wedge the server
func (c *Config) ClampConfig() {
	c.MinPlayers = clampInt(c.MinPlayers, 1, 64)
	c.VoteDurationSec = Clamp(c.VoteDurationSec, 1, 300)
	c.CountdownSeconds = clampInt(c.CountdownSeconds, 0, 60)
	c.RoundLengthSec = Clamp(c.RoundLengthSec, 5, 3600)
	c.EndedDisplaySec = Clamp(c.EndedDisplaySec, 0, 120)
	c.BroadcastIntervalMs = clampInt(c.BroadcastIntervalMs, 10, 1000)

	c.TagRadius = Clamp(c.TagRadius, 0.1, 50)
	c.PickupRange = Clamp(c.PickupRange, 0.1, 50)
	c.ThrowFlightSec = Clamp(c.ThrowFlightSec, 0.05, 10)
	c.ThrowRadius = Clamp(c.ThrowRadius, 0.1, 50)
	c.StunSec = Clamp(c.StunSec, 0, 30)
	c.NeutralizeStunSec = Clamp(c.NeutralizeStunSec, 0, 30)
	c.AttackCooldownSec = Clamp(c.AttackCooldownSec, 0, 10)

	c.CollectThreshold = clampInt(c.CollectThreshold, 1, 100)
	c.EscapeItems = clampInt(c.EscapeItems, 1, 1000)
	c.ItemCount = clampInt(c.ItemCount, 0, 500)
	c.HazardShare = Clamp(c.HazardShare, 0, 1)
	c.ItemRespawnDelaySec = Clamp(c.ItemRespawnDelaySec, 0, 300)

	c.WorldHalfSize = Clamp(c.WorldHalfSize, 5, 5000)
	c.GroundCeiling = Clamp(c.GroundCeiling, 0, 1000)
	if c.RankCeiling < c.GroundCeiling {
		c.RankCeiling = c.GroundCeiling
	}

	if len(c.Modes) == 0 {
		c.Modes = DefaultModes()
	}
	for i := range c.Modes {
		m := &c.Modes[i]
		m.MaxHP = clampInt(m.MaxHP, 1, 1000)
		if m.MinPlayers < 2 {
			m.MinPlayers = 2
		}
	}
}

func secs(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// BroadcastInterval is the fixed snapshot cadence
func (c *Config) BroadcastInterval() time.Duration {
	return time.Duration(c.BroadcastIntervalMs) * time.Millisecond
}

// Mode looks up a configured mode by name
func (c *Config) Mode(name string) (ModeDef, bool) {
	for _, m := range c.Modes {
		if m.Name == name {
			return m, true
		}
	}
	return ModeDef{}, false
}
