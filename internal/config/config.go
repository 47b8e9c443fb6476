package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dkeye/Hangout/internal/core"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode         string         `mapstructure:"mode"`
	Port         int            `mapstructure:"port"`
	LogLevel     string         `mapstructure:"log_level"`
	LogFormat    string         `mapstructure:"log_format"`
	Secret       string         `mapstructure:"secret"`
	ReadLimit    int64          `mapstructure:"read_limit"`
	PingPeriod   time.Duration  `mapstructure:"ping_period"`
	SendBuffer   int            `mapstructure:"send_buffer"`
	Backpressure string         `mapstructure:"backpressure"`
	WordsPath    string         `mapstructure:"words_path"`
	Rate         RateConfig     `mapstructure:"rate"`
	Session      SessionConfig  `mapstructure:"session"`
	Game         GameConfig     `mapstructure:"game"`
	Identity     IdentityConfig `mapstructure:"identity"`
}

type RateConfig struct {
	PerSecond float64 `mapstructure:"per_second"`
	Burst     int     `mapstructure:"burst"`
}

type SessionConfig struct {
	MaxChat    int           `mapstructure:"max_chat"`
	MaxStrokes int           `mapstructure:"max_strokes"`
	EmptyGrace time.Duration `mapstructure:"empty_grace"`
	InboxSize  int           `mapstructure:"inbox_size"`
}

type GameConfig struct {
	ThemeChoices   int           `mapstructure:"theme_choices"`
	SubjectChoices int           `mapstructure:"subject_choices"`
	ThemeSelect    time.Duration `mapstructure:"theme_select"`
	SubjectSelect  time.Duration `mapstructure:"subject_select"`
	Draw           time.Duration `mapstructure:"draw"`
	Answer         time.Duration `mapstructure:"answer"`
	HintInterval   time.Duration `mapstructure:"hint_interval"`
	MaxRounds      int           `mapstructure:"max_rounds"`
}

// IdentityConfig selects the register verifier: an empty JWTSecret trusts the
// presented user id.
type IdentityConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// Load reads config/config.<CONFIG_ENV>.yaml (dev by default) over the
// defaults; HANGOUT_* environment variables override both.
func Load() (*Config, error) {
	cfg, _, err := load()
	return cfg, err
}

// Watch loads the config and calls onChange with the new values every time
// the file changes.
func Watch(onChange func(*Config)) (*Config, error) {
	cfg, v, err := load()
	if err != nil {
		return nil, err
	}
	if v.ConfigFileUsed() == "" {
		return cfg, nil
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		var next Config
		if err := v.Unmarshal(&next); err != nil {
			log.Error().Err(err).Str("module", "config").Str("file", e.Name).Msg("reload failed")
			return
		}
		log.Info().Str("module", "config").Str("file", e.Name).Msg("config reloaded")
		onChange(&next)
	})
	v.WatchConfig()
	return cfg, nil
}

func load() (*Config, *viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)
	v.SetConfigFile(fileName)

	setDefaults(v)
	v.SetEnvPrefix("HANGOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
		v.SetConfigFile("")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Msg("config ready")
	return &cfg, v, nil
}

func setDefaults(v *viper.Viper) {
	d := core.DefaultConfig()
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("secret", "change-me")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("send_buffer", 64)
	v.SetDefault("backpressure", "kick")
	v.SetDefault("words_path", "")
	v.SetDefault("rate.per_second", 20)
	v.SetDefault("rate.burst", 40)
	v.SetDefault("session.max_chat", d.MaxChat)
	v.SetDefault("session.max_strokes", d.MaxStrokes)
	v.SetDefault("session.empty_grace", d.EmptyGrace)
	v.SetDefault("session.inbox_size", d.InboxSize)
	v.SetDefault("game.theme_choices", d.Game.ThemeChoices)
	v.SetDefault("game.subject_choices", d.Game.SubjectChoices)
	v.SetDefault("game.theme_select", d.Game.ThemeSelect)
	v.SetDefault("game.subject_select", d.Game.SubjectSelect)
	v.SetDefault("game.draw", d.Game.Draw)
	v.SetDefault("game.answer", d.Game.Answer)
	v.SetDefault("game.hint_interval", d.Game.HintInterval)
	v.SetDefault("game.max_rounds", d.Game.MaxRounds)
	v.SetDefault("identity.jwt_secret", "")
}

// Core converts the session settings for core.NewSession.
func (c *Config) Core() core.Config {
	return core.Config{
		MaxChat:    c.Session.MaxChat,
		MaxStrokes: c.Session.MaxStrokes,
		EmptyGrace: c.Session.EmptyGrace,
		InboxSize:  c.Session.InboxSize,
		Game: core.GameConfig{
			ThemeChoices:   c.Game.ThemeChoices,
			SubjectChoices: c.Game.SubjectChoices,
			ThemeSelect:    c.Game.ThemeSelect,
			SubjectSelect:  c.Game.SubjectSelect,
			Draw:           c.Game.Draw,
			Answer:         c.Game.Answer,
			HintInterval:   c.Game.HintInterval,
			MaxRounds:      c.Game.MaxRounds,
		},
	}
}
