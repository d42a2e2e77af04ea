package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App           App           `mapstructure:",squash"`
	Server        Server        `mapstructure:",squash"`
	Database      Database      `mapstructure:",squash"`
	Auth          Auth          `mapstructure:",squash"`
	Reporting     Reporting     `mapstructure:",squash"`
	SnapshotSync  SnapshotSync  `mapstructure:",squash"`
	OperatorAlias OperatorAlias `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Auth struct {
	// Secret verifies tokens issued by the external identity service.
	Secret string `mapstructure:"auth_secret"`
}

// Reporting carries the tunables of the aggregation engine that are policy,
// not business logic.
type Reporting struct {
	DefaultDailyCallGoal int `mapstructure:"reporting_default_daily_call_goal"`
	PaceBreakMinutes     int `mapstructure:"reporting_pace_break_minutes"`
	GoalLookbackDays     int `mapstructure:"reporting_goal_lookback_days"`
}

// SnapshotSync configures the daily report snapshot scheduler.
type SnapshotSync struct {
	CronSchedule  string `mapstructure:"snapshot_sync_cron"`
	RetentionDays int    `mapstructure:"snapshot_sync_retention_days"`
	Enabled       bool   `mapstructure:"snapshot_sync_enabled"`
}

// OperatorAlias externalizes the known operator name variants. Pairs is a
// comma-separated "variant=canonical" list; Map is the parsed lookup table
// keyed by lowercased, trimmed variant.
type OperatorAlias struct {
	Pairs string            `mapstructure:"operator_aliases"`
	Map   map[string]string `mapstructure:"-"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/crm")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("AUTH_SECRET", "your_auth_secret")

	viper.SetDefault("REPORTING_DEFAULT_DAILY_CALL_GOAL", 40)
	viper.SetDefault("REPORTING_PACE_BREAK_MINUTES", 60)
	viper.SetDefault("REPORTING_GOAL_LOOKBACK_DAYS", 7)

	viper.SetDefault("SNAPSHOT_SYNC_CRON", "30 3 * * *") // daily, after the nightly imports
	viper.SetDefault("SNAPSHOT_SYNC_RETENTION_DAYS", 90)
	viper.SetDefault("SNAPSHOT_SYNC_ENABLED", false)

	// Known legacy name variants. Extend via the OPERATOR_ALIASES env var.
	viper.SetDefault("OPERATOR_ALIASES", "ayse k=ayşe kaya,aysekaya=ayşe kaya,mehmet y.=mehmet yılmaz")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Using variables loaded by godotenv (viper could not read .env):", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.OperatorAlias.Map = parseAliasPairs(config.OperatorAlias.Pairs)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// parseAliasPairs turns "variant=canonical,variant=canonical" into a lookup
// table. Malformed pairs are logged and skipped.
func parseAliasPairs(pairs string) map[string]string {
	aliases := make(map[string]string)

	for _, pair := range strings.Split(pairs, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		variant, canonical, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(variant) == "" || strings.TrimSpace(canonical) == "" {
			logrus.WithField("pair", pair).Warn("Ignoring malformed operator alias pair")
			continue
		}

		key := strings.ToLower(strings.TrimSpace(variant))
		aliases[key] = strings.ToLower(strings.TrimSpace(canonical))
	}

	return aliases
}

func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Could not determine working directory:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Loaded .env from:", location)
			return
		}
	}

	logrus.Warn("No .env file found in any known location")
}
