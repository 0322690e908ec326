package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"soil-nutrient-service/internal/core/domain"
)

type Config struct {
	Server     ServerConfig
	Logger     LoggerConfig
	Database   DatabaseConfig
	Kubernetes KubernetesConfig
	KServe     KServeConfig
	Artifacts  ArtifactConfig
	Chart      ChartConfig
	Variants   []VariantConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type LoggerConfig struct {
	Level  string
	Format string
}

// DatabaseConfig configures the optional prediction journal.
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// KubernetesConfig is used to resolve KServe InferenceService URLs.
type KubernetesConfig struct {
	Enabled        bool
	InCluster      bool
	KubeConfigPath string
	DefaultNS      string
}

type KServeConfig struct {
	Timeout time.Duration
}

// ArtifactConfig locates model artifacts. Relative variant paths resolve
// against BaseDir.
type ArtifactConfig struct {
	BaseDir string
}

type ChartConfig struct {
	Format string
	Width  int
	Height int
}

// VariantConfig is one dashboard as written in the config file.
type VariantConfig struct {
	Name        string   `mapstructure:"name"`
	Title       string   `mapstructure:"title"`
	Description string   `mapstructure:"description"`
	Artifact    string   `mapstructure:"artifact"`
	Schema      string   `mapstructure:"schema"`
	Columns     []string `mapstructure:"columns"`
	Charts      []string `mapstructure:"charts"`
	RangePolicy string   `mapstructure:"range_policy"`
}

// ToVariant resolves the schema and chart names of a configured variant.
func (vc VariantConfig) ToVariant() (domain.Variant, error) {
	v := domain.Variant{
		Name:         vc.Name,
		Title:        vc.Title,
		Description:  vc.Description,
		ArtifactPath: vc.Artifact,
		RangePolicy:  domain.RangePolicy(strings.ToLower(vc.RangePolicy)),
	}

	switch {
	case len(vc.Columns) > 0:
		name := vc.Schema
		if name == "" {
			name = "custom"
		}
		v.Schema = domain.Schema{Name: name, Columns: append([]string(nil), vc.Columns...)}
	case vc.Schema != "":
		s, ok := domain.LookupSchema(vc.Schema)
		if !ok {
			return domain.Variant{}, fmt.Errorf("variant %s: %w: unknown schema %q (known: %s)",
				vc.Name, domain.ErrInvalidSchema, vc.Schema, strings.Join(domain.BuiltinSchemaNames(), ", "))
		}
		v.Schema = s
	default:
		return domain.Variant{}, fmt.Errorf("variant %s: %w: schema or columns required", vc.Name, domain.ErrInvalidSchema)
	}

	for _, c := range vc.Charts {
		v.Charts = append(v.Charts, domain.Chart(strings.ToLower(c)))
	}
	if v.Title == "" {
		v.Title = "Prediction of Soil Nutrients, Metals, and pH"
	}

	if err := v.Validate(); err != nil {
		return domain.Variant{}, err
	}
	return v, nil
}

// DomainVariants converts every configured variant.
func (c *Config) DomainVariants() ([]domain.Variant, error) {
	out := make([]domain.Variant, 0, len(c.Variants))
	for _, vc := range c.Variants {
		v, err := vc.ToVariant()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// DefaultVariants mirrors the dashboards that were deployed before the
// variants became configurable.
func DefaultVariants() []VariantConfig {
	return []VariantConfig{
		{
			Name:     "kesuburan",
			Title:    "Prediksi Unsur Hara, Unsur Logam, dan pH Tanah",
			Artifact: "models/kesuburan.json",
			Schema:   domain.SchemaKesuburan21.Name,
			Charts:   []string{"table", "bar"},
		},
		{
			Name:     "ultisol",
			Title:    "Prediction of Soil Nutrients, Metals, and pH for Ultisol Soil",
			Artifact: "models/kesuburan.json",
			Schema:   domain.SchemaUltisol21.Name,
			Charts:   []string{"table", "bar", "line"},
		},
		{
			Name:     "rf",
			Title:    "Prediction of Soil Nutrients, Metals, and pH",
			Artifact: "models/rf-forest.yaml",
			Schema:   domain.SchemaRF21.Name,
			Charts:   []string{"table", "bar", "line", "radar"},
		},
		{
			Name:     "basic",
			Title:    "Prediction of Soil Nutrients and pH",
			Artifact: "models/basic-linear.json",
			Schema:   domain.SchemaBasic13.Name,
			Charts:   []string{"table", "bar", "line"},
		},
	}
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("DATABASE_ENABLED", false)
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "soil")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_NAME", "soil")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 2)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("KUBERNETES_ENABLED", false)
	v.SetDefault("KUBERNETES_IN_CLUSTER", false)
	v.SetDefault("KUBERNETES_KUBECONFIG", "")
	v.SetDefault("KUBERNETES_DEFAULT_NS", "model-serving")
	v.SetDefault("KSERVE_TIMEOUT", "30s")
	v.SetDefault("ARTIFACT_BASE_DIR", "")
	v.SetDefault("CHART_FORMAT", "png")
	v.SetDefault("CHART_WIDTH", 1024)
	v.SetDefault("CHART_HEIGHT", 600)

	// Env
	v.AutomaticEnv()

	// Optional file, mainly for the variant list
	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	lifetime, err := time.ParseDuration(v.GetString("DATABASE_CONN_MAX_LIFETIME"))
	if err != nil {
		lifetime = 30 * time.Minute
	}
	timeout, err := time.ParseDuration(v.GetString("KSERVE_TIMEOUT"))
	if err != nil {
		timeout = 30 * time.Second
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DATABASE_ENABLED"),
			Host:            v.GetString("DATABASE_HOST"),
			Port:            v.GetInt("DATABASE_PORT"),
			User:            v.GetString("DATABASE_USER"),
			Password:        v.GetString("DATABASE_PASSWORD"),
			Name:            v.GetString("DATABASE_NAME"),
			SSLMode:         v.GetString("DATABASE_SSLMODE"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: lifetime,
		},
		Kubernetes: KubernetesConfig{
			Enabled:        v.GetBool("KUBERNETES_ENABLED"),
			InCluster:      v.GetBool("KUBERNETES_IN_CLUSTER"),
			KubeConfigPath: v.GetString("KUBERNETES_KUBECONFIG"),
			DefaultNS:      v.GetString("KUBERNETES_DEFAULT_NS"),
		},
		KServe: KServeConfig{
			Timeout: timeout,
		},
		Artifacts: ArtifactConfig{
			BaseDir: v.GetString("ARTIFACT_BASE_DIR"),
		},
		Chart: ChartConfig{
			Format: strings.ToLower(v.GetString("CHART_FORMAT")),
			Width:  v.GetInt("CHART_WIDTH"),
			Height: v.GetInt("CHART_HEIGHT"),
		},
	}

	if v.IsSet("variants") {
		if err := v.UnmarshalKey("variants", &cfg.Variants); err != nil {
			return nil, fmt.Errorf("decode variants: %w", err)
		}
	}
	if len(cfg.Variants) == 0 {
		cfg.Variants = DefaultVariants()
	}

	return cfg, nil
}
