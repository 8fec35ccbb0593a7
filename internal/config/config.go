// Package config carrega a configuração da aplicação a partir do ambiente
// e do arquivo .env.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Port          string
	GinMode       string
	DBDriver      string
	DatabaseURL   string
	SessionSecret string
	TemplatesGlob string
	StaticRoot    string

	Lookup    LookupConfig
	Company   CompanyConfig
	Instagram InstagramConfig

	LogLevel  string
	LogFormat string
}

// LookupConfig configura a busca do produto no site do revendedor.
type LookupConfig struct {
	BaseURL       string
	Timeout       time.Duration
	AffiliateCode string
}

// CompanyConfig são os dados exibidos na página de contato.
type CompanyConfig struct {
	Address string
	Owner   string
	Email   string
	Lat     float64
	Lng     float64
}

type InstagramConfig struct {
	AccessToken string
	BaseURL     string
	TTL         time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_URL", "tienda.db")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("TEMPLATES_GLOB", "internal/view/templates/*.html")
	v.SetDefault("STATIC_ROOT", "static")

	v.SetDefault("LOOKUP_BASE_URL", "https://www.herbalife.com")
	v.SetDefault("LOOKUP_TIMEOUT", "10s")
	v.SetDefault("AFFILIATE_CODE", "")

	v.SetDefault("COMPANY_ADDRESS", "Av. Santa Lucía, 6241500 Alcalá de Guadaíra, Sevilla")
	v.SetDefault("COMPANY_OWNER", "Nombre del Propietario")
	v.SetDefault("COMPANY_EMAIL", "owner@example.com")
	v.SetDefault("COMPANY_LAT", 37.3369)
	v.SetDefault("COMPANY_LNG", -5.8367)

	v.SetDefault("INSTAGRAM_ACCESS_TOKEN", "")
	v.SetDefault("INSTAGRAM_BASE_URL", "https://graph.instagram.com")
	v.SetDefault("INSTAGRAM_FEED_TTL", 300)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load lê o .env (se existir) e monta a Config. Um .env ausente não é erro:
// em produção as variáveis vêm do ambiente.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		slog.Warn("arquivo .env não carregado, usando apenas variáveis de ambiente", "error", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return FromViper(v)
}

// FromViper converte os valores do viper na Config tipada e valida o resultado.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:          v.GetString("PORT"),
		GinMode:       v.GetString("GIN_MODE"),
		DBDriver:      strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		SessionSecret: v.GetString("SESSION_SECRET"),
		TemplatesGlob: v.GetString("TEMPLATES_GLOB"),
		StaticRoot:    v.GetString("STATIC_ROOT"),
		Lookup: LookupConfig{
			BaseURL:       strings.TrimRight(v.GetString("LOOKUP_BASE_URL"), "/"),
			Timeout:       v.GetDuration("LOOKUP_TIMEOUT"),
			AffiliateCode: v.GetString("AFFILIATE_CODE"),
		},
		Company: CompanyConfig{
			Address: v.GetString("COMPANY_ADDRESS"),
			Owner:   v.GetString("COMPANY_OWNER"),
			Email:   v.GetString("COMPANY_EMAIL"),
			Lat:     v.GetFloat64("COMPANY_LAT"),
			Lng:     v.GetFloat64("COMPANY_LNG"),
		},
		Instagram: InstagramConfig{
			AccessToken: v.GetString("INSTAGRAM_ACCESS_TOKEN"),
			BaseURL:     strings.TrimRight(v.GetString("INSTAGRAM_BASE_URL"), "/"),
			TTL:         time.Duration(v.GetInt("INSTAGRAM_FEED_TTL")) * time.Second,
		},
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Debug indica se o gin está em modo de desenvolvimento.
func (c *Config) Debug() bool {
	return c.GinMode == "debug"
}

func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER inválido: %q", c.DBDriver))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL não definido"))
	}
	if c.Lookup.Timeout <= 0 {
		errs = append(errs, errors.New("LOOKUP_TIMEOUT deve ser positivo"))
	}
	if c.Instagram.TTL <= 0 {
		errs = append(errs, errors.New("INSTAGRAM_FEED_TTL deve ser positivo"))
	}
	if c.SessionSecret == "" && !c.Debug() {
		errs = append(errs, errors.New("SESSION_SECRET não definido"))
	}

	return errors.Join(errs...)
}
