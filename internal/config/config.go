package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	API      APIConfig
	Identity IdentityConfig
	Stripe   StripeConfig
}

type ServerConfig struct {
	Port          string
	Env           string
	PublicBaseURL string
}

type APIConfig struct {
	BaseURL string
}

type IdentityConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
}

type StripeConfig struct {
	PublishableKey string
	APIBaseURL     string
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("API_BASE_URL", "http://localhost:8000")
	viper.SetDefault("STRIPE_API_BASE_URL", "https://api.stripe.com")

	if err := viper.ReadInConfig(); err != nil {
		log.Debug().Err(err).Msg("no .env file, using environment only")
	}

	return &Config{
		Server: ServerConfig{
			Port:          viper.GetString("PORT"),
			Env:           viper.GetString("APP_ENV"),
			PublicBaseURL: viper.GetString("PUBLIC_BASE_URL"),
		},
		API: APIConfig{
			BaseURL: viper.GetString("API_BASE_URL"),
		},
		Identity: IdentityConfig{
			TokenURL:     viper.GetString("IDENTITY_TOKEN_URL"),
			ClientID:     viper.GetString("IDENTITY_CLIENT_ID"),
			ClientSecret: viper.GetString("IDENTITY_CLIENT_SECRET"),
		},
		Stripe: StripeConfig{
			PublishableKey: viper.GetString("STRIPE_PUBLISHABLE_KEY"),
			APIBaseURL:     viper.GetString("STRIPE_API_BASE_URL"),
		},
	}
}
