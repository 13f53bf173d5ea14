package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server Server
	OpenAI OpenAI
	Gemini Gemini
}

type Server struct {
	Port string
}

type OpenAI struct {
	APIKey string
	// Model analyzes uploaded exam pages; TutorModel answers student questions.
	Model      string
	TutorModel string
}

type Gemini struct {
	APIKey string
	Model  string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8000")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o")
	viper.SetDefault("OPENAI_TUTOR_MODEL", "gpt-4o-mini")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.OpenAI.APIKey = viper.GetString("OPENAI_API_KEY")
	config.OpenAI.Model = viper.GetString("OPENAI_MODEL")
	config.OpenAI.TutorModel = viper.GetString("OPENAI_TUTOR_MODEL")
	config.Gemini.APIKey = viper.GetString("GEMINI_API_KEY")
	config.Gemini.Model = viper.GetString("GEMINI_MODEL")

	log.Info().Str("port", config.Server.Port).Msg("Config loaded")
	return &config, nil
}
