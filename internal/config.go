package internal

import (
	"fmt"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Config drives the shared library. It is read once, when the host calls init.
type Config struct {
	LogLevel        string `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
	CharReplacement string `env:"CHARACTER_REPLACEMENT,default=*" validate:"required"`
	CensoredEnabled bool   `env:"CENSORED_ENABLED,default=false"`
	CatalogFilepath string `env:"CATALOG_FILEPATH"`
}

// LoadConfig reads an optional .env file then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
