package main

import (
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Rooms        int `envconfig:"LOADTEST_ROOMS" default:"8" validate:"min=1"`
	Participants int `envconfig:"LOADTEST_PARTICIPANTS" default:"64" validate:"min=1"`
	Messages     int `envconfig:"LOADTEST_MESSAGES" default:"100" validate:"min=1"`
	// LOADTEST_COLOURS colours the report header
	Colours  bool   `envconfig:"LOADTEST_COLOURS" default:"true"`
	LogLevel string `envconfig:"LOADTEST_LOG_LEVEL" default:"WARN"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, validator.New().Struct(cfg)
}
