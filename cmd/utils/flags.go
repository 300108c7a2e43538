package utils

import (
	"os"
	"path/filepath"
)

var (
	SuretyHome   string
	SuretyConfig string
)

func GetSuretyHome() string {
	if SuretyHome != "" {
		return SuretyHome
	}

	home := os.Getenv("SURETYHOME")

	if home != "" {
		return home
	}

	return os.ExpandEnv(filepath.Join("$HOME", ".surety"))
}

func GetSuretyConfigPath() string {
	if SuretyConfig != "" {
		return SuretyConfig
	}

	return filepath.Join(GetSuretyHome(), "config", "config.toml")
}
