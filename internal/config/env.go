package config

import (
	"fmt"
	"os"
	"strconv"
)

func (c *Config) applyEnv() error {
	if addr, ok := os.LookupEnv("APP_ADDR"); ok {
		c.Addr = addr
	}

	if port, ok := os.LookupEnv("APP_PORT"); ok {
		if _, err := strconv.ParseUint(port, 10, 16); err != nil {
			return fmt.Errorf("APP_PORT must be a port number: %w", err)
		}
		c.Addr = ":" + port
	}

	if development, ok := os.LookupEnv("DEVELOPMENT"); ok {
		if development != "0" {
			c.Mode = "development"
		} else {
			c.Mode = "production"
		}
	}

	if level, ok := os.LookupEnv("LOG_LEVEL"); ok {
		c.Log.Level = level
	}

	return nil
}
