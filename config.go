package cianparser

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// configService wraps viper so the crawler reads `.env` files and the process environment alike.
type configService struct {
	v *viper.Viper
}

// newConfig creates a configService that looks for `.env` in the working directory and ./config.
func newConfig() *configService {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading Config file: %v\n", err)
	}

	return &configService{v: v}
}

// newConfigFromMap builds a configService from fixed values, without touching the filesystem.
func newConfigFromMap(values map[string]interface{}) *configService {
	v := viper.New()
	for key, value := range values {
		v.Set(key, value)
	}
	return &configService{v: v}
}

// EnvString returns the value for envName, or the first default when it is unset.
func (c *configService) EnvString(envName string, defaultValue ...string) string {
	value := c.v.Get(envName)
	if value != nil && fmt.Sprint(value) != "" {
		return fmt.Sprint(value)
	}

	if len(defaultValue) > 0 {
		return defaultValue[0]
	}

	return ""
}

func (c *configService) EnvInt(envName string, defaultValue int) int {
	if !c.v.IsSet(envName) || c.v.GetString(envName) == "" {
		return defaultValue
	}
	return c.v.GetInt(envName)
}

func (c *configService) EnvBool(envName string) bool {
	return c.v.GetBool(envName)
}

// EnvDuration accepts Go duration strings ("500ms", "30m") and plain numbers of seconds.
func (c *configService) EnvDuration(envName string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(c.v.GetString(envName))
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if seconds := c.v.GetFloat64(envName); seconds > 0 {
		return time.Duration(seconds * float64(time.Second))
	}
	return defaultValue
}

// EnvList splits a comma separated value, dropping blanks.
func (c *configService) EnvList(envName string) []string {
	var items []string
	for _, item := range strings.Split(c.v.GetString(envName), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Add sets a configuration value at runtime.
func (c *configService) Add(name string, configuration interface{}) {
	c.v.Set(name, configuration)
}
