// Package config reads the service configuration from etc/main.toml.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvJSON names the environment variable holding a JSON document that overrides
// values read from the TOML file.
const EnvJSON = "CREWACCESS_CONFIG_JSON"

const defaultShutdownSeconds = 5

// ReadConfig reads main.toml below path, applies the JSON env override and validates the result.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	v.SetConfigFile(filepath.Join(path, "main.toml"))
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	if env := os.Getenv(EnvJSON); env != "" {
		if err := json.Unmarshal([]byte(env), &c); err != nil {
			return Config{}, errors.Wrapf(err, "failed to decode %s", EnvJSON)
		}
	}

	return c, validate(&c)
}

// DumpConfig returns c as TOML.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	enc := toml.NewEncoder(&buffer)
	enc.SetIndentTables(true)

	if err := enc.Encode(c); err != nil {
		return "", errors.Wrap(err, "failed to encode config as toml")
	}

	return buffer.String(), nil
}

// DumpConfigJSON returns c as indented JSON.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", errors.Wrap(err, "failed to encode config as json")
	}

	return buffer.String(), nil
}

// validate checks the settings the service can not start without and fills in defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutdownSeconds
	}

	if c.Webserver.CallerHeader == "" {
		c.Webserver.CallerHeader = "X-User-ID"
	}

	switch c.DB.Engine {
	case EngineSQLite:
		if c.DB.Path == "" {
			return errors.Wrap(ErrDBPathIsEmpty, invalidErrMessage)
		}
	case EnginePostgres, EngineMySQL:
		if c.DB.Host == "" || c.DB.Name == "" {
			return errors.Wrap(ErrDBHostOrNameIsEmpty, invalidErrMessage)
		}
	default:
		return errors.Wrapf(ErrUnknownDBEngine, "%s: %q", invalidErrMessage, c.DB.Engine)
	}

	if c.Policy.ManageResource == "" || c.Policy.ManageAction == "" {
		c.Policy.ManageResource, c.Policy.ManageAction = "permissions", "manage"
	}

	if c.Policy.MembersResource == "" || c.Policy.MembersAction == "" {
		c.Policy.MembersResource, c.Policy.MembersAction = "users", "manage"
	}

	return nil
}
