package config

import (
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

const (
	AuthStrategyKeystone = "keystone"
	AuthStrategyNoAuth   = "noauth"

	AuthTypeNone  = "none"
	AuthTypeToken = "token"
)

type Configuration struct {
	Server    Server
	Conductor Conductor
	Inspector Inspector
	Auth      Auth
	LogLevel  string `default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `default:"console" validate:"oneof=console json"`
}

type Server struct {
	HTTPPort   int    `default:"6385" validate:"gt=0,lte=65535"`
	ServerMode string `default:"dev" validate:"oneof=dev prod"`
}

type Conductor struct {
	DataFolder              string        `default:""`
	NumWorkers              int           `default:"3" validate:"gte=1"`
	EnabledDrivers          []string      `default:"[\"ipmi\",\"fake-hardware\"]" validate:"min=1,dive,required"`
	NodeLockedRetryAttempts int           `default:"3" validate:"gte=1"`
	NodeLockedRetryInterval time.Duration `default:"1s" validate:"gt=0"`
}

// Inspector holds the settings of the out-of-band inspection integration.
type Inspector struct {
	Enabled           bool          `default:"false"`
	ServiceURL        string        `validate:"omitempty,url"`
	AuthType          string        `default:"token" validate:"oneof=none token"`
	TokenFile         string        `default:""`
	CAFile            string        `default:""`
	Insecure          bool          `default:"false"`
	Timeout           time.Duration `default:"60s" validate:"gt=0"`
	Retries           int           `default:"2" validate:"gte=0"`
	StatusCheckPeriod time.Duration `default:"60s" validate:"gt=0"`
}

type Auth struct {
	// Strategy is "keystone" when the caller's authentication is propagated
	// to other services and "noauth" when running standalone.
	Strategy string            `default:"keystone" validate:"oneof=keystone noauth"`
	Catalog  map[string]string `default:"{}"`
}

type ConfigurationOption func(*Configuration)

func WithInspectorEnabled(enabled bool) ConfigurationOption {
	return func(c *Configuration) {
		c.Inspector.Enabled = enabled
	}
}

func WithAuthStrategy(strategy string) ConfigurationOption {
	return func(c *Configuration) {
		c.Auth.Strategy = strategy
	}
}

func WithInspectorServiceURL(url string) ConfigurationOption {
	return func(c *Configuration) {
		c.Inspector.ServiceURL = url
	}
}

func NewConfigurationWithOptionsAndDefaults(opts ...ConfigurationOption) *Configuration {
	c := &Configuration{}
	if err := defaults.Set(c); err != nil {
		// defaults are static struct tags, a failure here is a programming error
		panic(fmt.Sprintf("failed to set configuration defaults: %v", err))
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Validate checks the configuration against its struct tags.
func (c *Configuration) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
