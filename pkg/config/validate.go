package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/papercomputeco/chatgate/pkg/llm/provider/openai"
	"github.com/papercomputeco/chatgate/server"
)

const (
	minTemperature = 0.0
	maxTemperature = 2.0
)

// Validate reports every invalid setting in c at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Listen == "" {
		errs = append(errs, errors.New("server.listen must not be empty"))
	}
	if _, err := server.NewOriginPolicy(c.Server.AllowedOrigins, c.Server.AllowedOriginPatterns); err != nil {
		errs = append(errs, err)
	}

	if c.Provider.Name != openai.ProviderName {
		errs = append(errs, fmt.Errorf("unsupported provider.name %q (available: %s)", c.Provider.Name, openai.ProviderName))
	}
	if u, err := url.Parse(c.Provider.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("provider.base_url %q must be an http(s) URL", c.Provider.BaseURL))
	}
	if c.Provider.Model == "" {
		errs = append(errs, errors.New("provider.model must not be empty"))
	}
	if c.Provider.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("provider.max_tokens must be positive, got %d", c.Provider.MaxTokens))
	}
	if t := c.Provider.Temperature; t != nil && (*t < minTemperature || *t > maxTemperature) {
		errs = append(errs, fmt.Errorf("provider.temperature must be within [%g, %g], got %g", minTemperature, maxTemperature, *t))
	}
	if d, err := c.TimeoutDuration(); err != nil {
		errs = append(errs, err)
	} else if d <= 0 {
		errs = append(errs, fmt.Errorf("provider.timeout must be positive, got %s", d))
	}

	switch c.Events.Provider {
	case EventsProviderNone:
	case EventsProviderKafka:
		if len(c.Events.Brokers) == 0 {
			errs = append(errs, errors.New("events.brokers is required for the kafka provider"))
		}
		if c.Events.Topic == "" {
			errs = append(errs, errors.New("events.topic is required for the kafka provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported events.provider %q (available: %s, %s)",
			c.Events.Provider, EventsProviderNone, EventsProviderKafka))
	}

	return errors.Join(errs...)
}
