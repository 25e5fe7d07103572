// Package locale holds the language template matrix used to build localized
// system prompts for the support chat gateway.
//
// Templates are plain data: each supported language code maps to a base
// system prompt, a closing language directive, the labels used when injecting
// ticket and order context, and the user-facing provider error messages.
// The matrix is validated once at startup and is read-only afterwards.
package locale

import (
	"errors"
	"fmt"
	"strings"
)

// Template is the complete localized prompt material for one language.
type Template struct {
	// Code is the language code callers select this template with (e.g. "en-us").
	Code string `toml:"code"`

	// Name is the human readable language name (e.g. "English (US)").
	Name string `toml:"name"`

	// Aliases are additional codes that resolve to this template.
	Aliases []string `toml:"aliases,omitempty"`

	// SystemPrompt is the base instruction text for the completion model.
	SystemPrompt string `toml:"system_prompt"`

	// Directive is appended to every prompt and pins the answer language.
	Directive string `toml:"directive"`

	Labels Labels        `toml:"labels"`
	Errors ErrorMessages `toml:"errors"`
}

// Labels are the localized labels for injected ticket and order context.
type Labels struct {
	TicketSectionTitle string `toml:"ticket_section_title"`
	OrderSectionTitle  string `toml:"order_section_title"`
	Subject            string `toml:"subject"`
	Description        string `toml:"description"`
	Email              string `toml:"email"`
	OrderNumber        string `toml:"order_number"`
	CustomerName       string `toml:"customer_name"`
	OrderStatus        string `toml:"order_status"`
	TotalPrice         string `toml:"total_price"`
	NotAvailable       string `toml:"not_available"`
}

// ErrorMessages are the localized messages returned to the widget when the
// completion provider fails.
type ErrorMessages struct {
	Generic        string `toml:"generic"`
	Auth           string `toml:"auth"`
	RateLimit      string `toml:"rate_limit"`
	ProviderPrefix string `toml:"provider_prefix"`
}

func (l Labels) fields() []namedField {
	return []namedField{
		{"labels.ticket_section_title", l.TicketSectionTitle},
		{"labels.order_section_title", l.OrderSectionTitle},
		{"labels.subject", l.Subject},
		{"labels.description", l.Description},
		{"labels.email", l.Email},
		{"labels.order_number", l.OrderNumber},
		{"labels.customer_name", l.CustomerName},
		{"labels.order_status", l.OrderStatus},
		{"labels.total_price", l.TotalPrice},
		{"labels.not_available", l.NotAvailable},
	}
}

func (e ErrorMessages) fields() []namedField {
	return []namedField{
		{"errors.generic", e.Generic},
		{"errors.auth", e.Auth},
		{"errors.rate_limit", e.RateLimit},
		{"errors.provider_prefix", e.ProviderPrefix},
	}
}

type namedField struct {
	name  string
	value string
}

// Validate reports every missing field of the template. A template is only
// usable when all of its text fields are non-blank.
func (t *Template) Validate() error {
	var errs []error

	fields := []namedField{
		{"system_prompt", t.SystemPrompt},
		{"directive", t.Directive},
	}
	fields = append(fields, t.Labels.fields()...)
	fields = append(fields, t.Errors.fields()...)

	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, fmt.Errorf("template %q: missing %s", t.Code, f.name))
		}
	}

	return errors.Join(errs...)
}
