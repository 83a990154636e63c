package mockapi

import (
	"encoding/json"
	"slices"
	"time"

	apperrors "condo/internal/errors"
)

// ErrorType is one failure kind the mock API can inject, with its share of
// the injected errors.
type ErrorType struct {
	Type        apperrors.Kind `json:"type"`
	Probability float64        `json:"probability"`
}

// Config controls simulated latency and failures. It is shared by every
// request and can be changed while the server runs.
type Config struct {
	Enabled              bool          `json:"enabled"`
	Delay                time.Duration `json:"-"`
	SimulateRandomErrors bool          `json:"simulateRandomErrors"`
	ErrorProbability     float64       `json:"errorProbability"`
	ErrorTypes           []ErrorType   `json:"errorTypes"`
}

// DefaultConfig has latency on and error injection off.
func DefaultConfig() Config {
	return Config{
		Enabled:              true,
		Delay:                500 * time.Millisecond,
		SimulateRandomErrors: false,
		ErrorProbability:     0.2,
		ErrorTypes: []ErrorType{
			{Type: apperrors.KindNetwork, Probability: 0.3},
			{Type: apperrors.KindTimeout, Probability: 0.2},
			{Type: apperrors.KindServer, Probability: 0.2},
			{Type: apperrors.KindAuth, Probability: 0.1},
			{Type: apperrors.KindForbidden, Probability: 0.1},
			{Type: apperrors.KindValidation, Probability: 0.1},
		},
	}
}

func (c Config) clone() Config {
	c.ErrorTypes = slices.Clone(c.ErrorTypes)
	return c
}

// MarshalJSON writes Delay in milliseconds.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	return json.Marshal(struct {
		alias
		Delay int64 `json:"delay"`
	}{alias(c), c.Delay.Milliseconds()})
}

// UnmarshalJSON reads Delay in milliseconds.
func (c *Config) UnmarshalJSON(data []byte) error {
	type alias Config
	aux := struct {
		*alias
		Delay int64 `json:"delay"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.Delay = time.Duration(aux.Delay) * time.Millisecond
	return nil
}

// ConfigPatch is a partial update. Nil fields are left unchanged.
type ConfigPatch struct {
	Enabled              *bool       `json:"enabled,omitempty"`
	Delay                *int64      `json:"delay,omitempty"` // milliseconds
	SimulateRandomErrors *bool       `json:"simulateRandomErrors,omitempty"`
	ErrorProbability     *float64    `json:"errorProbability,omitempty"`
	ErrorTypes           []ErrorType `json:"errorTypes,omitempty"`
}

func (p ConfigPatch) validate() error {
	fields := map[string]string{}
	if p.Delay != nil && *p.Delay < 0 {
		fields["delay"] = "O atraso não pode ser negativo"
	}
	if p.ErrorProbability != nil && (*p.ErrorProbability < 0 || *p.ErrorProbability > 1) {
		fields["errorProbability"] = "A probabilidade deve estar entre 0 e 1"
	}
	for _, et := range p.ErrorTypes {
		if et.Probability < 0 || et.Probability > 1 {
			fields["errorTypes"] = "A probabilidade deve estar entre 0 e 1"
		}
		if !injectable(et.Type) {
			fields["errorTypes"] = "Tipo de erro inválido: " + string(et.Type)
		}
	}
	if len(fields) > 0 {
		return apperrors.Validation(fields)
	}
	return nil
}

func (p ConfigPatch) apply(c Config) Config {
	if p.Enabled != nil {
		c.Enabled = *p.Enabled
	}
	if p.Delay != nil {
		c.Delay = time.Duration(*p.Delay) * time.Millisecond
	}
	if p.SimulateRandomErrors != nil {
		c.SimulateRandomErrors = *p.SimulateRandomErrors
	}
	if p.ErrorProbability != nil {
		c.ErrorProbability = *p.ErrorProbability
	}
	if p.ErrorTypes != nil {
		c.ErrorTypes = slices.Clone(p.ErrorTypes)
	}
	return c
}

func injectable(k apperrors.Kind) bool {
	switch k {
	case apperrors.KindNetwork, apperrors.KindTimeout, apperrors.KindServer,
		apperrors.KindAuth, apperrors.KindForbidden, apperrors.KindValidation:
		return true
	}
	return false
}

// Config returns a copy of the current configuration.
func (s *Service) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.clone()
}

// UpdateConfig applies p and returns the new configuration.
func (s *Service) UpdateConfig(p ConfigPatch) (Config, error) {
	if err := p.validate(); err != nil {
		return s.Config(), err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = p.apply(s.cfg)
	return s.cfg.clone(), nil
}

// ResetConfig restores the configuration the service was created with.
func (s *Service) ResetConfig() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = s.defaults.clone()
	return s.cfg.clone()
}
