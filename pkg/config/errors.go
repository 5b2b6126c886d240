package config

import "fmt"

// ConfigError represents configuration errors
type ConfigError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("config error: %s (field: %s, value: %v)", e.Message, e.Field, e.Value)
}
