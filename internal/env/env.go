package env

import (
	"os"

	"github.com/ekisa-team/leafsense/internal/envvar"
)

// Environment represents the runtime environment of the process.
type Environment string

const (
	// Development is the default environment.
	Development Environment = "development"

	// Production enables quieter, file-oriented logging.
	Production Environment = "production"
)

// FromEnv resolves the environment from LEAFSENSE_ENV.
// Unrecognized values fall back to Development.
func FromEnv() Environment {
	switch os.Getenv(envvar.LeafsenseEnv) {
	case string(Production), "prod":
		return Production
	default:
		return Development
	}
}

// IsProduction reports whether e is the production environment.
func (e Environment) IsProduction() bool {
	return e == Production
}
