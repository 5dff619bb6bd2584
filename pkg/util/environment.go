package util

import (
	"os"
	"strings"
)

// GetEnvironmentVariables snapshots the process environment
func GetEnvironmentVariables() map[string]string {
	environmentVariables := map[string]string{}

	for _, variable := range os.Environ() {
		if name, value, found := strings.Cut(variable, "="); found {
			environmentVariables[name] = value
		}
	}

	return environmentVariables
}
