// Package config resolves the server connection (flags, environment,
// the ~/.pybossa.yaml credentials profile and defaults) and loads the
// project.json descriptor.
package config
