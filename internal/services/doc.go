// Package services implements the pbs operations on top of a pbs.Client:
// bulk submission of tasks and helping materials, and project maintenance.
//
// Every operation returns a human-readable result message. Connection
// failures are reported through that message rather than as an error; server
// failure shapes come back as *pbs.APIError.
package services
