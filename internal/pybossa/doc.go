// Package pybossa is a REST client for the subset of the PyBossa API used by
// pbs: project lookup and maintenance, tasks, helping materials and the
// header-only rate-limit probe.
//
// Every response passes through checkAPIError, which translates the
// server's failure shapes into *pbs.APIError values carrying a typed Kind.
// Transport failures are returned as *pbs.ConnectionError.
package pybossa
