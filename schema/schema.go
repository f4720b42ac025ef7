// Package schema holds the domain types, constants and error taxonomy
// shared by the pactsafe client, its transport and its command line.
package schema
