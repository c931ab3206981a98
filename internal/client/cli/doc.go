// Package cli implements the Monyze command-line client: register, login,
// logout and whoami, built on cobra.
package cli
