// Package constants holds filesystem constants shared by the configuration and browser packages.
package constants
