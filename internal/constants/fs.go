package constants

import "os"

const (
	// DefaultFilePermissions sets the permissions for generated files: (rw-r--r--).
	DefaultFilePermissions os.FileMode = 0o644

	// PrivateFolderPermissions sets the permissions for browser profile folders: (rwx------).
	// Profiles hold session cookies, so only the owner may read them.
	PrivateFolderPermissions os.FileMode = 0o700
)
