package probe

import "path/filepath"

// sysPath anchors an absolute /sys or /proc style path under a probe's
// filesystem root. Probes default to an empty root (the real tree);
// tests point Root at a fixture directory.
func sysPath(root, path string) string {
	if root == "" {
		return path
	}
	return filepath.Join(root, path)
}
