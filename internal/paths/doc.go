// Package paths resolves the directories qval reads configuration and
// plugin manifests from.
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance. On Linux and macOS, paths follow XDG conventions
// (~/.config, ~/.local/share, ~/.cache).
//
// # Application Directories
//
//	paths.ConfigDir()  // $QVAL_CONFIG_DIR, or <ConfigHome>/qval
//	paths.PluginDirs() // <ConfigDir>/plugins, <DataHome>/qval/plugins
//
// Manifest plugins found in [PluginDirs] are installed after the builtin
// plugin.
package paths
