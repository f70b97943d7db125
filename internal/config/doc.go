// Package config provides configuration management for the qval CLI.
//
// # Configuration File
//
// The configuration file is named config.yaml and is searched for in the
// current directory and then in the qval config directory
// (~/.config/qval/config.yaml, or $QVAL_CONFIG_DIR). Every key may be
// overridden from the environment with the QVAL_ prefix, e.g.
// QVAL_DEFAULT_LEVEL=min.
//
//	version: 1
//	plugin_dirs:
//	  - /opt/qval/plugins
//	default_level: max
//	concurrency: 8
//	disabled_plugins:
//	  - experimental
//	metrics_file: /var/lib/node_exporter/qval.prom
//
// # Loading Configuration
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//		return err
//	}
//
// Load validates the configuration; [Validate] may also be called directly.
package config
