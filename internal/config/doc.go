// Package config provides user configuration management for billwise.
//
// This package manages a YAML configuration file holding the prediction
// service location, saved household profiles (named sets of prediction form
// values) and application preferences.
//
// # Configuration File Location
//
// BILLWISE_CONFIG names the file directly. Otherwise it lives in:
//   - Linux: $XDG_CONFIG_HOME/billwise/config.yaml or $HOME/.config/billwise/config.yaml
//   - macOS: $HOME/Library/Application Support/billwise/config.yaml
//   - Windows: %AppData%\billwise\config.yaml
//
// A file without a version line is read as the current version.
//
// # File Format
//
//	version: 1
//	service:
//	  base_url: http://127.0.0.1:5000
//	  timeout: 30s
//	profiles:
//	  home:
//	    values:
//	      tariff: domestic
//	      load: "2"
//	      units: "210"
//	    last_amount: "125.50"
//	preferences:
//	  discover_timeout: 5
//	  default_profile: home
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	registry.SaveProfile("home", payload)
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// Saves go through a temp file and a rename. A Registry itself is not safe
// for concurrent use.
package config
