// Package config provides configuration structures and utilities for coverflat.
// It defines the output locations, logging preferences and history settings,
// and loads the optional .coverflat YAML file.
package config
