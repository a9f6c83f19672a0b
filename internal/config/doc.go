// Package config holds the run configuration of storeeda: the values set by
// command-line flags, the optional .storeeda YAML file that can override the
// report's authored text, and the XDG directories used for the run history.
package config
