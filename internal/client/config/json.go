package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/dropvault/internal/flagx"
	"github.com/dmitrijs2005/dropvault/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON
// configuration files.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	OutputDir          string         `json:"output_dir"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c/-config command-line flags; if it is
// not set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.ServerEndpointAddr = c.ServerEndpointAddr
	config.OutputDir = c.OutputDir
	config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
}
