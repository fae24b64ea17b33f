package config

import (
	"bytes"
	_ "embed"
	"text/template"

	cmtconfig "github.com/cometbft/cometbft/config"
	"github.com/cometbft/cometbft/libs/os"
)

var appTemplate *template.Template

func init() {
	var err error
	if appTemplate, err = template.New("appConfigTemplate").Parse(defaultAppTemplate); err != nil {
		panic(err)
	}
}

// WriteConfigFile writes the cometbft config followed by the [app] section.
func WriteConfigFile(configFilePath string, config *Config) {
	cmtconfig.WriteConfigFile(configFilePath, config.Config)

	var buffer bytes.Buffer
	buffer.Write(os.MustReadFile(configFilePath))
	if err := appTemplate.Execute(&buffer, config.App); err != nil {
		panic(err)
	}
	os.MustWriteFile(configFilePath, buffer.Bytes(), 0o644)
}

// Keys must match the mapstructure tags of AppConfig.
//
//go:embed app.toml.tpl
var defaultAppTemplate string
