package cmd

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-yaml"

	"prosafe_exporter/nsdp"
	"prosafe_exporter/prosafe"
)

const defaultListenAddress = ":9493"

type target prosafe.Target

func (t *target) UnmarshalYAML(b []byte) error {
	var s string
	if err := yaml.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*t = target{}
		return nil
	}
	if parsed, err := prosafe.ParseTarget(s); err != nil {
		return err
	} else {
		*t = target(parsed)
	}
	return nil
}

type Config struct {
	ListenAddress string        `yaml:"listen_address"`
	Target        target        `yaml:"target"`
	Timeout       time.Duration `yaml:"timeout"`
}

func defaultConfig() Config {
	return Config{
		ListenAddress: defaultListenAddress,
		Timeout:       nsdp.DefaultTimeout,
	}
}

func loadConfig(path, inline string) (*Config, error) {
	config := defaultConfig()

	var content []byte
	if path != "" {
		// check config file exists
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, errors.Newf("Config file not found: %s", path)
		}

		// read config file
		file, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to open config file")
		}
		defer file.Close()
		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, file); err != nil {
			return nil, errors.Wrap(err, "Failed to read config file")
		}
		content = buf.Bytes()
	} else if inline != "" {
		content = []byte(inline)
	} else {
		return &config, nil
	}

	if err := yaml.Unmarshal(content, &config); err != nil {
		return nil, errors.Wrap(err, "Failed to read config file")
	}
	if config.Timeout <= 0 {
		return nil, errors.Newf("Invalid timeout: %s", config.Timeout)
	}

	return &config, nil
}
