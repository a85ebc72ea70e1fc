package configuration

import (
	"io/fs"
	"os"

	"github.com/TopiaNetwork/ethtx/codec"
)

type LogConfiguration struct {
	Level  string `json:"level,omitempty"`
	Format string `json:"format,omitempty"`
}

func DefLogConfiguration() *LogConfiguration {
	return &LogConfiguration{
		Level:  "info",
		Format: "text",
	}
}

type Configuration struct {
	Chain *ChainProfileConfig `json:"chain,omitempty"`
	Log   *LogConfiguration   `json:"log,omitempty"`
}

func DefConfiguration() *Configuration {
	return &Configuration{
		Chain: DefChainProfileConfig(),
		Log:   DefLogConfiguration(),
	}
}

func (c *Configuration) Save(fileFullName string) error {
	dataBytes, err := codec.CreateMarshaler(codec.CodecType_JSON).Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(fileFullName, dataBytes, fs.FileMode(0644))
}

// Load replaces each section present in the file; absent sections keep their values.
func (c *Configuration) Load(fileFullName string) error {
	dataBytes, err := os.ReadFile(fileFullName)
	if err != nil {
		return err
	}

	loaded := &Configuration{}
	if err = codec.CreateMarshaler(codec.CodecType_JSON).Unmarshal(dataBytes, loaded); err != nil {
		return err
	}
	if loaded.Chain != nil {
		c.Chain = loaded.Chain
	}
	if loaded.Log != nil {
		c.Log = loaded.Log
	}

	return nil
}

func (c *Configuration) ChainProfile() (*ChainProfile, error) {
	return NewChainProfile(c.Chain)
}

func LoadChainProfile(fileFullName string) (*ChainProfile, error) {
	cfg := DefConfiguration()
	if err := cfg.Load(fileFullName); err != nil {
		return nil, err
	}

	return cfg.ChainProfile()
}
