package hclibgo

import (
	"os"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (ts *ConfigTestSuite) TestLoadConfigFromEnvDefaults() {
	ts.T().Setenv("WORKERS", "")
	ts.T().Setenv("HPT_FILE", "")
	ts.T().Setenv("BIND_THREADS", "")
	ts.T().Setenv("STATS", "")
	os.Unsetenv("WORKERS")
	os.Unsetenv("HPT_FILE")
	os.Unsetenv("BIND_THREADS")
	os.Unsetenv("STATS")

	cfg := LoadConfigFromEnv()
	ts.Equal(0, cfg.Workers)
	ts.Equal("", cfg.HPTFile)
	ts.False(cfg.BindThreads)
	ts.False(cfg.Stats)
	ts.Equal(4096, cfg.DequeCapacity)
}

func (ts *ConfigTestSuite) TestLoadConfigFromEnvOverrides() {
	ts.T().Setenv("WORKERS", "8")
	ts.T().Setenv("HPT_FILE", "/tmp/topo.yaml")
	ts.T().Setenv("BIND_THREADS", "true")
	ts.T().Setenv("STATS", "1")

	cfg := LoadConfigFromEnv()
	ts.Equal(8, cfg.Workers)
	ts.Equal("/tmp/topo.yaml", cfg.HPTFile)
	ts.True(cfg.BindThreads)
	ts.True(cfg.Stats)
}

func (ts *ConfigTestSuite) TestLoadConfigFromEnvIgnoresMalformedValues() {
	ts.T().Setenv("WORKERS", "not-a-number")
	ts.T().Setenv("BIND_THREADS", "maybe")

	cfg := LoadConfigFromEnv()
	ts.Equal(0, cfg.Workers)
	ts.False(cfg.BindThreads)
}
