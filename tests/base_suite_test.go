package tests

import (
	"os"
	"strings"

	"github.com/compustack/aether/pkg/config"
	"github.com/stretchr/testify/suite"
)

// LiveProviderSuite loads the settings file the CLI uses and skips when the
// required key is missing, so these suites only talk to real APIs on demand.
type LiveProviderSuite struct {
	suite.Suite
	cfg config.Config
}

func (s *LiveProviderSuite) loadSettings(requiredKey string) {
	cfg, err := config.Load(strings.TrimSpace(os.Getenv("SETTINGS_FILE")))
	s.Require().NoError(err)
	s.cfg = cfg

	if strings.TrimSpace(os.Getenv(requiredKey)) == "" {
		s.T().Skipf("%s is not set; skipping external dependency integration test", requiredKey)
	}
}

func (s *LiveProviderSuite) Config() config.Config {
	return s.cfg
}
