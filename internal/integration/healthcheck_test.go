package integration_test

import (
	"net/http"
	"testing"

	"github.com/metinatakli/study-room-reservation-system/internal/vcs"
	"github.com/stretchr/testify/suite"
)

type HealthcheckTestSuite struct {
	BaseSuite
}

func TestHealthcheckSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}
	suite.Run(t, new(HealthcheckTestSuite))
}

func (s *HealthcheckTestSuite) TestGetHealth() {
	Scenario{
		Name:           "reports every dependency as up",
		Method:         http.MethodGet,
		URL:            "/healthcheck",
		ExpectedStatus: http.StatusOK,
		ExpectedResponse: `{
			"status": "UP",
			"systemInfo": {"version": "` + vcs.Version() + `", "environment": "test"},
			"dependencies": {"postgres": "UP", "redis": "UP"}
		}`,
	}.Run(s.T(), s.app)
}
