package types

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/coinify-labs/coinify-bot/pkg/errors"
)

type OperatingModeTestSuite struct {
	suite.Suite
}

func TestOperatingModeSuite(t *testing.T) {
	suite.Run(t, new(OperatingModeTestSuite))
}

func (suite *OperatingModeTestSuite) TestParseKnownModes() {
	for _, mode := range OperatingModes {
		parsed, err := ParseOperatingMode(string(mode))
		suite.Require().NoError(err)
		suite.Equal(mode, parsed)
	}
}

func (suite *OperatingModeTestSuite) TestParseRejectsUnknownAndEmpty() {
	testCases := []struct {
		name    string
		value   string
		message string
	}{
		{name: "empty", value: "", message: "operating mode is required (simulation or live)"},
		{name: "unknown", value: "paper", message: `unknown operating mode "paper" (expected simulation or live)`},
		{name: "case sensitive", value: "LIVE", message: `unknown operating mode "LIVE"`},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := ParseOperatingMode(tc.value)
			suite.Require().Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeInvalidMode))
			suite.Contains(err.Error(), tc.message)
		})
	}
}
