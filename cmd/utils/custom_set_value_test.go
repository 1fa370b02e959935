package utils

import (
	"go/types"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customSetterTestCase[T any] struct {
	name            string
	args            []string
	envValue        string
	wantErrContains string
	wantResult      T
}

// customSetterTester runs one option through a throwaway cobra command, either
// with CLI args or with the backing environment variable set.
func customSetterTester[T any](t *testing.T, tc customSetterTestCase[T], co *ConfigOption) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	cmd := &cobra.Command{Run: func(_ *cobra.Command, _ []string) {}}
	require.NoError(t, ConfigOptions{co}.Init(cmd))

	if tc.envValue != "" {
		t.Setenv(EnvVarName(co.Name), tc.envValue)
	}
	cmd.SetArgs(tc.args)
	require.NoError(t, cmd.Execute())

	err := co.setValue()
	if tc.wantErrContains != "" {
		require.Error(t, err)
		assert.Contains(t, err.Error(), tc.wantErrContains)
		return
	}
	require.NoError(t, err)
	gotResult, ok := co.ConfigKey.(*T)
	require.True(t, ok)
	assert.Equal(t, tc.wantResult, *gotResult)
}

func Test_SetConfigOptionLogLevel(t *testing.T) {
	opts := struct{ logrusLevel logrus.Level }{}

	co := &ConfigOption{
		Name:           "log-level",
		OptType:        types.String,
		CustomSetValue: SetConfigOptionLogLevel,
		ConfigKey:      &opts.logrusLevel,
	}

	testCases := []customSetterTestCase[logrus.Level]{
		{
			name:            "returns an error if the log level is empty",
			args:            []string{},
			wantErrContains: `couldn't parse log level in log-level: not a valid logrus Level: ""`,
		},
		{
			name:            "returns an error if the log level is invalid",
			args:            []string{"--log-level", "test"},
			wantErrContains: `couldn't parse log level in log-level: not a valid logrus Level: "test"`,
		},
		{
			name:       "handles log level TRACE (through CLI args)",
			args:       []string{"--log-level", "TRACE"},
			wantResult: logrus.TraceLevel,
		},
		{
			name:       "handles log level TRACE (through ENV vars)",
			envValue:   "TRACE",
			wantResult: logrus.TraceLevel,
		},
		{
			name:       "handles log level INFO (through CLI args)",
			args:       []string{"--log-level", "iNfO"},
			wantResult: logrus.InfoLevel,
		},
		{
			name:       "handles log level INFO (through ENV vars)",
			envValue:   "INFO",
			wantResult: logrus.InfoLevel,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts.logrusLevel = 0
			customSetterTester[logrus.Level](t, tc, co)
		})
	}
}
