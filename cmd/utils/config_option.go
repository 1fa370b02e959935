package utils

import (
	"fmt"
	"go/types"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/landreg/registry-backend/internal/applog"
)

// ConfigOption describes one configuration knob: a cobra flag bound through
// viper to an environment variable of the same name (dashes become
// underscores, e.g. --database-url / DATABASE_URL).
type ConfigOption struct {
	// Name is the flag name.
	Name string
	// Usage is the help text.
	Usage string
	// OptType is the type of the flag value.
	OptType types.BasicKind
	// ConfigKey is a pointer the parsed value is written into.
	ConfigKey interface{}
	// CustomSetValue overrides the default write into ConfigKey.
	CustomSetValue func(co *ConfigOption) error
	// FlagDefault is the default flag value.
	FlagDefault interface{}
	// Required makes SetValues fail when the option resolves to a zero value.
	Required bool

	// flag is the pflag this option was declared as. Several commands may
	// declare the same option name, and viper only keeps the last binding, so
	// resolution prefers the owning command's flag whenever it was set.
	flag *pflag.Flag
}

type ConfigOptions []*ConfigOption

// Init declares every option's flag on the command and binds it to viper.
func (cos ConfigOptions) Init(cmd *cobra.Command) error {
	for _, co := range cos {
		if err := co.init(cmd); err != nil {
			return fmt.Errorf("initializing config option %q: %w", co.Name, err)
		}
	}
	return nil
}

func (co *ConfigOption) init(cmd *cobra.Command) error {
	switch co.OptType {
	case types.String:
		def, _ := co.FlagDefault.(string)
		cmd.PersistentFlags().String(co.Name, def, co.Usage)
	case types.Int:
		def, _ := co.FlagDefault.(int)
		cmd.PersistentFlags().Int(co.Name, def, co.Usage)
	case types.Bool:
		def, _ := co.FlagDefault.(bool)
		cmd.PersistentFlags().Bool(co.Name, def, co.Usage)
	default:
		return fmt.Errorf("unsupported option type %v", co.OptType)
	}

	co.flag = cmd.PersistentFlags().Lookup(co.Name)
	if err := viper.BindPFlag(co.Name, co.flag); err != nil {
		return fmt.Errorf("binding flag: %w", err)
	}
	if err := viper.BindEnv(co.Name, EnvVarName(co.Name)); err != nil {
		return fmt.Errorf("binding environment variable: %w", err)
	}
	return nil
}

// EnvVarName maps a flag name onto the environment variable that backs it.
func EnvVarName(flagName string) string {
	return strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

// RequireE fails on the first required option that resolved to a zero value.
func (cos ConfigOptions) RequireE() error {
	for _, co := range cos {
		if !co.Required {
			continue
		}
		switch co.OptType {
		case types.String:
			if co.getString() == "" {
				return fmt.Errorf("required configuration option %q not set", co.Name)
			}
		case types.Int:
			if co.getInt() == 0 {
				return fmt.Errorf("required configuration option %q not set", co.Name)
			}
		}
	}
	return nil
}

func (cos ConfigOptions) Require() {
	if err := cos.RequireE(); err != nil {
		applog.Fatalf("Error requiring config options: %s", err.Error())
	}
}

// SetValues resolves every option from flags/environment into its ConfigKey.
func (cos ConfigOptions) SetValues() error {
	for _, co := range cos {
		if err := co.setValue(); err != nil {
			return fmt.Errorf("setting value of config option %q: %w", co.Name, err)
		}
	}
	return nil
}

func (co *ConfigOption) setValue() error {
	if co.CustomSetValue != nil {
		return co.CustomSetValue(co)
	}

	switch key := co.ConfigKey.(type) {
	case *string:
		*key = co.getString()
	case *int:
		*key = co.getInt()
	case *bool:
		*key = viper.GetBool(co.Name)
	case *time.Duration:
		*key = viper.GetDuration(co.Name)
	default:
		return fmt.Errorf("unexpected config key type %T", co.ConfigKey)
	}
	return nil
}

func (co *ConfigOption) getString() string {
	if co.flag != nil && co.flag.Changed {
		return co.flag.Value.String()
	}
	return viper.GetString(co.Name)
}

func (co *ConfigOption) getInt() int {
	if co.flag != nil && co.flag.Changed {
		n, err := strconv.Atoi(co.flag.Value.String())
		if err == nil {
			return n
		}
	}
	return viper.GetInt(co.Name)
}
