package deploy

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type (
	flagType interface {
		string | int | bool | []string
	}

	// flagDef defines a command-line flag with its configuration.
	flagDef[T flagType] struct {
		name         string
		viperKey     string
		defaultValue T
		description  string
	}
)

// Defaults live in the embedded config.example.yaml, so flags only override.
var (
	// shared by every command, declared on the root
	persistentStringFlags = []flagDef[string]{
		{"log-level", "log-level", "", "Log level (debug, info, warn, error)"},
		{"network", "network", "", "Network to deploy to (a key of networks)"},
		{"artifacts-file", "artifacts-file", "", "Compiled contracts JSON"},
		{"contracts-dir", "contracts-dir", "", "Foundry project with the contract sources"},
	}

	stringFlags = []flagDef[string]{
		{"deployments-dir", "deployments-dir", "", "Directory deployment records are kept in"},
		{"output-file", "output-file", "", "Deployment summary YAML"},
	}

	stringSliceFlags = []flagDef[[]string]{
		{"tags", "tags", nil, "Only run deploy scripts with these tags"},
	}

	boolFlags = []flagDef[bool]{
		{"verify", "verify", true, "Verify contracts on live networks when ETHERSCAN_API_KEY is set"},
	}
)

func init() {
	if err := declareFlags(CMD.Flags(), stringFlags); err != nil {
		panic(err)
	}
	if err := declareFlags(CMD.Flags(), stringSliceFlags); err != nil {
		panic(err)
	}
	if err := declareFlags(CMD.Flags(), boolFlags); err != nil {
		panic(err)
	}
}

// DeclarePersistentFlags declares the flags every command shares on root.
func DeclarePersistentFlags(root *cobra.Command) error {
	return declareFlags(root.PersistentFlags(), persistentStringFlags)
}

// declareFlags declares multiple flags and binds them to viper configuration keys.
func declareFlags[T flagType](flagSet *pflag.FlagSet, flags []flagDef[T]) error {
	for _, flag := range flags {
		if err := declareFlag(flagSet, flag.name, flag.viperKey, flag.defaultValue, flag.description); err != nil {
			return err
		}
	}
	return nil
}

// declareFlag declares a single flag and binds it to a viper configuration key.
// The type parameter T determines the flag type.
func declareFlag[T flagType](flagSet *pflag.FlagSet, flagName, viperKey string, defaultValue T, description string) error {
	var zero T
	switch any(zero).(type) {
	case string:
		flagSet.String(flagName, any(defaultValue).(string), description)
	case int:
		flagSet.Int(flagName, any(defaultValue).(int), description)
	case bool:
		flagSet.Bool(flagName, any(defaultValue).(bool), description)
	case []string:
		flagSet.StringSlice(flagName, any(defaultValue).([]string), description)
	}
	return viper.BindPFlag(viperKey, flagSet.Lookup(flagName))
}
