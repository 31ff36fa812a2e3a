package schema

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/schema/parse"
)

// ErrInvalidOption indicates a configuration value is invalid, such as an
// unrecognized excess property policy.
var ErrInvalidOption = errors.New("invalid option")

// Flags holds CLI flag names for decode configuration, allowing callers
// to customize flag names while keeping sensible defaults via
// [NewConfig].
type Flags struct {
	AllErrors        string
	AllowUnexpected  string
	OnExcessProperty string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{Flags: f}
}

// Config bridges CLI flags to [parse.Options] for tools that expose
// decoding behavior on their command line.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.ParseOptions] to obtain the decode
// options.
type Config struct {
	AllErrors        bool
	AllowUnexpected  bool
	OnExcessProperty string
	Flags            Flags
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		AllErrors:        "all-errors",
		AllowUnexpected:  "allow-unexpected",
		OnExcessProperty: "on-excess-property",
	}

	return f.NewConfig()
}

// RegisterFlags adds decode flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.BoolVar(&c.AllErrors, c.Flags.AllErrors, false,
		"report all decode failures instead of stopping at the first")
	flags.BoolVar(&c.AllowUnexpected, c.Flags.AllowUnexpected, false,
		"allow unexpected keys, reporting them as warnings")
	flags.StringVar(&c.OnExcessProperty, c.Flags.OnExcessProperty, string(parse.ExcessPropertyIgnore),
		fmt.Sprintf("excess property policy, one of: %s, %s",
			parse.ExcessPropertyIgnore, parse.ExcessPropertyError))
}

// RegisterCompletions registers shell completions for decode flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.OnExcessProperty,
		cobra.FixedCompletions(
			[]string{string(parse.ExcessPropertyIgnore), string(parse.ExcessPropertyError)},
			cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.OnExcessProperty, err)
	}

	return nil
}

// ParseOptions converts the configured values to [parse.Option] values.
func (c *Config) ParseOptions() ([]parse.Option, error) {
	policy := parse.ExcessProperty(c.OnExcessProperty)

	switch policy {
	case parse.ExcessPropertyIgnore, parse.ExcessPropertyError, "":
	default:
		return nil, fmt.Errorf("%w: unknown excess property policy %q", ErrInvalidOption, c.OnExcessProperty)
	}

	var opts []parse.Option

	if c.AllErrors {
		opts = append(opts, parse.WithAllErrors())
	}

	if c.AllowUnexpected {
		opts = append(opts, parse.WithUnexpectedAllowed())
	}

	if policy != "" {
		opts = append(opts, parse.WithExcessProperty(policy))
	}

	return opts, nil
}
