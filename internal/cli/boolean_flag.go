package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName         = "bool"
	booleanFlagTrueLiteral      = "true"
	booleanFlagAcceptedLiterals = "true, false, yes, no, on, off, 1, 0"
	errorInvalidBooleanFormat   = "invalid boolean value %q for --%s; accepted values: %s"
	flagPrefix                  = "--"
	flagTerminator              = "--"
	flagValueSeparator          = "="
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// booleanFlagValue accepts yes/no style literals in addition to true/false.
type booleanFlagValue struct {
	target   *bool
	flagName string
}

func (value *booleanFlagValue) Set(input string) error {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = booleanFlagTrueLiteral
	}
	parsed, known := booleanFlagLiterals[normalized]
	if !known || value.target == nil {
		return fmt.Errorf(errorInvalidBooleanFormat, input, value.flagName, booleanFlagAcceptedLiterals)
	}
	*value.target = parsed
	return nil
}

func (value *booleanFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *booleanFlagValue) Type() string {
	return booleanFlagTypeName
}

// registerBooleanFlag adds a flag that is true when given bare and also accepts an explicit literal.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&booleanFlagValue{target: target, flagName: name}, name, usage)
	registeredFlag := flagSet.Lookup(name)
	registeredFlag.DefValue = strconv.FormatBool(defaultValue)
	registeredFlag.NoOptDefVal = booleanFlagTrueLiteral
}

// normalizeBooleanFlagArguments rewrites "--flag literal" into "--flag=literal" for boolean flags,
// so "--no-clipboard yes" is not mistaken for a positional argument.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	booleanFlagNames := map[string]struct{}{}
	collectBooleanFlagNames(command, booleanFlagNames)
	if len(booleanFlagNames) == 0 {
		return arguments
	}

	normalized := make([]string, 0, len(arguments))
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		currentArgument := arguments[argumentIndex]
		if currentArgument == flagTerminator {
			return append(normalized, arguments[argumentIndex:]...)
		}
		if strings.HasPrefix(currentArgument, flagPrefix) && !strings.Contains(currentArgument, flagValueSeparator) && argumentIndex+1 < len(arguments) {
			flagName := strings.TrimPrefix(currentArgument, flagPrefix)
			nextArgument := arguments[argumentIndex+1]
			if _, isBoolean := booleanFlagNames[flagName]; isBoolean {
				if _, isLiteral := booleanFlagLiterals[strings.ToLower(strings.TrimSpace(nextArgument))]; isLiteral {
					normalized = append(normalized, currentArgument+flagValueSeparator+nextArgument)
					argumentIndex++
					continue
				}
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

func collectBooleanFlagNames(command *cobra.Command, target map[string]struct{}) {
	visit := func(flagSet *pflag.FlagSet) {
		flagSet.VisitAll(func(flag *pflag.Flag) {
			if _, acceptsLiterals := flag.Value.(*booleanFlagValue); acceptsLiterals {
				target[flag.Name] = struct{}{}
			}
		})
	}
	visit(command.PersistentFlags())
	visit(command.Flags())
	for _, child := range command.Commands() {
		collectBooleanFlagNames(child, target)
	}
}
