package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName          = "toggle"
	toggleFlagTrueLiteral       = "true"
	toggleFlagAcceptedLiterals  = "true, false, yes, no, on, off, 1, 0"
	invalidToggleValueMessage   = "invalid value %q for --%s; accepted values: %s"
	unboundToggleFlagMessage    = "flag --%s has no target"
	flagTerminatorArgument      = "--"
	longFlagPrefix              = "--"
	flagValueSeparator          = "="
	normalizedToggleValueFormat = "--%s=%s"
)

var toggleLiterals = map[string]bool{
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

// toggleFlag is a boolean flag that may be given bare (--copy), with an
// attached value (--copy=no) or with a detached literal (--copy no).
type toggleFlag struct {
	target *bool
	name   string
}

func (flag *toggleFlag) Set(input string) error {
	if flag.target == nil {
		return fmt.Errorf(unboundToggleFlagMessage, flag.name)
	}
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = toggleFlagTrueLiteral
	}
	parsed, known := toggleLiterals[normalized]
	if !known {
		return fmt.Errorf(invalidToggleValueMessage, input, flag.name, toggleFlagAcceptedLiterals)
	}
	*flag.target = parsed
	return nil
}

func (flag *toggleFlag) String() string {
	if flag == nil || flag.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*flag.target)
}

func (flag *toggleFlag) Type() string {
	return toggleFlagTypeName
}

func registerToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.Var(&toggleFlag{target: target, name: name}, name, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = strconv.FormatBool(defaultValue)
		lookup.NoOptDefVal = toggleFlagTrueLiteral
	}
}

// normalizeToggleArguments joins "--name literal" pairs into "--name=literal"
// for every toggle flag of command and its children, so that pflag does not
// treat the literal as a positional argument. Values that are not literals, or
// that name an existing path (a directory called "y"), stay positional.
func normalizeToggleArguments(command *cobra.Command, arguments []string) []string {
	if command == nil || len(arguments) == 0 {
		return arguments
	}
	toggleNames := map[string]struct{}{}
	collectToggleFlagNames(command, toggleNames)
	if len(toggleNames) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == flagTerminatorArgument {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if strings.HasPrefix(argument, longFlagPrefix) && !strings.Contains(argument, flagValueSeparator) && index+1 < len(arguments) {
			flagName := strings.TrimPrefix(argument, longFlagPrefix)
			nextArgument := arguments[index+1]
			if _, isToggle := toggleNames[flagName]; isToggle {
				if isDetachedToggleValue(nextArgument) {
					normalized = append(normalized, fmt.Sprintf(normalizedToggleValueFormat, flagName, nextArgument))
					index++
					continue
				}
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func isDetachedToggleValue(argument string) bool {
	if _, isLiteral := toggleLiterals[strings.ToLower(strings.TrimSpace(argument))]; !isLiteral {
		return false
	}
	_, statError := os.Stat(argument)
	return statError != nil
}

func collectToggleFlagNames(command *cobra.Command, target map[string]struct{}) {
	visit := func(flagSet *pflag.FlagSet) {
		flagSet.VisitAll(func(flag *pflag.Flag) {
			if flag.Value != nil && flag.Value.Type() == toggleFlagTypeName {
				target[flag.Name] = struct{}{}
			}
		})
	}
	visit(command.PersistentFlags())
	visit(command.Flags())
	for _, child := range command.Commands() {
		collectToggleFlagNames(child, target)
	}
}
