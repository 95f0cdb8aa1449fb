package config

import (
	"flag"
	"strings"
	"time"
)

// parseFlags populates selected Config fields from command-line flags.
//
// The arguments are filtered to the flags this package knows about before
// parsing, so flags owned by other components (including the test binary)
// do not cause errors here.
func parseFlags(cfg *Config, args []string) error {
	args = filterArgs(args, []string{"-a", "-t", "-d"})

	fs := flag.NewFlagSet("jobdeck", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the JobDeck API gateway")
	timeoutSec := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory for local state")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.RequestTimeout = time.Duration(*timeoutSec) * time.Second
	return nil
}

// filterArgs keeps only the allowed flags and their values, in both the
// "-f value" and "-f=value" forms.
func filterArgs(args []string, allowed []string) []string {
	ok := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		ok[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, keep := ok[name]; keep {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, keep := ok[arg]; keep {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}
	return filtered
}
