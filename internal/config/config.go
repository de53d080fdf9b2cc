// Package config parses the CLI surface: every flag has both a short
// and a long form bound to the same value, unknown flags are ignored
// rather than rejected, and a handful of defaults can be overridden by
// environment variables before the flags are applied — the same
// getEnvOrDefault/getEnvIntOrDefault pattern the cadent example uses in
// backend/config.go, generalized from service env-vars to CLI defaults.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/blockrac/blockrac/internal/blockerr"
)

// Config holds the parsed CLI flags, unvalidated against any particular
// strategy (that validation lives in stripe.Config.Validate, which the
// driver applies once Config has been turned into one).
type Config struct {
	Test                string
	BlockSize           int
	NumberOfBlocks      int
	MaxDict             int
	KmerSize            int
	SegmentSize         int
	Workload            string
	InputFile           string
	OutputFile          string
	DictionaryAlgorithm string
	Help                bool
}

// flagSpec describes one CLI flag's short name, long name, and env-var
// default key.
type flagSpec struct {
	short, long, envKey string
}

var stringFlags = []flagSpec{
	{"t", "test", "BLOCKRAC_TEST"},
	{"w", "workload", "BLOCKRAC_WORKLOAD"},
	{"i", "input-file", "BLOCKRAC_INPUT_FILE"},
	{"o", "output-file", "BLOCKRAC_OUTPUT_FILE"},
	{"a", "dictionary-algorithm", "BLOCKRAC_DICTIONARY_ALGORITHM"},
}

var intFlags = []flagSpec{
	{"b", "block-size", "BLOCKRAC_BLOCK_SIZE"},
	{"n", "number-of-blocks", "BLOCKRAC_NUMBER_OF_BLOCKS"},
	{"d", "max-dict", "BLOCKRAC_MAX_DICT"},
	{"k", "kmer-size", "BLOCKRAC_KMER_SIZE"},
	{"s", "segment-size", "BLOCKRAC_SEGMENT_SIZE"},
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

// Parse parses args (excluding the program name) into a Config. Unknown
// flags are silently dropped before the standard library flag package
// ever sees them, preserving the documented "unknown flags ignored"
// behavior without flag.Parse's default fail-on-unknown error path.
func Parse(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("blockrac", flag.ContinueOnError)
	fs.Usage = func() {} // usage is printed explicitly by the caller

	for _, spec := range stringFlags {
		target := stringTarget(cfg, spec.long)
		def := getEnvOrDefault(spec.envKey, "")
		fs.StringVar(target, spec.short, def, spec.long)
		fs.StringVar(target, spec.long, def, spec.long)
	}
	for _, spec := range intFlags {
		target := intTarget(cfg, spec.long)
		def := getEnvIntOrDefault(spec.envKey, 0)
		fs.IntVar(target, spec.short, def, spec.long)
		fs.IntVar(target, spec.long, def, spec.long)
	}
	fs.BoolVar(&cfg.Help, "h", false, "usage")
	fs.BoolVar(&cfg.Help, "help", false, "usage")

	if err := fs.Parse(filterKnown(args)); err != nil {
		return nil, blockerr.UsageWrap(err, "parsing command line")
	}
	return cfg, nil
}

func stringTarget(cfg *Config, long string) *string {
	switch long {
	case "test":
		return &cfg.Test
	case "workload":
		return &cfg.Workload
	case "input-file":
		return &cfg.InputFile
	case "output-file":
		return &cfg.OutputFile
	case "dictionary-algorithm":
		return &cfg.DictionaryAlgorithm
	default:
		panic("config: unknown string flag " + long)
	}
}

func intTarget(cfg *Config, long string) *int {
	switch long {
	case "block-size":
		return &cfg.BlockSize
	case "number-of-blocks":
		return &cfg.NumberOfBlocks
	case "max-dict":
		return &cfg.MaxDict
	case "kmer-size":
		return &cfg.KmerSize
	case "segment-size":
		return &cfg.SegmentSize
	default:
		panic("config: unknown int flag " + long)
	}
}

func knownFlagSet() map[string]bool {
	known := map[string]bool{"h": true, "help": true}
	for _, spec := range stringFlags {
		known[spec.short] = true
		known[spec.long] = true
	}
	for _, spec := range intFlags {
		known[spec.short] = true
		known[spec.long] = true
	}
	return known
}

// filterKnown drops any flag token not in knownFlagSet, along with its
// value token when the flag takes one written as a separate argument.
func filterKnown(args []string) []string {
	known := knownFlagSet()
	out := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			out = append(out, arg)
			continue
		}

		name := strings.TrimLeft(arg, "-")
		hasValue := false
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			name = name[:eq]
			hasValue = true
		}

		if known[name] {
			out = append(out, arg)
			if !hasValue && name != "h" && name != "help" && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				out = append(out, args[i+1])
				i++
			}
			continue
		}

		// Unknown flag: drop it, and drop its value token too if one
		// was supplied as a separate, non-flag-looking argument.
		if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
		}
	}
	return out
}
