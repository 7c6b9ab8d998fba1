package config

import (
	"os"
	"sort"
	"strings"
)

// ValueSource represents where an effective setting comes from.
type ValueSource string

const (
	SourceEnv     ValueSource = "env"
	SourceDefault ValueSource = "default"
)

// EnvOverride is one PRONVIZ_* variable in effect.
type EnvOverride struct {
	Key    string      `json:"key"`     // dotted config key, e.g. server.port
	EnvVar string      `json:"env_var"` // e.g. PRONVIZ_SERVER_PORT
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
}

// EnvOverrides lists the environment variables that map onto known
// configuration keys, sorted by key.
func EnvOverrides() []EnvOverride {
	known := knownKeys()
	var out []EnvOverride
	for _, key := range known {
		envVar := EnvVarFor(key)
		if val, ok := os.LookupEnv(envVar); ok {
			out = append(out, EnvOverride{Key: key, EnvVar: envVar, Value: val, Source: SourceEnv})
		}
	}
	return out
}

// EnvVarFor maps a dotted key to its environment variable name.
func EnvVarFor(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func knownKeys() []string {
	v := newViper()
	keys := v.AllKeys()
	sort.Strings(keys)
	return keys
}
