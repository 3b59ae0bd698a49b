package config

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// YAML is a kong.ConfigurationLoader for config.yaml. Keys are flag names,
// with dashes or underscores. Nested mappings address dotted flag names.
// A flag whose environment variable is set is not resolved from the file,
// so the environment takes precedence.
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]interface{}{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, err
	}

	var f kong.ResolverFunc = func(context *kong.Context, parent *kong.Path, flag *kong.Flag) (interface{}, error) {
		for _, env := range flag.Envs {
			if _, ok := os.LookupEnv(env); ok {
				return nil, nil
			}
		}
		return lookup(values, flag.Name), nil
	}
	return f, nil
}

func lookup(values map[string]interface{}, name string) interface{} {
	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		if raw, ok := values[key]; ok {
			return raw
		}
	}

	var raw interface{} = values
	for _, part := range strings.Split(name, ".") {
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil
		}
		if raw, ok = m[part]; !ok {
			if raw, ok = m[strings.ReplaceAll(part, "-", "_")]; !ok {
				return nil
			}
		}
	}
	return raw
}
