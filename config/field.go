package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/episodl/episodl/constant"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

var (
	// ErrUnknownKey is returned for keys that are not registered.
	ErrUnknownKey = errors.New("unknown key")
	// ErrInvalidValue is returned when a value does not fit its key.
	ErrInvalidValue = errors.New("invalid value")
)

// rule constrains the values a key accepts. hint describes the constraint to the user.
type rule struct {
	hint string
	ok   func(v any) bool
}

// Field is a registered setting: its key, default value and constraints.
type Field struct {
	Key         string
	Value       any
	Description string

	rules []rule
}

// Env returns the environment variable overriding the field.
func (f *Field) Env() string {
	return strings.ToUpper(constant.App + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Kind names the value type: string, int or bool.
func (f *Field) Kind() string {
	switch f.Value.(type) {
	case int:
		return "int"
	case bool:
		return "bool"
	default:
		return "string"
	}
}

// Allowed describes the accepted values, or returns "" when any value of the kind fits.
func (f *Field) Allowed() string {
	return strings.Join(lo.Map(f.rules, func(r rule, _ int) string { return r.hint }), ", ")
}

// Current returns the effective value, typed like the default.
func (f *Field) Current() any {
	switch f.Value.(type) {
	case int:
		return viper.GetInt(f.Key)
	case bool:
		return viper.GetBool(f.Key)
	default:
		return viper.GetString(f.Key)
	}
}

// Parse converts raw to the field's kind and checks it against the field's rules.
func (f *Field) Parse(raw string) (any, error) {
	var (
		v   any
		err error
	)

	switch f.Value.(type) {
	case int:
		v, err = strconv.Atoi(strings.TrimSpace(raw))
	case bool:
		v, err = strconv.ParseBool(strings.TrimSpace(raw))
	default:
		v = raw
	}
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %q is not a %s", ErrInvalidValue, f.Key, raw, f.Kind())
	}

	return v, f.check(v)
}

func (f *Field) check(v any) error {
	for _, r := range f.rules {
		if !r.ok(v) {
			return fmt.Errorf("%w for %s: %v (want %s)", ErrInvalidValue, f.Key, v, r.hint)
		}
	}
	return nil
}

// MarshalJSON includes the effective value next to the default.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Allowed     string `json:"allowed,omitempty"`
		Description string `json:"description"`
		Type        string `json:"type"`
		Env         string `json:"env"`
	}{
		Key:         f.Key,
		Value:       f.Current(),
		Default:     f.Value,
		Allowed:     f.Allowed(),
		Description: f.Description,
		Type:        f.Kind(),
		Env:         f.Env(),
	})
}

// Lookup returns the registered field for key. An unknown key is reported
// together with the closest registered one.
func Lookup(key string) (Field, error) {
	if f, ok := Default[key]; ok {
		return f, nil
	}

	closest := lo.MinBy(Keys(), func(a, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})
	return Field{}, fmt.Errorf("%w %s, did you mean %s?", ErrUnknownKey, key, closest)
}

// Keys returns every registered key, sorted.
func Keys() []string {
	keys := lo.Keys(Default)
	sort.Strings(keys)
	return keys
}

// Set parses raw for key and applies it to the running configuration.
func Set(key, raw string) (any, error) {
	f, err := Lookup(key)
	if err != nil {
		return nil, err
	}

	v, err := f.Parse(raw)
	if err != nil {
		return nil, err
	}

	viper.Set(key, v)
	return v, nil
}

// Reset restores key to its default value.
func Reset(key string) error {
	f, err := Lookup(key)
	if err != nil {
		return err
	}

	viper.Set(key, f.Value)
	return nil
}

// Check validates the effective values, as read from the config file and environment.
func Check() error {
	var errs []error
	for _, key := range Keys() {
		f := Default[key]
		if err := f.check(f.Current()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Save persists the running configuration, creating the file when it does not exist yet.
func Save() error {
	err := viper.WriteConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return viper.SafeWriteConfig()
	}
	return err
}
