// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"reflect"
	"strings"
	"time"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	APIKey        string        `mapstructure:"PP_API_KEY" validate:"required"`
	Secret        string        `mapstructure:"PP_API_SECRET" validate:"required"`
	Host          string        `mapstructure:"PP_HOST"`
	Timeout       time.Duration `mapstructure:"PP_TIMEOUT" validate:"gte=0"`
	RetryMax      int           `mapstructure:"PP_RETRY_MAX" validate:"gte=0,lte=10"`
	ExposureCache int64         `mapstructure:"PP_EXPOSURE_CACHE" validate:"gte=0"`
}

// flagKeys maps command line flags onto the environment keys they override.
var flagKeys = map[string]string{
	"host":      "PP_HOST",
	"timeout":   "PP_TIMEOUT",
	"retry-max": "PP_RETRY_MAX",
}

func bindEnvs(v *viper.Viper, iface interface{}, parts ...string) {
	ifv := reflect.ValueOf(iface)
	ift := reflect.TypeOf(iface)
	for i := 0; i < ift.NumField(); i++ {
		fv := ifv.Field(i)
		t := ift.Field(i)
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			continue
		}
		switch fv.Kind() {
		case reflect.Struct:
			bindEnvs(v, fv.Interface(), append(parts, tv)...)
		default:
			_ = v.BindEnv(strings.Join(append(parts, tv), "."))
		}
	}
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "gte":
		return fmt.Sprintf("This field must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("This field must be at most %s", fe.Param())
	}
	return fe.Error() // default error
}

// Load reads the configuration from the environment. Flags present in flags
// and changed on the command line take precedence over the environment; their
// defaults apply when neither is set. flags may be nil.
func Load(flags *pflag.FlagSet) (config Config, err error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetDefault("PP_EXPOSURE_CACHE", 1000)

	// This is to not require a config file to unmarshal Envs in a struct
	// https://github.com/spf13/viper/issues/188#issuecomment-399884438
	bindEnvs(v, config)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err = v.BindPFlag(key, f); err != nil {
					return
				}
			}
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}

	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})

	if err = validate.Struct(&config); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			var msgs []string
			for _, fe := range ve {
				msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), msgForTag(fe)))
			}
			return config, fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, ". "))
		}
		return config, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}

	return config, nil
}
