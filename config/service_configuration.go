/*
 * Copyright (C) 2020-2025 Arm Limited or its affiliates and Contributors. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 */

// Package config loads service configurations from defaults, `.env` files, environment variables and flags.
package config

import (
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cjbester78/integrixs-flow-bridge-sub002/commonerrors"
)

const (
	EnvVarSeparator    = "_"
	DotEnvFile         = ".env"
	configKeySeparator = "."
	flagKeyPrefix      = "uniqueprefixforprivateflagbindingkeys123" // Has to be lower case and hopefully unique
)

// Load loads the configuration from the environment (i.e. .env file, environment variables) and puts the entries into configurationToSet.
// Values not found in the environment come from defaultConfiguration.
// `envVarPrefix` defines the prefix environment variables use. E.g. with prefix "saga", variables starting with "SAGA_" are looked up.
func Load(envVarPrefix string, configurationToSet IServiceConfiguration, defaultConfiguration IServiceConfiguration) error {
	return LoadFromViper(viper.New(), envVarPrefix, configurationToSet, defaultConfiguration)
}

// LoadFromViper is the same as `Load` but reuses the viper session provided.
// Viper's precedence order is kept:
//  1. values set using explicit calls to `Set`
//  2. flags
//  3. environment (variables or `.env`)
//  4. configuration file
//  5. key/value store
//  6. default values
//
// Values of `defaultConfiguration` take precedence over defaults set via `SetDefault` or flags unless they are empty.
func LoadFromViper(viperSession *viper.Viper, envVarPrefix string, configurationToSet IServiceConfiguration, defaultConfiguration IServiceConfiguration) (err error) {
	if viperSession == nil {
		return commonerrors.UndefinedVariable("viper session")
	}
	if configurationToSet == nil {
		return commonerrors.UndefinedVariable("configuration")
	}
	if defaultConfiguration != nil {
		var defaults map[string]any
		err = mapstructure.Decode(defaultConfiguration, &defaults)
		if err != nil {
			err = commonerrors.WrapError(commonerrors.ErrMarshalling, err, "could not decode default configuration")
			return
		}
		err = viperSession.MergeConfigMap(defaults)
		if err != nil {
			return
		}
	}

	// Load .env file contents into environment, if it exists
	_ = godotenv.Load(DotEnvFile)

	setEnvOptions(viperSession, envVarPrefix)

	linkFlagKeysToStructureKeys(viperSession, envVarPrefix)

	err = viperSession.Unmarshal(configurationToSet)
	if err != nil {
		err = commonerrors.WrapError(commonerrors.ErrMarshalling, err, "unable to decode configuration into structure")
		return
	}
	err = configurationToSet.Validate()
	return
}

// BindFlagToEnv binds a pflag to an environment variable.
// envVar is the environment variable name with or without the prefix envVarPrefix.
func BindFlagToEnv(viperSession *viper.Viper, envVarPrefix string, envVar string, flag *pflag.Flag) (err error) {
	if flag == nil {
		return commonerrors.UndefinedVariable("flag")
	}
	setEnvOptions(viperSession, envVarPrefix)
	shortKey, cleansedEnvVar := generateEnvVarConfigKeys(envVar, envVarPrefix)

	err = viperSession.BindPFlag(shortKey, flag)
	if err != nil {
		return
	}
	err = viperSession.BindEnv(shortKey, cleansedEnvVar)
	return
}

func generateEnvVarConfigKeys(envVar, envVarPrefix string) (shortKey string, cleansedEnvVar string) {
	envVarLower := strings.ToLower(envVar)
	envVarPrefixLower := strings.ToLower(envVarPrefix)
	short := envVarLower
	if strings.HasPrefix(envVarLower, envVarPrefixLower) {
		short = strings.TrimPrefix(strings.TrimPrefix(envVarLower, envVarPrefixLower), EnvVarSeparator)
	}
	shortKey = flagKeyPrefix + configKeySeparator + strings.ReplaceAll(short, EnvVarSeparator, configKeySeparator)
	cleansedEnvVar = strings.ToUpper(strings.ReplaceAll(envVarPrefix+EnvVarSeparator+short, configKeySeparator, EnvVarSeparator))
	return
}

func isFlagKey(key string) bool {
	return strings.HasPrefix(key, flagKeyPrefix)
}

func isEmptyValue(value any) bool {
	if value == nil {
		return true
	}
	return reflect.ValueOf(value).IsZero()
}

func setEnvOptions(viperSession *viper.Viper, envVarPrefix string) {
	viperSession.SetEnvPrefix(envVarPrefix)
	viperSession.AllowEmptyEnv(false)
	viperSession.AutomaticEnv()
	viperSession.SetEnvKeyReplacer(strings.NewReplacer(configKeySeparator, EnvVarSeparator))
}

// linkFlagKeysToStructureKeys creates aliases from flag/environment variable keys to structure keys.
// Viper aliasing does not work with nested configurations so the binding is handled manually.
func linkFlagKeysToStructureKeys(viperSession *viper.Viper, envVarPrefix string) {
	keys := viperSession.AllKeys()
	for i := range keys {
		key := keys[i]
		if isFlagKey(key) {
			continue
		}
		flagKey, _ := generateEnvVarConfigKeys(key, envVarPrefix)
		if viperSession.IsSet(flagKey) {
			viperSession.Set(key, viperSession.Get(flagKey))
		} else {
			value := viperSession.Get(flagKey)
			if !isEmptyValue(value) {
				viperSession.SetDefault(key, value)
				if isEmptyValue(viperSession.Get(key)) {
					viperSession.Set(key, value)
				}
			}
		}
		viperSession.RegisterAlias(flagKey, key)
	}
}
