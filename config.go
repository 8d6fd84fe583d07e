// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package wetext

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the full option set of a Normalizer. It is immutable once handed
// to New. Options with no corresponding grammar for the resolved language are
// silently inert, not an error: remove_erhua on English input simply does
// nothing.
type Config struct {
	Lang     Language `mapstructure:"lang" validate:"oneof=auto en zh ja"`
	Operator Operator `mapstructure:"operator" validate:"oneof=tn itn"`

	// FixContractions expands English contractions before tagging. English
	// TN only.
	FixContractions bool `mapstructure:"fix_contractions"`

	// TraditionalToSimple converts Traditional Chinese to Simplified before
	// tagging.
	TraditionalToSimple bool `mapstructure:"traditional_to_simple"`

	// FullToHalf converts full-width characters to half-width before
	// tagging.
	FullToHalf bool `mapstructure:"full_to_half"`

	// RemoveInterjections strips filler words ahead of the tagger.
	RemoveInterjections bool `mapstructure:"remove_interjections"`

	// RemovePuncts strips punctuation ahead of the tagger.
	RemovePuncts bool `mapstructure:"remove_puncts"`

	// TagOOV marks out-of-vocabulary spans in the tagged text.
	TagOOV bool `mapstructure:"tag_oov"`

	// Enable0To9 selects the ITN tagger variant that converts single digits.
	Enable0To9 bool `mapstructure:"enable_0_to_9"`

	// RemoveErhua selects the Chinese TN verbalizer variant that drops
	// erhua (儿化音): "哪儿" -> "哪".
	RemoveErhua bool `mapstructure:"remove_erhua"`

	// Detect tunes script detection; only consulted when Lang is auto.
	Detect DetectPolicy `mapstructure:"detect"`
}

// DefaultConfig returns the documented defaults: auto language, TN, all
// transforms off.
func DefaultConfig() Config {
	return Config{
		Lang:     LangAuto,
		Operator: OpTN,
		Detect:   DefaultDetectPolicy(),
	}
}

// Validate checks the configuration. All failures wrap ErrInvalidConfig.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ConfigFromViper builds a Config from viper, applying defaults for unset
// keys. Recognized keys match the mapstructure tags on Config.
func ConfigFromViper(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()
	v.SetDefault("lang", string(cfg.Lang))
	v.SetDefault("operator", string(cfg.Operator))
	v.SetDefault("detect.min_kana_runes", cfg.Detect.MinKanaRunes)
	v.SetDefault("detect.numeric_as_zh", cfg.Detect.NumericAsZh)
	for _, key := range []string{
		"fix_contractions", "traditional_to_simple", "full_to_half",
		"remove_interjections", "remove_puncts", "tag_oov",
		"enable_0_to_9", "remove_erhua",
	} {
		v.SetDefault(key, false)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
