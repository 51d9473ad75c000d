package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ParamsFile is an optional YAML/JSON parameter file overriding the env
// defaults for a backtest or grid-search run.
type ParamsFile struct {
	HedgeRatio     float64 `mapstructure:"hedge_ratio"`
	EntryZ         float64 `mapstructure:"entry_zscore"`
	ExitZ          float64 `mapstructure:"exit_zscore"`
	StopLossZ      float64 `mapstructure:"stop_loss_zscore"`
	TxCostRate     float64 `mapstructure:"transaction_cost"`
	InitialCapital float64 `mapstructure:"initial_capital"`
	ZScoreWindow   int     `mapstructure:"zscore_window"`

	// Grid-search candidate lists
	EntryCandidates    []float64 `mapstructure:"entry_candidates"`
	ExitCandidates     []float64 `mapstructure:"exit_candidates"`
	StopLossCandidates []float64 `mapstructure:"stop_loss_candidates"`
}

// LoadParamsFile reads a parameter file, seeding unset values from cfg.
func LoadParamsFile(path string, cfg *Config) (*ParamsFile, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("hedge_ratio", 0.0)
	v.SetDefault("entry_zscore", cfg.EntryZ)
	v.SetDefault("exit_zscore", cfg.ExitZ)
	v.SetDefault("stop_loss_zscore", cfg.StopLossZ)
	v.SetDefault("transaction_cost", cfg.TxCostRate)
	v.SetDefault("initial_capital", cfg.InitialCapital)
	v.SetDefault("zscore_window", cfg.ZScoreWindow)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read parameter file %s: %w", path, err)
	}

	var params ParamsFile
	if err := v.Unmarshal(&params); err != nil {
		return nil, fmt.Errorf("failed to parse parameter file %s: %w", path, err)
	}
	return &params, nil
}
