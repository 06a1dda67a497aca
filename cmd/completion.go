package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the ff command line for shell completion.
func Completion() *complete.Command {
	strict := map[string]complete.Predictor{"strict": predict.Nothing}
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"report": {Flags: map[string]complete.Predictor{
				"d":      predict.Something,
				"md":     predict.Nothing,
				"strict": predict.Nothing,
			}},
			"holdings": {Flags: strict},
			"check":    {},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
		Flags: map[string]complete.Predictor{
			"file":          predict.Files("*.json"),
			"source":        predict.Set{SourceFile, SourceEODHD, SourceTradegate, SourceYahoo},
			"prices":        predict.Files("*.jsonl"),
			"currency":      predict.Something,
			"lookback":      predict.Something,
			"timeout":       predict.Something,
			"workers":       predict.Something,
			"log-level":     predict.Set{"debug", "info", "warn", "error"},
			"log-format":    predict.Set{LogPretty, LogJSON},
			"eodhd-api-key": predict.Something,
		},
	}
}
