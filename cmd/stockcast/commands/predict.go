package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/stockcast/backend/internal/market"
	"github.com/wonny/stockcast/backend/internal/regress"
	"github.com/wonny/stockcast/backend/internal/store"
	"github.com/wonny/stockcast/backend/pkg/config"
	"github.com/wonny/stockcast/backend/pkg/httputil"
	"github.com/wonny/stockcast/backend/pkg/logger"
)

// predictCmd represents the predict command
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Fetch history for one ticker and print a forecast",
	Long: `Download recent daily candles for a single ticker, train a ridge
model on them and print the forecast as JSON. No database required.

Example:
  go run ./cmd/stockcast predict --ticker AAPL
  go run ./cmd/stockcast predict --ticker NVDA --days 5`,
	RunE: runPredict,
}

var (
	predictTicker string
	predictDays   int
)

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringVar(&predictTicker, "ticker", "", "ticker symbol (required)")
	predictCmd.Flags().IntVar(&predictDays, "days", 1, "forecast horizon in trading days")
	predictCmd.MarkFlagRequired("ticker")
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if predictDays < 1 {
		return fmt.Errorf("days must be at least 1")
	}

	log := logger.New(cfg)
	httpClient := httputil.New(cfg, log.WithComponent("http"))
	marketClient := market.NewClient(cfg, httpClient, nil, log.WithComponent("market"))

	ctx := cmd.Context()

	bars, err := marketClient.FetchHistory(ctx, predictTicker)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}

	obs, err := market.BuildObservations(bars, cfg.Market.MacroRate, cfg.Market.MacroIndex)
	if err != nil {
		return fmt.Errorf("compute features: %w", err)
	}

	predictor := regress.NewPredictor(log.WithComponent("regress").Zerolog())
	last := obs[len(obs)-1]

	result, err := predictor.Predict(obs, predictDays, last.Features())
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	out := struct {
		Ticker    string  `json:"ticker"`
		Days      int     `json:"days_ahead"`
		LastClose float64 `json:"last_close"`
		Direction int     `json:"predicted_direction"`
		*regress.Result
	}{
		Ticker:    predictTicker,
		Days:      predictDays,
		LastClose: last.Close,
		Direction: store.DirectionOf(result.PredictedPrice, last.Close),
		Result:    result,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
