package mocks

//go:generate mockgen -destination=./mock_indicator.go -package=mocks -mock_names=Engine=MockIndicatorEngine github.com/coinify-labs/coinify-bot/internal/indicator Engine
//go:generate mockgen -destination=./mock_backtest_engine.go -package=mocks -mock_names=Engine=MockBacktestEngine github.com/coinify-labs/coinify-bot/internal/backtest/engine Engine
//go:generate mockgen -destination=./mock_trading_engine.go -package=mocks github.com/coinify-labs/coinify-bot/internal/trading/engine MarketDataFetcher,ExecutionProvider
