package errors

// ErrorCode identifies a failure category.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidSeries        ErrorCode = 102
	ErrCodeInvalidBar           ErrorCode = 103
	ErrCodeInsufficientData     ErrorCode = 104
	ErrCodeInvalidPeriod        ErrorCode = 105
	ErrCodeInvalidStdMultiplier ErrorCode = 106
	ErrCodeInvalidThreshold     ErrorCode = 107
	ErrCodeInvalidEMASpans      ErrorCode = 108
	ErrCodeInvalidMode          ErrorCode = 109

	// Data errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202

	// Indicator errors (300-399)
	ErrCodeIndicatorCalculation ErrorCode = 300

	// Trading errors (500-599)
	ErrCodeOrderFailed         ErrorCode = 500
	ErrCodeExecutionNotAllowed ErrorCode = 501

	// Backtest and optimizer errors (600-699)
	ErrCodeBacktestFailed     ErrorCode = 600
	ErrCodeNoValidCombination ErrorCode = 601

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataEmpty       ErrorCode = 701
	ErrCodeMarketDataWriteFailed ErrorCode = 702
	ErrCodeMarketDataParseFailed ErrorCode = 703
	ErrCodeInvalidProvider       ErrorCode = 704

	// Live loop errors (800-899)
	ErrCodeTickPanic      ErrorCode = 800
	ErrCodeCallbackFailed ErrorCode = 801
	ErrCodeJournalFailed  ErrorCode = 802
)
