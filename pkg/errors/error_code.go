package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidUniverse      ErrorCode = 102
	ErrCodeInsufficientData     ErrorCode = 103
	ErrCodeMissingParameter     ErrorCode = 104
	ErrCodeInvalidDateRange     ErrorCode = 105

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeRiskFreeMissing       ErrorCode = 203

	// Pipeline errors (300-399)
	ErrCodePipelineFailed   ErrorCode = 300
	ErrCodeMisalignedFrames ErrorCode = 301

	// Factor errors (400-499)
	ErrCodeFactorFetchFailed ErrorCode = 400
	ErrCodeFactorParseFailed ErrorCode = 401

	// Snapshot errors (500-599)
	ErrCodeSnapshotReadFailed  ErrorCode = 500
	ErrCodeSnapshotWriteFailed ErrorCode = 501
	ErrCodeSnapshotVersion     ErrorCode = 502
	ErrCodeSnapshotCorrupt     ErrorCode = 503

	// Model errors (600-699)
	ErrCodeModelNotReady    ErrorCode = 600
	ErrCodeModelNotTrained  ErrorCode = 601
	ErrCodeUnknownStatistic ErrorCode = 602

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidProvider       ErrorCode = 703
)
