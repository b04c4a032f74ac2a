package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	ReasonValidation ReasonCode = "validation"
	ReasonBusy       ReasonCode = "busy"
	ReasonCanceled   ReasonCode = "canceled"
	ReasonConfig     ReasonCode = "config"

	ReasonSynthesis ReasonCode = "synthesis"
	ReasonPersist   ReasonCode = "persist"
	ReasonNotReady  ReasonCode = "not_ready"
	ReasonPlayback  ReasonCode = "playback"

	ReasonTTSConnect     ReasonCode = "tts_connect"
	ReasonTTSRateLimit   ReasonCode = "tts_rate_limit"
	ReasonTTSCircuitOpen ReasonCode = "tts_circuit_open"
)
