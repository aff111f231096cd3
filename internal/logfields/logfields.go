package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyKind       = "kind"
	KeyRequestID  = "request_id"
	KeyOutcome    = "outcome"
	KeyReason     = "reason"
	KeyChannel    = "channel"
	KeyDurationMS = "duration_ms"
	KeyOnline     = "online"
	KeyBackend    = "backend"
	KeyPath       = "path"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyURL        = "url"
	KeyAttempt    = "attempt"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Kind(k string) slog.Attr          { return slog.String(KeyKind, k) }
func RequestID(id string) slog.Attr    { return slog.String(KeyRequestID, id) }
func Outcome(o string) slog.Attr       { return slog.String(KeyOutcome, o) }
func Reason(r string) slog.Attr        { return slog.String(KeyReason, r) }
func Channel(c string) slog.Attr       { return slog.String(KeyChannel, c) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Online(v bool) slog.Attr          { return slog.Bool(KeyOnline, v) }
func Backend(b string) slog.Attr       { return slog.String(KeyBackend, b) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr    { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Attempt(n int) slog.Attr          { return slog.Int(KeyAttempt, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
