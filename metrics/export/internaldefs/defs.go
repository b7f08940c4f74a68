package internaldefs

import (
	goSignin "github.com/MrEthical07/goSignin"
)

// CounterDef names one engine counter for export.
type CounterDef struct {
	ID   goSignin.MetricID
	Name string
	Help string
}

// HistogramDef names one engine latency histogram for export.
type HistogramDef struct {
	ID   goSignin.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: goSignin.MetricLoginAuthenticated, Name: "gosignin_login_authenticated_total", Help: "Logins that produced a session without a second factor."},
	{ID: goSignin.MetricLoginTfaRequired, Name: "gosignin_login_tfa_required_total", Help: "Logins that stopped at a second-factor challenge."},
	{ID: goSignin.MetricLoginFailure, Name: "gosignin_login_failure_total", Help: "Logins that ended in a fatal outcome."},
	{ID: goSignin.MetricLoginRateLimited, Name: "gosignin_login_rate_limited_total", Help: "Logins rejected by the attempt limiter."},
	{ID: goSignin.MetricInvalidCredentials, Name: "gosignin_invalid_credentials_total", Help: "Credentials rejected upstream or by the email check."},
	{ID: goSignin.MetricCaptchaRequired, Name: "gosignin_captcha_required_total", Help: "Logins blocked by a captcha wall."},
	{ID: goSignin.MetricChallengeSuccess, Name: "gosignin_challenge_success_total", Help: "Second-factor submissions that produced a session."},
	{ID: goSignin.MetricChallengeRetry, Name: "gosignin_challenge_retry_total", Help: "Wrong or empty codes, denied prompts and prompt timeouts."},
	{ID: goSignin.MetricChallengeFallback, Name: "gosignin_challenge_fallback_total", Help: "Submissions that fell back to another method."},
	{ID: goSignin.MetricChallengeFailure, Name: "gosignin_challenge_failure_total", Help: "Submissions that failed without a retry path."},
	{ID: goSignin.MetricMethodChanged, Name: "gosignin_method_changed_total", Help: "Successful alternate method selections."},
	{ID: goSignin.MetricMethodChangeFailure, Name: "gosignin_method_change_failure_total", Help: "Failed alternate method selections."},
	{ID: goSignin.MetricResendSuccess, Name: "gosignin_resend_success_total", Help: "SMS codes re-sent."},
	{ID: goSignin.MetricResendFailure, Name: "gosignin_resend_failure_total", Help: "Failed SMS resend requests."},
	{ID: goSignin.MetricResendOffered, Name: "gosignin_resend_offered_total", Help: "Challenge pages that offered an SMS resend."},
	{ID: goSignin.MetricParsingError, Name: "gosignin_parsing_error_total", Help: "Unrecognized upstream pages."},
	{ID: goSignin.MetricConnectionError, Name: "gosignin_connection_error_total", Help: "Upstream network failures."},
	{ID: goSignin.MetricContinuationRejected, Name: "gosignin_continuation_rejected_total", Help: "Tampered, expired or malformed continuation blobs."},
	{ID: goSignin.MetricDiagnosticRecorded, Name: "gosignin_diagnostic_recorded_total", Help: "Diagnostic artifacts queued for storage."},
}

// HistogramDefs lists every exported latency histogram.
var HistogramDefs = []HistogramDef{
	{ID: goSignin.MetricBeginLoginLatency, Name: "gosignin_begin_login_latency_seconds", Help: "BeginLogin latency histogram."},
	{ID: goSignin.MetricSubmitChallengeLatency, Name: "gosignin_submit_challenge_latency_seconds", Help: "SubmitChallenge latency histogram."},
	{ID: goSignin.MetricChangeMethodLatency, Name: "gosignin_change_method_latency_seconds", Help: "ChangeMethod latency histogram."},
	{ID: goSignin.MetricResendCodeLatency, Name: "gosignin_resend_code_latency_seconds", Help: "ResendCode latency histogram."},
}

// HistogramUpperBounds are the finite bucket bounds in seconds; the eighth
// bucket is +Inf.
var HistogramUpperBounds = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 10}

// HistogramBoundSuffix names each bucket for exporters without native histograms.
var HistogramBoundSuffix = []string{
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"1",
	"2_5",
	"10",
	"inf",
}

// NormalizeBuckets copies raw into a fixed array, zero-filling missing buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}

// ApproxSum estimates the observation sum from bucket upper bounds. Snapshots
// keep counts only; the +Inf bucket contributes its lower bound.
func ApproxSum(raw [8]uint64) float64 {
	var sum float64
	for i, n := range raw {
		bound := HistogramUpperBounds[len(HistogramUpperBounds)-1]
		if i < len(HistogramUpperBounds) {
			bound = HistogramUpperBounds[i]
		}
		sum += float64(n) * bound
	}
	return sum
}
