package domain

// Sentinels carried in ProbeResult.IP when no address is available.
const (
	IPInvalid = "invalid" // no hostname could be extracted from the URL
	IPUnknown = "unknown" // resolution was attempted and failed
	IPError   = "error"   // the HTTP probe failed, resolution never ran
)

// ProbeResult is the merged outcome for one URL.
//
// StatusCode and ResponseTimeMS are nil iff Error is set.
type ProbeResult struct {
	URL            string `json:"url"`
	StatusCode     *int   `json:"status_code"`
	ResponseTimeMS *int64 `json:"response_time_ms"`
	SSLValid       bool   `json:"ssl_valid"`
	Redirected     bool   `json:"redirected"`
	IP             string `json:"ip"`
	Error          string `json:"error,omitempty"`
}

// FailedResult builds the error-shaped result for a URL whose HTTP probe failed.
func FailedResult(url, reason string) ProbeResult {
	if reason == "" {
		reason = "probe failed"
	}
	return ProbeResult{
		URL:   url,
		IP:    IPError,
		Error: reason,
	}
}

func (r ProbeResult) Failed() bool { return r.Error != "" }
