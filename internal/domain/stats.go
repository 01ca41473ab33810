package domain

// Stats summarizes a set of probe results.
type Stats struct {
	Total             int            `json:"total"`
	Online            int            `json:"online"`
	Redirects         int            `json:"redirects"`
	Errors            int            `json:"errors"`
	AvgResponseTimeMS int64          `json:"avg_response_time_ms"`
	Distribution      map[string]int `json:"distribution"`
}

// Summarize counts 2xx responses as online. The average covers completed probes only.
func Summarize(results []ProbeResult) Stats {
	s := Stats{
		Total:        len(results),
		Distribution: map[string]int{"2xx": 0, "3xx": 0, "4xx": 0, "5xx": 0},
	}
	var sum, n int64
	for _, r := range results {
		if r.Failed() || r.StatusCode == nil {
			s.Errors++
			continue
		}
		if r.Redirected {
			s.Redirects++
		}
		code := *r.StatusCode
		switch {
		case code >= 200 && code < 300:
			s.Online++
			s.Distribution["2xx"]++
		case code >= 300 && code < 400:
			s.Distribution["3xx"]++
		case code >= 400 && code < 500:
			s.Distribution["4xx"]++
		case code >= 500:
			s.Distribution["5xx"]++
		}
		if r.ResponseTimeMS != nil {
			sum += *r.ResponseTimeMS
			n++
		}
	}
	if n > 0 {
		s.AvgResponseTimeMS = (sum + n/2) / n
	}
	return s
}
