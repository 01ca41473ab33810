package output

import (
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/urlchecker/internal/domain"
)

// yamlResult mirrors the JSON field names.
type yamlResult struct {
	URL            string `yaml:"url"`
	StatusCode     *int   `yaml:"status_code"`
	ResponseTimeMS *int64 `yaml:"response_time_ms"`
	SSLValid       bool   `yaml:"ssl_valid"`
	Redirected     bool   `yaml:"redirected"`
	IP             string `yaml:"ip"`
	Error          string `yaml:"error,omitempty"`
}

func RenderYAML(results []domain.ProbeResult) (string, error) {
	rows := make([]yamlResult, len(results))
	for i, r := range results {
		rows[i] = yamlResult(r)
	}
	b, err := yaml.Marshal(rows)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
