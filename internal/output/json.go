package output

import (
	"encoding/json"

	"github.com/hamed0406/urlchecker/internal/domain"
)

func RenderJSON(results []domain.ProbeResult) (string, error) {
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
