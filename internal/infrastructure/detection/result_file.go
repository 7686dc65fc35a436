package detection

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"damage-dashboard/internal/domain/entity"
)

// ReadResultFile читает сохранённый ответ /predict, чтобы показать фото без обращения к сервису.
func ReadResultFile(path string) (*entity.AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read result %s", path)
	}
	var result entity.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, eris.Wrapf(err, "parse result %s", path)
	}
	return &result, nil
}
