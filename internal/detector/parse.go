package detector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/botdetector/internal/model"
	"github.com/tidwall/gjson"
)

// parsePrediction decodes a prediction payload. Breakdown entries keep the
// order they appear in the document; a repeated label keeps its first score.
func parsePrediction(body []byte) (model.Prediction, error) {
	if !gjson.ValidBytes(body) {
		return model.Prediction{}, errors.New("invalid JSON")
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return model.Prediction{}, errors.New("expected a JSON object")
	}

	label := doc.Get("prediction_label")
	if label.Type != gjson.String || strings.TrimSpace(label.Str) == "" {
		return model.Prediction{}, errors.New("missing prediction_label")
	}
	confidence := doc.Get("prediction_confidence")
	if confidence.Type != gjson.Number {
		return model.Prediction{}, errors.New("missing prediction_confidence")
	}

	prediction := model.Prediction{
		PlayerID:   doc.Get("player_id").Int(),
		PlayerName: doc.Get("player_name").String(),
		Label:      label.Str,
		Confidence: confidence.Num,
	}

	raw := doc.Get("predictions_breakdown")
	if !raw.Exists() || raw.Type == gjson.Null {
		return prediction, nil
	}
	if !raw.IsObject() {
		return model.Prediction{}, errors.New("predictions_breakdown must be an object")
	}

	seen := make(map[string]struct{})
	var parseErr error
	raw.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			parseErr = fmt.Errorf("breakdown score for %q is not a number", key.String())
			return false
		}
		if _, dup := seen[key.String()]; dup {
			return true
		}
		seen[key.String()] = struct{}{}
		prediction.Breakdown = append(prediction.Breakdown, model.CategoryScore{
			Label: key.String(),
			Score: value.Num,
		})
		return true
	})
	if parseErr != nil {
		return model.Prediction{}, parseErr
	}

	return prediction, nil
}

// parseStats decodes a contributions payload. An empty body, null or an
// empty object mean "no stats".
func parseStats(body []byte) (*model.PlayerStats, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" || trimmed == "{}" {
		return nil, nil
	}
	if !gjson.Valid(trimmed) {
		return nil, errors.New("invalid JSON")
	}

	doc := gjson.Parse(trimmed)
	if !doc.IsObject() {
		return nil, errors.New("expected a JSON object")
	}

	stats := &model.PlayerStats{}
	fields := map[string]*int{
		"reports":       &stats.Reports,
		"bans":          &stats.Bans,
		"possible_bans": &stats.PossibleBans,
	}

	for key, dst := range fields {
		v := doc.Get(key)
		if !v.Exists() {
			continue
		}
		if v.Type != gjson.Number || v.Num < 0 {
			return nil, fmt.Errorf("%s must be a non-negative number", key)
		}
		*dst = int(v.Int())
	}
	return stats, nil
}
