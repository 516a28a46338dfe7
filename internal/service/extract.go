package service

import (
	"encoding/json"
	"strings"
)

// defaultAck replaces a reply that becomes empty once its data block is
// stripped out.
const defaultAck = "Logged!"

// NutritionExtraction is the structured payload pulled from a food reply.
type NutritionExtraction struct {
	FoodName    string  `json:"food_name"`
	Calories    float64 `json:"calories"`
	ProteinG    float64 `json:"protein_g"`
	CarbsG      float64 `json:"carbs_g"`
	FatG        float64 `json:"fat_g"`
	ReadyToSave bool    `json:"ready_to_save"`
}

var nutritionRequiredFields = []string{"food_name", "calories", "protein_g", "carbs_g", "fat_g"}
var nutritionNumericFields = []string{"calories", "protein_g", "carbs_g", "fat_g"}

// TdeeExtraction is the structured payload pulled from a coach reply. The
// biometric fields are optional in the block; the energy fields are required.
type TdeeExtraction struct {
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	HeightCm      float64 `json:"height_cm"`
	WeightKg      float64 `json:"weight_kg"`
	ActivityLevel string  `json:"activity_level"`
	TdeeValue     float64 `json:"tdee_value"`
	GoalType      string  `json:"goal_type"`
	GoalOffset    float64 `json:"goal_offset"`
	GoalCalories  float64 `json:"goal_calories"`
	ReadyToSave   bool    `json:"ready_to_save"`
}

var tdeeRequiredFields = []string{"activity_level", "tdee_value", "goal_type", "goal_offset", "goal_calories"}
var tdeeNumericFields = []string{"tdee_value", "goal_offset", "goal_calories"}

// ParseNutritionExtraction scans a raw model reply for a nutrition data block.
// The block is stripped from the visible text. Zero or multiple qualifying
// blocks, missing fields and non-numeric values all mean "no extraction";
// malformed model output is never a hard error.
func ParseNutritionExtraction(raw string) (string, *NutritionExtraction) {
	block, ok := findExtractionBlock(raw, nutritionRequiredFields, nutritionNumericFields)
	if !ok {
		return raw, nil
	}

	var result NutritionExtraction
	if err := json.Unmarshal([]byte(block), &result); err != nil {
		return raw, nil
	}
	if result.Calories < 0 || result.ProteinG < 0 || result.CarbsG < 0 || result.FatG < 0 {
		return raw, nil
	}

	return stripBlock(raw, block), &result
}

// ParseTdeeExtraction scans a raw coach reply for a TDEE data block, with the
// same no-guessing rules as ParseNutritionExtraction.
func ParseTdeeExtraction(raw string) (string, *TdeeExtraction) {
	block, ok := findExtractionBlock(raw, tdeeRequiredFields, tdeeNumericFields)
	if !ok {
		return raw, nil
	}

	var result TdeeExtraction
	if err := json.Unmarshal([]byte(block), &result); err != nil {
		return raw, nil
	}

	return stripBlock(raw, block), &result
}

// findExtractionBlock returns the single qualifying JSON block in raw, if
// exactly one exists. A block qualifies when it decodes strictly, its keys
// cover the required set and every listed numeric field carries a number.
func findExtractionBlock(raw string, required, numeric []string) (string, bool) {
	var match string
	count := 0
	for _, candidate := range scanBalancedBlocks(raw) {
		if qualifies(candidate, required, numeric) {
			match = candidate
			count++
		}
	}
	if count != 1 {
		return "", false
	}
	return match, true
}

// scanBalancedBlocks finds balanced, non-nested {...} substrings. A block
// containing another opening brace is nested and skipped.
func scanBalancedBlocks(raw string) []string {
	var blocks []string
	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}
		end := -1
		for j := i + 1; j < len(raw); j++ {
			if raw[j] == '{' {
				// nested opener: the outer candidate is disqualified,
				// restart the scan at the inner brace
				break
			}
			if raw[j] == '}' {
				end = j
				break
			}
		}
		if end >= 0 {
			blocks = append(blocks, raw[i:end+1])
			i = end
		}
	}
	return blocks
}

func qualifies(block string, required, numeric []string) bool {
	dec := json.NewDecoder(strings.NewReader(block))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return false
	}
	// trailing garbage after the object means the block is not clean JSON
	if dec.More() {
		return false
	}

	for _, key := range required {
		if _, present := fields[key]; !present {
			return false
		}
	}
	for _, key := range numeric {
		if _, isNumber := fields[key].(json.Number); !isNumber {
			return false
		}
	}
	return true
}

func stripBlock(raw, block string) string {
	visible := strings.TrimSpace(strings.Replace(raw, block, "", 1))
	if visible == "" {
		return defaultAck
	}
	return visible
}
