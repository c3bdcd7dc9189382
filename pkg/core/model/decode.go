package model

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// explicitPenalty picks the penalty field out of a document so an explicit zero can be
// told apart from an omitted field
type explicitPenalty struct {
	JSON *float64 `json:"shortage_penalty_per_employee"`
	YAML *float64 `yaml:"shortagePenaltyPerEmployee"`
}

// UnmarshalJSON decodes the config and rejects an explicit zero shortage penalty,
// which would otherwise be replaced by the default
func (c *SchedulingConfig) UnmarshalJSON(data []byte) error {
	type plain SchedulingConfig
	if err := json.Unmarshal(data, (*plain)(c)); err != nil {
		return err
	}

	var p explicitPenalty
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	return checkExplicitPenalty(p.JSON)
}

// UnmarshalYAML is the YAML counterpart of UnmarshalJSON
func (c *SchedulingConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain SchedulingConfig
	if err := value.Decode((*plain)(c)); err != nil {
		return err
	}

	var p explicitPenalty
	if err := value.Decode(&p); err != nil {
		return err
	}
	return checkExplicitPenalty(p.YAML)
}

func checkExplicitPenalty(penalty *float64) error {
	if penalty != nil && *penalty == 0 {
		return NewValidationError("shortage_penalty_per_employee",
			"must be greater than zero; omit it to use the default of %g", DefaultShortagePenaltyPerEmployee)
	}
	return nil
}
