package entity

import "slices"

// LLMConfig is the model configuration snapshot stored on sessions and templates.
type LLMConfig struct {
	ModelId         string   `json:"model_id" validate:"required"`
	Temperature     float64  `json:"temperature" validate:"gte=0,lte=2"`
	TopP            float64  `json:"top_p" validate:"gte=0,lte=1"`
	TopK            *int     `json:"top_k,omitempty" validate:"omitempty,gte=0"`
	MaxOutputTokens int      `json:"max_output_tokens" validate:"gte=1"`
	StopSequences   []string `json:"stop_sequences,omitempty"`
	SystemPrompt    string   `json:"system_prompt"`
}

func (c LLMConfig) Equal(other LLMConfig) bool {
	if c.ModelId != other.ModelId ||
		c.Temperature != other.Temperature ||
		c.TopP != other.TopP ||
		c.MaxOutputTokens != other.MaxOutputTokens ||
		c.SystemPrompt != other.SystemPrompt {
		return false
	}
	if (c.TopK == nil) != (other.TopK == nil) {
		return false
	}
	if c.TopK != nil && *c.TopK != *other.TopK {
		return false
	}
	return slices.Equal(c.StopSequences, other.StopSequences)
}

// Clone returns a deep copy so snapshots never share slices or pointers.
func (c LLMConfig) Clone() LLMConfig {
	out := c
	if c.TopK != nil {
		k := *c.TopK
		out.TopK = &k
	}
	if c.StopSequences != nil {
		out.StopSequences = slices.Clone(c.StopSequences)
	}
	return out
}
