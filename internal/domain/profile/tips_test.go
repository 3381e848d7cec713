package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTips(t *testing.T) {
	tests := []struct {
		name      string
		abilities Abilities
		want      []string
	}{
		{
			name:      "only coding below threshold",
			abilities: Abilities{Code: 39, Study: 60, Thinking: 50},
			want:      []string{TipPracticeCoding},
		},
		{
			name:      "all high",
			abilities: Abilities{Code: 100, Study: 100, Thinking: 100},
			want:      []string{TipKeepItUp},
		},
		{
			name:      "all low keeps fixed order",
			abilities: Abilities{Code: 10, Study: 10, Thinking: 10},
			want:      []string{TipPracticeCoding, TipStudyTechnique, TipLogicTraining},
		},
		{
			name:      "thresholds are exclusive",
			abilities: Abilities{Code: 40, Study: 60, Thinking: 50},
			want:      []string{TipKeepItUp},
		},
		{
			name:      "study and logic",
			abilities: Abilities{Code: 80, Study: 59.5, Thinking: 0},
			want:      []string{TipStudyTechnique, TipLogicTraining},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateTips(tt.abilities))
		})
	}
}

func TestGenerateTips_ZeroScores(t *testing.T) {
	tips := GenerateTips(DefaultDetails().Abilities())
	assert.Len(t, tips, 3)
}
