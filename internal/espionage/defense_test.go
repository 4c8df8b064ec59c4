package espionage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDefense() *DefenseRegistry {
	return NewDefenseRegistry(NewStore())
}

func TestDefenseProfileLazyDefault(t *testing.T) {
	d := newTestDefense()

	p := d.Profile("omnicorp")
	require.NotNil(t, p)
	assert.Equal(t, "omnicorp", p.Company)
	assert.Equal(t, 1, p.SecurityLevel)
	assert.Equal(t, 0, p.Budget)
	assert.Empty(t, p.Technologies)

	// Same pointer on repeat access, not a fresh default.
	assert.Same(t, p, d.Profile("omnicorp"))
}

func TestDefenseConfigureValidation(t *testing.T) {
	tests := []struct {
		name      string
		security  int
		budget    int
		personnel int
	}{
		{"security level too low", 0, 0, 0},
		{"security level too high", 6, 0, 0},
		{"negative budget", 3, -1, 0},
		{"negative personnel", 3, 0, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDefense()
			err := d.Configure("omnicorp", tt.security, tt.budget, tt.personnel, nil)
			require.ErrorIs(t, err, ErrValidation)

			// Rejected configuration must not touch the profile.
			assert.Equal(t, 1, d.Profile("omnicorp").SecurityLevel)
			assert.Equal(t, 0, d.Profile("omnicorp").Budget)
		})
	}
}

func TestDetectionEfficiencyFormula(t *testing.T) {
	tests := []struct {
		name      string
		security  int
		budget    int
		personnel int
		techs     int
		want      int
	}{
		{"bare minimum", 1, 0, 0, 0, 10},
		{"security only", 2, 0, 0, 0, 20},
		{"budget contributes", 3, 100000, 0, 0, 40},
		{"budget capped at 30", 3, 5000000, 0, 0, 60},
		{"personnel in blocks of ten", 1, 0, 15, 0, 15},
		{"personnel capped at 20", 1, 0, 400, 0, 30},
		{"techs five points each", 1, 0, 0, 3, 25},
		{"techs capped at 25", 1, 0, 0, 9, 35},
		{"saturated at every cap", 5, 300000, 20, 5, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDefense()
			techs := make([]string, tt.techs)
			for i := range techs {
				techs[i] = "tech"
			}
			require.NoError(t, d.Configure("omnicorp", tt.security, tt.budget, tt.personnel, techs))
			assert.Equal(t, tt.want, d.DetectionEfficiency("omnicorp"))
		})
	}
}

func TestDetectionEfficiencyMonotone(t *testing.T) {
	d := newTestDefense()
	prev := -1
	for level := 1; level <= 5; level++ {
		require.NoError(t, d.Configure("omnicorp", level, 0, 0, nil))
		eff := d.DetectionEfficiency("omnicorp")
		assert.Greater(t, eff, prev)
		prev = eff
	}

	// More budget never lowers the score.
	prev = -1
	for budget := 0; budget <= 500000; budget += 50000 {
		require.NoError(t, d.Configure("omnicorp", 3, budget, 0, nil))
		eff := d.DetectionEfficiency("omnicorp")
		assert.GreaterOrEqual(t, eff, prev)
		prev = eff
	}
}

func TestRecordIncidentHistoryOnly(t *testing.T) {
	d := newTestDefense()
	before := d.DetectionEfficiency("omnicorp")

	d.RecordIncident("omnicorp", Incident{ID: "a", Day: 3, MissionID: "MIS-0001", Type: MissionSabotage, Foiled: true})
	d.RecordIncident("omnicorp", Incident{ID: "b", Day: 9, MissionID: "MIS-0002", Type: MissionTechTheft})

	p := d.Profile("omnicorp")
	require.Len(t, p.Incidents, 2)
	assert.True(t, p.Incidents[0].Foiled)

	// Incident history must not feed back into the efficiency score.
	assert.Equal(t, before, d.DetectionEfficiency("omnicorp"))
}
