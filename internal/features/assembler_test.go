package features

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/AsipreVerse/decisivis-engine/internal/rating"
)

func TestAssembleOrdering(t *testing.T) {
	p := Primitives{
		HomeShotsAvg: 5.5,
		AwayShotsAvg: 3.5,
		HomeForm:     0.8,
		AwayForm:     0.4,
		HomeElo:      1600,
		AwayElo:      1500,
		HeadToHead:   0.75,
	}
	vec, err := Assemble(p)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(vec) != Count {
		t.Fatalf("vector length = %d, want %d", len(vec), Count)
	}

	eloProb := rating.ExpectedScore(1600, 1500)
	want := []float64{
		5.5, 3.5, 2.0, 1.0,
		0.8, 0.4, 0.4,
		100, eloProb, 0.75,
		2.0 * eloProb, 0.4, 100 * 0.75,
	}
	for i := range want {
		if math.Abs(vec[i]-want[i]) > 1e-9 {
			t.Errorf("vec[%d] (%s) = %v, want %v", i, Names[i], vec[i], want[i])
		}
	}
}

func TestAssembleReproducible(t *testing.T) {
	p := Primitives{
		HomeShotsAvg: 4.2, AwayShotsAvg: 3.9,
		HomeForm: 0.61, AwayForm: 0.47,
		HomeElo: 1543.25, AwayElo: 1498.75,
		HeadToHead: 2.0 / 3.0,
	}
	a, err1 := Assemble(p)
	b, err2 := Assemble(p)
	if err1 != nil || err2 != nil {
		t.Fatalf("Assemble() errors: %v, %v", err1, err2)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("identical primitives did not produce bit-identical vectors")
	}
}

func TestAssembleRejectsNonFinite(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Primitives)
	}{
		{"NaN form", func(p *Primitives) { p.HomeForm = math.NaN() }},
		{"Inf shots", func(p *Primitives) { p.AwayShotsAvg = math.Inf(1) }},
		{"NaN elo", func(p *Primitives) { p.AwayElo = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Primitives{
				HomeShotsAvg: 5, AwayShotsAvg: 4,
				HomeForm: 0.5, AwayForm: 0.5,
				HomeElo: 1500, AwayElo: 1500,
				HeadToHead: 0.5,
			}
			tt.mutate(&p)
			if _, err := Assemble(p); err == nil {
				t.Error("Assemble() accepted a non-finite feature, want error")
			}
		})
	}
}

func TestCheckContract(t *testing.T) {
	if err := CheckContract(Names); err != nil {
		t.Errorf("CheckContract(Names) = %v, want nil", err)
	}
	if err := CheckContract(Names[:Count-1]); !errors.Is(err, ErrFeatureMismatch) {
		t.Errorf("CheckContract() on a short list = %v, want ErrFeatureMismatch", err)
	}
	swapped := append([]string{}, Names...)
	swapped[0], swapped[1] = swapped[1], swapped[0]
	if err := CheckContract(swapped); !errors.Is(err, ErrFeatureMismatch) {
		t.Errorf("CheckContract() on reordered names = %v, want ErrFeatureMismatch", err)
	}
}

func TestNamesStable(t *testing.T) {
	// The ordering below is persisted in every trained artifact; a change
	// here must be deliberate and paired with retraining.
	want := []string{
		"home_shots_on_target_avg",
		"away_shots_on_target_avg",
		"shots_differential",
		"home_advantage",
		"home_form",
		"away_form",
		"form_differential",
		"elo_differential",
		"elo_win_prob",
		"h2h_home_factor",
		"shots_diff_x_elo_prob",
		"form_diff_x_home_adv",
		"elo_diff_x_h2h",
	}
	if !reflect.DeepEqual(Names, want) {
		t.Errorf("feature name contract changed: %v", Names)
	}
}
