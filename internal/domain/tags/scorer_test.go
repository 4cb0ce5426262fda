package tags

import (
	"reflect"
	"testing"

	"github.com/zento-labs/zento/internal/domain/category"
)

func TestFilterIrrelevant(t *testing.T) {
	in := []string{
		"urn:tag:category:place:restaurant",
		"urn:tag:category:place:physician",
		"urn:tag:category:place:insurance_agency",
		"urn:tag:cuisine:indian",
	}
	got := FilterIrrelevant(in)
	want := []string{
		"urn:tag:category:place:restaurant",
		"urn:tag:cuisine:indian",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterIrrelevant = %v, want %v", got, want)
	}
}

func TestPrioritize_IntentMatchOutranksTaxonomy(t *testing.T) {
	in := []string{
		"urn:tag:category:place:restaurant",
		"urn:tag:genre:place:coffee_shop",
	}
	got := Prioritize(in, category.Place, "find me a great coffee spot")
	if got[0] != "urn:tag:genre:place:coffee_shop" {
		t.Errorf("first = %q, want the coffee tag first", got[0])
	}
}

func TestPrioritize_TaxonomyTiers(t *testing.T) {
	in := []string{
		"urn:tag:atmosphere:cozy",
		"urn:tag:cuisine:italian",
		"urn:tag:category:place:venue",
	}
	got := Prioritize(in, category.Place, "somewhere nice")
	want := []string{
		"urn:tag:category:place:venue",
		"urn:tag:cuisine:italian",
		"urn:tag:atmosphere:cozy",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Prioritize = %v, want %v", got, want)
	}
}

func TestPrioritize_StableForEqualScores(t *testing.T) {
	in := []string{
		"urn:tag:cuisine:italian",
		"urn:tag:cuisine:mexican",
		"urn:tag:cuisine:thai",
	}
	got := Prioritize(in, category.Place, "")
	if !reflect.DeepEqual(got, in) {
		t.Errorf("Prioritize = %v, want input order preserved", got)
	}
}

func TestPrioritize_DropsIrrelevant(t *testing.T) {
	in := []string{
		"urn:tag:category:place:school",
		"urn:tag:category:place:restaurant",
	}
	got := Prioritize(in, category.Place, "dinner")
	if len(got) != 1 || got[0] != "urn:tag:category:place:restaurant" {
		t.Errorf("Prioritize = %v, want only the restaurant tag", got)
	}
}

func TestPrioritize_DoesNotMutateInput(t *testing.T) {
	in := []string{
		"urn:tag:atmosphere:cozy",
		"urn:tag:category:place:venue",
	}
	orig := make([]string, len(in))
	copy(orig, in)
	Prioritize(in, category.Place, "")
	if !reflect.DeepEqual(in, orig) {
		t.Errorf("input mutated: %v", in)
	}
}

func TestPrioritize_MediaCategories(t *testing.T) {
	in := []string{
		"urn:tag:style:noir",
		"urn:tag:genre:media:science_fiction",
		"urn:tag:theme:dystopia",
	}
	got := Prioritize(in, category.Movie, "a film for tonight")
	want := []string{
		"urn:tag:genre:media:science_fiction",
		"urn:tag:theme:dystopia",
		"urn:tag:style:noir",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Prioritize = %v, want %v", got, want)
	}
}
