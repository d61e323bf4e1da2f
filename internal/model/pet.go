package model

import "fmt"

// PlaceholderOption is the non-selectable first entry of every selector.
// A submission is rejected while species or breed still holds it.
const PlaceholderOption = "Please select..."

type Species string

const (
	SpeciesDog    Species = "Dog"
	SpeciesCat    Species = "Cat"
	SpeciesBird   Species = "Bird"
	SpeciesRabbit Species = "Rabbit"
	SpeciesOther  Species = "Other"
)

// BreedOther routes the breed selector to a free-text field.
const BreedOther = "Other"

var SpeciesOptions = []Species{
	SpeciesDog,
	SpeciesCat,
	SpeciesBird,
	SpeciesRabbit,
	SpeciesOther,
}

var DogBreeds = []string{
	"Labrador Retriever",
	"German Shepherd",
	"Golden Retriever",
	"Bulldog",
	"Beagle",
	"Poodle",
	"Rottweiler",
	"Dachshund",
	"Siberian Husky",
	BreedOther,
}

var CatBreeds = []string{
	"Persian Cat",
	"Maine Coon",
	"Siamese Cat",
	"British Shorthair",
	"Bengal Cat",
	"Sphynx",
	"Ragdoll",
	BreedOther,
}

// HasBreedList reports whether a species gets an enumerated breed
// selector; the rest use a free-text field.
func (s Species) HasBreedList() bool {
	return s == SpeciesDog || s == SpeciesCat
}

// BreedOptions returns the selector entries for a species, or nil when
// the species takes free-text breed input.
func (s Species) BreedOptions() []string {
	switch s {
	case SpeciesDog:
		return DogBreeds
	case SpeciesCat:
		return CatBreeds
	default:
		return nil
	}
}

// PetProfile holds the intake answers before they are frozen into the
// session's pet info block. Species, breed and age are required; the
// rest is optional free text.
type PetProfile struct {
	Name     string
	Species  Species
	Breed    string
	Age      string
	Behavior string
	Diet     string
	Exercise string
}

// Serialize renders the profile as the newline-delimited block stored in
// session state and injected verbatim into every prompt.
func (p PetProfile) Serialize() string {
	return fmt.Sprintf(
		"Name: %s\nSpecies: %s\nBreed: %s\nAge: %s\nBehavior/Concerns: %s\nDiet: %s\nExercise: %s",
		p.Name, p.Species, p.Breed, p.Age, p.Behavior, p.Diet, p.Exercise,
	)
}
