package builtin

import (
	"github.com/johnchase/qiime2/internal/errors"
	"github.com/johnchase/qiime2/internal/plugin"
	"github.com/johnchase/qiime2/internal/semtype"
	"github.com/johnchase/qiime2/internal/validate"
)

// Name is the builtin plugin's name.
const Name = "builtin"

// Version is set at build time.
var Version = "dev"

// Concrete types provided by the builtin plugin.
var (
	IntSequence1   = semtype.New("IntSequence1")
	IntSequence2   = semtype.New("IntSequence2")
	AscIntSequence = semtype.New("AscIntSequence")
	Mapping        = semtype.New("Mapping")
	Squid          = semtype.New("Squid")
	Octopus        = semtype.New("Octopus")
	KennelDog      = semtype.New("Kennel", semtype.New("Dog"))
	KennelCat      = semtype.New("Kennel", semtype.New("Cat"))
)

var (
	intSequences = semtype.Union(IntSequence1, IntSequence2, AscIntSequence)
	mappings     = semtype.Union(Mapping, KennelDog, KennelCat)
	cephalapods  = semtype.Union(Squid, Octopus)
)

// New builds the builtin plugin.
func New() (*plugin.Plugin, error) {
	p := plugin.New(plugin.Metadata{
		Name:        Name,
		Version:     Version,
		Website:     "https://github.com/johnchase/qiime2",
		Package:     "github.com/johnchase/qiime2/internal/builtin",
		ProjectName: "qval",
		Description: "Formats, transformers and validators shipped with qval.",
	})

	steps := []func(*plugin.Plugin) error{
		registerFormats,
		registerTransformers,
		registerValidators,
	}
	for _, step := range steps {
		if err := step(p); err != nil {
			return nil, errors.Wrap(err, "building builtin plugin")
		}
	}
	return p, nil
}

// MustNew is like New but panics on error.
func MustNew() *plugin.Plugin {
	p, err := New()
	if err != nil {
		panic(err)
	}
	return p
}

func registerFormats(p *plugin.Plugin) error {
	for _, t := range intSequences.Members() {
		if err := plugin.RegisterArtifactClassOf(p, t, OpenIntSequence); err != nil {
			return err
		}
	}
	for _, t := range mappings.Members() {
		if err := plugin.RegisterArtifactClassOf(p, t, OpenMapping); err != nil {
			return err
		}
	}
	for _, t := range cephalapods.Members() {
		if err := plugin.RegisterArtifactClassOf(p, t, OpenCephalapod); err != nil {
			return err
		}
	}
	return nil
}

func registerTransformers(p *plugin.Plugin) error {
	return errors.Join(
		plugin.RegisterTransformerOf(p, IntSequenceToInts),
		plugin.RegisterTransformerOf(p, MappingToMap),
		plugin.RegisterTransformerOf(p, CephalapodToView),
		plugin.RegisterTransformerOf(p, intSequenceText),
		plugin.RegisterTransformerOf(p, mappingText),
		plugin.RegisterTransformerOf(p, cephalapodText),
	)
}

func registerValidators(p *plugin.Plugin) error {
	return errors.Join(
		plugin.RegisterFunc(p, intSequences, "well_formed_int_sequence", validate.PriorityFirst, checkIntSequence),
		plugin.RegisterFunc(p, AscIntSequence, "ascending", validate.PriorityMiddle, ascending),
		plugin.RegisterFunc(p, mappings, "well_formed_mapping", validate.PriorityFirst, checkMapping),
		plugin.RegisterFunc(p, mappings, "non_empty_keys", validate.PriorityMiddle, nonEmptyKeys),

		plugin.RegisterFunc(p, Octopus, "well_formed_cephalapod", validate.PriorityFirst, checkCephalapod),
		plugin.RegisterFunc(p, Octopus, "octopus_tentacles", validate.PriorityMiddle, octopusTentacles),

		plugin.RegisterFunc(p, Squid, "validator_sort_first", validate.PriorityFirst, checkCephalapod),
		plugin.RegisterFunc(p, Squid, "validator_sort_middle", validate.PriorityMiddle, nonNegativeTentacles),
		plugin.RegisterFunc(p, Squid, "validator_sort_middle_b", validate.PriorityMiddleB, squidTentacles),
		plugin.RegisterFunc(p, Squid, "validator_sort_last", validate.PriorityLast, evenTentacles),
	)
}
