package semtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnchase/qiime2/internal/errors"
)

func TestType_String(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"plain", New("IntSequence1"), "IntSequence1"},
		{"one field", New("Kennel", New("Dog")), "Kennel[Dog]"},
		{"nested fields", New("Pair", New("Kennel", New("Dog")), New("Squid")), "Pair[Kennel[Dog], Squid]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
			assert.Equal(t, tt.want, tt.typ.Key())
		})
	}
}

func TestType_Equal(t *testing.T) {
	assert.True(t, New("Kennel", New("Dog")).Equal(New("Kennel", New("Dog"))))
	assert.False(t, New("Kennel", New("Dog")).Equal(New("Kennel", New("Cat"))))
	assert.False(t, New("Kennel", New("Dog")).Equal(New("Kennel")))
	assert.False(t, New("Squid").Equal(New("Octopus")))
	assert.True(t, Type{}.IsZero())
	assert.False(t, New("Squid").IsZero())
}

func TestUnion_Members(t *testing.T) {
	seq := New("IntSequence1")
	dog := New("Kennel", New("Dog"))

	expr := Union(seq, Union(dog, seq))
	assert.Equal(t, []Type{seq, dog}, expr.Members())
	assert.Equal(t, "IntSequence1 | Kennel[Dog]", expr.String())

	single := Union(seq, seq)
	assert.Equal(t, seq, single)
}

func TestUnion_MembersIsCopy(t *testing.T) {
	expr := Union(New("A"), New("B"))
	members := expr.Members()
	members[0] = New("Z")
	assert.Equal(t, "A", expr.Members()[0].Name)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "Squid", []string{"Squid"}},
		{"union", "IntSequence1 | AscIntSequence", []string{"IntSequence1", "AscIntSequence"}},
		{"fields", "IntSequence1|Kennel[Dog]", []string{"IntSequence1", "Kennel[Dog]"}},
		{"multi field", " Pair[ A , B ] ", []string{"Pair[A, B]"}},
		{"dedupe", "Squid | Squid", []string{"Squid"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Parse(tt.input)
			require.NoError(t, err)
			var got []string
			for _, m := range expr.Members() {
				got = append(got, m.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, input := range []string{"", "|", "Squid |", "Kennel[Dog", "Kennel[]", "Squid Octopus"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax), "error %v should match ErrSyntax", err)
		})
	}
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("Kennel[Dog]")
	require.NoError(t, err)
	assert.True(t, typ.Equal(New("Kennel", New("Dog"))))

	_, err = ParseType("Squid | Octopus")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("[") })
}
