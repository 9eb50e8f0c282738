package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercases and keeps digits",
			input: "TUBO PVC 110MM",
			want:  "tubo pvc 110mm",
		},
		{
			name:  "strips diacritics",
			input: "Válvula esférica",
			want:  "valvula esferica",
		},
		{
			name:  "removes punctuation",
			input: "codo 90, pvc (encolar)",
			want:  "codo 90 pvc encolar",
		},
		{
			name:  "drops stop words",
			input: "tubo de pvc para riego",
			want:  "tubo pvc riego",
		},
		{
			name:  "stop word only input normalizes to empty",
			input: "de para con",
			want:  "",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "de-pluralizes tokens",
			input: "abrazaderas metalicas",
			want:  "abrazadera metalica",
		},
		{
			name:  "synonym substitution before lowercasing",
			input: "PEGAMENTO PVC",
			want:  "adhesivo pvc",
		},
		{
			name:  "synonym cola maps to adhesivo",
			input: "cola blanca 1kg",
			want:  "adhesivo blanca 1kg",
		},
		{
			name:  "plural domain noun collapses",
			input: "dispensadores de agua",
			want:  "dispensador agua",
		},
		{
			name:  "abbreviation expands",
			input: "tubo PE 50",
			want:  "tubo polietileno 50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	samples := []string{
		"TUBO PVC 110MM",
		"Válvula esférica de 2 pulgadas",
		"PEGAMENTO para tuberias",
		"dispensadores",
		"colas",
		"llaves de paso",
		"abrazaderas inoxidables m-8",
		"de para con",
		"",
	}

	for _, s := range samples {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "input %q", s)
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	const input = "Brida galvanizada 3/4\" con tornillos"
	first := Normalize(input)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Normalize(input))
	}
}

func TestAnyCoercesNonStrings(t *testing.T) {
	assert.Equal(t, "110", Any(110))
	assert.Equal(t, "25", Any(2.5)) // "2.5" loses the dot to the punctuation pass
	assert.Equal(t, "", Any(nil))
	assert.Equal(t, "tubo", Any("TUBOS"))
}
