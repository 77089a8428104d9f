package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Issues(t *testing.T) {
	tests := []struct {
		name  string
		entry degree
		want  []IssueCode
	}{
		{"blank entry", degree{ID: "1"}, []IssueCode{IssueRequired, IssueRequired}},
		{"whitespace is blank", degree{ID: "1", School: "  ", Degree: "BA"}, []IssueCode{IssueRequired}},
		{"complete", degree{ID: "1", School: "MIT", Degree: "BA"}, nil},
		{"valid url", degree{ID: "1", School: "MIT", Degree: "BA", Website: "https://mit.edu"}, nil},
		{"url without scheme", degree{ID: "1", School: "MIT", Degree: "BA", Website: "mit.edu"}, []IssueCode{IssueInvalidURL}},
		{"garbage url", degree{ID: "1", School: "MIT", Degree: "BA", Website: "not a url"}, []IssueCode{IssueInvalidURL}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := degreeSchema.Issues(tt.entry)
			var got []IssueCode
			for _, is := range issues {
				got = append(got, is.Code)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchema_SetTagsNormalizes(t *testing.T) {
	out, err := degreeSchema.Set(degree{ID: "1"}, "topics", []any{" go ", "", "sql", "go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, out.Topics)
}

func TestSchema_SetNilClearsString(t *testing.T) {
	out, err := degreeSchema.Set(degree{ID: "1", School: "MIT"}, "school", nil)
	require.NoError(t, err)
	assert.Empty(t, out.School)
}

func TestSchema_Spec(t *testing.T) {
	spec := degreeSchema.Spec()
	assert.Equal(t, "degree", spec.Entity)
	require.Len(t, spec.Fields, 5)
	assert.Equal(t, FieldSpec{Name: "website", Label: "Website", Kind: KindURL}, spec.Fields[2])
	assert.True(t, spec.Fields[0].Required)
}

func TestNewSchema_PanicsOnDuplicateField(t *testing.T) {
	assert.Panics(t, func() {
		NewSchema("dup",
			Text("a", "A", false, func(d *degree) *string { return &d.School }),
			Text("a", "A again", false, func(d *degree) *string { return &d.Degree }),
		)
	})
}

func TestIsValidURL(t *testing.T) {
	assert.True(t, IsValidURL("https://github.com/jane"))
	assert.True(t, IsValidURL("http://localhost:3000/cv"))
	assert.False(t, IsValidURL(""))
	assert.False(t, IsValidURL("github.com/jane"))
}
