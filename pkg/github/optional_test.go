package github

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOptional(t *testing.T) {
	unset := None[bool]()
	assert.False(t, unset.IsSet())
	assert.Nil(t, unset.Ptr())
	assert.True(t, unset.OrElse(true))
	assert.Equal(t, "<unset>", unset.String())

	set := Some(false)
	v, ok := set.Get()
	assert.True(t, ok)
	assert.False(t, v)
	require.NotNil(t, set.Ptr())
	assert.False(t, *set.Ptr())
	assert.False(t, set.OrElse(true))
}

func TestOptional_UnmarshalYAML(t *testing.T) {
	var spec RepositorySpec
	input := `
private: false
description: ""
homepage: null
`
	require.NoError(t, yaml.Unmarshal([]byte(input), &spec))

	assert.Equal(t, Some(false), spec.Private, "false is a value")
	assert.Equal(t, Some(""), spec.Description, "empty string is a value")
	assert.False(t, spec.Homepage.IsSet(), "null means unset")
	assert.False(t, spec.HasWiki.IsSet(), "absent means unset")
}

func TestOptional_UnmarshalYAMLTypeMismatch(t *testing.T) {
	var spec RepositorySpec
	err := yaml.Unmarshal([]byte("private: maybe"), &spec)
	assert.Error(t, err)
}

func TestOptional_JSON(t *testing.T) {
	type doc struct {
		A Optional[int]    `json:"a"`
		B Optional[string] `json:"b"`
		C Optional[bool]   `json:"c"`
	}

	var d doc
	require.NoError(t, json.Unmarshal([]byte(`{"a": 0, "b": null}`), &d))
	assert.Equal(t, Some(0), d.A)
	assert.False(t, d.B.IsSet())
	assert.False(t, d.C.IsSet())

	out, err := json.Marshal(doc{A: Some(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 3, "b": null, "c": null}`, string(out))
}
